package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/pribylovaa/go-baby-cry/internal/client"
	"github.com/pribylovaa/go-baby-cry/internal/profilesync"
)

func printProfiles(w io.Writer, profiles []profilesync.Profile, activeID string) error {
	if len(profiles) == 0 {
		_, err := fmt.Fprintln(w, "no babies yet")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "\tID\tNAME\tBIRTH DATE\tGENDER")
	for _, p := range profiles {
		mark := ""
		if p.ID == activeID {
			mark = "*"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", mark, p.ID, p.Name, orDash(p.BirthDate), p.Gender)
	}

	return tw.Flush()
}

func printProfile(w io.Writer, p profilesync.Profile, active bool) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "id:\t%s\n", p.ID)
	fmt.Fprintf(tw, "name:\t%s\n", p.Name)
	fmt.Fprintf(tw, "birth date:\t%s\n", orDash(p.BirthDate))
	fmt.Fprintf(tw, "gender:\t%s\n", p.Gender)
	fmt.Fprintf(tw, "notes:\t%s\n", orDash(p.Notes))
	fmt.Fprintf(tw, "avatar:\t%s\n", orDash(p.AvatarURL))
	if p.AvatarPreviewURL != "" && p.AvatarPreviewURL != p.AvatarURL {
		fmt.Fprintf(tw, "avatar preview:\t%s\n", p.AvatarPreviewURL)
	}
	fmt.Fprintf(tw, "active:\t%t\n", active)

	return tw.Flush()
}

func printRecordings(w io.Writer, recs []client.Recording) error {
	if len(recs) == 0 {
		_, err := fmt.Fprintln(w, "no recordings")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tBABY\tSIZE\tCREATED\tURL")
	for _, r := range recs {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%s\n", r.ID, r.BabyID, r.SizeBytes, r.CreatedAt.Format("2006-01-02 15:04"), orDash(r.URL))
	}

	return tw.Flush()
}

func printDeleted(w io.Writer, id string, res profilesync.DeleteResult) error {
	_, err := fmt.Fprintf(w, "deleted %s (blob removed: %t)\n", id, res.BlobDeleted)
	return err
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

package main

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/pribylovaa/go-baby-cry/internal/client"
	"github.com/pribylovaa/go-baby-cry/internal/profilesync"
	"github.com/spf13/cobra"
)

func newRootCmd(out, errOut io.Writer) *cobra.Command {
	a := &app{out: out, errOut: errOut}

	root := &cobra.Command{
		Use:           "babiesctl",
		Short:         "Manage baby profiles and cry recordings",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.SetOut(out)
	root.SetErr(errOut)

	pf := root.PersistentFlags()
	pf.StringVar(&a.server, "server", "", "babies-service base URL (env "+envServer+")")
	pf.StringVar(&a.owner, "owner", "", "owner (user) id (env "+envOwner+")")
	pf.StringVar(&a.statePath, "state", "", "state file with the active profile id")
	pf.DurationVar(&a.timeout, "timeout", 30*time.Second, "overall command timeout")
	pf.BoolVarP(&a.verbose, "verbose", "v", false, "debug logging")

	root.AddCommand(
		newListCmd(a),
		newAddCmd(a),
		newUpdateCmd(a),
		newRmCmd(a),
		newUseCmd(a),
		newShowCmd(a),
		newRecordingsCmd(a),
	)

	return root
}

func newListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List profiles (active one marked with *)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.run(cmd.Context(), func(_ context.Context, s *session) error {
				c := s.coord.Cache()
				return printProfiles(a.out, c.Profiles(), c.ActiveID())
			})
		},
	}
}

type profileFlags struct {
	name      string
	birthDate string
	gender    string
	notes     string
	avatar    string
}

func (f *profileFlags) bind(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.StringVar(&f.name, "name", "", "baby name")
	fl.StringVar(&f.birthDate, "birth-date", "", "birth date YYYY-MM-DD")
	fl.StringVar(&f.gender, "gender", "", "male, female or unspecified")
	fl.StringVar(&f.notes, "notes", "", "free-form notes")
	fl.StringVar(&f.avatar, "avatar", "", "local avatar file (.jpg, .png, .webp)")
}

func newAddCmd(a *app) *cobra.Command {
	var f profileFlags

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a profile and make it active",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			gender, err := profilesync.ParseGender(f.gender)
			if err != nil {
				return err
			}

			return a.run(cmd.Context(), func(ctx context.Context, s *session) error {
				p, err := s.coord.Insert(ctx, profilesync.Draft{
					Name:       f.name,
					BirthDate:  f.birthDate,
					Gender:     gender,
					Notes:      f.notes,
					AvatarFile: f.avatar,
				})
				if err != nil {
					return err
				}

				if err := s.coord.Select(p.ID); err != nil {
					return err
				}

				return printProfile(a.out, p, true)
			})
		},
	}
	f.bind(cmd)
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

// newUpdateCmd - меняются только явно переданные флаги;
// пустое значение очищает необязательное поле (--avatar "" убирает аватар).
func newUpdateCmd(a *app) *cobra.Command {
	var f profileFlags

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update profile fields",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			patch, err := f.patch(cmd)
			if err != nil {
				return err
			}

			return a.run(cmd.Context(), func(ctx context.Context, s *session) error {
				p, err := s.coord.Update(ctx, args[0], patch)
				if err != nil {
					return err
				}

				return printProfile(a.out, p, s.coord.Cache().ActiveID() == p.ID)
			})
		},
	}
	f.bind(cmd)

	return cmd
}

func (f *profileFlags) patch(cmd *cobra.Command) (profilesync.Patch, error) {
	var p profilesync.Patch
	changed := cmd.Flags().Changed

	if changed("name") {
		p.Name = &f.name
	}
	if changed("birth-date") {
		p.BirthDate = &f.birthDate
	}
	if changed("gender") {
		g, err := profilesync.ParseGender(f.gender)
		if err != nil {
			return p, err
		}
		p.Gender = &g
	}
	if changed("notes") {
		p.Notes = &f.notes
	}
	if changed("avatar") {
		if f.avatar == "" {
			empty := ""
			p.AvatarURL = &empty
		} else {
			p.AvatarFile = f.avatar
		}
	}

	return p, nil
}

func newRmCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete a profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(cmd.Context(), func(ctx context.Context, s *session) error {
				if _, err := s.coord.Delete(ctx, args[0]); err != nil {
					return err
				}

				c := s.coord.Cache()
				return printProfiles(a.out, c.Profiles(), c.ActiveID())
			})
		},
	}
}

func newUseCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "use <id>",
		Short: "Make a profile active",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(cmd.Context(), func(_ context.Context, s *session) error {
				if err := s.coord.Select(args[0]); err != nil {
					return err
				}

				p, _ := s.coord.Cache().Active()
				return printProfile(a.out, p, true)
			})
		},
	}
}

func newShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show [id]",
		Short: "Show a profile (active one by default)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(cmd.Context(), func(_ context.Context, s *session) error {
				id := ""
				if len(args) == 1 {
					id = args[0]
				}

				id, err := s.babyOrActive(id)
				if err != nil {
					return err
				}

				p, ok := s.coord.Cache().Get(id)
				if !ok {
					return profilesync.ErrUnknownProfile
				}

				return printProfile(a.out, p, s.coord.Cache().ActiveID() == id)
			})
		},
	}
}

func newRecordingsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "recordings",
		Aliases: []string{"rec"},
		Short:   "Cry recordings of the active (or given) profile",
	}

	var listBaby string
	list := &cobra.Command{
		Use:   "list",
		Short: "List recordings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.run(cmd.Context(), func(ctx context.Context, s *session) error {
				baby := listBaby
				if baby == "" {
					if active, ok := s.coord.Cache().Active(); ok {
						baby = active.ID
					}
				}

				recs, err := s.remote.ListRecordings(ctx, s.owner, baby)
				if err != nil {
					return err
				}

				return printRecordings(a.out, recs)
			})
		},
	}
	list.Flags().StringVar(&listBaby, "baby", "", "profile id (default: active)")

	var upBaby, upFile, upNotes string
	upload := &cobra.Command{
		Use:   "upload",
		Short: "Upload a .wav/.m4a recording",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.run(cmd.Context(), func(ctx context.Context, s *session) error {
				baby, err := s.babyOrActive(upBaby)
				if err != nil {
					return err
				}

				if profilesync.IsTempID(baby) {
					return profilesync.ErrPendingProfile
				}

				rec, err := s.remote.UploadRecording(ctx, s.owner, baby, upFile, upNotes)
				if err != nil {
					return err
				}

				return printRecordings(a.out, []client.Recording{rec})
			})
		},
	}
	upload.Flags().StringVar(&upBaby, "baby", "", "profile id (default: active)")
	upload.Flags().StringVar(&upFile, "file", "", "local audio file")
	upload.Flags().StringVar(&upNotes, "notes", "", "notes")
	_ = upload.MarkFlagRequired("file")

	rm := &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete a recording",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(cmd.Context(), func(ctx context.Context, s *session) error {
				res, err := s.remote.DeleteRecording(ctx, args[0])
				if err != nil {
					return err
				}
				if !res.RowDeleted {
					return errors.New("recording not deleted")
				}

				return printDeleted(a.out, args[0], res)
			})
		},
	}

	cmd.AddCommand(list, upload, rm)

	return cmd
}

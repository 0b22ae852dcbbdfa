package profilesync

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestFromRecord_NullsBecomeEmpty(t *testing.T) {
	got := FromRecord(Record{ID: "r1", UserID: "u1", Name: "Alice"})

	want := Profile{ID: "r1", Name: "Alice", Gender: GenderUnspecified}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("FromRecord mismatch (-want +got):\n%s", diff)
	}
}

func TestFromRecord_UnknownGender(t *testing.T) {
	g := "robot"
	got := FromRecord(Record{ID: "r1", Name: "Alice", Gender: &g})

	require.Equal(t, GenderUnspecified, got.Gender)
}

func TestToRecord_EmptyBecomesNull(t *testing.T) {
	got := ToRecord(Profile{ID: "temp-1", Name: "Alice"}, "u1")

	require.Empty(t, got.ID, "temp id must not leak to the remote row")
	require.Equal(t, "u1", got.UserID)
	require.Nil(t, got.BirthDate)
	require.Nil(t, got.Notes)
	require.Nil(t, got.AvatarURL)
	require.NotNil(t, got.Gender)
	require.Equal(t, "unspecified", *got.Gender)
}

// Обе стороны маппинга сходятся на полностью заполненном профиле.
func TestRecordMapping_RoundTrip(t *testing.T) {
	p := Profile{
		ID:        "r7",
		Name:      "Bob",
		BirthDate: "2024-03-01",
		Gender:    GenderMale,
		Notes:     "colic",
		AvatarURL: "avatars/u1/x.jpg",
	}

	rec := ToRecord(p, "u1")
	rec.CreatedAt = time.Now()

	if diff := cmp.Diff(p, FromRecord(rec)); diff != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestIsStoragePath(t *testing.T) {
	for ref, want := range map[string]bool{
		"":                        false,
		"avatars/u1/a.jpg":        true,
		"u1/1700000000.jpg":       true,
		"https://cdn.test/a.jpg":  false,
		"HTTP://cdn.test/a.jpg":   false,
		"file:///data/avatar.jpg": false,
		"/var/mobile/avatar.jpg":  false,
		"./avatar.jpg":            false,
		"../avatar.jpg":           false,
	} {
		require.Equal(t, want, IsStoragePath(ref), ref)
	}
}

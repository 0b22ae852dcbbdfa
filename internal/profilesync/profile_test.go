package profilesync

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseGender(t *testing.T) {
	g, err := ParseGender("")
	require.NoError(t, err)
	require.Equal(t, GenderUnspecified, g)

	g, err = ParseGender(" Female ")
	require.NoError(t, err)
	require.Equal(t, GenderFemale, g)

	_, err = ParseGender("other")
	require.ErrorIs(t, err, ErrInvalidGender)
}

func TestTempID(t *testing.T) {
	require.Equal(t, "temp-1700000000000", tempID(1700000000000))
	require.True(t, IsTempID("temp-1"))
	require.False(t, IsTempID("r1"))
}

func TestDraftNormalize(t *testing.T) {
	d, err := Draft{Name: "  Alice ", Notes: " n "}.normalize()
	require.NoError(t, err)
	require.Equal(t, "Alice", d.Name)
	require.Equal(t, "n", d.Notes)
	require.Equal(t, GenderUnspecified, d.Gender)

	_, err = Draft{Name: "   "}.normalize()
	require.ErrorIs(t, err, ErrInvalidName)

	_, err = Draft{Name: "A", BirthDate: "01.02.2024"}.normalize()
	require.ErrorIs(t, err, ErrInvalidBirthDate)

	_, err = Draft{Name: "A", Gender: "robot"}.normalize()
	require.ErrorIs(t, err, ErrInvalidGender)
}

func TestPatchNormalize(t *testing.T) {
	blank := " "
	_, err := Patch{Name: &blank}.normalize()
	require.ErrorIs(t, err, ErrInvalidName)

	empty := ""
	p, err := Patch{BirthDate: &empty}.normalize()
	require.NoError(t, err)
	require.Equal(t, "", *p.BirthDate)
}

func TestPatchApply(t *testing.T) {
	base := Profile{ID: "a", Name: "A", Notes: "old", AvatarURL: "avatars/u/1.jpg", AvatarPreviewURL: "https://signed"}

	name, notes := "B", ""
	got := Patch{Name: &name, Notes: &notes}.Apply(base)
	require.Equal(t, "B", got.Name)
	require.Equal(t, "", got.Notes)
	require.Equal(t, "https://signed", got.AvatarPreviewURL)

	avatar := "avatars/u/2.jpg"
	got = Patch{AvatarURL: &avatar}.Apply(base)
	require.Equal(t, avatar, got.AvatarURL)
	require.Empty(t, got.AvatarPreviewURL)

	require.True(t, Patch{}.Empty())
	require.False(t, Patch{AvatarFile: "x.jpg"}.Empty())
}

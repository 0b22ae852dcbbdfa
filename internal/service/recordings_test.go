package service

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/pribylovaa/go-baby-cry/internal/models"
	"github.com/pribylovaa/go-baby-cry/internal/storage"
	"github.com/stretchr/testify/require"
)

// wavBytes - минимальный WAV нужного размера.
func wavBytes(size int) []byte {
	b := make([]byte, size)
	copy(b[0:4], "RIFF")
	copy(b[8:12], "WAVE")
	return b
}

func m4aBytes(size int) []byte {
	b := make([]byte, size)
	copy(b[4:8], "ftyp")
	return b
}

func TestHasAudioSignature(t *testing.T) {
	require.True(t, hasAudioSignature("wav", wavBytes(16)))
	require.True(t, hasAudioSignature("m4a", m4aBytes(16)))
	require.False(t, hasAudioSignature("wav", m4aBytes(16)))
	require.False(t, hasAudioSignature("m4a", wavBytes(16)))
	require.False(t, hasAudioSignature("wav", []byte("RIFF")))
}

func TestService_UploadRecording_OK(t *testing.T) {
	s, mb, mo, _ := newServiceWithMocks(t)

	owner := uuid.New()
	baby := mustBaby(owner, "A")
	key := owner.String() + "/1700000000000.wav"

	mb.EXPECT().BabyByID(gomock.Any(), baby.ID).Return(baby, nil)
	mo.EXPECT().
		PutObject(gomock.Any(), key, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, obj storage.Object) error {
			require.Equal(t, "audio/wav", obj.ContentType)
			require.EqualValues(t, 2048, obj.Size)
			return nil
		})
	mo.EXPECT().SignedURL(gomock.Any(), key, gomock.Any()).Return("https://signed/rec", nil)
	mb.EXPECT().
		CreateRecording(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, r *models.Recording) (*models.Recording, error) {
			require.Equal(t, baby.ID, r.BabyID)
			require.Equal(t, "https://signed/rec", r.URL)
			require.Equal(t, "night", *r.Notes)
			out := *r
			out.ID = uuid.New()
			return &out, nil
		})

	rec, err := s.UploadRecording(context.Background(), UploadRecordingInput{
		UserID: owner,
		BabyID: baby.ID.String(),
		Ext:    ".WAV",
		Notes:  "night",
		Body:   bytes.NewReader(wavBytes(2048)),
	})
	require.NoError(t, err)
	require.Equal(t, key, rec.ObjectKey)
}

func TestService_UploadRecording_Rejections(t *testing.T) {
	s, _, _, _ := newServiceWithMocks(t)
	owner := uuid.New()
	babyID := uuid.NewString()

	cases := map[string]struct {
		in   UploadRecordingInput
		want error
	}{
		"temp_baby":     {UploadRecordingInput{UserID: owner, BabyID: "temp-1700000000000", Ext: "wav", Body: bytes.NewReader(wavBytes(2048))}, ErrFailedPrecondition},
		"bad_baby_id":   {UploadRecordingInput{UserID: owner, BabyID: "nope", Ext: "wav", Body: bytes.NewReader(wavBytes(2048))}, ErrInvalidArgument},
		"unknown_ext":   {UploadRecordingInput{UserID: owner, BabyID: babyID, Ext: "ogg", Body: bytes.NewReader(wavBytes(2048))}, ErrInvalidArgument},
		"too_small":     {UploadRecordingInput{UserID: owner, BabyID: babyID, Ext: "wav", Body: bytes.NewReader(wavBytes(512))}, ErrInvalidArgument},
		"too_large":     {UploadRecordingInput{UserID: owner, BabyID: babyID, Ext: "wav", Body: bytes.NewReader(wavBytes(128 * 1024))}, ErrInvalidArgument},
		"bad_signature": {UploadRecordingInput{UserID: owner, BabyID: babyID, Ext: "wav", Body: bytes.NewReader(m4aBytes(2048))}, ErrInvalidArgument},
		"no_owner":      {UploadRecordingInput{BabyID: babyID, Ext: "wav", Body: bytes.NewReader(wavBytes(2048))}, ErrInvalidArgument},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := s.UploadRecording(context.Background(), tc.in)
			require.ErrorIs(t, err, tc.want)
		})
	}
}

func TestService_UploadRecording_UnknownOrForeignBaby(t *testing.T) {
	s, mb, _, _ := newServiceWithMocks(t)
	owner := uuid.New()

	missing := uuid.New()
	mb.EXPECT().BabyByID(gomock.Any(), missing).Return(nil, storage.ErrNotFound)
	_, err := s.UploadRecording(context.Background(), UploadRecordingInput{
		UserID: owner, BabyID: missing.String(), Ext: "m4a", Body: bytes.NewReader(m4aBytes(2048)),
	})
	require.ErrorIs(t, err, ErrFailedPrecondition)

	foreign := mustBaby(uuid.New(), "B")
	mb.EXPECT().BabyByID(gomock.Any(), foreign.ID).Return(foreign, nil)
	_, err = s.UploadRecording(context.Background(), UploadRecordingInput{
		UserID: owner, BabyID: foreign.ID.String(), Ext: "m4a", Body: bytes.NewReader(m4aBytes(2048)),
	})
	require.ErrorIs(t, err, ErrFailedPrecondition)
}

// Строка не вставилась -> загруженный объект удаляется.
func TestService_UploadRecording_RowFailureRemovesObject(t *testing.T) {
	s, mb, mo, _ := newServiceWithMocks(t)
	owner := uuid.New()
	baby := mustBaby(owner, "A")

	mb.EXPECT().BabyByID(gomock.Any(), baby.ID).Return(baby, nil)
	mo.EXPECT().PutObject(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
	mo.EXPECT().SignedURL(gomock.Any(), gomock.Any(), gomock.Any()).Return("", errors.New("no sign"))
	mb.EXPECT().CreateRecording(gomock.Any(), gomock.Any()).Return(nil, storage.ErrForeignKey)
	mo.EXPECT().RemoveObject(gomock.Any(), owner.String()+"/1700000000000.m4a").Return(nil)

	_, err := s.UploadRecording(context.Background(), UploadRecordingInput{
		UserID: owner, BabyID: baby.ID.String(), Ext: "m4a", Body: bytes.NewReader(m4aBytes(4096)),
	})
	require.ErrorIs(t, err, ErrFailedPrecondition)
}

func TestService_ListRecordings_Resigns(t *testing.T) {
	s, mb, mo, _ := newServiceWithMocks(t)
	owner := uuid.New()
	babyID := uuid.New()

	mb.EXPECT().ListRecordings(gomock.Any(), owner, &babyID).Return([]models.Recording{
		{ObjectKey: "k/1.wav", URL: "stale"},
		{ObjectKey: "k/2.wav", URL: "stale"},
	}, nil)
	mo.EXPECT().SignedURL(gomock.Any(), "k/1.wav", gomock.Any()).Return("fresh-1", nil)
	mo.EXPECT().SignedURL(gomock.Any(), "k/2.wav", gomock.Any()).Return("", errDB)

	recs, err := s.ListRecordings(context.Background(), owner, &babyID)
	require.NoError(t, err)
	require.Equal(t, "fresh-1", recs[0].URL)
	require.Equal(t, "stale", recs[1].URL)

	nilID := uuid.Nil
	_, err = s.ListRecordings(context.Background(), owner, &nilID)
	require.ErrorIs(t, err, ErrInvalidArgument)
}

func TestService_DeleteRecording(t *testing.T) {
	s, mb, mo, _ := newServiceWithMocks(t)
	rec := &models.Recording{ID: uuid.New(), ObjectKey: "k/1.wav"}

	mb.EXPECT().RecordingByID(gomock.Any(), rec.ID).Return(rec, nil)
	mb.EXPECT().DeleteRecording(gomock.Any(), rec.ID).Return(nil)
	mo.EXPECT().RemoveObject(gomock.Any(), "k/1.wav").Return(nil)

	res, err := s.DeleteRecording(context.Background(), rec.ID)
	require.NoError(t, err)
	require.True(t, res.RowDeleted)
	require.True(t, res.BlobDeleted)

	missing := uuid.New()
	mb.EXPECT().RecordingByID(gomock.Any(), missing).Return(nil, storage.ErrNotFound)
	_, err = s.DeleteRecording(context.Background(), missing)
	require.ErrorIs(t, err, ErrNotFound)
}

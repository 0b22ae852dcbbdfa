package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/pribylovaa/go-baby-cry/internal/models"
	"github.com/pribylovaa/go-baby-cry/internal/storage"
	"github.com/pribylovaa/go-baby-cry/pkg/log"
)

const tempIDPrefix = "temp-"

// recordingTypes - допустимые расширения и их типы содержимого.
var recordingTypes = map[string]string{
	"wav": "audio/wav",
	"m4a": "audio/m4a",
	"mp4": "audio/m4a",
}

type UploadRecordingInput struct {
	UserID uuid.UUID
	// BabyID - как пришёл от клиента: временный id отклоняется отдельно.
	BabyID string
	Ext    string
	Notes  string
	Meta   map[string]any
	Body   io.Reader
}

// ListRecordings возвращает записи владельца, новые первыми; babyID сужает выборку.
// URL каждой записи переподписывается (через кэш); при сбое остаётся сохранённый.
func (s *Service) ListRecordings(ctx context.Context, userID uuid.UUID, babyID *uuid.UUID) ([]models.Recording, error) {
	const op = "service/recordings/ListRecordings"

	lg := log.From(ctx).With("op", op, "user_id", userID.String())

	if userID == uuid.Nil || (babyID != nil && *babyID == uuid.Nil) {
		lg.Warn("invalid argument")

		return nil, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	recs, err := s.babies.ListRecordings(ctx, userID, babyID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, hideInternal(lg, "storage error on ListRecordings", err))
	}

	for i := range recs {
		if url, err := s.SignAvatarURL(ctx, recs[i].ObjectKey, 0); err == nil {
			recs[i].URL = url
		}
	}

	return recs, nil
}

// UploadRecording сохраняет запись плача.
//
// Валидация:
//   - baby id не временный (профиль подтверждён) и принадлежит владельцу;
//   - расширение из recordingTypes;
//   - размер в [audio.min_size_bytes, audio.max_size_bytes];
//   - сигнатура: RIFF/WAVE для wav, ISO-BMFF ftyp для m4a/mp4.
//
// Ключ объекта: "<userID>/<unix ms>.<ext>".
func (s *Service) UploadRecording(ctx context.Context, input UploadRecordingInput) (*models.Recording, error) {
	const op = "service/recordings/UploadRecording"

	lg := log.From(ctx).With("op", op, "user_id", input.UserID.String(), "baby_id", input.BabyID)

	if input.UserID == uuid.Nil || input.Body == nil {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	if strings.HasPrefix(input.BabyID, tempIDPrefix) {
		lg.Warn("recording for unconfirmed profile rejected")

		return nil, fmt.Errorf("%s: %w", op, ErrFailedPrecondition)
	}

	babyID, err := uuid.Parse(input.BabyID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	ext := strings.ToLower(strings.TrimPrefix(strings.TrimSpace(input.Ext), "."))
	contentType, ok := recordingTypes[ext]
	if !ok {
		lg.Warn("unsupported extension", "ext", ext)

		return nil, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	data, err := io.ReadAll(io.LimitReader(input.Body, s.cfg.Audio.MaxSizeBytes+1))
	if err != nil {
		lg.Warn("read body failed", "err", err)

		return nil, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	size := int64(len(data))
	if size < s.cfg.Audio.MinSizeBytes || size > s.cfg.Audio.MaxSizeBytes {
		lg.Warn("recording size out of range", "size", size)

		return nil, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	if !hasAudioSignature(ext, data) {
		lg.Warn("recording signature mismatch", "ext", ext)

		return nil, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	baby, err := s.babies.BabyByID(ctx, babyID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			lg.Warn("recording for unknown baby")

			return nil, fmt.Errorf("%s: %w", op, ErrFailedPrecondition)
		}

		return nil, fmt.Errorf("%s: %w", op, s.mapStorageErr(lg, err))
	}

	if baby.UserID != input.UserID {
		lg.Warn("recording for foreign baby")

		return nil, fmt.Errorf("%s: %w", op, ErrFailedPrecondition)
	}

	key := fmt.Sprintf("%s/%d.%s", input.UserID, s.now().UnixMilli(), ext)

	err = s.objects.PutObject(ctx, key, storage.Object{
		ContentType: contentType,
		Size:        size,
		Body:        bytes.NewReader(data),
	})
	if err != nil {
		s.metrics.Mutation("upload_recording", err)
		return nil, fmt.Errorf("%s: %w", op, hideInternal(lg, "recording upload failed", err))
	}

	url, _ := s.SignAvatarURL(ctx, key, 0)

	rec, err := s.babies.CreateRecording(ctx, &models.Recording{
		UserID:      input.UserID,
		BabyID:      babyID,
		ObjectKey:   key,
		URL:         url,
		ContentType: contentType,
		SizeBytes:   size,
		Notes:       optional(input.Notes),
		Meta:        input.Meta,
	})
	s.metrics.Mutation("upload_recording", err)
	if err != nil {
		// Объект без строки никому не виден - убираем.
		_ = s.removeObject(ctx, key)

		return nil, fmt.Errorf("%s: %w", op, s.mapStorageErr(lg, err))
	}

	lg.Info("recording uploaded", "recording_id", rec.ID.String(), "size", size)

	return rec, nil
}

// DeleteRecording удаляет строку и (best-effort) объект.
func (s *Service) DeleteRecording(ctx context.Context, id uuid.UUID) (DeleteResult, error) {
	const op = "service/recordings/DeleteRecording"

	lg := log.From(ctx).With("op", op, "recording_id", id.String())

	if id == uuid.Nil {
		return DeleteResult{}, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	rec, err := s.babies.RecordingByID(ctx, id)
	if err != nil {
		return DeleteResult{}, fmt.Errorf("%s: %w", op, s.mapStorageErr(lg, err))
	}

	var res DeleteResult

	if err := s.babies.DeleteRecording(ctx, id); err != nil {
		s.metrics.Mutation("delete_recording", err)
		mapped := s.mapStorageErr(lg, err)
		res.RowErr = mapped

		return res, fmt.Errorf("%s: %w", op, mapped)
	}
	res.RowDeleted = true
	s.metrics.Mutation("delete_recording", nil)

	res.BlobErr = s.removeObject(ctx, rec.ObjectKey)
	res.BlobDeleted = res.BlobErr == nil

	return res, nil
}

// hasAudioSignature проверяет магические байты контейнера.
func hasAudioSignature(ext string, data []byte) bool {
	if len(data) < 12 {
		return false
	}

	switch ext {
	case "wav":
		return bytes.Equal(data[0:4], []byte("RIFF")) && bytes.Equal(data[8:12], []byte("WAVE"))
	default:
		return bytes.Equal(data[4:8], []byte("ftyp"))
	}
}

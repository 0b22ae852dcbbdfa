package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pribylovaa/go-baby-cry/internal/models"
	"github.com/pribylovaa/go-baby-cry/internal/storage"
)

const recordingColumns = `id, user_id, baby_id, object_key, url, content_type, size_bytes, notes, meta, created_at`

func scanRecording(row pgx.Row) (*models.Recording, error) {
	var rec models.Recording

	if err := row.Scan(
		&rec.ID,
		&rec.UserID,
		&rec.BabyID,
		&rec.ObjectKey,
		&rec.URL,
		&rec.ContentType,
		&rec.SizeBytes,
		&rec.Notes,
		&rec.Meta,
		&rec.CreatedAt,
	); err != nil {
		return nil, err
	}

	return &rec, nil
}

// ListRecordings возвращает записи владельца (опционально одного малыша), новые первыми.
func (s *BabiesStorage) ListRecordings(ctx context.Context, userID uuid.UUID, babyID *uuid.UUID) ([]models.Recording, error) {
	const op = "storage/postgres/recordings/ListRecordings"

	q := `SELECT ` + recordingColumns + ` FROM recordings
	WHERE user_id = $1 AND ($2::uuid IS NULL OR baby_id = $2)
	ORDER BY created_at DESC, id`

	rows, err := s.db.Query(ctx, q, userID, babyID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	result := make([]models.Recording, 0)
	for rows.Next() {
		rec, err := scanRecording(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, *rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return result, nil
}

// RecordingByID возвращает запись по id.
func (s *BabiesStorage) RecordingByID(ctx context.Context, id uuid.UUID) (*models.Recording, error) {
	const op = "storage/postgres/recordings/RecordingByID"

	result, err := scanRecording(s.db.QueryRow(ctx, `SELECT `+recordingColumns+` FROM recordings WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return result, nil
}

// CreateRecording вставляет запись.
// Ошибки: storage.ErrForeignKey, если малыша нет; storage.ErrAlreadyExists при повторе ключа.
func (s *BabiesStorage) CreateRecording(ctx context.Context, rec *models.Recording) (*models.Recording, error) {
	const op = "storage/postgres/recordings/CreateRecording"

	id := rec.ID
	if id == uuid.Nil {
		id = uuid.New()
	}

	meta := rec.Meta
	if meta == nil {
		meta = map[string]any{}
	}

	q := `
	INSERT INTO recordings (id, user_id, baby_id, object_key, url, content_type, size_bytes, notes, meta)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	RETURNING ` + recordingColumns

	result, err := scanRecording(s.db.QueryRow(ctx, q,
		id,
		rec.UserID,
		rec.BabyID,
		rec.ObjectKey,
		rec.URL,
		rec.ContentType,
		rec.SizeBytes,
		rec.Notes,
		meta,
	))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, classify(err))
	}

	return result, nil
}

// DeleteRecording удаляет запись. Ошибки: storage.ErrNotFound.
func (s *BabiesStorage) DeleteRecording(ctx context.Context, id uuid.UUID) error {
	const op = "storage/postgres/recordings/DeleteRecording"

	tag, err := s.db.Exec(ctx, `DELETE FROM recordings WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}

	return nil
}

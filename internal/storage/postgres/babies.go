package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pribylovaa/go-baby-cry/internal/models"
	"github.com/pribylovaa/go-baby-cry/internal/storage"
)

// babyColumns - порядок колонок для SELECT/RETURNING, общий для scanBaby.
const babyColumns = `id, user_id, name, birth_date, gender, notes, avatar_url, created_at, updated_at`

func scanBaby(row pgx.Row) (*models.Baby, error) {
	var baby models.Baby
	var gender int16

	if err := row.Scan(
		&baby.ID,
		&baby.UserID,
		&baby.Name,
		&baby.BirthDate,
		&gender,
		&baby.Notes,
		&baby.AvatarURL,
		&baby.CreatedAt,
		&baby.UpdatedAt,
	); err != nil {
		return nil, err
	}

	baby.Gender = models.Gender(gender)

	return &baby, nil
}

// ListBabies возвращает профили владельца, новые первыми.
func (s *BabiesStorage) ListBabies(ctx context.Context, userID uuid.UUID) ([]models.Baby, error) {
	const op = "storage/postgres/babies/ListBabies"

	q := `SELECT ` + babyColumns + ` FROM babies WHERE user_id = $1 ORDER BY created_at DESC, id`

	rows, err := s.db.Query(ctx, q, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	result := make([]models.Baby, 0)
	for rows.Next() {
		baby, err := scanBaby(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, *baby)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return result, nil
}

// BabyByID возвращает профиль по id.
// Ошибки: storage.ErrNotFound, либо ошибка выполнения запроса.
func (s *BabiesStorage) BabyByID(ctx context.Context, id uuid.UUID) (*models.Baby, error) {
	const op = "storage/postgres/babies/BabyByID"

	row := s.db.QueryRow(ctx, `SELECT `+babyColumns+` FROM babies WHERE id = $1`, id)

	result, err := scanBaby(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return result, nil
}

// CreateBaby вставляет профиль. Если baby.ID задан, он используется как PK.
// Ошибки: storage.ErrAlreadyExists при конфликте PK.
func (s *BabiesStorage) CreateBaby(ctx context.Context, baby *models.Baby) (*models.Baby, error) {
	const op = "storage/postgres/babies/CreateBaby"

	id := baby.ID
	if id == uuid.Nil {
		id = uuid.New()
	}

	q := `
	INSERT INTO babies (id, user_id, name, birth_date, gender, notes, avatar_url)
	VALUES ($1, $2, $3, $4, $5, $6, $7)
	RETURNING ` + babyColumns

	row := s.db.QueryRow(ctx, q,
		id,
		baby.UserID,
		baby.Name,
		baby.BirthDate,
		int16(baby.Gender),
		baby.Notes,
		baby.AvatarURL,
	)

	result, err := scanBaby(row)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, classify(err))
	}

	return result, nil
}

// UpdateBaby выполняет частичный апдейт: обновляет поля из непустых указателей
// и всегда сдвигает updated_at. Пустая строка / нулевая дата пишут NULL.
// Ошибки: storage.ErrNotFound при отсутствии записи.
func (s *BabiesStorage) UpdateBaby(ctx context.Context, id uuid.UUID, update storage.BabyUpdate) (*models.Baby, error) {
	const op = "storage/postgres/babies/UpdateBaby"

	sets := []string{"updated_at = now()"}
	args := make([]any, 0, 6)

	set := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if update.Name != nil {
		set("name", *update.Name)
	}

	if update.BirthDate != nil {
		set("birth_date", nullTime(*update.BirthDate))
	}

	if update.Gender != nil {
		set("gender", int16(*update.Gender))
	}

	if update.Notes != nil {
		set("notes", nullString(*update.Notes))
	}

	if update.AvatarURL != nil {
		set("avatar_url", nullString(*update.AvatarURL))
	}

	args = append(args, id)
	q := fmt.Sprintf(`UPDATE babies SET %s WHERE id = $%d RETURNING %s`,
		strings.Join(sets, ", "), len(args), babyColumns)

	result, err := scanBaby(s.db.QueryRow(ctx, q, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, classify(err))
	}

	return result, nil
}

// DeleteBaby удаляет профиль. Записи плача удаляются каскадно.
// Ошибки: storage.ErrNotFound, если строки не было.
func (s *BabiesStorage) DeleteBaby(ctx context.Context, id uuid.UUID) error {
	const op = "storage/postgres/babies/DeleteBaby"

	tag, err := s.db.Exec(ctx, `DELETE FROM babies WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}

	return nil
}

func nullString(s string) *string {
	if s == "" {
		return nil
	}

	return &s
}

func nullTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}

	return &t
}

// postgres предоставляет реализацию storage.BabiesStorage на базе PostgreSQL.
//
// babies.go - профили малышей.
// recordings.go - записи плача.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pribylovaa/go-baby-cry/internal/storage"
)

type BabiesStorage struct {
	db *pgxpool.Pool
}

// New создает и инициализирует пул соединений к PostgreSQL.
func New(ctx context.Context, dbURL string) (*BabiesStorage, error) {
	const op = "storage/postgres/New"

	config, err := pgxpool.ParseConfig(dbURL)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	db, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := db.Ping(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &BabiesStorage{db: db}, nil
}

// Ping проверяет доступность БД (readiness).
func (s *BabiesStorage) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}

// Close закрывает пул соединений.
func (s *BabiesStorage) Close() {
	s.db.Close()
}

// classify переводит нарушения ограничений PostgreSQL в ошибки storage.
func classify(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}

	switch pgErr.Code {
	case pgerrcode.UniqueViolation:
		return storage.ErrAlreadyExists
	case pgerrcode.ForeignKeyViolation:
		return storage.ErrForeignKey
	default:
		return err
	}
}

// Проверка выполнения контракта верхнего уровня.
var _ storage.BabiesStorage = (*BabiesStorage)(nil)

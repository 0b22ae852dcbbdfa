// storage содержит контракты слоя хранилищ babies-service.
//
// babies.go - профили малышей и записи плача в БД.
// objects.go - объекты (аватары, аудио) в S3/MinIO.
package storage

//go:generate mockgen -source=babies.go -destination=../../mocks/babies_storage_mock.go -package=mocks

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/pribylovaa/go-baby-cry/internal/models"
)

var (
	// ErrNotFound - строка не найдена.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists - конфликт уникальности.
	ErrAlreadyExists = errors.New("already exists")
	// ErrForeignKey - ссылка на несуществующую родительскую строку.
	ErrForeignKey = errors.New("foreign key violation")
)

// BabyUpdate - частичный апдейт профиля малыша.
// nil - поле не трогаем. Для необязательных полей указатель на пустое
// значение ("" или нулевое time.Time) записывает NULL.
type BabyUpdate struct {
	Name      *string
	BirthDate *time.Time
	Gender    *models.Gender
	Notes     *string
	AvatarURL *string
}

// Empty сообщает, что апдейт не меняет ни одного поля.
func (u BabyUpdate) Empty() bool {
	return u.Name == nil && u.BirthDate == nil && u.Gender == nil && u.Notes == nil && u.AvatarURL == nil
}

// Babies - контракт репозитория профилей малышей.
type Babies interface {
	// ListBabies возвращает профили владельца, новые первыми.
	ListBabies(ctx context.Context, userID uuid.UUID) ([]models.Baby, error)
	// BabyByID возвращает профиль по id.
	BabyByID(ctx context.Context, id uuid.UUID) (*models.Baby, error)
	// CreateBaby вставляет профиль; id и временные метки назначает БД.
	CreateBaby(ctx context.Context, baby *models.Baby) (*models.Baby, error)
	// UpdateBaby обновляет указанные поля и сдвигает updated_at.
	UpdateBaby(ctx context.Context, id uuid.UUID, update BabyUpdate) (*models.Baby, error)
	// DeleteBaby удаляет профиль (записи удаляются каскадно).
	DeleteBaby(ctx context.Context, id uuid.UUID) error
}

// Recordings - контракт репозитория записей плача.
type Recordings interface {
	// ListRecordings возвращает записи владельца, новые первыми;
	// babyID != nil сужает выборку до одного малыша.
	ListRecordings(ctx context.Context, userID uuid.UUID, babyID *uuid.UUID) ([]models.Recording, error)
	RecordingByID(ctx context.Context, id uuid.UUID) (*models.Recording, error)
	// CreateRecording вставляет запись; неизвестный baby_id -> ErrForeignKey.
	CreateRecording(ctx context.Context, rec *models.Recording) (*models.Recording, error)
	DeleteRecording(ctx context.Context, id uuid.UUID) error
}

// BabiesStorage - верхнеуровневый интерфейс реляционного хранилища.
type BabiesStorage interface {
	Babies
	Recordings
	Ping(ctx context.Context) error
	Close()
}

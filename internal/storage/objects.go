package storage

//go:generate mockgen -source=objects.go -destination=../../mocks/objects_storage_mock.go -package=mocks

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrNotFoundObject - объект (ключ) отсутствует в бакете.
	ErrNotFoundObject = errors.New("object not found")
	// ErrInvalidArgument - нарушены ограничения на объект (тип/размер).
	ErrInvalidArgument = errors.New("invalid argument")
)

// Object - загружаемое содержимое.
type Object struct {
	ContentType string
	Size        int64
	Body        io.Reader
}

// Objects - контракт объектного хранилища.
type Objects interface {
	// PutAvatar валидирует тип/размер и сохраняет аватар под ключом
	// "avatars/<userID>/<uuid>.<ext>". Возвращает ключ.
	PutAvatar(ctx context.Context, userID uuid.UUID, obj Object) (string, error)
	// PutObject сохраняет объект под заданным ключом без дополнительных проверок.
	PutObject(ctx context.Context, key string, obj Object) error
	// SignedURL выдаёт подписанную GET-ссылку на ttl.
	SignedURL(ctx context.Context, key string, ttl time.Duration) (string, error)
	// RemoveObject удаляет объект; отсутствие объекта ошибкой не считается.
	RemoveObject(ctx context.Context, key string) error
}

// ObjectsStorage - алиас-обёртка для внедрения зависимости.
type ObjectsStorage interface {
	Objects
}

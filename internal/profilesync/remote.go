package profilesync

import (
	"context"
	"time"
)

// DeleteResult - исход удаления: строка и связанный blob (аватар) отчитываются раздельно.
// Частичный успех (строка удалена, blob нет) - не общий провал.
type DeleteResult struct {
	RowDeleted  bool
	BlobDeleted bool
	RowErr      error
	BlobErr     error
}

// UploadResult - результат загрузки blob: долговечный путь и (опционально) превью-URL.
type UploadResult struct {
	StoragePath string
	PreviewURL  string
}

// Remote - контракт удалённого сервиса профилей.
// Реализации обязаны возвращать ErrNotFound (через %w) для отсутствующей записи.
type Remote interface {
	// List возвращает профили владельца, created_at по убыванию.
	List(ctx context.Context, ownerID string) ([]Record, error)
	// Get возвращает одну запись или ErrNotFound.
	Get(ctx context.Context, id string) (Record, error)
	// Insert создаёт запись; возвращает серверный id и канонические значения.
	Insert(ctx context.Context, ownerID string, rec Record) (Record, error)
	// Update применяет частичный патч; возвращает канонические значения.
	Update(ctx context.Context, id string, patch Patch) (Record, error)
	// Delete удаляет строку и (best-effort) связанный blob.
	Delete(ctx context.Context, id string) DeleteResult
	// UploadBlob загружает локальный файл и возвращает путь в хранилище.
	UploadBlob(ctx context.Context, localPath, ownerID string) (UploadResult, error)
	// SignBlobURL обменивает путь на ссылку с ограниченным сроком жизни.
	// При ошибке возвращает "" - вызывающая сторона откатывается к сырому пути.
	SignBlobURL(ctx context.Context, storagePath string, ttl time.Duration) string
}

// ActivePersister - best-effort сохранение id активного профиля.
// TrySave не блокирует вызывающего и молча игнорирует ошибки.
type ActivePersister interface {
	TrySave(id string)
}

// ActiveLoader читает сохранённый id активного профиля (один раз при старте).
type ActiveLoader interface {
	Load(ctx context.Context) (string, error)
}

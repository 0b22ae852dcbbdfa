package minio

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"path"
	"slices"
	"time"

	"github.com/google/uuid"
	mclient "github.com/minio/minio-go/v7"
	"github.com/pribylovaa/go-baby-cry/internal/storage"
)

// avatarExt - расширение ключа по типу содержимого.
var avatarExt = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

// PutAvatar валидирует тип и размер по конфигу и сохраняет аватар
// под ключом "avatars/<userID>/<uuid>.<ext>".
func (s *ObjectsStorage) PutAvatar(ctx context.Context, userID uuid.UUID, obj storage.Object) (string, error) {
	const op = "storage/minio/objects/PutAvatar"

	if obj.Size <= 0 || obj.Size > s.avatar.MaxSizeBytes {
		return "", storage.ErrInvalidArgument
	}

	if !slices.Contains(s.avatar.AllowedContentTypes, obj.ContentType) {
		return "", storage.ErrInvalidArgument
	}

	key := path.Join("avatars", userID.String(), uuid.NewString()+avatarExt[obj.ContentType])

	if err := s.PutObject(ctx, key, obj); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	return key, nil
}

// PutObject сохраняет объект под ключом key.
func (s *ObjectsStorage) PutObject(ctx context.Context, key string, obj storage.Object) error {
	const op = "storage/minio/objects/PutObject"

	_, err := s.client.PutObject(ctx, s.bucket, key, obj.Body, obj.Size, mclient.PutObjectOptions{
		ContentType: obj.ContentType,
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// SignedURL выдаёт presigned GET на ttl. Несуществующий объект -> storage.ErrNotFoundObject.
func (s *ObjectsStorage) SignedURL(ctx context.Context, key string, ttl time.Duration) (string, error) {
	const op = "storage/minio/objects/SignedURL"

	if _, err := s.client.StatObject(ctx, s.bucket, key, mclient.StatObjectOptions{}); err != nil {
		if isNotFound(err) {
			return "", fmt.Errorf("%s: %w", op, storage.ErrNotFoundObject)
		}

		return "", fmt.Errorf("%s: %w", op, err)
	}

	u, err := s.client.PresignedGetObject(ctx, s.bucket, key, ttl, url.Values{})
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	return u.String(), nil
}

// RemoveObject удаляет объект. Отсутствие объекта ошибкой не считается.
func (s *ObjectsStorage) RemoveObject(ctx context.Context, key string) error {
	const op = "storage/minio/objects/RemoveObject"

	if err := s.client.RemoveObject(ctx, s.bucket, key, mclient.RemoveObjectOptions{}); err != nil && !isNotFound(err) {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func isNotFound(err error) bool {
	resp := mclient.ToErrorResponse(err)
	return resp.Code == "NoSuchKey" || resp.StatusCode == http.StatusNotFound
}

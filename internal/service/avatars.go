package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pribylovaa/go-baby-cry/internal/storage"
	"github.com/pribylovaa/go-baby-cry/pkg/log"
)

type UploadAvatarInput struct {
	UserID      uuid.UUID
	ContentType string
	Size        int64
	Body        io.Reader
}

// AvatarUpload - результат загрузки: долговечный путь и (если удалось) превью.
type AvatarUpload struct {
	StoragePath string
	PreviewURL  string
}

// UploadAvatar сохраняет аватар и сразу подписывает превью с TTL по умолчанию.
// Сбой подписи не фатален: PreviewURL остаётся пустым.
func (s *Service) UploadAvatar(ctx context.Context, input UploadAvatarInput) (AvatarUpload, error) {
	const op = "service/avatars/UploadAvatar"

	lg := log.From(ctx).With("op", op, "user_id", input.UserID.String())

	if input.UserID == uuid.Nil || input.Body == nil {
		lg.Warn("invalid argument: empty user_id or body")

		return AvatarUpload{}, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	contentType := strings.ToLower(strings.TrimSpace(strings.SplitN(input.ContentType, ";", 2)[0]))

	key, err := s.objects.PutAvatar(ctx, input.UserID, storage.Object{
		ContentType: contentType,
		Size:        input.Size,
		Body:        input.Body,
	})
	s.metrics.Mutation("upload_avatar", err)
	if err != nil {
		if errors.Is(err, storage.ErrInvalidArgument) {
			lg.Warn("avatar rejected", "content_type", contentType, "size", input.Size)

			return AvatarUpload{}, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
		}

		return AvatarUpload{}, fmt.Errorf("%s: %w", op, hideInternal(lg, "avatar upload failed", err))
	}

	res := AvatarUpload{StoragePath: key}

	if preview, err := s.SignAvatarURL(ctx, key, 0); err == nil {
		res.PreviewURL = preview
	}

	lg.Info("avatar uploaded", "key", key)

	return res, nil
}

// SignAvatarURL обменивает путь в бакете на подписанную ссылку.
//
// ttl <= 0 -> signing.default_ttl; ttl > signing.max_ttl -> max_ttl.
// Ссылки кэшируются на ttl - signing.cache_skew: повторный запрос того же
// пути и срока в этом окне возвращает ранее подписанную ссылку.
func (s *Service) SignAvatarURL(ctx context.Context, path string, ttl time.Duration) (string, error) {
	const op = "service/avatars/SignAvatarURL"

	lg := log.From(ctx).With("op", op, "path", path)

	path = strings.TrimSpace(path)
	if !isStorageKey(path) {
		lg.Warn("invalid argument: not a storage path")

		return "", fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	ttl = s.clampTTL(ttl)
	cacheKey := fmt.Sprintf("%s|%d", path, ttl)

	if v, ok := s.signed.Get(cacheKey); ok {
		s.metrics.SignCacheLookup(true)
		return v.(string), nil
	}
	s.metrics.SignCacheLookup(false)

	url, err := s.objects.SignedURL(ctx, path, ttl)
	if err != nil {
		if errors.Is(err, storage.ErrNotFoundObject) {
			lg.Warn("object not found")

			return "", fmt.Errorf("%s: %w", op, ErrNotFound)
		}

		return "", fmt.Errorf("%s: %w", op, hideInternal(lg, "sign failed", err))
	}

	if keep := ttl - s.cfg.Signing.CacheSkew; keep > 0 {
		s.signed.Set(cacheKey, url, keep)
	}

	return url, nil
}

func (s *Service) clampTTL(ttl time.Duration) time.Duration {
	if ttl <= 0 {
		ttl = s.cfg.Signing.DefaultTTL
	}

	if limit := s.cfg.Signing.MaxTTL; limit > 0 && ttl > limit {
		ttl = limit
	}

	return ttl
}

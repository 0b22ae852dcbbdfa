// minio предоставляет реализацию storage.ObjectsStorage на базе MinIO/S3.
// minio.go - конструктор клиента: нормализует endpoint, настраивает
// Secure/creds и проверяет наличие бакета.
// objects.go - загрузка аватаров и аудио, подпись ссылок, удаление.
package minio

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	mclient "github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/pribylovaa/go-baby-cry/internal/config"
	"github.com/pribylovaa/go-baby-cry/internal/storage"
)

// ObjectsStorage - адаптер MinIO для объектов сервиса.
type ObjectsStorage struct {
	bucket string
	avatar config.AvatarConfig
	client *mclient.Client
}

// New создает клиент MinIO и проверяет, что бакет существует.
func New(ctx context.Context, cfg *config.Config) (*ObjectsStorage, error) {
	const op = "storage/minio/New"

	endpoint, secure := normalizeEndpoint(cfg.S3.Endpoint)

	client, err := mclient.New(endpoint, &mclient.Options{
		Creds:  credentials.NewStaticV4(cfg.S3.RootUser, cfg.S3.RootPassword, ""),
		Secure: secure,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	exists, err := client.BucketExists(ctx, cfg.S3.Bucket)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if !exists {
		return nil, fmt.Errorf("%s: bucket %q does not exist", op, cfg.S3.Bucket)
	}

	return &ObjectsStorage{bucket: cfg.S3.Bucket, avatar: cfg.Avatar, client: client}, nil
}

// normalizeEndpoint убирает схему из endpoint и выводит из неё Secure.
func normalizeEndpoint(endpoint string) (string, bool) {
	secure := strings.HasPrefix(endpoint, "https://")

	if u, err := url.Parse(endpoint); err == nil && u.Scheme != "" && u.Host != "" {
		return u.Host, u.Scheme == "https"
	}

	return endpoint, secure
}

// Проверка выполнения контракта верхнего уровня.
var _ storage.ObjectsStorage = (*ObjectsStorage)(nil)

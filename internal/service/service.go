// service содержит бизнес-логику babies-service:
// - профили малышей (чтение/создание/частичный апдейт/удаление с аватаром);
// - аватары (загрузка и подписанные ссылки с кэшем);
// - записи плача (загрузка с проверкой сигнатуры, список, удаление).
package service

import (
	"errors"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/pribylovaa/go-baby-cry/internal/config"
	"github.com/pribylovaa/go-baby-cry/internal/metrics"
	"github.com/pribylovaa/go-baby-cry/internal/storage"
)

var (
	// ErrInvalidArgument - некорректные входные данные.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrNotFound - сущность не найдена.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists - конфликт уникальности.
	ErrAlreadyExists = errors.New("already exists")
	// ErrFailedPrecondition - операция невозможна в текущем состоянии
	// (например, запись для неподтверждённого или чужого профиля).
	ErrFailedPrecondition = errors.New("failed precondition")
	// ErrInternal - внутренняя ошибка сервиса.
	ErrInternal = errors.New("internal")
)

// Service - бизнес-логика babies-service.
type Service struct {
	cfg     *config.Config
	babies  storage.BabiesStorage
	objects storage.ObjectsStorage
	signed  *cache.Cache
	metrics *metrics.Metrics
	now     func() time.Time
}

// New создает новый экземпляр Service. m может быть nil.
func New(babies storage.BabiesStorage, objects storage.ObjectsStorage, cfg *config.Config, m *metrics.Metrics) *Service {
	return &Service{
		cfg:     cfg,
		babies:  babies,
		objects: objects,
		signed:  cache.New(cfg.Signing.DefaultTTL, 2*cfg.Signing.DefaultTTL),
		metrics: m,
		now:     time.Now,
	}
}

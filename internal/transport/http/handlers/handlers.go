package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/pribylovaa/go-baby-cry/internal/models"
	"github.com/pribylovaa/go-baby-cry/internal/service"
	apierrors "github.com/pribylovaa/go-baby-cry/internal/transport/http/errors"
	logctx "github.com/pribylovaa/go-baby-cry/pkg/log"
)

// DefaultMaxBodyBytes - предел тела запроса, если не задан явно.
const DefaultMaxBodyBytes int64 = 32 << 20

// Service - операции сервисного слоя, которые обслуживает HTTP API.
type Service interface {
	ListBabies(ctx context.Context, userID uuid.UUID) ([]models.Baby, error)
	BabyByID(ctx context.Context, id uuid.UUID) (*models.Baby, error)
	CreateBaby(ctx context.Context, input service.CreateBabyInput) (*models.Baby, error)
	UpdateBaby(ctx context.Context, input service.UpdateBabyInput) (*models.Baby, error)
	DeleteBaby(ctx context.Context, id uuid.UUID) (service.DeleteResult, error)
	UploadAvatar(ctx context.Context, input service.UploadAvatarInput) (service.AvatarUpload, error)
	SignAvatarURL(ctx context.Context, path string, ttl time.Duration) (string, error)
	ListRecordings(ctx context.Context, userID uuid.UUID, babyID *uuid.UUID) ([]models.Recording, error)
	UploadRecording(ctx context.Context, input service.UploadRecordingInput) (*models.Recording, error)
	DeleteRecording(ctx context.Context, id uuid.UUID) (service.DeleteResult, error)
}

// Handlers агрегирует зависимости хендлеров.
type Handlers struct {
	svc      Service
	maxBody  int64
	validate *validator.Validate
}

// New - maxBody <= 0 -> DefaultMaxBodyBytes.
func New(svc Service, maxBody int64) *Handlers {
	if maxBody <= 0 {
		maxBody = DefaultMaxBodyBytes
	}

	return &Handlers{
		svc:      svc,
		maxBody:  maxBody,
		validate: validator.New(),
	}
}

// writeJSON - единый ответ JSON с нужным Content-Type.
// Ошибки выводим через apierrors.WriteError.
func writeJSON(w http.ResponseWriter, status int, value any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(value)
}

// decodeStrict - строгий JSON-декодер: запрещаем неизвестные поля.
// После разбора DTO проверяется тегами validate.
func (h *Handlers) decodeStrict(r *http.Request, value any) error {
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, h.maxBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(value); err != nil {
		return fmt.Errorf("decode: %v: %w", err, apierrors.ErrInvalidRequest)
	}

	if err := h.validate.Struct(value); err != nil {
		return fmt.Errorf("validate: %v: %w", err, apierrors.ErrInvalidRequest)
	}

	return nil
}

// uuidParam разбирает параметр пути как UUID.
func uuidParam(r *http.Request, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		return uuid.Nil, fmt.Errorf("%s: %w", name, apierrors.ErrInvalidRequest)
	}

	return id, nil
}

// fail логирует причину отказа (без утечки наружу) и пишет конверт ошибки.
func fail(w http.ResponseWriter, r *http.Request, err error) {
	logctx.From(r.Context()).Debug("request_failed", "path", r.URL.Path, "err", err)
	apierrors.WriteError(w, r, err)
}

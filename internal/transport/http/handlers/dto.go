package handlers

import (
	"time"

	"github.com/pribylovaa/go-baby-cry/internal/models"
	"github.com/pribylovaa/go-baby-cry/internal/service"
)

const dateLayout = "2006-01-02"

// BabyResponse - строка профиля в snake_case; необязательные поля - null.
type BabyResponse struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Name      string    `json:"name"`
	BirthDate *string   `json:"birth_date"`
	Gender    *string   `json:"gender"`
	Notes     *string   `json:"notes"`
	AvatarURL *string   `json:"avatar_url"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CreateBabyRequest - тело POST /owners/{owner_id}/babies.
type CreateBabyRequest struct {
	Name      string  `json:"name" validate:"required,max=100"`
	BirthDate *string `json:"birth_date" validate:"omitempty,datetime=2006-01-02"`
	Gender    *string `json:"gender" validate:"omitempty,oneof=unspecified male female"`
	Notes     *string `json:"notes" validate:"omitempty,max=2000"`
	AvatarURL *string `json:"avatar_url" validate:"omitempty,max=1024"`
}

// UpdateBabyRequest - тело PATCH /babies/{id}.
// Отсутствующее поле не меняется; "" у необязательных полей - очистка.
type UpdateBabyRequest struct {
	Name      *string `json:"name" validate:"omitempty,max=100"`
	BirthDate *string `json:"birth_date" validate:"omitempty,datetime=2006-01-02"`
	Gender    *string `json:"gender" validate:"omitempty,oneof=unspecified male female"`
	Notes     *string `json:"notes" validate:"omitempty,max=2000"`
	AvatarURL *string `json:"avatar_url" validate:"omitempty,max=1024"`
}

// DeleteResponse - раздельный итог удаления строки и объекта.
type DeleteResponse struct {
	RowDeleted  bool   `json:"row_deleted"`
	BlobDeleted bool   `json:"blob_deleted"`
	BlobError   string `json:"blob_error,omitempty"`
}

type AvatarResponse struct {
	StoragePath string `json:"storage_path"`
	PreviewURL  string `json:"preview_url,omitempty"`
}

type SignRequest struct {
	StoragePath string `json:"storage_path" validate:"required,max=1024"`
	TTLSeconds  int64  `json:"ttl_seconds" validate:"gte=0"`
}

type SignResponse struct {
	URL string `json:"url"`
}

type RecordingResponse struct {
	ID          string         `json:"id"`
	UserID      string         `json:"user_id"`
	BabyID      string         `json:"baby_id"`
	ObjectKey   string         `json:"object_key"`
	URL         string         `json:"url"`
	ContentType string         `json:"content_type"`
	SizeBytes   int64          `json:"size_bytes"`
	Notes       *string        `json:"notes"`
	Meta        map[string]any `json:"meta"`
	CreatedAt   time.Time      `json:"created_at"`
}

func babyFromModel(b *models.Baby) BabyResponse {
	gender := b.Gender.String()

	resp := BabyResponse{
		ID:        b.ID.String(),
		UserID:    b.UserID.String(),
		Name:      b.Name,
		Gender:    &gender,
		Notes:     b.Notes,
		AvatarURL: b.AvatarURL,
		CreatedAt: b.CreatedAt,
		UpdatedAt: b.UpdatedAt,
	}

	if b.BirthDate != nil {
		bd := b.BirthDate.Format(dateLayout)
		resp.BirthDate = &bd
	}

	return resp
}

func babiesFromModels(list []models.Baby) []BabyResponse {
	out := make([]BabyResponse, 0, len(list))
	for i := range list {
		out = append(out, babyFromModel(&list[i]))
	}

	return out
}

func recordingFromModel(r *models.Recording) RecordingResponse {
	meta := r.Meta
	if meta == nil {
		meta = map[string]any{}
	}

	return RecordingResponse{
		ID:          r.ID.String(),
		UserID:      r.UserID.String(),
		BabyID:      r.BabyID.String(),
		ObjectKey:   r.ObjectKey,
		URL:         r.URL,
		ContentType: r.ContentType,
		SizeBytes:   r.SizeBytes,
		Notes:       r.Notes,
		Meta:        meta,
		CreatedAt:   r.CreatedAt,
	}
}

func deleteFromResult(res service.DeleteResult) DeleteResponse {
	resp := DeleteResponse{
		RowDeleted:  res.RowDeleted,
		BlobDeleted: res.BlobDeleted,
	}

	if res.BlobErr != nil {
		resp.BlobError = "blob cleanup failed"
	}

	return resp
}

// parseGender - nil/"" -> GenderUnspecified; значения уже проверены validate.
func parseGender(s *string) models.Gender {
	if s == nil {
		return models.GenderUnspecified
	}

	g, _ := models.ParseGender(*s)
	return g
}

func deref(s *string) string {
	if s == nil {
		return ""
	}

	return *s
}

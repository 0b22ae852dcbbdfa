package handlers

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"net/http"
	"time"

	"github.com/pribylovaa/go-baby-cry/internal/service"
	apierrors "github.com/pribylovaa/go-baby-cry/internal/transport/http/errors"
)

// UploadAvatar принимает сырое тело с Content-Type изображения.
func (h *Handlers) UploadAvatar(w http.ResponseWriter, r *http.Request) {
	owner, err := uuidParam(r, "owner_id")
	if err != nil {
		fail(w, r, err)
		return
	}

	data, err := io.ReadAll(io.LimitReader(r.Body, h.maxBody+1))
	if err != nil {
		fail(w, r, fmt.Errorf("read body: %v: %w", err, apierrors.ErrInvalidRequest))
		return
	}

	if int64(len(data)) > h.maxBody || len(data) == 0 {
		fail(w, r, fmt.Errorf("body size %d: %w", len(data), apierrors.ErrInvalidRequest))
		return
	}

	res, err := h.svc.UploadAvatar(r.Context(), service.UploadAvatarInput{
		UserID:      owner,
		ContentType: r.Header.Get("Content-Type"),
		Size:        int64(len(data)),
		Body:        bytes.NewReader(data),
	})
	if err != nil {
		fail(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, AvatarResponse{
		StoragePath: res.StoragePath,
		PreviewURL:  res.PreviewURL,
	})
}

// SignAvatar обменивает путь в бакете на подписанную ссылку.
// ttl_seconds == 0 - срок по умолчанию.
func (h *Handlers) SignAvatar(w http.ResponseWriter, r *http.Request) {
	var in SignRequest
	if err := h.decodeStrict(r, &in); err != nil {
		fail(w, r, err)
		return
	}

	url, err := h.svc.SignAvatarURL(r.Context(), in.StoragePath, ttlFromSeconds(in.TTLSeconds))
	if err != nil {
		fail(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, SignResponse{URL: url})
}

// ttlFromSeconds переводит секунды в time.Duration с насыщением:
// слишком большой срок становится максимальным, а не переполняется.
// Верхнюю границу затем применяет сервис.
func ttlFromSeconds(sec int64) time.Duration {
	if sec > int64(math.MaxInt64/time.Second) {
		return math.MaxInt64
	}
	return time.Duration(sec) * time.Second
}

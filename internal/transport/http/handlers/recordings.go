package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/pribylovaa/go-baby-cry/internal/service"
	apierrors "github.com/pribylovaa/go-baby-cry/internal/transport/http/errors"
)

// ListRecordings - ?baby_id= сужает выборку до одного профиля.
func (h *Handlers) ListRecordings(w http.ResponseWriter, r *http.Request) {
	owner, err := uuidParam(r, "owner_id")
	if err != nil {
		fail(w, r, err)
		return
	}

	var babyID *uuid.UUID
	if raw := r.URL.Query().Get("baby_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			fail(w, r, fmt.Errorf("baby_id: %w", apierrors.ErrInvalidRequest))
			return
		}
		babyID = &id
	}

	recs, err := h.svc.ListRecordings(r.Context(), owner, babyID)
	if err != nil {
		fail(w, r, err)
		return
	}

	out := make([]RecordingResponse, 0, len(recs))
	for i := range recs {
		out = append(out, recordingFromModel(&recs[i]))
	}

	writeJSON(w, http.StatusOK, out)
}

// UploadRecording принимает сырое тело аудио; ext, notes и meta (JSON-объект)
// приходят в query. id профиля передаётся сервису как есть: временный id
// отклоняется там же с failed_precondition.
func (h *Handlers) UploadRecording(w http.ResponseWriter, r *http.Request) {
	owner, err := uuidParam(r, "owner_id")
	if err != nil {
		fail(w, r, err)
		return
	}

	q := r.URL.Query()

	var meta map[string]any
	if raw := q.Get("meta"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &meta); err != nil {
			fail(w, r, fmt.Errorf("meta: %w", apierrors.ErrInvalidRequest))
			return
		}
	}

	rec, err := h.svc.UploadRecording(r.Context(), service.UploadRecordingInput{
		UserID: owner,
		BabyID: chi.URLParam(r, "id"),
		Ext:    q.Get("ext"),
		Notes:  q.Get("notes"),
		Meta:   meta,
		Body:   http.MaxBytesReader(w, r.Body, h.maxBody),
	})
	if err != nil {
		fail(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, recordingFromModel(rec))
}

func (h *Handlers) DeleteRecording(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "id")
	if err != nil {
		fail(w, r, err)
		return
	}

	res, err := h.svc.DeleteRecording(r.Context(), id)
	if err != nil {
		fail(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, deleteFromResult(res))
}

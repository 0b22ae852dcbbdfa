package handlers

import (
	"net/http"

	"github.com/pribylovaa/go-baby-cry/internal/service"
)

func (h *Handlers) ListBabies(w http.ResponseWriter, r *http.Request) {
	owner, err := uuidParam(r, "owner_id")
	if err != nil {
		fail(w, r, err)
		return
	}

	list, err := h.svc.ListBabies(r.Context(), owner)
	if err != nil {
		fail(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, babiesFromModels(list))
}

func (h *Handlers) CreateBaby(w http.ResponseWriter, r *http.Request) {
	owner, err := uuidParam(r, "owner_id")
	if err != nil {
		fail(w, r, err)
		return
	}

	var in CreateBabyRequest
	if err := h.decodeStrict(r, &in); err != nil {
		fail(w, r, err)
		return
	}

	baby, err := h.svc.CreateBaby(r.Context(), service.CreateBabyInput{
		UserID:    owner,
		Name:      in.Name,
		BirthDate: deref(in.BirthDate),
		Gender:    parseGender(in.Gender),
		Notes:     deref(in.Notes),
		AvatarURL: deref(in.AvatarURL),
	})
	if err != nil {
		fail(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, babyFromModel(baby))
}

func (h *Handlers) GetBaby(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "id")
	if err != nil {
		fail(w, r, err)
		return
	}

	baby, err := h.svc.BabyByID(r.Context(), id)
	if err != nil {
		fail(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, babyFromModel(baby))
}

func (h *Handlers) UpdateBaby(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "id")
	if err != nil {
		fail(w, r, err)
		return
	}

	var in UpdateBabyRequest
	if err := h.decodeStrict(r, &in); err != nil {
		fail(w, r, err)
		return
	}

	input := service.UpdateBabyInput{
		ID:        id,
		Name:      in.Name,
		BirthDate: in.BirthDate,
		Notes:     in.Notes,
		AvatarURL: in.AvatarURL,
	}
	if in.Gender != nil {
		g := parseGender(in.Gender)
		input.Gender = &g
	}

	baby, err := h.svc.UpdateBaby(r.Context(), input)
	if err != nil {
		fail(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, babyFromModel(baby))
}

// DeleteBaby - 200 с обоими флагами даже при сбое очистки аватара;
// ошибка удаления строки уходит конвертом ошибки.
func (h *Handlers) DeleteBaby(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "id")
	if err != nil {
		fail(w, r, err)
		return
	}

	res, err := h.svc.DeleteBaby(r.Context(), id)
	if err != nil {
		fail(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, deleteFromResult(res))
}


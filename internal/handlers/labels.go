package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/TheiTango/Mayobe-Bros/internal/models"
	"github.com/TheiTango/Mayobe-Bros/internal/store"
)

type LabelsHandler struct {
	store *store.Store
}

func NewLabelsHandler(s *store.Store) *LabelsHandler {
	return &LabelsHandler{store: s}
}

func (h *LabelsHandler) List(w http.ResponseWriter, r *http.Request) {
	labels, err := h.store.ListLabels(r.Context(), r.URL.Query().Get("categoryId"))
	if err != nil {
		respondStoreError(w, err, "failed to fetch labels")
		return
	}
	if labels == nil {
		labels = []models.Label{}
	}
	respondJSON(w, http.StatusOK, labels)
}

func (h *LabelsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var label models.Label
	if err := json.NewDecoder(r.Body).Decode(&label); err != nil {
		respondError(w, http.StatusBadRequest, "invalid body")
		return
	}
	if label.Name == "" {
		respondError(w, http.StatusBadRequest, "name is required")
		return
	}
	created, err := h.store.CreateLabel(r.Context(), label)
	if err != nil {
		respondStoreError(w, err, "failed to create label")
		return
	}
	respondJSON(w, http.StatusCreated, created)
}

func (h *LabelsHandler) Update(w http.ResponseWriter, r *http.Request) {
	patch, err := readPatch(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid body")
		return
	}
	updated, err := h.store.UpdateLabel(r.Context(), chi.URLParam(r, "id"), patch)
	if err != nil {
		respondStoreError(w, err, "failed to update label")
		return
	}
	respondJSON(w, http.StatusOK, updated)
}

func (h *LabelsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.store.DeleteLabel(r.Context(), chi.URLParam(r, "id")); err != nil {
		respondStoreError(w, err, "failed to delete label")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "label deleted"})
}

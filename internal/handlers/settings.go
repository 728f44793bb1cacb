package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/TheiTango/Mayobe-Bros/internal/store"
)

type SettingsHandler struct {
	store *store.Store
}

func NewSettingsHandler(s *store.Store) *SettingsHandler {
	return &SettingsHandler{store: s}
}

func (h *SettingsHandler) Get(w http.ResponseWriter, r *http.Request) {
	settings, err := h.store.GetSettings(r.Context())
	if err != nil {
		respondStoreError(w, err, "failed to fetch settings")
		return
	}
	respondJSON(w, http.StatusOK, settings)
}

// Replace overwrites the settings object wholesale with the request
// body.
func (h *SettingsHandler) Replace(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil || !json.Valid(body) {
		respondError(w, http.StatusBadRequest, "invalid body")
		return
	}
	if err := h.store.ReplaceSettings(r.Context(), body); err != nil {
		respondStoreError(w, err, "failed to update settings")
		return
	}
	respondJSON(w, http.StatusOK, json.RawMessage(body))
}

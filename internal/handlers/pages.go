package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/TheiTango/Mayobe-Bros/internal/models"
	"github.com/TheiTango/Mayobe-Bros/internal/store"
)

type PagesHandler struct {
	store *store.Store
}

func NewPagesHandler(s *store.Store) *PagesHandler {
	return &PagesHandler{store: s}
}

func (h *PagesHandler) List(w http.ResponseWriter, r *http.Request) {
	pages, err := h.store.ListPages(r.Context(), r.URL.Query().Get("status"))
	if err != nil {
		respondStoreError(w, err, "failed to fetch pages")
		return
	}
	if pages == nil {
		pages = []models.Page{}
	}
	respondJSON(w, http.StatusOK, pages)
}

func (h *PagesHandler) Get(w http.ResponseWriter, r *http.Request) {
	page, err := h.store.GetPageBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		respondStoreError(w, err, "failed to fetch page")
		return
	}
	respondJSON(w, http.StatusOK, page)
}

func (h *PagesHandler) Create(w http.ResponseWriter, r *http.Request) {
	var page models.Page
	if err := json.NewDecoder(r.Body).Decode(&page); err != nil {
		respondError(w, http.StatusBadRequest, "invalid body")
		return
	}
	if page.Title == "" && page.Slug == "" {
		respondError(w, http.StatusBadRequest, "title or slug is required")
		return
	}
	created, err := h.store.CreatePage(r.Context(), page)
	if err != nil {
		respondStoreError(w, err, "failed to create page")
		return
	}
	respondJSON(w, http.StatusCreated, created)
}

func (h *PagesHandler) Update(w http.ResponseWriter, r *http.Request) {
	patch, err := readPatch(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid body")
		return
	}
	updated, err := h.store.UpdatePage(r.Context(), chi.URLParam(r, "slug"), patch)
	if err != nil {
		respondStoreError(w, err, "failed to update page")
		return
	}
	respondJSON(w, http.StatusOK, updated)
}

func (h *PagesHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.store.DeletePage(r.Context(), chi.URLParam(r, "slug")); err != nil {
		respondStoreError(w, err, "failed to delete page")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "page deleted"})
}

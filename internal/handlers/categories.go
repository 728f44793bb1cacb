package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/TheiTango/Mayobe-Bros/internal/models"
	"github.com/TheiTango/Mayobe-Bros/internal/store"
)

type CategoriesHandler struct {
	store *store.Store
}

func NewCategoriesHandler(s *store.Store) *CategoriesHandler {
	return &CategoriesHandler{store: s}
}

func (h *CategoriesHandler) List(w http.ResponseWriter, r *http.Request) {
	categories, err := h.store.ListCategories(r.Context())
	if err != nil {
		respondStoreError(w, err, "failed to fetch categories")
		return
	}
	if categories == nil {
		categories = []models.Category{}
	}
	respondJSON(w, http.StatusOK, categories)
}

func (h *CategoriesHandler) Create(w http.ResponseWriter, r *http.Request) {
	var category models.Category
	if err := json.NewDecoder(r.Body).Decode(&category); err != nil {
		respondError(w, http.StatusBadRequest, "invalid body")
		return
	}
	if category.Name == "" {
		respondError(w, http.StatusBadRequest, "name is required")
		return
	}
	created, err := h.store.CreateCategory(r.Context(), category)
	if err != nil {
		respondStoreError(w, err, "failed to create category")
		return
	}
	respondJSON(w, http.StatusCreated, created)
}

func (h *CategoriesHandler) Update(w http.ResponseWriter, r *http.Request) {
	patch, err := readPatch(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid body")
		return
	}
	updated, err := h.store.UpdateCategory(r.Context(), chi.URLParam(r, "id"), patch)
	if err != nil {
		respondStoreError(w, err, "failed to update category")
		return
	}
	respondJSON(w, http.StatusOK, updated)
}

func (h *CategoriesHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.store.DeleteCategory(r.Context(), chi.URLParam(r, "id")); err != nil {
		respondStoreError(w, err, "failed to delete category")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "category deleted"})
}

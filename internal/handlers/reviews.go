package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/TheiTango/Mayobe-Bros/internal/models"
	"github.com/TheiTango/Mayobe-Bros/internal/store"
)

type ReviewsHandler struct {
	store *store.Store
}

func NewReviewsHandler(s *store.Store) *ReviewsHandler {
	return &ReviewsHandler{store: s}
}

func (h *ReviewsHandler) List(w http.ResponseWriter, r *http.Request) {
	reviews, err := h.store.ListReviews(r.Context(), r.URL.Query().Get("status"), viewerFrom(r))
	if err != nil {
		respondStoreError(w, err, "failed to fetch reviews")
		return
	}
	if reviews == nil {
		reviews = []models.Review{}
	}
	respondJSON(w, http.StatusOK, reviews)
}

func (h *ReviewsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var review models.Review
	if err := json.NewDecoder(r.Body).Decode(&review); err != nil {
		respondError(w, http.StatusBadRequest, "invalid body")
		return
	}
	if review.Author == "" || review.Content == "" {
		respondError(w, http.StatusBadRequest, "author and content are required")
		return
	}
	created, err := h.store.CreateReview(r.Context(), review)
	if err != nil {
		respondStoreError(w, err, "failed to create review")
		return
	}
	respondJSON(w, http.StatusCreated, created)
}

func (h *ReviewsHandler) Update(w http.ResponseWriter, r *http.Request) {
	patch, err := readPatch(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid body")
		return
	}
	updated, err := h.store.UpdateReview(r.Context(), chi.URLParam(r, "id"), patch)
	if err != nil {
		respondStoreError(w, err, "failed to update review")
		return
	}
	respondJSON(w, http.StatusOK, updated)
}

func (h *ReviewsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.store.DeleteReview(r.Context(), chi.URLParam(r, "id")); err != nil {
		respondStoreError(w, err, "failed to delete review")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "review deleted"})
}

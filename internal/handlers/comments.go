package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/TheiTango/Mayobe-Bros/internal/models"
	"github.com/TheiTango/Mayobe-Bros/internal/store"
)

type CommentsHandler struct {
	store *store.Store
}

func NewCommentsHandler(s *store.Store) *CommentsHandler {
	return &CommentsHandler{store: s}
}

func (h *CommentsHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	comments, err := h.store.ListComments(r.Context(), store.CommentFilter{
		PostID: q.Get("postId"),
		Status: q.Get("status"),
	}, viewerFrom(r))
	if err != nil {
		respondStoreError(w, err, "failed to fetch comments")
		return
	}
	if comments == nil {
		comments = []models.Comment{}
	}
	respondJSON(w, http.StatusOK, comments)
}

// Create is the public comment path. Whatever status the caller sends,
// the stored comment starts out pending.
func (h *CommentsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var comment models.Comment
	if err := json.NewDecoder(r.Body).Decode(&comment); err != nil {
		respondError(w, http.StatusBadRequest, "invalid body")
		return
	}
	if comment.Author == "" || comment.Content == "" {
		respondError(w, http.StatusBadRequest, "author and content are required")
		return
	}
	created, err := h.store.CreateComment(r.Context(), comment)
	if err != nil {
		respondStoreError(w, err, "failed to create comment")
		return
	}
	respondJSON(w, http.StatusCreated, created)
}

func (h *CommentsHandler) Update(w http.ResponseWriter, r *http.Request) {
	patch, err := readPatch(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid body")
		return
	}
	updated, err := h.store.UpdateComment(r.Context(), chi.URLParam(r, "id"), patch)
	if err != nil {
		respondStoreError(w, err, "failed to update comment")
		return
	}
	respondJSON(w, http.StatusOK, updated)
}

func (h *CommentsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.store.DeleteComment(r.Context(), chi.URLParam(r, "id")); err != nil {
		respondStoreError(w, err, "failed to delete comment")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "comment deleted"})
}

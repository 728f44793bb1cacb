package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/TheiTango/Mayobe-Bros/internal/models"
	"github.com/TheiTango/Mayobe-Bros/internal/store"
)

type PostsHandler struct {
	store *store.Store
}

func NewPostsHandler(s *store.Store) *PostsHandler {
	return &PostsHandler{store: s}
}

func (h *PostsHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	posts, err := h.store.ListPosts(r.Context(), store.PostFilter{
		Status:     q.Get("status"),
		CategoryID: q.Get("category"),
		LabelID:    q.Get("label"),
		Search:     q.Get("search"),
	})
	if err != nil {
		respondStoreError(w, err, "failed to fetch posts")
		return
	}
	if posts == nil {
		posts = []models.Post{}
	}
	respondJSON(w, http.StatusOK, posts)
}

func (h *PostsHandler) Get(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	post, err := h.store.GetPostBySlug(r.Context(), slug)
	if err != nil {
		respondStoreError(w, err, "failed to fetch post")
		return
	}
	respondJSON(w, http.StatusOK, post)
}

func (h *PostsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var post models.Post
	if err := json.NewDecoder(r.Body).Decode(&post); err != nil {
		respondError(w, http.StatusBadRequest, "invalid body")
		return
	}
	if post.Title == "" && post.Slug == "" {
		respondError(w, http.StatusBadRequest, "title or slug is required")
		return
	}
	created, err := h.store.CreatePost(r.Context(), post)
	if err != nil {
		respondStoreError(w, err, "failed to create post")
		return
	}
	respondJSON(w, http.StatusCreated, created)
}

func (h *PostsHandler) Update(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	patch, err := readPatch(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid body")
		return
	}
	updated, err := h.store.UpdatePost(r.Context(), slug, patch)
	if err != nil {
		respondStoreError(w, err, "failed to update post")
		return
	}
	respondJSON(w, http.StatusOK, updated)
}

func (h *PostsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	if err := h.store.DeletePost(r.Context(), slug); err != nil {
		respondStoreError(w, err, "failed to delete post")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "post deleted"})
}

package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/TheiTango/Mayobe-Bros/internal/auth"
	"github.com/TheiTango/Mayobe-Bros/internal/models"
	"github.com/TheiTango/Mayobe-Bros/internal/store"
)

type AuthHandler struct {
	store    *store.Store
	sessions *auth.Sessions
}

func NewAuthHandler(s *store.Store, sessions *auth.Sessions) *AuthHandler {
	return &AuthHandler{store: s, sessions: sessions}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type sessionResponse struct {
	User *models.UserSummary `json:"user"`
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid body")
		return
	}
	if req.Email == "" || req.Password == "" {
		respondError(w, http.StatusBadRequest, "email and password are required")
		return
	}

	user, err := h.store.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, store.ErrInvalidCredentials) {
			respondError(w, http.StatusUnauthorized, "invalid email or password")
			return
		}
		log.Printf("login: %v", err)
		respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	token, err := h.sessions.Issue(user.ID, user.Email)
	if err != nil {
		log.Printf("issue session: %v", err)
		respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     auth.CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(auth.SessionDuration.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	summary := user.Summary()
	respondJSON(w, http.StatusOK, sessionResponse{User: &summary})
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(auth.CookieName); err == nil {
		h.sessions.Revoke(cookie.Value)
	}
	http.SetCookie(w, &http.Cookie{
		Name:     auth.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	respondJSON(w, http.StatusOK, map[string]string{"message": "logged out"})
}

// Session reports the current user. Being logged out is not an error
// condition here beyond the 401 status; the body always parses.
func (h *AuthHandler) Session(w http.ResponseWriter, r *http.Request) {
	session, ok := auth.FromContext(r.Context())
	if !ok {
		respondJSON(w, http.StatusUnauthorized, sessionResponse{User: nil})
		return
	}

	user, err := h.store.GetUserByID(r.Context(), session.UserID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			respondJSON(w, http.StatusUnauthorized, sessionResponse{User: nil})
			return
		}
		log.Printf("session lookup: %v", err)
		respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	summary := user.Summary()
	respondJSON(w, http.StatusOK, sessionResponse{User: &summary})
}

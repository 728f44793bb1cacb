package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/TheiTango/Mayobe-Bros/internal/auth"
	appmiddleware "github.com/TheiTango/Mayobe-Bros/internal/middleware"
	"github.com/TheiTango/Mayobe-Bros/internal/models"
	"github.com/TheiTango/Mayobe-Bros/internal/store"
)

type testServer struct {
	store    *store.Store
	sessions *auth.Sessions
	router   chi.Router
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	st, err := store.New(t.TempDir())
	if err != nil {
		t.Fatalf("store.New: %v", err)
	}
	if err := st.EnsureAdminUser(context.Background(), "admin@example.com", "s3cret"); err != nil {
		t.Fatalf("EnsureAdminUser: %v", err)
	}
	sessions := auth.NewSessions("test-secret")

	authHandler := NewAuthHandler(st, sessions)
	postsHandler := NewPostsHandler(st)
	categoriesHandler := NewCategoriesHandler(st)
	commentsHandler := NewCommentsHandler(st)
	reviewsHandler := NewReviewsHandler(st)
	settingsHandler := NewSettingsHandler(st)

	r := chi.NewRouter()
	r.Route("/api", func(r chi.Router) {
		r.Use(appmiddleware.Session(sessions))

		r.Post("/auth/login", authHandler.Login)
		r.Post("/auth/logout", authHandler.Logout)
		r.Get("/auth/session", authHandler.Session)

		r.Get("/posts", postsHandler.List)
		r.Get("/posts/{slug}", postsHandler.Get)
		r.Get("/categories", categoriesHandler.List)
		r.Get("/comments", commentsHandler.List)
		r.Get("/reviews", reviewsHandler.List)
		r.Get("/settings", settingsHandler.Get)

		r.Post("/comments", commentsHandler.Create)
		r.Post("/reviews", reviewsHandler.Create)

		r.Group(func(r chi.Router) {
			r.Use(appmiddleware.RequireAuth)
			r.Post("/posts", postsHandler.Create)
			r.Put("/posts/{slug}", postsHandler.Update)
			r.Delete("/posts/{slug}", postsHandler.Delete)
			r.Post("/categories", categoriesHandler.Create)
			r.Put("/comments/{id}", commentsHandler.Update)
			r.Delete("/reviews/{id}", reviewsHandler.Delete)
			r.Put("/settings", settingsHandler.Replace)
		})
	})

	return &testServer{store: st, sessions: sessions, router: r}
}

func (ts *testServer) do(t *testing.T, method, path string, body string, cookie *http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	ts.router.ServeHTTP(rec, req)
	return rec
}

func (ts *testServer) login(t *testing.T) *http.Cookie {
	t.Helper()
	rec := ts.do(t, http.MethodPost, "/api/auth/login", `{"email":"admin@example.com","password":"s3cret"}`, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("login status = %d, body %s", rec.Code, rec.Body)
	}
	for _, c := range rec.Result().Cookies() {
		if c.Name == auth.CookieName {
			return c
		}
	}
	t.Fatal("login response carried no session cookie")
	return nil
}

func TestMutationWithoutSessionRejected(t *testing.T) {
	ts := newTestServer(t)

	// Pre-populate the categories file so we can check it stays
	// byte-for-byte untouched.
	cookie := ts.login(t)
	rec := ts.do(t, http.MethodPost, "/api/categories", `{"name":"Existing"}`, cookie)
	if rec.Code != http.StatusCreated {
		t.Fatalf("seed category status = %d", rec.Code)
	}
	path := filepath.Join(ts.store.Dir(), "categories", "categories.json")
	before, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	rec = ts.do(t, http.MethodPost, "/api/categories", `{"name":"Sneaky"}`, nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("anonymous create status = %d, want 401", rec.Code)
	}
	rec = ts.do(t, http.MethodPost, "/api/posts", `{"title":"Sneaky"}`, nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("anonymous post create status = %d, want 401", rec.Code)
	}

	after, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(before, after) {
		t.Error("rejected mutation modified the collection file")
	}
}

func TestLoginSessionLogoutFlow(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodPost, "/api/auth/login", `{"email":"admin@example.com","password":"wrong"}`, nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("bad password status = %d, want 401", rec.Code)
	}
	rec = ts.do(t, http.MethodPost, "/api/auth/login", `{"email":"admin@example.com"}`, nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("missing password status = %d, want 400", rec.Code)
	}

	cookie := ts.login(t)

	rec = ts.do(t, http.MethodGet, "/api/auth/session", "", cookie)
	if rec.Code != http.StatusOK {
		t.Fatalf("session status = %d", rec.Code)
	}
	var body struct {
		User *models.UserSummary `json:"user"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body.User == nil || body.User.Email != "admin@example.com" {
		t.Fatalf("session body = %s", rec.Body)
	}

	rec = ts.do(t, http.MethodPost, "/api/auth/logout", "", cookie)
	if rec.Code != http.StatusOK {
		t.Fatalf("logout status = %d", rec.Code)
	}

	// The cookie is dead once the server-side session is gone.
	rec = ts.do(t, http.MethodGet, "/api/auth/session", "", cookie)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("session after logout = %d, want 401", rec.Code)
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("session body after logout unparseable: %v", err)
	}
	if body.User != nil {
		t.Errorf("session after logout still carries a user: %s", rec.Body)
	}
}

func TestAnonymousSessionQuery(t *testing.T) {
	ts := newTestServer(t)
	rec := ts.do(t, http.MethodGet, "/api/auth/session", "", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"user":null`) {
		t.Errorf("body = %s, want explicit null user", rec.Body)
	}
}

func TestCommentModerationOverHTTP(t *testing.T) {
	ts := newTestServer(t)

	// Attempting to self-approve must still land in moderation.
	rec := ts.do(t, http.MethodPost, "/api/comments", `{"postId":"post-1","author":"eve","email":"e@x.y","content":"hi","status":"approved"}`, nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create comment status = %d, body %s", rec.Code, rec.Body)
	}
	var created models.Comment
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatal(err)
	}
	if created.Status != models.StatusPending {
		t.Fatalf("created status = %q, want pending", created.Status)
	}

	// Anonymous list hides it; staff list shows it.
	rec = ts.do(t, http.MethodGet, "/api/comments", "", nil)
	var anonymous []models.Comment
	if err := json.Unmarshal(rec.Body.Bytes(), &anonymous); err != nil {
		t.Fatal(err)
	}
	if len(anonymous) != 0 {
		t.Errorf("anonymous list = %+v, want empty", anonymous)
	}

	cookie := ts.login(t)
	rec = ts.do(t, http.MethodGet, "/api/comments", "", cookie)
	var staff []models.Comment
	if err := json.Unmarshal(rec.Body.Bytes(), &staff); err != nil {
		t.Fatal(err)
	}
	if len(staff) != 1 || staff[0].ID != created.ID {
		t.Errorf("staff list = %+v", staff)
	}

	// Approve it and the public can see it.
	rec = ts.do(t, http.MethodPut, "/api/comments/"+created.ID, `{"status":"approved"}`, cookie)
	if rec.Code != http.StatusOK {
		t.Fatalf("approve status = %d", rec.Code)
	}
	rec = ts.do(t, http.MethodGet, "/api/comments", "", nil)
	if err := json.Unmarshal(rec.Body.Bytes(), &anonymous); err != nil {
		t.Fatal(err)
	}
	if len(anonymous) != 1 {
		t.Errorf("anonymous list after approval = %+v", anonymous)
	}
}

func TestReviewDeleteOverHTTP(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodPost, "/api/reviews", `{"author":"pat","content":"great","rating":5,"status":"approved"}`, nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create review status = %d, body %s", rec.Code, rec.Body)
	}
	var created models.Review
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatal(err)
	}

	cookie := ts.login(t)
	rec = ts.do(t, http.MethodDelete, "/api/reviews/"+created.ID, "", cookie)
	if rec.Code != http.StatusOK {
		t.Fatalf("delete status = %d", rec.Code)
	}

	rec = ts.do(t, http.MethodGet, "/api/reviews", "", cookie)
	var reviews []models.Review
	if err := json.Unmarshal(rec.Body.Bytes(), &reviews); err != nil {
		t.Fatal(err)
	}
	for _, r := range reviews {
		if r.ID == created.ID {
			t.Fatalf("deleted review %s still listed", created.ID)
		}
	}
}

func TestPostCrudOverHTTP(t *testing.T) {
	ts := newTestServer(t)
	cookie := ts.login(t)

	rec := ts.do(t, http.MethodPost, "/api/posts", `{"title":"First Post","content":"hello","status":"published"}`, cookie)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body %s", rec.Code, rec.Body)
	}
	var created models.Post
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatal(err)
	}
	if created.Slug != "first-post" {
		t.Fatalf("slug = %q", created.Slug)
	}

	rec = ts.do(t, http.MethodGet, "/api/posts/first-post", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("get status = %d", rec.Code)
	}

	rec = ts.do(t, http.MethodPut, "/api/posts/first-post", `{"slug":"renamed-post"}`, cookie)
	if rec.Code != http.StatusOK {
		t.Fatalf("rename status = %d, body %s", rec.Code, rec.Body)
	}
	rec = ts.do(t, http.MethodGet, "/api/posts/first-post", "", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("old slug status = %d, want 404", rec.Code)
	}
	rec = ts.do(t, http.MethodGet, "/api/posts/renamed-post", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("new slug status = %d", rec.Code)
	}

	rec = ts.do(t, http.MethodDelete, "/api/posts/renamed-post", "", cookie)
	if rec.Code != http.StatusOK {
		t.Fatalf("delete status = %d", rec.Code)
	}
	rec = ts.do(t, http.MethodDelete, "/api/posts/renamed-post", "", cookie)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("second delete status = %d, want 404", rec.Code)
	}
}

func TestUpdateRejectsNonObjectPatch(t *testing.T) {
	ts := newTestServer(t)
	cookie := ts.login(t)

	rec := ts.do(t, http.MethodPost, "/api/posts", `{"title":"Patch Target","status":"published"}`, cookie)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d", rec.Code)
	}

	// Valid JSON that is not an object cannot be merged and must be a
	// caller error, not a 500.
	for _, body := range []string{`[1]`, `"x"`, `42`, `null`} {
		rec = ts.do(t, http.MethodPut, "/api/posts/patch-target", body, cookie)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("PUT posts with %s = %d, want 400", body, rec.Code)
		}
	}
	rec = ts.do(t, http.MethodPut, "/api/comments/comment-x", `[1]`, cookie)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("PUT comments with array = %d, want 400", rec.Code)
	}

	// The record is untouched after the rejected patches.
	rec = ts.do(t, http.MethodGet, "/api/posts/patch-target", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("get after rejected patches = %d", rec.Code)
	}
}

func TestSettingsOverHTTP(t *testing.T) {
	ts := newTestServer(t)
	cookie := ts.login(t)

	rec := ts.do(t, http.MethodPut, "/api/settings", `{"siteTitle":"Mayobe Bros"}`, cookie)
	if rec.Code != http.StatusOK {
		t.Fatalf("put settings status = %d", rec.Code)
	}
	rec = ts.do(t, http.MethodGet, "/api/settings", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("get settings status = %d", rec.Code)
	}
	var settings map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &settings); err != nil {
		t.Fatal(err)
	}
	if settings["siteTitle"] != "Mayobe Bros" {
		t.Errorf("settings = %v", settings)
	}

	rec = ts.do(t, http.MethodPut, "/api/settings", `{"siteTitle":`, cookie)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("invalid settings body status = %d, want 400", rec.Code)
	}
}

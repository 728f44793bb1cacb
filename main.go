package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/TheiTango/Mayobe-Bros/internal/auth"
	"github.com/TheiTango/Mayobe-Bros/internal/config"
	"github.com/TheiTango/Mayobe-Bros/internal/handlers"
	appmiddleware "github.com/TheiTango/Mayobe-Bros/internal/middleware"
	"github.com/TheiTango/Mayobe-Bros/internal/store"
)

func main() {
	cfg := config.Load()

	st, err := store.New(cfg.DataDir)
	if err != nil {
		log.Fatalf("open store: %v", err)
	}

	adminPassword := cfg.AdminPassword
	if adminPassword == "" {
		adminPassword = "admin123"
		log.Printf("ADMIN_PASSWORD not set, using the default")
	}
	if err := st.EnsureAdminUser(context.Background(), cfg.AdminEmail, adminPassword); err != nil {
		log.Fatalf("seed admin user: %v", err)
	}

	sessions := auth.NewSessions(cfg.SessionSecret)

	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.New(cors.Options{
		AllowedOrigins:   cfg.CorsAllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}).Handler)

	authHandler := handlers.NewAuthHandler(st, sessions)
	postsHandler := handlers.NewPostsHandler(st)
	pagesHandler := handlers.NewPagesHandler(st)
	categoriesHandler := handlers.NewCategoriesHandler(st)
	labelsHandler := handlers.NewLabelsHandler(st)
	commentsHandler := handlers.NewCommentsHandler(st)
	reviewsHandler := handlers.NewReviewsHandler(st)
	settingsHandler := handlers.NewSettingsHandler(st)
	imagesHandler := handlers.NewImagesHandler(cfg.DataDir)

	r.Handle("/data/images/*", imagesHandler.Serve())

	r.Route("/api", func(r chi.Router) {
		r.Use(appmiddleware.Session(sessions))

		r.Get("/health", handlers.Health)

		// 5 login attempts per minute per IP
		loginLimiter := appmiddleware.NewRateLimiter(5, time.Minute)
		r.With(loginLimiter.Limit).Post("/auth/login", authHandler.Login)
		r.Post("/auth/logout", authHandler.Logout)
		r.Get("/auth/session", authHandler.Session)

		// 30 requests per minute per IP on the public read surface
		publicLimiter := appmiddleware.NewRateLimiter(30, time.Minute)
		r.With(publicLimiter.Limit).Get("/posts", postsHandler.List)
		r.Get("/posts/{slug}", postsHandler.Get)
		r.Get("/pages", pagesHandler.List)
		r.Get("/pages/{slug}", pagesHandler.Get)
		r.Get("/categories", categoriesHandler.List)
		r.Get("/labels", labelsHandler.List)
		r.Get("/comments", commentsHandler.List)
		r.Get("/reviews", reviewsHandler.List)
		r.Get("/settings", settingsHandler.Get)

		// Public submission paths. Comments are forced into moderation.
		r.Post("/comments", commentsHandler.Create)
		r.Post("/reviews", reviewsHandler.Create)

		// Everything mutating sits behind the session gate.
		r.Group(func(r chi.Router) {
			r.Use(appmiddleware.RequireAuth)

			r.Post("/posts", postsHandler.Create)
			r.Put("/posts/{slug}", postsHandler.Update)
			r.Delete("/posts/{slug}", postsHandler.Delete)

			r.Post("/pages", pagesHandler.Create)
			r.Put("/pages/{slug}", pagesHandler.Update)
			r.Delete("/pages/{slug}", pagesHandler.Delete)

			r.Post("/categories", categoriesHandler.Create)
			r.Put("/categories/{id}", categoriesHandler.Update)
			r.Delete("/categories/{id}", categoriesHandler.Delete)

			r.Post("/labels", labelsHandler.Create)
			r.Put("/labels/{id}", labelsHandler.Update)
			r.Delete("/labels/{id}", labelsHandler.Delete)

			r.Put("/comments/{id}", commentsHandler.Update)
			r.Delete("/comments/{id}", commentsHandler.Delete)

			r.Put("/reviews/{id}", reviewsHandler.Update)
			r.Delete("/reviews/{id}", reviewsHandler.Delete)

			r.Put("/settings", settingsHandler.Replace)

			r.Post("/images/upload", imagesHandler.Upload)
			r.Get("/images", imagesHandler.List)
			r.Delete("/images/{filename}", imagesHandler.Delete)
		})
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("listening on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown error: %v", err)
	}
}

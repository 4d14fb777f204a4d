package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	"github.com/joho/godotenv"

	"github.com/bomalink/bomalink/internal/config"
	"github.com/bomalink/bomalink/internal/db"
	"github.com/bomalink/bomalink/internal/handlers"
	"github.com/bomalink/bomalink/internal/mailer"
	"github.com/bomalink/bomalink/internal/middleware"
	"github.com/bomalink/bomalink/internal/storage"
)

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Info("no .env file found")
	}

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	cfg, err := config.Load()
	if err != nil {
		slog.Error("config", "error", err)
		os.Exit(1)
	}

	dbConn, err := db.Connect(cfg.DatabaseURL)
	if err != nil {
		slog.Error("db connect", "error", err)
		os.Exit(1)
	}
	defer dbConn.Close()

	if err := db.Migrate(context.Background(), dbConn); err != nil {
		slog.Error("db migrate", "error", err)
		os.Exit(1)
	}

	files, err := storage.New(cfg)
	if err != nil {
		slog.Error("storage", "error", err)
		os.Exit(1)
	}

	h := handlers.NewHandler(dbConn, cfg, mailer.NewSMTP(cfg), files)

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)

	r.Route("/api", func(r chi.Router) {
		r.Use(httprate.LimitByIP(cfg.RateLimitRequests, cfg.RateLimitWindow))
		r.Use(middleware.ResolveCaller(cfg.AccessSecret))

		// Public
		r.Post("/auth/signup", h.Auth.SignUp)
		r.Post("/auth/login", h.Auth.Login)
		r.Post("/auth/refresh", h.Auth.Refresh)
		r.Post("/auth/forgot-password", h.Auth.ForgotPassword)
		r.Post("/auth/reset-password", h.Auth.ResetPassword)

		r.Get("/properties", h.Properties.GetProperties)
		r.Get("/properties/{id}", h.Properties.GetPropertyByID)
		r.Get("/jobs", h.Jobs.GetJobs)
		r.Get("/jobs/{id}", h.Jobs.GetJobByID)
		r.Post("/contact", h.Contacts.Create)

		// Authenticated
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth)

			r.Get("/auth/me", h.Auth.Me)
			r.Post("/auth/logout", h.Auth.Logout)

			r.Post("/properties", h.Properties.CreateProperty)
			r.Put("/properties/{id}", h.Properties.UpdateProperty)
			r.Delete("/properties/{id}", h.Properties.DeleteProperty)

			r.Post("/jobs", h.Jobs.CreateJob)
			r.Put("/jobs/{id}", h.Jobs.UpdateJob)
			r.Delete("/jobs/{id}", h.Jobs.DeleteJob)

			r.Post("/applications", h.Applications.Create)
			r.Get("/applications", h.Applications.List)

			r.Post("/upload", h.Uploads.Upload)

			// Admin (role checked per handler by the mutation gate)
			r.Route("/admin", func(r chi.Router) {
				r.Get("/properties", h.Properties.AdminList)
				r.Patch("/properties", h.Properties.AdminModerate)
				r.Delete("/properties/{id}", h.Properties.AdminDelete)

				r.Get("/applications", h.Applications.AdminList)
				r.Patch("/applications", h.Applications.AdminUpdateStatus)
				r.Delete("/applications/{id}", h.Applications.AdminDelete)

				r.Get("/contacts", h.Contacts.AdminList)
				r.Patch("/contacts/{id}", h.Contacts.AdminUpdateStatus)
				r.Delete("/contacts/{id}", h.Contacts.AdminDelete)

				r.Get("/users", h.Users.AdminList)
				r.Patch("/users/{id}", h.Users.AdminChangeRole)

				r.Get("/stats", h.Stats.Get)
			})
		})
	})

	// locally stored uploads are served from the same process
	if !cfg.S3Configured() {
		fs := http.StripPrefix("/uploads/", http.FileServer(http.Dir(cfg.UploadDir)))
		r.Get("/uploads/*", fs.ServeHTTP)
	}

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		slog.Info("listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("listen", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	slog.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server exited")
}

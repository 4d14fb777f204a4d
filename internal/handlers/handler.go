package handlers

import (
	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"

	"github.com/bomalink/bomalink/internal/config"
	"github.com/bomalink/bomalink/internal/mailer"
	"github.com/bomalink/bomalink/internal/storage"
)

// validate checks request bodies against their struct tags.
var validate = validator.New()

type Handler struct {
	DB           *sqlx.DB
	Auth         *AuthHandler
	Properties   *PropertyHandler
	Jobs         *JobHandler
	Applications *ApplicationHandler
	Contacts     *ContactHandler
	Users        *UserHandler
	Stats        *StatsHandler
	Uploads      *UploadHandler
}

func NewHandler(db *sqlx.DB, cfg *config.Config, m mailer.Mailer, files storage.FileStore) *Handler {
	return &Handler{
		DB:           db,
		Auth:         NewAuthHandler(db, cfg, m),
		Properties:   NewPropertyHandler(db),
		Jobs:         NewJobHandler(db),
		Applications: NewApplicationHandler(db, files),
		Contacts:     NewContactHandler(db),
		Users:        NewUserHandler(db),
		Stats:        NewStatsHandler(db),
		Uploads:      NewUploadHandler(files),
	}
}

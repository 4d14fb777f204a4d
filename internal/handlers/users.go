package handlers

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jmoiron/sqlx"

	"github.com/bomalink/bomalink/internal/authz"
	"github.com/bomalink/bomalink/internal/models"
	"github.com/bomalink/bomalink/internal/utils"
)

type UserHandler struct {
	DB *sqlx.DB
}

func NewUserHandler(db *sqlx.DB) *UserHandler {
	return &UserHandler{DB: db}
}

// ---------------------- ADMIN: LIST ----------------------

func (h *UserHandler) AdminList(w http.ResponseWriter, r *http.Request) {
	caller := utils.Caller(r.Context())
	if err := authz.CanViewAdmin(caller); err != nil {
		utils.AuthzError(w, err)
		return
	}

	users := []models.User{}
	err := h.DB.Select(&users, `
		SELECT id, name, email, role, profile, created_at
		FROM users
		ORDER BY created_at DESC
	`)
	if err != nil {
		utils.JSONError(w, http.StatusInternalServerError, "db error")
		return
	}

	utils.JSON(w, http.StatusOK, users)
}

// ---------------------- ADMIN: CHANGE ROLE ----------------------

type changeRoleReq struct {
	Role string `json:"role"`
}

// AdminChangeRole updates a user's role. Admins can never change their own
// role, so there is always at least one admin able to undo a mistake.
func (h *UserHandler) AdminChangeRole(w http.ResponseWriter, r *http.Request) {
	caller := utils.Caller(r.Context())
	id := chi.URLParam(r, "id")

	if err := authz.CanChangeRole(caller, id); err != nil {
		utils.AuthzError(w, err)
		return
	}

	var body changeRoleReq
	if err := utils.DecodeJSON(w, r, &body); err != nil {
		return
	}

	role, err := models.ParseRole(body.Role)
	if err != nil {
		utils.JSONError(w, http.StatusBadRequest, "invalid role")
		return
	}

	var user models.User
	err = h.DB.Get(&user, `
		UPDATE users SET role=$1 WHERE id=$2
		RETURNING id, name, email, role, profile, created_at
	`, role, id)

	if errors.Is(err, sql.ErrNoRows) {
		utils.JSONError(w, http.StatusNotFound, "user not found")
		return
	}
	if err != nil {
		utils.JSONError(w, http.StatusInternalServerError, "db error")
		return
	}

	utils.JSON(w, http.StatusOK, user)
}

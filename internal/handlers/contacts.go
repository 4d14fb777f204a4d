package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jmoiron/sqlx"

	"github.com/bomalink/bomalink/internal/authz"
	"github.com/bomalink/bomalink/internal/models"
	"github.com/bomalink/bomalink/internal/utils"
)

type ContactHandler struct {
	DB *sqlx.DB
}

func NewContactHandler(db *sqlx.DB) *ContactHandler {
	return &ContactHandler{DB: db}
}

// ---------------------- CREATE (anonymous) ----------------------

type createContactReq struct {
	Name          string `json:"name" validate:"required"`
	Email         string `json:"email" validate:"required,email"`
	Phone         string `json:"phone"`
	Message       string `json:"message" validate:"required"`
	PropertyTitle string `json:"propertyTitle" validate:"required"`
}

func (h *ContactHandler) Create(w http.ResponseWriter, r *http.Request) {
	var body createContactReq
	if err := utils.DecodeJSON(w, r, &body); err != nil {
		return
	}

	if err := validate.Struct(body); err != nil {
		utils.JSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	contact := models.Contact{
		Name:          body.Name,
		Email:         body.Email,
		Phone:         body.Phone,
		Message:       body.Message,
		PropertyTitle: body.PropertyTitle,
		Status:        models.ContactNew,
	}

	err := h.DB.QueryRowx(`
		INSERT INTO contacts (name, email, phone, message, property_title, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`, contact.Name, contact.Email, contact.Phone, contact.Message,
		contact.PropertyTitle, contact.Status).
		Scan(&contact.ID, &contact.CreatedAt)

	if err != nil {
		utils.JSONError(w, http.StatusInternalServerError, "db error")
		return
	}

	utils.JSON(w, http.StatusCreated, contact)
}

// ---------------------- ADMIN: LIST ----------------------

func (h *ContactHandler) AdminList(w http.ResponseWriter, r *http.Request) {
	caller := utils.Caller(r.Context())
	if err := authz.CanManageContacts(caller); err != nil {
		utils.AuthzError(w, err)
		return
	}

	contacts := []models.Contact{}
	err := h.DB.Select(&contacts, `
		SELECT id, name, email, phone, message, property_title, status, created_at
		FROM contacts
		ORDER BY created_at DESC
	`)
	if err != nil {
		utils.JSONError(w, http.StatusInternalServerError, "db error")
		return
	}

	utils.JSON(w, http.StatusOK, contacts)
}

// ---------------------- ADMIN: UPDATE STATUS ----------------------

func (h *ContactHandler) AdminUpdateStatus(w http.ResponseWriter, r *http.Request) {
	caller := utils.Caller(r.Context())
	if err := authz.CanManageContacts(caller); err != nil {
		utils.AuthzError(w, err)
		return
	}

	id := chi.URLParam(r, "id")

	var body struct {
		Status string `json:"status"`
	}
	if err := utils.DecodeJSON(w, r, &body); err != nil {
		return
	}

	if !models.ValidContactStatus(body.Status) {
		utils.JSONError(w, http.StatusBadRequest, "invalid status")
		return
	}

	res, err := h.DB.Exec(`UPDATE contacts SET status=$1 WHERE id=$2`, body.Status, id)
	if err != nil {
		utils.JSONError(w, http.StatusInternalServerError, "db error")
		return
	}

	if n, _ := res.RowsAffected(); n == 0 {
		utils.JSONError(w, http.StatusNotFound, "contact not found")
		return
	}

	utils.JSON(w, http.StatusOK, map[string]string{"message": "contact updated"})
}

// ---------------------- ADMIN: DELETE ----------------------

func (h *ContactHandler) AdminDelete(w http.ResponseWriter, r *http.Request) {
	caller := utils.Caller(r.Context())
	if err := authz.CanManageContacts(caller); err != nil {
		utils.AuthzError(w, err)
		return
	}

	id := chi.URLParam(r, "id")

	res, err := h.DB.Exec(`DELETE FROM contacts WHERE id=$1`, id)
	if err != nil {
		utils.JSONError(w, http.StatusInternalServerError, "db error")
		return
	}

	if n, _ := res.RowsAffected(); n == 0 {
		utils.JSONError(w, http.StatusNotFound, "contact not found")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

package handlers

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jmoiron/sqlx"

	"github.com/bomalink/bomalink/internal/authz"
	"github.com/bomalink/bomalink/internal/models"
	"github.com/bomalink/bomalink/internal/utils"
	"github.com/bomalink/bomalink/internal/visibility"
)

type PropertyHandler struct {
	DB *sqlx.DB
}

func NewPropertyHandler(db *sqlx.DB) *PropertyHandler {
	return &PropertyHandler{DB: db}
}

const propertyColumns = `id, title, description, type, property_type, price, location, features, images, status, is_featured, owner_id, created_at, updated_at`

// ---------------------- LIST ----------------------

func (h *PropertyHandler) GetProperties(w http.ResponseWriter, r *http.Request) {
	caller := utils.Caller(r.Context())
	params := parsePropertyParams(r)

	q := visibility.PropertyQuery(caller, params)

	query := `SELECT ` + propertyColumns + ` FROM properties` + q.Clause() + ` ORDER BY created_at DESC`
	if q.Limit > 0 {
		query += ` LIMIT ` + strconv.Itoa(q.Limit)
	}

	properties := []models.Property{}
	if err := h.DB.Select(&properties, query, q.Args...); err != nil {
		utils.JSONError(w, http.StatusInternalServerError, "db error")
		return
	}

	utils.JSON(w, http.StatusOK, properties)
}

func parsePropertyParams(r *http.Request) visibility.PropertyParams {
	qs := r.URL.Query()

	params := visibility.PropertyParams{
		Featured:     qs.Get("featured") == "true",
		IsAdmin:      qs.Get("isAdmin") == "true",
		Status:       qs.Get("status"),
		UserID:       qs.Get("userId"),
		Type:         qs.Get("type"),
		PropertyType: qs.Get("propertyType"),
		Location:     qs.Get("location"),
	}

	if !models.ValidPropertyStatus(params.Status) {
		params.Status = ""
	}
	if v, err := strconv.ParseInt(qs.Get("priceMin"), 10, 64); err == nil {
		params.PriceMin = &v
	}
	if v, err := strconv.ParseInt(qs.Get("priceMax"), 10, 64); err == nil {
		params.PriceMax = &v
	}
	if v, err := strconv.Atoi(qs.Get("limit")); err == nil {
		params.Limit = v
	}

	return params
}

// ---------------------- GET ONE ----------------------

func (h *PropertyHandler) GetPropertyByID(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	caller := utils.Caller(r.Context())

	var property models.Property
	err := h.DB.Get(&property, `SELECT `+propertyColumns+` FROM properties WHERE id=$1`, id)
	if err != nil {
		utils.JSONError(w, http.StatusNotFound, "property not found")
		return
	}

	// non-approved listings are only visible to their owner and admins
	if property.Status != models.PropertyApproved && !caller.Admin() && caller.ID != property.OwnerID {
		utils.JSONError(w, http.StatusNotFound, "property not found")
		return
	}

	utils.JSON(w, http.StatusOK, property)
}

// ---------------------- CREATE ----------------------

type createPropertyReq struct {
	Title        string          `json:"title" validate:"required"`
	Description  string          `json:"description" validate:"required"`
	Type         string          `json:"type" validate:"required,oneof=sale rent"`
	PropertyType string          `json:"propertyType" validate:"required"`
	Price        int64           `json:"price" validate:"required,gt=0"`
	Location     models.Location `json:"location" validate:"required"`
	Features     models.Features `json:"features"`
	Images       models.Images   `json:"images" validate:"omitempty,dive"`
	IsFeatured   bool            `json:"isFeatured"`
}

func (h *PropertyHandler) CreateProperty(w http.ResponseWriter, r *http.Request) {
	caller := utils.Caller(r.Context())
	if err := authz.CanCreateProperty(caller); err != nil {
		utils.AuthzError(w, err)
		return
	}

	var body createPropertyReq
	if err := utils.DecodeJSON(w, r, &body); err != nil {
		return
	}

	if err := validate.Struct(body); err != nil {
		utils.JSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	// submissions go through moderation unless an admin posts them
	status := authz.InitialPropertyStatus(caller.Role)

	property := models.Property{
		Title:        body.Title,
		Description:  body.Description,
		Type:         body.Type,
		PropertyType: body.PropertyType,
		Price:        body.Price,
		Location:     body.Location,
		Features:     body.Features,
		Images:       body.Images,
		Status:       status,
		IsFeatured:   body.IsFeatured && caller.Admin(),
		OwnerID:      caller.ID,
	}

	query := `
        INSERT INTO properties (title, description, type, property_type, price, location, features, images, status, is_featured, owner_id)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
        RETURNING id, created_at, updated_at
    `

	err := h.DB.QueryRowx(query,
		property.Title, property.Description, property.Type, property.PropertyType,
		property.Price, property.Location, property.Features, property.Images,
		property.Status, property.IsFeatured, property.OwnerID).
		Scan(&property.ID, &property.CreatedAt, &property.UpdatedAt)

	if err != nil {
		utils.JSONError(w, http.StatusInternalServerError, "db error")
		return
	}

	utils.JSON(w, http.StatusCreated, property)
}

// ---------------------- UPDATE (owner content edits) ----------------------

func (h *PropertyHandler) UpdateProperty(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	caller := utils.Caller(r.Context())

	var body struct {
		Title        *string          `json:"title"`
		Description  *string          `json:"description"`
		Type         *string          `json:"type"`
		PropertyType *string          `json:"propertyType"`
		Price        *int64           `json:"price"`
		Location     *models.Location `json:"location"`
		Features     *models.Features `json:"features"`
		Images       *models.Images   `json:"images"`
	}

	if err := utils.DecodeJSON(w, r, &body); err != nil {
		return
	}

	var property models.Property
	err := h.DB.Get(&property, `SELECT `+propertyColumns+` FROM properties WHERE id=$1`, id)
	if err != nil {
		utils.JSONError(w, http.StatusNotFound, "property not found")
		return
	}

	if err := authz.CanEditProperty(caller, property.OwnerID); err != nil {
		utils.AuthzError(w, err)
		return
	}

	if body.Title != nil {
		property.Title = *body.Title
	}
	if body.Description != nil {
		property.Description = *body.Description
	}
	if body.Type != nil {
		property.Type = *body.Type
	}
	if body.PropertyType != nil {
		property.PropertyType = *body.PropertyType
	}
	if body.Price != nil {
		property.Price = *body.Price
	}
	if body.Location != nil {
		property.Location = *body.Location
	}
	if body.Features != nil {
		property.Features = *body.Features
	}
	if body.Images != nil {
		property.Images = *body.Images
	}
	property.UpdatedAt = time.Now()

	_, err = h.DB.Exec(`
        UPDATE properties
        SET title=$1, description=$2, type=$3, property_type=$4, price=$5,
            location=$6, features=$7, images=$8, updated_at=$9
        WHERE id=$10
    `, property.Title, property.Description, property.Type, property.PropertyType,
		property.Price, property.Location, property.Features, property.Images,
		property.UpdatedAt, id)

	if err != nil {
		utils.JSONError(w, http.StatusInternalServerError, "db error")
		return
	}

	utils.JSON(w, http.StatusOK, property)
}

// ---------------------- DELETE ----------------------

func (h *PropertyHandler) DeleteProperty(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	caller := utils.Caller(r.Context())

	var ownerID string
	err := h.DB.Get(&ownerID, `SELECT owner_id FROM properties WHERE id=$1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		utils.JSONError(w, http.StatusNotFound, "property not found")
		return
	}
	if err != nil {
		utils.JSONError(w, http.StatusInternalServerError, "db error")
		return
	}

	if err := authz.CanEditProperty(caller, ownerID); err != nil {
		utils.AuthzError(w, err)
		return
	}

	if _, err := h.DB.Exec(`DELETE FROM properties WHERE id=$1`, id); err != nil {
		utils.JSONError(w, http.StatusInternalServerError, "db error")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ---------------------- ADMIN: LIST WITH OWNERS ----------------------

// AdminList returns every property joined with its owner's display fields.
// A single LEFT JOIN replaces the fetch-then-zip pattern; dangling owners
// come back as the Unknown placeholder.
func (h *PropertyHandler) AdminList(w http.ResponseWriter, r *http.Request) {
	caller := utils.Caller(r.Context())
	if err := authz.CanModerateProperty(caller); err != nil {
		utils.AuthzError(w, err)
		return
	}

	rows, err := h.DB.Queryx(`
		SELECT p.id, p.title, p.description, p.type, p.property_type, p.price,
		       p.location, p.features, p.images, p.status, p.is_featured,
		       p.owner_id, p.created_at, p.updated_at,
		       u.name, u.email
		FROM properties p
		LEFT JOIN users u ON u.id = p.owner_id
		ORDER BY p.created_at DESC
	`)
	if err != nil {
		utils.JSONError(w, http.StatusInternalServerError, "db error")
		return
	}
	defer rows.Close()

	result := []models.PropertyWithOwner{}
	for rows.Next() {
		var p models.PropertyWithOwner
		var name, email sql.NullString

		err := rows.Scan(&p.ID, &p.Title, &p.Description, &p.Type, &p.PropertyType,
			&p.Price, &p.Location, &p.Features, &p.Images, &p.Status, &p.IsFeatured,
			&p.OwnerID, &p.CreatedAt, &p.UpdatedAt, &name, &email)
		if err != nil {
			utils.JSONError(w, http.StatusInternalServerError, "db error")
			return
		}

		if name.Valid {
			p.Owner = models.UserSummary{Name: name.String, Email: email.String}
		} else {
			p.Owner = models.UnknownUser
		}

		result = append(result, p)
	}

	utils.JSON(w, http.StatusOK, result)
}

// ---------------------- ADMIN: MODERATE ----------------------

type moderatePropertyReq struct {
	PropertyID string  `json:"propertyId" validate:"required"`
	Status     *string `json:"status"`
	IsFeatured *bool   `json:"isFeatured"`
}

// AdminModerate applies a status transition and/or the isFeatured toggle.
func (h *PropertyHandler) AdminModerate(w http.ResponseWriter, r *http.Request) {
	caller := utils.Caller(r.Context())
	if err := authz.CanModerateProperty(caller); err != nil {
		utils.AuthzError(w, err)
		return
	}

	var body moderatePropertyReq
	if err := utils.DecodeJSON(w, r, &body); err != nil {
		return
	}

	if body.PropertyID == "" || (body.Status == nil && body.IsFeatured == nil) {
		utils.JSONError(w, http.StatusBadRequest, "missing required fields")
		return
	}

	if body.Status != nil && !models.ValidPropertyStatus(*body.Status) {
		utils.JSONError(w, http.StatusBadRequest, "invalid status")
		return
	}

	var property models.Property
	err := h.DB.Get(&property, `SELECT `+propertyColumns+` FROM properties WHERE id=$1`, body.PropertyID)
	if err != nil {
		utils.JSONError(w, http.StatusNotFound, "property not found")
		return
	}

	if body.Status != nil {
		property.Status = models.PropertyStatus(*body.Status)
	}
	if body.IsFeatured != nil {
		property.IsFeatured = *body.IsFeatured
	}
	property.UpdatedAt = time.Now()

	_, err = h.DB.Exec(`
		UPDATE properties SET status=$1, is_featured=$2, updated_at=$3 WHERE id=$4
	`, property.Status, property.IsFeatured, property.UpdatedAt, body.PropertyID)

	if err != nil {
		utils.JSONError(w, http.StatusInternalServerError, "db error")
		return
	}

	utils.JSON(w, http.StatusOK, property)
}

// ---------------------- ADMIN: DELETE ----------------------

func (h *PropertyHandler) AdminDelete(w http.ResponseWriter, r *http.Request) {
	caller := utils.Caller(r.Context())
	if err := authz.CanModerateProperty(caller); err != nil {
		utils.AuthzError(w, err)
		return
	}

	id := chi.URLParam(r, "id")

	res, err := h.DB.Exec(`DELETE FROM properties WHERE id=$1`, id)
	if err != nil {
		utils.JSONError(w, http.StatusInternalServerError, "db error")
		return
	}

	if n, _ := res.RowsAffected(); n == 0 {
		utils.JSONError(w, http.StatusNotFound, "property not found")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

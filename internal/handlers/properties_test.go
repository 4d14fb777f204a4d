package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bomalink/bomalink/internal/models"
	"github.com/bomalink/bomalink/internal/visibility"
)

const createPropertyBody = `{
	"title": "Sunny Apartment",
	"description": "Two bedrooms near the park",
	"type": "sale",
	"propertyType": "apartment",
	"price": 250000,
	"location": {"address": "12 Oak St", "city": "Nairobi"},
	"features": {"bedrooms": 2, "bathrooms": 1, "area": 85},
	"isFeatured": true
}`

func propertyRow(id string, status models.PropertyStatus, ownerID string) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{
		"id", "title", "description", "type", "property_type", "price",
		"location", "features", "images", "status", "is_featured",
		"owner_id", "created_at", "updated_at",
	}).AddRow(
		id, "Sunny Apartment", "Two bedrooms near the park", "sale", "apartment",
		int64(250000), []byte(`{"address":"12 Oak St","city":"Nairobi"}`),
		[]byte(`{"bedrooms":2,"bathrooms":1,"area":85}`), []byte(`[]`),
		string(status), false, ownerID, now, now,
	)
}

func TestCreateProperty_RequiresAuth(t *testing.T) {
	db, _ := newMockDB(t)
	h := NewPropertyHandler(db)

	rec := httptest.NewRecorder()
	h.CreateProperty(rec, httptest.NewRequest(http.MethodPost, "/api/properties",
		strings.NewReader(createPropertyBody)))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCreateProperty_NonAdminGoesToModeration(t *testing.T) {
	db, mock := newMockDB(t)
	h := NewPropertyHandler(db)

	// status forced to pending and the isFeatured flag dropped
	mock.ExpectQuery("INSERT INTO properties").
		WithArgs("Sunny Apartment", "Two bedrooms near the park", "sale", "apartment",
			int64(250000), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(),
			"pending", false, "u1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).
			AddRow("p1", time.Now(), time.Now()))

	req := withCaller(httptest.NewRequest(http.MethodPost, "/api/properties",
		strings.NewReader(createPropertyBody)), testBuyer)
	rec := httptest.NewRecorder()
	h.CreateProperty(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)

	var created models.Property
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, models.PropertyPending, created.Status)
	assert.False(t, created.IsFeatured)
	assert.Equal(t, "u1", created.OwnerID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateProperty_AdminPublishesImmediately(t *testing.T) {
	db, mock := newMockDB(t)
	h := NewPropertyHandler(db)

	mock.ExpectQuery("INSERT INTO properties").
		WithArgs("Sunny Apartment", "Two bedrooms near the park", "sale", "apartment",
			int64(250000), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(),
			"approved", true, "a1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).
			AddRow("p1", time.Now(), time.Now()))

	req := withCaller(httptest.NewRequest(http.MethodPost, "/api/properties",
		strings.NewReader(createPropertyBody)), testAdmin)
	rec := httptest.NewRecorder()
	h.CreateProperty(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)

	var created models.Property
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, models.PropertyApproved, created.Status)
	assert.True(t, created.IsFeatured)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateProperty_ValidatesBody(t *testing.T) {
	db, _ := newMockDB(t)
	h := NewPropertyHandler(db)

	// type must be sale or rent
	body := strings.Replace(createPropertyBody, `"sale"`, `"lease"`, 1)
	req := withCaller(httptest.NewRequest(http.MethodPost, "/api/properties",
		strings.NewReader(body)), testBuyer)
	rec := httptest.NewRecorder()
	h.CreateProperty(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetPropertyByID_PendingHiddenFromStrangers(t *testing.T) {
	db, mock := newMockDB(t)
	h := NewPropertyHandler(db)

	view := func(caller visibility.Caller) *httptest.ResponseRecorder {
		mock.ExpectQuery("SELECT (.+) FROM properties WHERE").
			WithArgs("p1").
			WillReturnRows(propertyRow("p1", models.PropertyPending, "owner-1"))

		req := withURLParam(httptest.NewRequest(http.MethodGet, "/api/properties/p1", nil), "id", "p1")
		req = withCaller(req, caller)
		rec := httptest.NewRecorder()
		h.GetPropertyByID(rec, req)
		return rec
	}

	assert.Equal(t, http.StatusNotFound, view(visibility.Caller{}).Code)
	assert.Equal(t, http.StatusNotFound, view(testBuyer).Code)
	assert.Equal(t, http.StatusOK, view(visibility.Caller{ID: "owner-1", Role: models.RoleSeller}).Code)
	assert.Equal(t, http.StatusOK, view(testAdmin).Code)
}

func TestUpdateProperty_OwnerOnly(t *testing.T) {
	db, mock := newMockDB(t)
	h := NewPropertyHandler(db)

	mock.ExpectQuery("SELECT (.+) FROM properties WHERE").
		WithArgs("p1").
		WillReturnRows(propertyRow("p1", models.PropertyApproved, "owner-1"))

	req := withURLParam(httptest.NewRequest(http.MethodPut, "/api/properties/p1",
		strings.NewReader(`{"price": 300000}`)), "id", "p1")
	req = withCaller(req, testBuyer)
	rec := httptest.NewRecorder()
	h.UpdateProperty(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestUpdateProperty_PartialUpdateKeepsOtherFields(t *testing.T) {
	db, mock := newMockDB(t)
	h := NewPropertyHandler(db)

	mock.ExpectQuery("SELECT (.+) FROM properties WHERE").
		WithArgs("p1").
		WillReturnRows(propertyRow("p1", models.PropertyApproved, "owner-1"))
	mock.ExpectExec("UPDATE properties").
		WithArgs("Sunny Apartment", "Two bedrooms near the park", "sale", "apartment",
			int64(300000), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(),
			sqlmock.AnyArg(), "p1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	req := withURLParam(httptest.NewRequest(http.MethodPut, "/api/properties/p1",
		strings.NewReader(`{"price": 300000}`)), "id", "p1")
	req = withCaller(req, visibility.Caller{ID: "owner-1", Role: models.RoleSeller})
	rec := httptest.NewRecorder()
	h.UpdateProperty(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var updated models.Property
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &updated))
	assert.Equal(t, int64(300000), updated.Price)
	assert.Equal(t, "Sunny Apartment", updated.Title)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAdminModerate_ApproveAndFeature(t *testing.T) {
	db, mock := newMockDB(t)
	h := NewPropertyHandler(db)

	mock.ExpectQuery("SELECT (.+) FROM properties WHERE").
		WithArgs("p1").
		WillReturnRows(propertyRow("p1", models.PropertyPending, "owner-1"))
	mock.ExpectExec("UPDATE properties SET status").
		WithArgs("approved", true, sqlmock.AnyArg(), "p1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	body := `{"propertyId":"p1","status":"approved","isFeatured":true}`
	req := withCaller(httptest.NewRequest(http.MethodPatch, "/api/admin/properties",
		strings.NewReader(body)), testAdmin)
	rec := httptest.NewRecorder()
	h.AdminModerate(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAdminModerate_NonAdminForbidden(t *testing.T) {
	db, _ := newMockDB(t)
	h := NewPropertyHandler(db)

	body := `{"propertyId":"p1","status":"approved"}`
	req := withCaller(httptest.NewRequest(http.MethodPatch, "/api/admin/properties",
		strings.NewReader(body)), testBuyer)
	rec := httptest.NewRecorder()
	h.AdminModerate(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestAdminModerate_RejectsInvalidStatus(t *testing.T) {
	db, _ := newMockDB(t)
	h := NewPropertyHandler(db)

	body := `{"propertyId":"p1","status":"archived"}`
	req := withCaller(httptest.NewRequest(http.MethodPatch, "/api/admin/properties",
		strings.NewReader(body)), testAdmin)
	rec := httptest.NewRecorder()
	h.AdminModerate(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAdminList_DanglingOwnerFallsBackToUnknown(t *testing.T) {
	db, mock := newMockDB(t)
	h := NewPropertyHandler(db)

	now := time.Now()
	rows := sqlmock.NewRows([]string{
		"id", "title", "description", "type", "property_type", "price",
		"location", "features", "images", "status", "is_featured",
		"owner_id", "created_at", "updated_at", "name", "email",
	}).AddRow(
		"p1", "Sunny Apartment", "desc", "sale", "apartment", int64(250000),
		[]byte(`{}`), []byte(`{}`), []byte(`[]`), "approved", false,
		"gone", now, now, nil, nil,
	)
	mock.ExpectQuery("FROM properties p").WillReturnRows(rows)

	req := withCaller(httptest.NewRequest(http.MethodGet, "/api/admin/properties", nil), testAdmin)
	rec := httptest.NewRecorder()
	h.AdminList(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var result []models.PropertyWithOwner
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	require.Len(t, result, 1)
	assert.Equal(t, models.UnknownUser, result[0].Owner)
}

func TestAdminDelete_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	h := NewPropertyHandler(db)

	mock.ExpectExec("DELETE FROM properties").
		WithArgs("gone").
		WillReturnResult(sqlmock.NewResult(0, 0))

	req := withURLParam(httptest.NewRequest(http.MethodDelete, "/api/admin/properties/gone", nil), "id", "gone")
	req = withCaller(req, testAdmin)
	rec := httptest.NewRecorder()
	h.AdminDelete(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

package handlers

import (
	"context"
	"net/http"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-chi/chi/v5"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/bomalink/bomalink/internal/models"
	"github.com/bomalink/bomalink/internal/utils"
	"github.com/bomalink/bomalink/internal/visibility"
)

var (
	testBuyer    = visibility.Caller{ID: "u1", Role: models.RoleBuyer}
	testEmployer = visibility.Caller{ID: "e1", Role: models.RoleEmployer}
	testAdmin    = visibility.Caller{ID: "a1", Role: models.RoleAdmin}
)

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()

	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { mockDB.Close() })

	return sqlx.NewDb(mockDB, "sqlmock"), mock
}

func withCaller(r *http.Request, c visibility.Caller) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), utils.CtxCallerKey, c))
}

func withURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

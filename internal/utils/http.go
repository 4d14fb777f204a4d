package utils

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/bomalink/bomalink/internal/authz"
	"github.com/bomalink/bomalink/internal/visibility"
)

// JSON writes a JSON response with status code.
func JSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

// JSONError writes {"error": "..."} with a given status.
func JSONError(w http.ResponseWriter, status int, msg string) {
	JSON(w, status, map[string]string{"error": msg})
}

// DecodeJSON parses the JSON body into v and handles invalid JSON.
func DecodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) error {
	if r.Body == nil {
		JSONError(w, http.StatusBadRequest, "empty request body")
		return http.ErrBodyNotAllowed
	}

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(v); err != nil {
		JSONError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return err
	}

	return nil
}

// Caller returns the identity the auth middleware resolved for this request.
// The zero value is an anonymous caller.
func Caller(ctx context.Context) visibility.Caller {
	c, _ := ctx.Value(CtxCallerKey).(visibility.Caller)
	return c
}

// AuthzError maps a mutation-gate failure to its HTTP status: 401 for no
// session, 403 for wrong role or ownership, 400 for the self-role guard.
func AuthzError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, authz.ErrUnauthorized):
		JSONError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, authz.ErrSelfRoleChange):
		JSONError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, authz.ErrForbidden):
		JSONError(w, http.StatusForbidden, err.Error())
	default:
		JSONError(w, http.StatusInternalServerError, "internal error")
	}
}

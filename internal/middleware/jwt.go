package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/bomalink/bomalink/internal/utils"
	"github.com/bomalink/bomalink/internal/visibility"
)

// bearerToken extracts the token from an Authorization header, or "".
func bearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	if auth == "" {
		return ""
	}

	parts := strings.SplitN(auth, " ", 2)
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
		return ""
	}

	return strings.TrimSpace(parts[1])
}

// ResolveCaller verifies the bearer token when one is present and stores the
// caller identity in the request context. Requests without a token continue
// as anonymous; only a present-but-invalid token is rejected.
func ResolveCaller(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}

			claims, err := utils.VerifyToken(token, secret)
			if err != nil {
				utils.JSONError(w, http.StatusUnauthorized, "invalid token")
				return
			}

			caller := visibility.Caller{ID: claims.Subject, Role: claims.Role}
			ctx := context.WithValue(r.Context(), utils.CtxCallerKey, caller)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAuth rejects anonymous requests. Mount below ResolveCaller.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if utils.Caller(r.Context()).Anonymous() {
			utils.JSONError(w, http.StatusUnauthorized, "authentication required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

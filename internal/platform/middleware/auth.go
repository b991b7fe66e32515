package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	id "geostake/pkg/domain"
	"geostake/pkg/requestcontext"
	"geostake/pkg/secrets"
)

// TokenValidator turns a bearer token into a caller identity.
type TokenValidator interface {
	ValidateToken(tokenString string) (id.Identity, error)
}

// RequireAuth validates the Authorization bearer token and injects the caller
// identity into the request context. Requests without a valid token never
// reach the lifecycle service.
func RequireAuth(validator TokenValidator, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const bearerPrefix = "Bearer "
			authHeader := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(authHeader, bearerPrefix)
			if !ok || token == "" {
				unauthorized(w, "missing bearer token")
				return
			}
			caller, err := validator.ValidateToken(token)
			if err != nil {
				logger.WarnContext(r.Context(), "unauthorized access - invalid token",
					"error", err,
					"request_id", requestcontext.RequestID(r.Context()),
				)
				unauthorized(w, "invalid or expired token")
				return
			}
			ctx := requestcontext.WithCaller(r.Context(), caller)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAdmin guards operator-only routes with a bcrypt-hashed API key
// supplied in the X-Admin-Key header. An empty hash disables the routes.
func RequireAdmin(adminKeyHash string, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if adminKeyHash == "" {
				http.NotFound(w, r)
				return
			}
			key := r.Header.Get("X-Admin-Key")
			if key == "" {
				unauthorized(w, "missing admin key")
				return
			}
			if err := secrets.Verify(key, adminKeyHash); err != nil {
				logger.WarnContext(r.Context(), "unauthorized admin access",
					"request_id", requestcontext.RequestID(r.Context()),
				)
				unauthorized(w, "invalid admin key")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func unauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"error":"unauthorized","message":"` + message + `"}`))
}

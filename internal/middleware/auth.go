package middleware

import (
	"context"
	"net/http"
	"strings"

	"storefront/internal/model"

	"github.com/rs/zerolog"
)

// UserResolver verifies a bearer token and loads its user.
type UserResolver interface {
	ResolveToken(ctx context.Context, token string) (*model.User, error)
}

type contextKey int

const userContextKey contextKey = iota

// UserFromContext returns the authenticated user, or nil when the request
// did not pass through Authenticate.
func UserFromContext(ctx context.Context) *model.User {
	user, _ := ctx.Value(userContextKey).(*model.User)
	return user
}

// WithUser returns a context carrying the user. Exported for handler tests.
func WithUser(ctx context.Context, user *model.User) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}

// Authenticate validates the Authorization bearer token and stores the
// resolved user on the request context.
func Authenticate(resolver UserResolver, logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" || !strings.HasPrefix(header, "Bearer ") {
				logger.Warn().Str("path", r.URL.Path).Msg("missing bearer token")
				writeAuthError(w, http.StatusUnauthorized, "Not authorized, no token")
				return
			}

			token := strings.TrimPrefix(header, "Bearer ")

			user, err := resolver.ResolveToken(r.Context(), token)
			if err != nil {
				logger.Warn().Err(err).Str("path", r.URL.Path).Msg("token rejected")
				writeAuthError(w, http.StatusUnauthorized, "Not authorized, token failed")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
		})
	}
}

// RequireAdmin rejects requests whose authenticated user is not an admin.
// Must run after Authenticate.
func RequireAdmin(logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user := UserFromContext(r.Context())
			if user == nil || !user.IsAdmin() {
				logger.Warn().Str("path", r.URL.Path).Msg("admin access denied")
				writeAuthError(w, http.StatusForbidden, "Admin access only")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func writeAuthError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write([]byte(`{"error": "` + message + `"}`))
}

package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/levant12/shawarma-club/internal/auth"
	"github.com/levant12/shawarma-club/internal/models"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

const userKey contextKey = "user"

// CurrentUser extracts the authenticated user from the context.
// ok is false when the request carried no valid token.
func CurrentUser(ctx context.Context) (models.User, bool) {
	user, ok := ctx.Value(userKey).(models.User)
	return user, ok
}

// WithUser returns a context carrying user. Exposed for tests.
func WithUser(ctx context.Context, user models.User) context.Context {
	return context.WithValue(ctx, userKey, user)
}

// Auth validates the bearer token if one is present and adds the identified
// user to the request context. Requests without a valid token pass through
// unauthenticated; handlers that need an identity reject those themselves.
func Auth(manager *auth.Manager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader != "" {
				parts := strings.Split(authHeader, " ")
				if len(parts) == 2 && parts[0] == "Bearer" {
					if user, err := manager.Validate(parts[1]); err == nil {
						r = r.WithContext(WithUser(r.Context(), user))
					}
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

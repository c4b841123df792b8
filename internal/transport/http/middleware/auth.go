package middleware

import (
	"context"
	"net/http"

	"github.com/bianca-8/reload-rage/internal/httputil"
	"github.com/bianca-8/reload-rage/internal/service"
)

// contextKey is a custom type for context keys to avoid collisions
type contextKey string

const (
	// UserIDKey is the context key for the authenticated user's ID
	UserIDKey contextKey = "user_id"
)

// SessionAuth requires a valid session cookie and rejects the request with a
// JSON 401 otherwise. Used on the authenticated API endpoints.
func SessionAuth(sessions *service.SessionManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, ok := sessionUserID(r, sessions)
			if !ok {
				httputil.WriteUnauthorized(w, "Not authenticated")
				return
			}

			ctx := context.WithValue(r.Context(), UserIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OptionalSessionAuth resolves the session cookie when present but always lets
// the request through. The home page and the auth forms branch on whether an
// identity landed in the context.
func OptionalSessionAuth(sessions *service.SessionManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if userID, ok := sessionUserID(r, sessions); ok {
				ctx := context.WithValue(r.Context(), UserIDKey, userID)
				r = r.WithContext(ctx)
			}
			next.ServeHTTP(w, r)
		})
	}
}

func sessionUserID(r *http.Request, sessions *service.SessionManager) (int64, bool) {
	cookie, err := r.Cookie(service.SessionCookieName)
	if err != nil || cookie.Value == "" {
		return 0, false
	}

	userID, err := sessions.Verify(cookie.Value)
	if err != nil {
		// Expired or tampered cookie is the same as no cookie
		return 0, false
	}
	return userID, true
}

// GetUserIDFromContext extracts the user ID from the request context.
// Returns the user ID and true if found, or 0 and false if not found.
func GetUserIDFromContext(ctx context.Context) (int64, bool) {
	userID, ok := ctx.Value(UserIDKey).(int64)
	return userID, ok
}

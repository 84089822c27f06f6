package middleware

import (
	"context"
	"net/http"

	"socialfeed/internal/authstate"
	"socialfeed/internal/httputil"
	"socialfeed/internal/model"
)

// contextKey is a custom type for context keys to avoid collisions
type contextKey string

const (
	// UserKey is the context key for the signed-in session user
	UserKey contextKey = "session_user"
)

// RequireUser gates a route on the global auth state: requests are rejected
// until a user is signed in. The signed-in user is placed on the request
// context for handlers.
func RequireUser(store *authstate.Store) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			state := store.State()
			if state.User == nil {
				httputil.WriteUnauthorized(w, "Sign in required")
				return
			}

			ctx := context.WithValue(r.Context(), UserKey, state.User)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetUserFromContext extracts the session user from the request context.
func GetUserFromContext(ctx context.Context) (*model.SessionUser, bool) {
	user, ok := ctx.Value(UserKey).(*model.SessionUser)
	return user, ok
}

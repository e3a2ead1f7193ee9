package middleware

import (
	"context"
	"net/http"

	"github.com/bunkerhq/bunker/internal/services/auth"
)

type contextKey string

const (
	usernameContextKey contextKey = "username"
)

// GetUsername retrieves the authenticated username from the request context.
// Returns the empty string if no user is authenticated.
func GetUsername(ctx context.Context) string {
	username, _ := ctx.Value(usernameContextKey).(string)
	return username
}

// Auth returns middleware that requires authentication.
// Redirects to the home page if not authenticated.
func Auth(authService *auth.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			username := usernameFromSession(r, authService)
			if username == "" {
				// Store original URL to redirect back after auth
				redirectURL := "/?next=" + r.URL.Path
				http.Redirect(w, r, redirectURL, http.StatusSeeOther)
				return
			}

			ctx := context.WithValue(r.Context(), usernameContextKey, username)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OptionalAuth returns middleware that attempts authentication but doesn't require it.
// Sets the username in context if authenticated, empty otherwise.
func OptionalAuth(authService *auth.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			username := usernameFromSession(r, authService)
			ctx := context.WithValue(r.Context(), usernameContextKey, username)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func usernameFromSession(r *http.Request, authService *auth.Service) string {
	cookie, err := r.Cookie("session")
	if err != nil {
		return ""
	}

	username, err := authService.Username(cookie.Value)
	if err != nil {
		return ""
	}

	return username
}

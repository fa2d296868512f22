package middleware

import (
	"context"
	"net/http"
	"net/url"

	"github.com/mcoot/pointsrummy/internal/model"
	"github.com/mcoot/pointsrummy/internal/services/auth"
)

type contextKey string

const (
	userContextKey contextKey = "user"

	// SessionCookieName holds the session token for browser clients
	SessionCookieName = "session"
)

// GetUser retrieves the authenticated user from the request context
// Returns nil if no user is authenticated
func GetUser(ctx context.Context) *model.User {
	user, _ := ctx.Value(userContextKey).(*model.User)
	return user
}

// Auth returns middleware that requires authentication
// Redirects to home page if not authenticated
func Auth(authService *auth.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user := getUserFromSession(r, authService)
			if user == nil {
				// Store original URL to redirect back after auth
				redirectURL := "/?next=" + url.QueryEscape(r.URL.Path)
				http.Redirect(w, r, redirectURL, http.StatusSeeOther)
				return
			}

			ctx := context.WithValue(r.Context(), userContextKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OptionalAuth returns middleware that attempts authentication but doesn't require it
// Sets user in context if authenticated, nil otherwise
func OptionalAuth(authService *auth.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user := getUserFromSession(r, authService)
			ctx := context.WithValue(r.Context(), userContextKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// AdminOnly sends non-admin users back to their dashboard.
// Must run after Auth.
func AdminOnly() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user := GetUser(r.Context())
			if user == nil || !user.IsAdmin() {
				SetFlash(w, "error", "Admin access required")
				http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// SessionToken returns the session cookie value, or empty if absent
func SessionToken(r *http.Request) string {
	cookie, err := r.Cookie(SessionCookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}

func getUserFromSession(r *http.Request, authService *auth.Service) *model.User {
	token := SessionToken(r)
	if token == "" {
		return nil
	}

	user, err := authService.CurrentUser(r.Context(), token)
	if err != nil {
		return nil
	}

	return user
}

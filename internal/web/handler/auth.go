package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/mcoot/pointsrummy/internal/api/apierr"
	"github.com/mcoot/pointsrummy/internal/api/request"
	"github.com/mcoot/pointsrummy/internal/services/auth"
	"github.com/mcoot/pointsrummy/internal/web/middleware"
	"github.com/mcoot/pointsrummy/internal/web/templates/pages"
)

// AuthHandler handles login, registration and logout forms
type AuthHandler struct {
	authService *auth.Service
	home        *HomeHandler
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(authService *auth.Service, home *HomeHandler) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		home:        home,
	}
}

// Login handles login form submission
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.home.renderForms(w, r, http.StatusBadRequest, pages.HomeData{LoginError: "Invalid form data"})
		return
	}

	email := strings.TrimSpace(r.FormValue("email"))
	password := r.FormValue("password")
	next := r.FormValue("next")

	if email == "" || password == "" {
		h.home.renderForms(w, r, http.StatusBadRequest, pages.HomeData{
			LoginError: "Email and password are required",
			Email:      email,
			Next:       next,
		})
		return
	}

	session, user, err := h.authService.Login(r.Context(), email, password)
	if err != nil {
		status := http.StatusUnauthorized
		if !errors.Is(err, auth.ErrInvalidCredentials) {
			status = http.StatusInternalServerError
		}
		h.home.renderForms(w, r, status, pages.HomeData{
			LoginError: apierr.Message(err),
			Email:      email,
			Next:       next,
		})
		return
	}

	setSessionCookie(w, session)
	middleware.SetFlash(w, "success", "Welcome back, "+user.Name+"!")

	// Redirect to original destination or the dashboard
	if next != "" && strings.HasPrefix(next, "/") && !strings.HasPrefix(next, "//") {
		http.Redirect(w, r, next, http.StatusSeeOther)
	} else {
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
	}
}

// Register handles registration form submission
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.home.renderForms(w, r, http.StatusBadRequest, pages.HomeData{RegisterError: "Invalid form data"})
		return
	}

	form := request.RegisterRequest{
		Name:     strings.TrimSpace(r.FormValue("name")),
		Email:    strings.TrimSpace(r.FormValue("email")),
		Password: r.FormValue("password"),
	}

	fieldErrors, err := request.FieldErrors(&form)
	if err != nil || len(fieldErrors) > 0 {
		h.home.renderForms(w, r, http.StatusBadRequest, pages.HomeData{
			Name:        form.Name,
			FieldErrors: fieldErrors,
		})
		return
	}

	session, user, err := h.authService.Register(r.Context(), form.Name, form.Email, form.Password)
	if err != nil {
		if errors.Is(err, auth.ErrEmailExists) {
			h.home.renderForms(w, r, http.StatusConflict, pages.HomeData{
				Name:        form.Name,
				FieldErrors: map[string]string{"email": "Email already registered"},
			})
			return
		}
		h.home.renderForms(w, r, apierr.Status(err), pages.HomeData{
			Name:          form.Name,
			RegisterError: "Registration failed: " + apierr.Message(err),
		})
		return
	}

	setSessionCookie(w, session)
	middleware.SetFlash(w, "success", "Account created! Welcome, "+user.Name+"!")
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

// Logout ends the session and clears the cookie
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if token := middleware.SessionToken(r); token != "" {
		h.authService.Logout(token)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	middleware.SetFlash(w, "info", "You have been logged out")
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func setSessionCookie(w http.ResponseWriter, session *auth.Session) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    session.Token,
		Path:     "/",
		MaxAge:   int(session.ExpiresAt.Sub(session.CreatedAt).Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

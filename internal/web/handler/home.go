package handler

import (
	"net/http"

	"github.com/mcoot/pointsrummy/internal/services/seed"
	"github.com/mcoot/pointsrummy/internal/web/middleware"
	"github.com/mcoot/pointsrummy/internal/web/templates/pages"
)

// HomeHandler handles the home page
type HomeHandler struct {
	showDemoAccounts bool
}

// NewHomeHandler creates a new HomeHandler
func NewHomeHandler(showDemoAccounts bool) *HomeHandler {
	return &HomeHandler{showDemoAccounts: showDemoAccounts}
}

// Home renders the sign-in page, or sends signed-in users to their dashboard
func (h *HomeHandler) Home(w http.ResponseWriter, r *http.Request) {
	if middleware.GetUser(r.Context()) != nil {
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}

	data := pages.HomeData{
		PageData:    pageData(r, "Home"),
		Next:        r.URL.Query().Get("next"),
		FieldErrors: map[string]string{},
	}
	if h.showDemoAccounts {
		data.DemoAccounts = seed.DemoAccounts
	}
	render(w, r, http.StatusOK, pages.Home(data))
}

func (h *HomeHandler) renderForms(w http.ResponseWriter, r *http.Request, status int, data pages.HomeData) {
	data.PageData = pageData(r, "Home")
	if data.FieldErrors == nil {
		data.FieldErrors = map[string]string{}
	}
	if h.showDemoAccounts {
		data.DemoAccounts = seed.DemoAccounts
	}
	render(w, r, status, pages.Home(data))
}

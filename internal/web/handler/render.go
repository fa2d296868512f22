package handler

import (
	"net/http"

	"github.com/a-h/templ"

	"github.com/mcoot/pointsrummy/internal/web/middleware"
	"github.com/mcoot/pointsrummy/internal/web/templates/layout"
	"github.com/mcoot/pointsrummy/internal/web/templates/pages"
)

func render(w http.ResponseWriter, r *http.Request, status int, c templ.Component) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := c.Render(r.Context(), w); err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

// redirect sends the browser to path. htmx requests get HX-Redirect instead
// of a 303 so the swap target is not filled with the next page.
func redirect(w http.ResponseWriter, r *http.Request, path string) {
	if r.Header.Get("HX-Request") == "true" {
		w.Header().Set("HX-Redirect", path)
		w.WriteHeader(http.StatusNoContent)
		return
	}
	http.Redirect(w, r, path, http.StatusSeeOther)
}

func pageData(r *http.Request, title string) layout.PageData {
	return layout.PageData{
		Title: title,
		User:  middleware.GetUser(r.Context()),
		Flash: middleware.GetFlash(r.Context()),
	}
}

// renderError renders the HTML error page
func renderError(w http.ResponseWriter, r *http.Request, status int, message string) {
	render(w, r, status, pages.Error(pages.ErrorData{
		PageData: pageData(r, http.StatusText(status)),
		Status:   status,
		Message:  message,
	}))
}

// NotFound renders the 404 page
func NotFound(w http.ResponseWriter, r *http.Request) {
	renderError(w, r, http.StatusNotFound, "Page not found")
}

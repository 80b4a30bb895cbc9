package handlers

import (
	"net/http"

	"github.com/andrewpaige1/lego-catalog/views"
)

// GET /
func (h *Handler) Home(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, views.PageHome, views.Page{})
}

// GET /about
func (h *Handler) About(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, views.PageAbout, views.Page{Title: "About"})
}

// NotFound renders the 404 page for every unmatched route.
func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusNotFound, views.PageNotFound, views.Page{
		Title:   "Not Found",
		Message: "I'm sorry, the page you're looking for does not exist.",
	})
}

package handlers

import (
	"net/http"

	"github.com/go-pkgz/rest"
	"github.com/rs/zerolog"

	"github.com/andrewpaige1/lego-catalog/store"
	"github.com/andrewpaige1/lego-catalog/utils"
	"github.com/andrewpaige1/lego-catalog/views"
)

// statusOf maps a store error to the response status.
func statusOf(err error) int {
	if store.IsNotFound(err) {
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

// render fills the layout fields of data and writes page.
func (h *Handler) render(w http.ResponseWriter, r *http.Request, status int, page string, data views.Page) {
	data.AuthEnabled = h.issuer != nil
	data.Editor, _ = utils.GetEditor(r)

	if err := h.views.Render(w, status, page, data); err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Str("page", page).Msg("render: failed to render page")
		http.Error(w, "Failed to render page", http.StatusInternalServerError)
	}
}

// fail logs err and renders the 404 or 500 page for it.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, fn string, err error, message string) {
	status := statusOf(err)
	log := zerolog.Ctx(r.Context())
	if status == http.StatusNotFound {
		log.Warn().Err(err).Msg(fn + ": not found")
		h.render(w, r, status, views.PageNotFound, views.Page{Title: "Not Found", Message: message})
		return
	}

	log.Error().Err(err).Str("kind", store.KindOf(err).String()).Msg(fn + ": request failed")
	h.render(w, r, status, views.PageError, views.Page{Title: "Error", Message: message})
}

// writeJSON writes v with the given status.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	rest.RenderJSON(w, v)
}

// failJSON logs err and writes it as a JSON error object.
func failJSON(w http.ResponseWriter, r *http.Request, fn string, err error) {
	status := statusOf(err)
	e := zerolog.Ctx(r.Context()).Error()
	if status == http.StatusNotFound {
		e = zerolog.Ctx(r.Context()).Warn()
	}
	e.Err(err).Msg(fn + ": request failed")
	writeJSON(w, status, rest.JSON{"error": err.Error()})
}

package handlers

import (
	"net/http"
	"strings"

	"github.com/andrewpaige1/lego-catalog/models"
)

// GET /api/sets[?theme=x]
func (h *Handler) APISets(w http.ResponseWriter, r *http.Request) {
	theme := strings.TrimSpace(r.URL.Query().Get("theme"))

	var (
		sets []models.Set
		err  error
	)
	if theme != "" {
		sets, err = h.catalog.SetsByTheme(r.Context(), theme)
	} else {
		sets, err = h.catalog.AllSets(r.Context())
	}
	if err != nil {
		failJSON(w, r, "APISets", err)
		return
	}
	if sets == nil {
		sets = []models.Set{}
	}

	writeJSON(w, http.StatusOK, sets)
}

// GET /api/sets/{num}
func (h *Handler) APISet(w http.ResponseWriter, r *http.Request) {
	set, err := h.catalog.SetByNum(r.Context(), r.PathValue("num"))
	if err != nil {
		failJSON(w, r, "APISet", err)
		return
	}

	writeJSON(w, http.StatusOK, set)
}

// GET /api/themes
func (h *Handler) APIThemes(w http.ResponseWriter, r *http.Request) {
	themes, err := h.catalog.AllThemes(r.Context())
	if err != nil {
		failJSON(w, r, "APIThemes", err)
		return
	}
	if themes == nil {
		themes = []models.Theme{}
	}

	writeJSON(w, http.StatusOK, themes)
}

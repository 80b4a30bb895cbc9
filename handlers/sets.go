package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/andrewpaige1/lego-catalog/models"
	"github.com/andrewpaige1/lego-catalog/store"
	"github.com/andrewpaige1/lego-catalog/utils"
	"github.com/andrewpaige1/lego-catalog/views"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// setForm is the add and edit form as submitted by the browser.
type setForm struct {
	SetNum   string  `validate:"required,max=32"`
	Name     string  `validate:"required,max=256"`
	Year     *int    `validate:"omitempty,min=0,max=2100"`
	NumParts *int    `validate:"omitempty,min=0"`
	ThemeID  *uint   `validate:"omitempty,min=1"`
	ImgURL   *string `validate:"omitempty,url"`
}

// parseSetForm reads and validates the posted set fields.
func parseSetForm(r *http.Request) (models.Set, error) {
	if err := r.ParseForm(); err != nil {
		return models.Set{}, fmt.Errorf("invalid form data: %w", err)
	}

	var (
		form setForm
		err  error
	)
	form.SetNum = strings.TrimSpace(r.PostFormValue("set_num"))
	form.Name = strings.TrimSpace(r.PostFormValue("name"))
	form.ImgURL = utils.OptionalString(r.PostFormValue("img_url"))
	if form.Year, err = utils.OptionalInt("year", r.PostFormValue("year")); err != nil {
		return models.Set{}, err
	}
	if form.NumParts, err = utils.OptionalInt("num_parts", r.PostFormValue("num_parts")); err != nil {
		return models.Set{}, err
	}
	if form.ThemeID, err = utils.OptionalUint("theme_id", r.PostFormValue("theme_id")); err != nil {
		return models.Set{}, err
	}

	if err := validate.Struct(form); err != nil {
		return models.Set{}, formError(err)
	}

	return models.Set{
		SetNum:   form.SetNum,
		Name:     form.Name,
		Year:     form.Year,
		NumParts: form.NumParts,
		ThemeID:  form.ThemeID,
		ImgURL:   form.ImgURL,
	}, nil
}

var formFields = map[string]string{
	"SetNum":   "set number",
	"Name":     "name",
	"Year":     "year",
	"NumParts": "number of parts",
	"ThemeID":  "theme",
	"ImgURL":   "image URL",
}

// formError turns the first validation failure into a readable message.
func formError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}
	fe := verrs[0]
	field := formFields[fe.Field()]
	switch fe.Tag() {
	case "required":
		return fmt.Errorf("%s is required", field)
	case "url":
		return fmt.Errorf("%s must be a valid URL", field)
	case "min":
		return fmt.Errorf("%s must be at least %s", field, fe.Param())
	case "max":
		return fmt.Errorf("%s must be at most %s", field, fe.Param())
	default:
		return fmt.Errorf("%s is invalid", field)
	}
}

// GET /lego/sets[?theme=x]
func (h *Handler) Sets(w http.ResponseWriter, r *http.Request) {
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
		h.fail(w, r, "Sets", err, err.Error())
		return
	}

	h.render(w, r, http.StatusOK, views.PageSets, views.Page{Title: "Sets", Sets: sets, Theme: theme})
}

// GET /lego/sets/{num}
func (h *Handler) Set(w http.ResponseWriter, r *http.Request) {
	num := r.PathValue("num")
	set, err := h.catalog.SetByNum(r.Context(), num)
	if err != nil {
		msg := err.Error()
		if store.IsNotFound(err) {
			msg = fmt.Sprintf("Set with number %s not found.", num)
		}
		h.fail(w, r, "Set", err, msg)
		return
	}

	h.render(w, r, http.StatusOK, views.PageSet, views.Page{Title: set.Name, Set: set})
}

// GET /lego/addSet
func (h *Handler) AddSetForm(w http.ResponseWriter, r *http.Request) {
	themes, err := h.catalog.AllThemes(r.Context())
	if err != nil {
		h.fail(w, r, "AddSetForm", err, "Error fetching themes: "+err.Error())
		return
	}

	h.render(w, r, http.StatusOK, views.PageAddSet, views.Page{Title: "Add Set", Themes: themes})
}

// POST /lego/addSet
func (h *Handler) AddSet(w http.ResponseWriter, r *http.Request) {
	set, err := parseSetForm(r)
	if err != nil {
		zerolog.Ctx(r.Context()).Info().Err(err).Msg("AddSet: rejected form")
		themes, terr := h.catalog.AllThemes(r.Context())
		if terr != nil {
			h.fail(w, r, "AddSet", terr, "Error fetching themes: "+terr.Error())
			return
		}
		h.render(w, r, http.StatusBadRequest, views.PageAddSet, views.Page{Title: "Add Set", Themes: themes, Message: err.Error()})
		return
	}

	if err := h.catalog.AddSet(r.Context(), set); err != nil {
		h.fail(w, r, "AddSet", err, "Error adding set: "+err.Error())
		return
	}

	zerolog.Ctx(r.Context()).Info().Str("set_num", set.SetNum).Msg("AddSet: set added")
	http.Redirect(w, r, "/lego/sets", http.StatusSeeOther)
}

// GET /lego/editSet/{num}
func (h *Handler) EditSetForm(w http.ResponseWriter, r *http.Request) {
	num := r.PathValue("num")

	var (
		set    models.Set
		themes []models.Theme
	)
	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() error {
		var err error
		set, err = h.catalog.SetByNum(ctx, num)
		return err
	})
	g.Go(func() error {
		var err error
		themes, err = h.catalog.AllThemes(ctx)
		return err
	})
	if err := g.Wait(); err != nil {
		h.fail(w, r, "EditSetForm", err, "Error loading set: "+err.Error())
		return
	}

	h.render(w, r, http.StatusOK, views.PageEditSet, views.Page{Title: "Edit " + set.Name, Set: set, Themes: themes})
}

// POST /lego/editSet
func (h *Handler) EditSet(w http.ResponseWriter, r *http.Request) {
	set, err := parseSetForm(r)
	if err != nil {
		zerolog.Ctx(r.Context()).Info().Err(err).Msg("EditSet: rejected form")
		themes, terr := h.catalog.AllThemes(r.Context())
		if terr != nil {
			h.fail(w, r, "EditSet", terr, "Error fetching themes: "+terr.Error())
			return
		}
		set.SetNum = strings.TrimSpace(r.PostFormValue("set_num"))
		set.Name = strings.TrimSpace(r.PostFormValue("name"))
		h.render(w, r, http.StatusBadRequest, views.PageEditSet, views.Page{Title: "Edit Set", Set: set, Themes: themes, Message: err.Error()})
		return
	}

	if err := h.catalog.EditSet(r.Context(), set.SetNum, set); err != nil {
		h.fail(w, r, "EditSet", err, "Error updating set: "+err.Error())
		return
	}

	zerolog.Ctx(r.Context()).Info().Str("set_num", set.SetNum).Msg("EditSet: set updated")
	http.Redirect(w, r, "/lego/sets", http.StatusSeeOther)
}

// GET /lego/deleteSet/{num}
func (h *Handler) DeleteSet(w http.ResponseWriter, r *http.Request) {
	num := r.PathValue("num")
	if err := h.catalog.DeleteSet(r.Context(), num); err != nil {
		h.fail(w, r, "DeleteSet", err, "I'm sorry, but we have encountered the following error: "+err.Error())
		return
	}

	zerolog.Ctx(r.Context()).Info().Str("set_num", num).Msg("DeleteSet: set deleted")
	http.Redirect(w, r, "/lego/sets", http.StatusSeeOther)
}

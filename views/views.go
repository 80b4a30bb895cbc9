// Package views renders the catalog pages from embedded html templates.
package views

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"

	"github.com/andrewpaige1/lego-catalog/models"
)

//go:embed templates/*.html
var templatesFS embed.FS

//go:embed static/*
var staticFS embed.FS

// Page names accepted by Render.
const (
	PageHome     = "home"
	PageAbout    = "about"
	PageSets     = "sets"
	PageSet      = "set"
	PageAddSet   = "addSet"
	PageEditSet  = "editSet"
	PageLogin    = "login"
	PageNotFound = "404"
	PageError    = "500"
)

var pages = []string{
	PageHome, PageAbout, PageSets, PageSet, PageAddSet,
	PageEditSet, PageLogin, PageNotFound, PageError,
}

// Page is the data passed to every template. Handlers fill only the fields
// the page uses.
type Page struct {
	Title       string
	Editor      string
	AuthEnabled bool
	Message     string

	Sets   []models.Set
	Set    models.Set
	Themes []models.Theme
	Theme  string
	Next   string
}

// Renderer holds one parsed template set per page, each joined with the
// shared layout.
type Renderer struct {
	pages map[string]*template.Template
}

var funcs = template.FuncMap{
	"selected": func(current *uint, id uint) bool {
		return current != nil && *current == id
	},
	"orDash": func(v any) any {
		switch p := v.(type) {
		case *int:
			if p != nil {
				return *p
			}
		case *string:
			if p != nil && *p != "" {
				return *p
			}
		}
		return "-"
	},
}

// New parses every page template.
func New() (*Renderer, error) {
	r := &Renderer{pages: make(map[string]*template.Template, len(pages))}
	for _, page := range pages {
		tmpl, err := template.New("layout.html").Funcs(funcs).ParseFS(templatesFS,
			"templates/layout.html", "templates/"+page+".html")
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s template: %w", page, err)
		}
		r.pages[page] = tmpl
	}
	return r, nil
}

// Render executes page into a buffer and only then writes status and body,
// so a failing template never leaves a half written response.
func (r *Renderer) Render(w http.ResponseWriter, status int, page string, data Page) error {
	tmpl, ok := r.pages[page]
	if !ok {
		return fmt.Errorf("unknown page %q", page)
	}

	buf := new(bytes.Buffer)
	if err := tmpl.ExecuteTemplate(buf, "layout", data); err != nil {
		return fmt.Errorf("failed to execute %s template: %w", page, err)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	return err
}

// Static returns the stylesheet and images served under /static/.
func Static() fs.FS {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return sub
}

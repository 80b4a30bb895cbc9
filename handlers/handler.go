// Package handlers serves the catalog pages, the JSON API and the editor
// login on top of a Catalog.
package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/didip/tollbooth/v8"
	"github.com/didip/tollbooth/v8/limiter"
	"github.com/go-pkgz/rest"
	"github.com/go-pkgz/routegroup"
	"github.com/rs/zerolog"

	"github.com/andrewpaige1/lego-catalog/auth"
	"github.com/andrewpaige1/lego-catalog/config"
	"github.com/andrewpaige1/lego-catalog/logger"
	"github.com/andrewpaige1/lego-catalog/middleware"
	"github.com/andrewpaige1/lego-catalog/models"
	"github.com/andrewpaige1/lego-catalog/views"
)

// Catalog is the storage the handlers need. *store.Store implements it.
type Catalog interface {
	AllSets(ctx context.Context) ([]models.Set, error)
	SetByNum(ctx context.Context, setNum string) (models.Set, error)
	SetsByTheme(ctx context.Context, term string) ([]models.Set, error)
	AddSet(ctx context.Context, set models.Set) error
	EditSet(ctx context.Context, setNum string, set models.Set) error
	DeleteSet(ctx context.Context, setNum string) error
	AllThemes(ctx context.Context) ([]models.Theme, error)
}

// Options configures a Handler.
type Options struct {
	Catalog      Catalog
	Views        *views.Renderer
	Auth         config.AuthConfig
	SecureCookie bool
	Version      string
	Logger       zerolog.Logger
}

// Handler owns the routes of the application.
type Handler struct {
	catalog      Catalog
	views        *views.Renderer
	authCfg      config.AuthConfig
	issuer       *auth.Issuer // nil when editing is open to everyone
	secureCookie bool
	version      string
	log          zerolog.Logger
}

// New returns a Handler. Editor sessions are enabled when opts.Auth is
// complete.
func New(opts Options) *Handler {
	h := &Handler{
		catalog:      opts.Catalog,
		views:        opts.Views,
		authCfg:      opts.Auth,
		secureCookie: opts.SecureCookie,
		version:      opts.Version,
		log:          opts.Logger,
	}
	if opts.Auth.Enabled() {
		h.issuer = auth.NewIssuer(opts.Auth.Secret)
	}
	return h
}

// Routes returns the http.Handler with every route and middleware wired.
func (h *Handler) Routes() http.Handler {
	router := routegroup.New(http.NewServeMux())

	// the login limiter runs ahead of rest.RealIP so it keys on the peer
	// address rather than on client supplied forwarding headers
	if h.issuer != nil {
		router.Use(limitLogin(newLoginLimiter()))
	}
	router.Use(
		rest.RealIP,
		rest.Recoverer(logger.NewPrintf(h.log, zerolog.ErrorLevel)),
		rest.Throttle(1000),
		rest.AppInfo("lego-catalog", "andrewpaige1", h.version),
		rest.Ping,
		rest.SizeLimit(64*1024),
		middleware.Logging(h.log),
	)
	if h.issuer != nil {
		router.Use(middleware.LoadEditor(h.issuer))
	}

	router.HandleFunc("GET /{$}", h.Home)
	router.HandleFunc("GET /about", h.About)
	router.HandleFiles("/static/", http.FS(views.Static()))

	router.Mount("/lego").Route(func(lego *routegroup.Bundle) {
		lego.HandleFunc("GET /sets", h.Sets)
		lego.HandleFunc("GET /sets/{num}", h.Set)

		lego.Group().Route(func(edit *routegroup.Bundle) {
			if h.issuer != nil {
				edit.Use(middleware.RequireEditor)
			}
			edit.HandleFunc("GET /addSet", h.AddSetForm)
			edit.HandleFunc("POST /addSet", h.AddSet)
			edit.HandleFunc("GET /editSet/{num}", h.EditSetForm)
			edit.HandleFunc("POST /editSet", h.EditSet)
			edit.HandleFunc("GET /deleteSet/{num}", h.DeleteSet)
		})
	})

	router.Mount("/api").Route(func(api *routegroup.Bundle) {
		api.Use(rest.NoCache)
		api.HandleFunc("GET /sets", h.APISets)
		api.HandleFunc("GET /sets/{num}", h.APISet)
		api.HandleFunc("GET /themes", h.APIThemes)
	})

	if h.issuer != nil {
		router.HandleFunc("GET /login", h.LoginForm)
		router.HandleFunc("POST /login", h.Login)
		router.HandleFunc("GET /logout", h.Logout)
	}

	router.NotFoundHandler(h.NotFound)

	return router
}

// newLoginLimiter allows a burst of 5 login attempts per peer, refilled at
// 5 per minute.
func newLoginLimiter() *limiter.Limiter {
	lmt := tollbooth.NewLimiter(5.0/60, &limiter.ExpirableOptions{DefaultExpirationTTL: time.Hour})
	lmt.SetBurst(5)
	lmt.SetIPLookup(limiter.IPLookup{Name: "RemoteAddr"})
	lmt.SetMessage("too many login attempts, try again later")
	return lmt
}

// limitLogin applies lmt to POST /login only.
func limitLogin(lmt *limiter.Limiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		limited := tollbooth.HTTPMiddleware(lmt)(next)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodPost && r.URL.Path == "/login" {
				limited.ServeHTTP(w, r)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

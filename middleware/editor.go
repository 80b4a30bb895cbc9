package middleware

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/go-pkgz/rest"
	"github.com/rs/zerolog"

	"github.com/andrewpaige1/lego-catalog/auth"
	"github.com/andrewpaige1/lego-catalog/utils"
)

// TokenVerifier checks a session token and returns the editor name.
type TokenVerifier interface {
	VerifyToken(token string) (string, error)
}

// LoadEditor attaches the editor from a valid session cookie to the request
// context. Requests without a session pass through untouched.
func LoadEditor(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(auth.CookieName)
			if err != nil || cookie.Value == "" {
				next.ServeHTTP(w, r)
				return
			}

			name, err := verifier.VerifyToken(cookie.Value)
			if err != nil {
				zerolog.Ctx(r.Context()).Debug().Err(err).Msg("LoadEditor: ignoring session cookie")
				next.ServeHTTP(w, r)
				return
			}
			next.ServeHTTP(w, r.WithContext(utils.WithEditor(r.Context(), name)))
		})
	}
}

// RequireEditor rejects requests that carry no editor. Browsers are sent to
// the login page, API clients get a JSON 401. It expects LoadEditor to run
// first.
func RequireEditor(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := utils.GetEditor(r); ok {
			next.ServeHTTP(w, r)
			return
		}

		zerolog.Ctx(r.Context()).Info().Str("path", r.URL.Path).Msg("RequireEditor: no editor session")
		if strings.HasPrefix(r.URL.Path, "/api/") || strings.Contains(r.Header.Get("Accept"), "application/json") {
			w.Header().Set("Content-Type", "application/json; charset=utf-8")
			w.WriteHeader(http.StatusUnauthorized)
			rest.RenderJSON(w, rest.JSON{"error": "login required"})
			return
		}

		target := "/login"
		if r.Method == http.MethodGet {
			target += "?next=" + url.QueryEscape(r.URL.RequestURI())
		}
		http.Redirect(w, r, target, http.StatusSeeOther)
	})
}

package handlers

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"github.com/andrewpaige1/lego-catalog/auth"
	"github.com/andrewpaige1/lego-catalog/views"
)

// GET /login
func (h *Handler) LoginForm(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, views.PageLogin, views.Page{Title: "Login", Next: safeNext(r.URL.Query().Get("next"))})
}

// POST /login
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.render(w, r, http.StatusBadRequest, views.PageLogin, views.Page{Title: "Login", Message: "Invalid form data"})
		return
	}

	username := strings.TrimSpace(r.PostFormValue("username"))
	password := r.PostFormValue("password")
	next := safeNext(r.PostFormValue("next"))

	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(h.authCfg.Username)) == 1
	passOK := auth.CheckPassword(h.authCfg.PasswordHash, password)
	if !userOK || !passOK {
		zerolog.Ctx(r.Context()).Warn().Str("username", username).Msg("Login: invalid credentials")
		h.render(w, r, http.StatusUnauthorized, views.PageLogin, views.Page{
			Title:   "Login",
			Message: "Invalid username or password",
			Next:    next,
		})
		return
	}

	token, err := h.issuer.CreateToken(username)
	if err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("Login: failed to create token")
		h.render(w, r, http.StatusInternalServerError, views.PageError, views.Page{Title: "Error", Message: "Failed to start session"})
		return
	}

	http.SetCookie(w, auth.Cookie(token, h.secureCookie))
	zerolog.Ctx(r.Context()).Info().Str("username", username).Msg("Login: editor logged in")
	http.Redirect(w, r, next, http.StatusSeeOther)
}

// GET /logout
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, auth.ClearCookie(h.secureCookie))
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// safeNext keeps post-login redirects on this site.
func safeNext(next string) string {
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return "/lego/sets"
	}
	return next
}

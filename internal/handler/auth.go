package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/msomdec/movie-ranker/internal/domain"
	"github.com/msomdec/movie-ranker/internal/service"
	"github.com/msomdec/movie-ranker/internal/view"
)

// AuthHandler handles the login and logout routes.
type AuthHandler struct {
	auth         *service.AuthService
	renderer     *view.Renderer
	cookieSecure bool
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(auth *service.AuthService, renderer *view.Renderer, cookieSecure bool) *AuthHandler {
	return &AuthHandler{auth: auth, renderer: renderer, cookieSecure: cookieSecure}
}

// HandleLoginPage renders the login form.
// GET /login
func (h *AuthHandler) HandleLoginPage(w http.ResponseWriter, r *http.Request) {
	renderPage(w, h.renderer, http.StatusOK, "login", view.LoginData{UserName: displayName(r)})
}

// HandleLogin processes the login form. A new name creates a user; an
// existing name logs into the same user row it always has.
// POST /login (form field: username)
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	user, token, err := h.auth.Login(r.Context(), r.PostFormValue("username"))
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			renderPage(w, h.renderer, http.StatusBadRequest, "login", view.LoginData{
				Error: "Please enter a display name.",
			})
			return
		}
		slog.Error("login user", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     authCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   h.cookieSecure,
		MaxAge:   86400, // 24 hours, matches token expiry
	})

	slog.Info("user logged in", "user_id", user.ID, "name", user.Name)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// HandleLogout clears the auth cookie.
// GET /logout
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     authCookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   h.cookieSecure,
		MaxAge:   -1,
	})

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

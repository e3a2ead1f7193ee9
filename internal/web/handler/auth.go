package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/bunkerhq/bunker/internal/model"
	"github.com/bunkerhq/bunker/internal/services/auth"
	"github.com/bunkerhq/bunker/internal/web/middleware"
	"github.com/bunkerhq/bunker/internal/web/templates/layout"
	"github.com/bunkerhq/bunker/internal/web/templates/pages"
)

// AuthHandler handles authentication actions
type AuthHandler struct {
	authService *auth.Service
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(authService *auth.Service) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// Login handles login form submission
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderLoginError(w, r, "Invalid form data", "")
		return
	}

	username := strings.TrimSpace(r.FormValue("username"))
	password := r.FormValue("password")

	if username == "" || password == "" {
		h.renderLoginError(w, r, "Username and password are required", username)
		return
	}

	session, err := h.authService.Login(r.Context(), username, password)
	if err != nil {
		h.renderLoginError(w, r, "Invalid username or password", username)
		return
	}

	h.setSessionCookie(w, session.Token)
	middleware.SetFlash(w, "success", "Welcome back, "+session.Username+"!")
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// Register handles registration form submission
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderRegisterError(w, r, "Invalid form data", "")
		return
	}

	username := strings.TrimSpace(r.FormValue("username"))
	password := r.FormValue("password")
	passwordConfirm := r.FormValue("password_confirm")

	if password != passwordConfirm {
		h.renderRegisterError(w, r, "Passwords do not match", username)
		return
	}

	session, err := h.authService.Register(r.Context(), username, password)
	if err != nil {
		h.renderRegisterError(w, r, registerErrorMessage(err), username)
		return
	}

	h.setSessionCookie(w, session.Token)
	middleware.SetFlash(w, "success", "Account created! Welcome, "+session.Username+"!")
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// Logout handles logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie("session"); err == nil {
		h.authService.Logout(cookie.Value)
	}

	// Clear session cookie
	http.SetCookie(w, &http.Cookie{
		Name:     "session",
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	middleware.SetFlash(w, "info", "You have been logged out")
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func registerErrorMessage(err error) string {
	switch {
	case errors.Is(err, model.ErrUsernameTooShort):
		return "Username must be at least 3 characters"
	case errors.Is(err, model.ErrPasswordTooShort):
		return "Password must be at least 6 characters"
	case errors.Is(err, model.ErrUsernameTaken):
		return "Username already taken"
	default:
		return "Registration failed"
	}
}

func (h *AuthHandler) setSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     "session",
		Value:    token,
		Path:     "/",
		MaxAge:   86400 * 7, // 7 days
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *AuthHandler) renderLoginError(w http.ResponseWriter, r *http.Request, errorMsg, username string) {
	data := pages.HomeData{
		PageData: layout.PageData{
			Title: "Home",
		},
		LoginError:   errorMsg,
		FormUsername: username,
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusUnprocessableEntity)
	if err := pages.Home(data).Render(r.Context(), w); err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

func (h *AuthHandler) renderRegisterError(w http.ResponseWriter, r *http.Request, errorMsg, username string) {
	data := pages.HomeData{
		PageData: layout.PageData{
			Title: "Home",
		},
		RegisterError:  errorMsg,
		FormUsername:   username,
		RegisterActive: true,
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusUnprocessableEntity)
	if err := pages.Home(data).Render(r.Context(), w); err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

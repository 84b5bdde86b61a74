package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/mcoot/accountsvc/internal/model"
	"github.com/mcoot/accountsvc/internal/services/account"
	"github.com/mcoot/accountsvc/internal/services/auth"
	"github.com/mcoot/accountsvc/internal/web/middleware"
	"github.com/mcoot/accountsvc/internal/web/templates"
)

// AuthHandler handles login, registration and logout
type AuthHandler struct {
	authService    *auth.Service
	accountService *account.Service
	renderer       *templates.Renderer
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(authService *auth.Service, accountService *account.Service, renderer *templates.Renderer) *AuthHandler {
	return &AuthHandler{
		authService:    authService,
		accountService: accountService,
		renderer:       renderer,
	}
}

// LoginPage renders the login page
func (h *AuthHandler) LoginPage(w http.ResponseWriter, r *http.Request) {
	if middleware.GetSession(r.Context()) != nil {
		// Already logged in, redirect to home
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	data := templates.LoginData{
		PageData: templates.PageData{
			Title: "Login",
			Flash: middleware.GetFlash(r.Context()),
		},
	}
	renderPage(w, r, h.renderer, "login", data)
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
		// Unknown username and wrong password get the same message
		h.renderLoginError(w, r, "Invalid username or password", username)
		return
	}

	setSessionCookie(w, session.Token)
	middleware.SetFlash(w, "success", "Login successful!")
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// RegisterPage renders the registration page
func (h *AuthHandler) RegisterPage(w http.ResponseWriter, r *http.Request) {
	if middleware.GetSession(r.Context()) != nil {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	data := templates.RegisterData{
		PageData: templates.PageData{
			Title: "Register",
			Flash: middleware.GetFlash(r.Context()),
		},
	}
	renderPage(w, r, h.renderer, "register", data)
}

// Register handles registration form submission
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderRegisterError(w, r, "Invalid form data", "", "")
		return
	}

	username := strings.TrimSpace(r.FormValue("username"))
	email := strings.TrimSpace(r.FormValue("email"))
	password := r.FormValue("password")

	if username == "" || email == "" || password == "" {
		h.renderRegisterError(w, r, "Username, email and password are required", username, email)
		return
	}

	_, err := h.accountService.Register(r.Context(), username, password, email)
	if err != nil {
		if errors.Is(err, model.ErrDuplicateCredential) {
			h.renderRegisterError(w, r, "Username or email already exists", username, email)
		} else {
			h.renderRegisterError(w, r, "Registration failed", username, email)
		}
		return
	}

	middleware.SetFlash(w, "success", "Registration successful! Please login.")
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// Logout handles logout; logging out without a session is not an error
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie("session"); err == nil {
		h.authService.InvalidateSession(cookie.Value)
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

	middleware.SetFlash(w, "success", "Logged out successfully!")
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

func (h *AuthHandler) renderLoginError(w http.ResponseWriter, r *http.Request, errorMsg, username string) {
	data := templates.LoginData{
		PageData:     templates.PageData{Title: "Login"},
		FormUsername: username,
		Error:        errorMsg,
	}
	renderPage(w, r, h.renderer, "login", data)
}

func (h *AuthHandler) renderRegisterError(w http.ResponseWriter, r *http.Request, errorMsg, username, email string) {
	data := templates.RegisterData{
		PageData:     templates.PageData{Title: "Register"},
		FormUsername: username,
		FormEmail:    email,
		Error:        errorMsg,
	}
	renderPage(w, r, h.renderer, "register", data)
}

func setSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     "session",
		Value:    token,
		Path:     "/",
		MaxAge:   86400, // matches the default session duration
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// renderPage writes a rendered page, falling back to a plain 500 if the
// template fails
func renderPage(w http.ResponseWriter, r *http.Request, renderer *templates.Renderer, page string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := renderer.Render(w, page, data); err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

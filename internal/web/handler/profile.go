package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/mcoot/accountsvc/internal/model"
	"github.com/mcoot/accountsvc/internal/services/account"
	"github.com/mcoot/accountsvc/internal/web/middleware"
	"github.com/mcoot/accountsvc/internal/web/templates"
)

// ProfileHandler handles the self-service profile page
type ProfileHandler struct {
	accountService *account.Service
	renderer       *templates.Renderer
}

// NewProfileHandler creates a new ProfileHandler
func NewProfileHandler(accountService *account.Service, renderer *templates.Renderer) *ProfileHandler {
	return &ProfileHandler{
		accountService: accountService,
		renderer:       renderer,
	}
}

// ProfilePage renders the profile page for the logged-in user
func (h *ProfileHandler) ProfilePage(w http.ResponseWriter, r *http.Request) {
	session := middleware.GetSession(r.Context())

	acct, err := h.accountService.Get(r.Context(), session.AccountID)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	data := templates.ProfileData{
		PageData: templates.PageData{
			Title:    "Profile",
			Username: session.Username,
			Flash:    middleware.GetFlash(r.Context()),
		},
		Account: acct,
	}
	renderPage(w, r, h.renderer, "profile", data)
}

// Update handles the profile form submission.
// An empty email or password field leaves that credential unchanged.
func (h *ProfileHandler) Update(w http.ResponseWriter, r *http.Request) {
	session := middleware.GetSession(r.Context())

	if err := r.ParseForm(); err != nil {
		middleware.SetFlash(w, "danger", "Invalid form data")
		http.Redirect(w, r, "/profile", http.StatusSeeOther)
		return
	}

	email := strings.TrimSpace(r.FormValue("email"))
	password := r.FormValue("password")

	if err := h.accountService.UpdateProfile(r.Context(), session.AccountID, email, password); err != nil {
		if errors.Is(err, model.ErrDuplicateCredential) {
			middleware.SetFlash(w, "danger", "Email already exists")
		} else {
			middleware.SetFlash(w, "danger", "Profile update failed")
		}
		http.Redirect(w, r, "/profile", http.StatusSeeOther)
		return
	}

	middleware.SetFlash(w, "success", "Profile updated successfully!")
	http.Redirect(w, r, "/profile", http.StatusSeeOther)
}

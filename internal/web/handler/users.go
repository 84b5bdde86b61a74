package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"github.com/mcoot/accountsvc/internal/model"
	"github.com/mcoot/accountsvc/internal/services/account"
	"github.com/mcoot/accountsvc/internal/web/middleware"
	"github.com/mcoot/accountsvc/internal/web/templates"
)

// UsersHandler handles the administrative account pages
type UsersHandler struct {
	accountService *account.Service
	renderer       *templates.Renderer
}

// NewUsersHandler creates a new UsersHandler
func NewUsersHandler(accountService *account.Service, renderer *templates.Renderer) *UsersHandler {
	return &UsersHandler{
		accountService: accountService,
		renderer:       renderer,
	}
}

// List renders the account listing page
func (h *UsersHandler) List(w http.ResponseWriter, r *http.Request) {
	session := middleware.GetSession(r.Context())

	accounts, err := h.accountService.List(r.Context())
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	data := templates.UsersData{
		PageData: templates.PageData{
			Title:    "Users",
			Username: session.Username,
			Flash:    middleware.GetFlash(r.Context()),
		},
		Accounts: accounts,
	}
	renderPage(w, r, h.renderer, "users", data)
}

// UpdatePage renders the email update form for one account
func (h *UsersHandler) UpdatePage(w http.ResponseWriter, r *http.Request) {
	session := middleware.GetSession(r.Context())

	id, ok := pathAccountID(w, r)
	if !ok {
		return
	}

	acct, err := h.accountService.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, model.ErrAccountNotFound) {
			http.NotFound(w, r)
			return
		}
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	data := templates.UpdateData{
		PageData: templates.PageData{
			Title:    "Update User",
			Username: session.Username,
			Flash:    middleware.GetFlash(r.Context()),
		},
		Account: acct,
	}
	renderPage(w, r, h.renderer, "update", data)
}

// Update handles the email update form submission
func (h *UsersHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathAccountID(w, r)
	if !ok {
		return
	}

	if err := r.ParseForm(); err != nil {
		middleware.SetFlash(w, "danger", "Invalid form data")
		http.Redirect(w, r, "/users", http.StatusSeeOther)
		return
	}

	email := strings.TrimSpace(r.FormValue("email"))
	if email == "" {
		middleware.SetFlash(w, "danger", "Email is required")
		http.Redirect(w, r, updatePath(id), http.StatusSeeOther)
		return
	}

	if err := h.accountService.UpdateEmail(r.Context(), id, email); err != nil {
		switch {
		case errors.Is(err, model.ErrDuplicateCredential):
			middleware.SetFlash(w, "danger", "Email already exists")
			http.Redirect(w, r, updatePath(id), http.StatusSeeOther)
		case errors.Is(err, model.ErrAccountNotFound):
			http.NotFound(w, r)
		default:
			middleware.SetFlash(w, "danger", "Update failed")
			http.Redirect(w, r, "/users", http.StatusSeeOther)
		}
		return
	}

	middleware.SetFlash(w, "success", "User updated successfully!")
	http.Redirect(w, r, "/users", http.StatusSeeOther)
}

// Delete handles the delete form submission
func (h *UsersHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathAccountID(w, r)
	if !ok {
		return
	}

	if err := h.accountService.Delete(r.Context(), id); err != nil {
		if errors.Is(err, model.ErrAccountNotFound) {
			http.NotFound(w, r)
			return
		}
		middleware.SetFlash(w, "danger", "Delete failed")
		http.Redirect(w, r, "/users", http.StatusSeeOther)
		return
	}

	middleware.SetFlash(w, "success", "User deleted successfully!")
	http.Redirect(w, r, "/users", http.StatusSeeOther)
}

func pathAccountID(w http.ResponseWriter, r *http.Request) (model.AccountID, bool) {
	raw := mux.Vars(r)["id"]
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		http.NotFound(w, r)
		return 0, false
	}
	return model.AccountID(id), true
}

func updatePath(id model.AccountID) string {
	return "/users/" + strconv.FormatInt(int64(id), 10) + "/update"
}

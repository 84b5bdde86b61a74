package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/mcoot/accountsvc/internal/api/middleware"
	"github.com/mcoot/accountsvc/internal/api/request"
	"github.com/mcoot/accountsvc/internal/api/response"
	"github.com/mcoot/accountsvc/internal/model"
	"github.com/mcoot/accountsvc/internal/services/account"
)

// AccountHandler handles account-related endpoints
type AccountHandler struct {
	accountService *account.Service
}

// NewAccountHandler creates a new account handler
func NewAccountHandler(accountService *account.Service) *AccountHandler {
	return &AccountHandler{
		accountService: accountService,
	}
}

// Register handles POST /api/v1/accounts/register
func (h *AccountHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req request.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewValidationError("invalid request body"))
		return
	}

	if req.Username == "" {
		WriteError(w, NewValidationError("username is required"))
		return
	}
	if req.Password == "" {
		WriteError(w, NewValidationError("password is required"))
		return
	}
	if req.Email == "" {
		WriteError(w, NewValidationError("email is required"))
		return
	}

	acct, err := h.accountService.Register(r.Context(), req.Username, req.Password, req.Email)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.AccountFromModel(acct))
}

// GetMe handles GET /api/v1/accounts/me
func (h *AccountHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	session := middleware.MustGetSession(r.Context())

	acct, err := h.accountService.Get(r.Context(), session.AccountID)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.AccountFromModel(acct))
}

// UpdateMe handles PATCH /api/v1/accounts/me
// An empty email or password field leaves that credential unchanged.
func (h *AccountHandler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	session := middleware.MustGetSession(r.Context())

	var req request.UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewValidationError("invalid request body"))
		return
	}

	if err := h.accountService.UpdateProfile(r.Context(), session.AccountID, req.Email, req.Password); err != nil {
		WriteError(w, err)
		return
	}

	acct, err := h.accountService.Get(r.Context(), session.AccountID)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.AccountFromModel(acct))
}

// List handles GET /api/v1/accounts
func (h *AccountHandler) List(w http.ResponseWriter, r *http.Request) {
	accounts, err := h.accountService.List(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.AccountListFromModel(accounts))
}

// Get handles GET /api/v1/accounts/{id}
func (h *AccountHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := accountID(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	acct, err := h.accountService.Get(r.Context(), id)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.AccountFromModel(acct))
}

// UpdateEmail handles PATCH /api/v1/accounts/{id}
func (h *AccountHandler) UpdateEmail(w http.ResponseWriter, r *http.Request) {
	id, err := accountID(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	var req request.UpdateEmailRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewValidationError("invalid request body"))
		return
	}

	if req.Email == "" {
		WriteError(w, NewValidationError("email is required"))
		return
	}

	if err := h.accountService.UpdateEmail(r.Context(), id, req.Email); err != nil {
		WriteError(w, err)
		return
	}

	acct, err := h.accountService.Get(r.Context(), id)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.AccountFromModel(acct))
}

// Delete handles DELETE /api/v1/accounts/{id}
func (h *AccountHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := accountID(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	if err := h.accountService.Delete(r.Context(), id); err != nil {
		WriteError(w, err)
		return
	}

	response.NoContent(w)
}

// accountID parses the {id} path variable
func accountID(r *http.Request) (model.AccountID, error) {
	raw := mux.Vars(r)["id"]
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, NewValidationError("invalid account id")
	}
	return model.AccountID(id), nil
}

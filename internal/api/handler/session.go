package handler

import (
	"encoding/json"
	"net/http"

	"github.com/mcoot/accountsvc/internal/api/middleware"
	"github.com/mcoot/accountsvc/internal/api/request"
	"github.com/mcoot/accountsvc/internal/api/response"
	"github.com/mcoot/accountsvc/internal/services/account"
	"github.com/mcoot/accountsvc/internal/services/auth"
)

// SessionHandler handles login and logout endpoints
type SessionHandler struct {
	authService    *auth.Service
	accountService *account.Service
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(authService *auth.Service, accountService *account.Service) *SessionHandler {
	return &SessionHandler{
		authService:    authService,
		accountService: accountService,
	}
}

// Login handles POST /api/v1/sessions/login
func (h *SessionHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req request.LoginRequest
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

	session, err := h.authService.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		WriteError(w, err)
		return
	}

	acct, err := h.accountService.Get(r.Context(), session.AccountID)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.AuthResponseFromSession(session, acct))
}

// Logout handles POST /api/v1/sessions/logout
// Logging out twice is not an error.
func (h *SessionHandler) Logout(w http.ResponseWriter, r *http.Request) {
	session := middleware.MustGetSession(r.Context())
	h.authService.InvalidateSession(session.Token)
	response.NoContent(w)
}

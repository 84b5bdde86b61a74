package response

import (
	"github.com/mcoot/accountsvc/internal/model"
	"github.com/mcoot/accountsvc/internal/services/auth"
)

// Account represents an account in API responses.
// The password hash is deliberately absent; it never crosses the API surface.
type Account struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// AccountFromModel converts a model.Account to a response Account
func AccountFromModel(a *model.Account) Account {
	return Account{
		ID:       int64(a.ID),
		Username: a.Username,
		Email:    a.Email,
	}
}

// AccountList wraps the admin listing
type AccountList struct {
	Accounts []Account `json:"accounts"`
}

// AccountListFromModel converts a slice of model accounts
func AccountListFromModel(accounts []*model.Account) AccountList {
	out := make([]Account, len(accounts))
	for i, a := range accounts {
		out[i] = AccountFromModel(a)
	}
	return AccountList{Accounts: out}
}

// AuthResponse is the response for the login endpoint
type AuthResponse struct {
	Account      Account `json:"account"`
	SessionToken string  `json:"session_token"`
}

// AuthResponseFromSession creates an AuthResponse from a session and its
// account
func AuthResponseFromSession(s *auth.Session, a *model.Account) AuthResponse {
	return AuthResponse{
		Account:      AccountFromModel(a),
		SessionToken: s.Token,
	}
}

package apierr

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mcoot/accountsvc/internal/model"
	"github.com/mcoot/accountsvc/internal/services/account"
	"github.com/mcoot/accountsvc/internal/services/auth"
)

// APIError represents an API error response
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse wraps an APIError
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// Common error codes
const (
	CodeValidationError      = "VALIDATION_ERROR"
	CodeDuplicateCredential  = "DUPLICATE_CREDENTIAL"
	CodeAuthenticationFailed = "AUTHENTICATION_FAILED"
	CodeAccountNotFound      = "ACCOUNT_NOT_FOUND"
	CodeUnauthorized         = "UNAUTHORIZED"
	CodeInternalError        = "INTERNAL_ERROR"
)

// httpError combines an HTTP status code with an APIError
type httpError struct {
	status   int
	apiError APIError
}

// Error implements error interface
func (e *httpError) Error() string {
	return e.apiError.Message
}

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	he := toHTTPError(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(he.status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: he.apiError})
}

// toHTTPError converts an error to an httpError
func toHTTPError(err error) *httpError {
	// Check for specific error types
	var he *httpError
	if errors.As(err, &he) {
		return he
	}

	switch {
	// Map model errors
	case errors.Is(err, model.ErrAccountNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeAccountNotFound, "Account not found"}}
	case errors.Is(err, model.ErrDuplicateCredential):
		return &httpError{http.StatusConflict, APIError{CodeDuplicateCredential, "Username or email already exists"}}

	// Map service errors
	case errors.Is(err, account.ErrInvalidCredentials):
		return &httpError{http.StatusUnauthorized, APIError{CodeAuthenticationFailed, "Invalid username or password"}}
	case errors.Is(err, account.ErrEmptyPassword):
		return &httpError{http.StatusBadRequest, APIError{CodeValidationError, "Password must not be empty"}}
	case errors.Is(err, auth.ErrInvalidSession):
		return &httpError{http.StatusUnauthorized, APIError{CodeUnauthorized, "Invalid or expired session"}}

	default:
		return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
	}
}

// NewValidationError creates a validation error for a missing or malformed
// request field
func NewValidationError(message string) error {
	return &httpError{http.StatusBadRequest, APIError{CodeValidationError, message}}
}

// NewUnauthorizedError creates an unauthorized error
func NewUnauthorizedError() error {
	return &httpError{http.StatusUnauthorized, APIError{CodeUnauthorized, "Authentication required"}}
}

// NewInternalError creates an internal server error
func NewInternalError() error {
	return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
}

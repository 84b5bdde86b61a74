package handler

import (
	"net/http"

	"github.com/mcoot/accountsvc/internal/api/apierr"
)

// Re-export from apierr for convenience
type APIError = apierr.APIError
type ErrorResponse = apierr.ErrorResponse

// Re-export error codes
const (
	CodeValidationError      = apierr.CodeValidationError
	CodeDuplicateCredential  = apierr.CodeDuplicateCredential
	CodeAuthenticationFailed = apierr.CodeAuthenticationFailed
	CodeAccountNotFound      = apierr.CodeAccountNotFound
	CodeUnauthorized         = apierr.CodeUnauthorized
	CodeInternalError        = apierr.CodeInternalError
)

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	apierr.WriteError(w, err)
}

// NewValidationError creates a validation error
func NewValidationError(message string) error {
	return apierr.NewValidationError(message)
}

// NewUnauthorizedError creates an unauthorized error
func NewUnauthorizedError() error {
	return apierr.NewUnauthorizedError()
}

// NewInternalError creates an internal server error
func NewInternalError() error {
	return apierr.NewInternalError()
}

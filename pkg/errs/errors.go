package errs

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrInternalServer        = errors.New("Internal server error")
	ErrClient                = errors.New("Bad request")
	ErrValidation            = errors.New("Validation failed")
	ErrInvalidCredentials    = errors.New("Email or password is incorrect")
	ErrUnauthorized          = errors.New("Unauthorized access")
	ErrForbidden             = errors.New("Forbidden access")
	ErrNotFound              = errors.New("Resource not found")
	ErrEmailAlreadyUsed      = errors.New("Email has already been used")
	ErrPendingApprovalExists = errors.New("Template already has a pending approval request")
	ErrNoApproverAvailable   = errors.New("No eligible approver is available")
	ErrTemplateNotDraft      = errors.New("Template is not in draft status")
	ErrSessionRevoked        = errors.New("Session is no longer active")
)

// AccountLockedError carries the remaining lockout time so callers can relay
// it without parsing the message.
type AccountLockedError struct {
	MinutesRemaining int
}

func (e *AccountLockedError) Error() string {
	return fmt.Sprintf("Account is locked, try again in %d minutes", e.MinutesRemaining)
}

var errorMap = map[error]int{
	ErrInternalServer:        http.StatusInternalServerError,
	ErrClient:                http.StatusBadRequest,
	ErrValidation:            http.StatusBadRequest,
	ErrInvalidCredentials:    http.StatusUnauthorized,
	ErrUnauthorized:          http.StatusUnauthorized,
	ErrForbidden:             http.StatusForbidden,
	ErrNotFound:              http.StatusNotFound,
	ErrEmailAlreadyUsed:      http.StatusConflict,
	ErrPendingApprovalExists: http.StatusConflict,
	ErrNoApproverAvailable:   http.StatusConflict,
	ErrTemplateNotDraft:      http.StatusConflict,
	ErrSessionRevoked:        http.StatusUnauthorized,
}

func GetErrorStatusCode(err error) int {
	var locked *AccountLockedError
	if errors.As(err, &locked) {
		return http.StatusLocked
	}
	errStatusCode, ok := errorMap[err]
	if !ok {
		errStatusCode = http.StatusInternalServerError
	}
	return errStatusCode
}

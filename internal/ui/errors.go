package ui

import (
	"errors"
	"fmt"

	"mcpsettings/internal/domain"
)

// Error is a frontend-friendly error with a stable code.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

func (e *Error) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Error codes for frontend handling
const (
	ErrCodeDuplicateID    = "DUPLICATE_ID"
	ErrCodeNotFound       = "NOT_FOUND"
	ErrCodeInvalidRequest = "INVALID_REQUEST"
	ErrCodeInvalidConfig  = "INVALID_CONFIG"
	ErrCodeInternal       = "INTERNAL_ERROR"
)

// MapDomainError converts domain errors to *Error. An *Error passes through.
func MapDomainError(err error) *Error {
	if err == nil {
		return nil
	}
	var uiErr *Error
	if errors.As(err, &uiErr) {
		return uiErr
	}

	switch {
	case errors.Is(err, domain.ErrDuplicateID):
		return NewErrorWithDetails(ErrCodeDuplicateID, "A server with this id already exists", err.Error())
	case errors.Is(err, domain.ErrNotFound):
		return NewErrorWithDetails(ErrCodeNotFound, "Server not found", err.Error())
	case errors.Is(err, domain.ErrInvalidConfig):
		return NewErrorWithDetails(ErrCodeInvalidConfig, "Invalid server configuration", err.Error())
	case errors.Is(err, domain.ErrUnknownModel):
		return NewErrorWithDetails(ErrCodeInvalidRequest, "Unknown model", err.Error())
	default:
		return NewErrorWithDetails(ErrCodeInternal, "Internal error", err.Error())
	}
}

// NewError creates a new Error with code and message
func NewError(code, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
	}
}

// NewErrorWithDetails creates a new Error with code, message, and details
func NewErrorWithDetails(code, message, details string) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Details: details,
	}
}

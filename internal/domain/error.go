package domain

import (
	"errors"
)

var (
	// ErrDuplicateID is returned when adding a server whose id is already stored.
	ErrDuplicateID = errors.New("server id already exists")
	// ErrNotFound is returned when updating or toggling a server that is not stored.
	ErrNotFound = errors.New("server not found")
	// ErrInvalidConfig is returned when a server configuration fails validation.
	ErrInvalidConfig = errors.New("invalid server config")
	// ErrUnknownModel is returned when a model id is not present in the provider catalog.
	ErrUnknownModel = errors.New("unknown model")
)

type ErrorCode string

const (
	CodeAlreadyExists   ErrorCode = "ALREADY_EXISTS"
	CodeNotFound        ErrorCode = "NOT_FOUND"
	CodeInvalidArgument ErrorCode = "INVALID_ARGUMENT"
	CodeInternal        ErrorCode = "INTERNAL"
)

// CodeFrom classifies err into an ErrorCode. Errors that carry no domain
// meaning, such as storage failures, map to CodeInternal with a false boolean.
func CodeFrom(err error) (ErrorCode, bool) {
	if err == nil {
		return "", false
	}
	switch {
	case errors.Is(err, ErrDuplicateID):
		return CodeAlreadyExists, true
	case errors.Is(err, ErrNotFound):
		return CodeNotFound, true
	case errors.Is(err, ErrInvalidConfig), errors.Is(err, ErrUnknownModel):
		return CodeInvalidArgument, true
	default:
		return CodeInternal, false
	}
}

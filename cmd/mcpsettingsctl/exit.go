package main

import (
	"errors"
	"fmt"

	"mcpsettings/internal/domain"
	"mcpsettings/internal/infra/transfer"
)

const (
	exitCodeFailure  = 1
	exitCodeUsage    = 2
	exitCodeNotFound = 3
	exitCodeConflict = 4
)

type exitError struct {
	code    int
	message string
	silent  bool
}

func (e exitError) Error() string {
	return e.message
}

func exitSilent(code int) error {
	return exitError{code: code, silent: true}
}

func usageErrorf(format string, args ...any) error {
	return exitError{code: exitCodeUsage, message: fmt.Sprintf(format, args...)}
}

// exitFromError picks the process exit code for an error returned by a command.
func exitFromError(err error) exitError {
	var code int
	switch domainCode, _ := domain.CodeFrom(err); domainCode {
	case domain.CodeNotFound:
		code = exitCodeNotFound
	case domain.CodeAlreadyExists:
		code = exitCodeConflict
	case domain.CodeInvalidArgument:
		code = exitCodeUsage
	case domain.CodeInternal:
		code = exitCodeFailure
	}
	switch {
	case errors.Is(err, transfer.ErrUnknownSource), errors.Is(err, transfer.ErrUnknownFormat):
		code = exitCodeUsage
	case errors.Is(err, transfer.ErrNotFound):
		code = exitCodeNotFound
	}
	return exitError{code: code, message: err.Error()}
}

package ui

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"mcpsettings/internal/domain"
)

func TestErrorStringFormatsDetails(t *testing.T) {
	uiErr := &Error{Code: "CODE", Message: "message", Details: "details"}
	require.Equal(t, "CODE: message (details)", uiErr.Error())

	uiErr = &Error{Code: "CODE", Message: "message"}
	require.Equal(t, "CODE: message", uiErr.Error())
}

func TestMapDomainError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code string
	}{
		{name: "duplicate", err: fmt.Errorf("%w: %q", domain.ErrDuplicateID, "s1"), code: ErrCodeDuplicateID},
		{name: "not found", err: fmt.Errorf("%w: %q", domain.ErrNotFound, "s1"), code: ErrCodeNotFound},
		{name: "invalid", err: fmt.Errorf("%w: name failed required", domain.ErrInvalidConfig), code: ErrCodeInvalidConfig},
		{name: "model", err: domain.ErrUnknownModel, code: ErrCodeInvalidRequest},
		{name: "passthrough", err: NewError(ErrCodeInvalidRequest, "bad"), code: ErrCodeInvalidRequest},
		{name: "default", err: errors.New("boom"), code: ErrCodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uiErr := MapDomainError(tt.err)
			require.NotNil(t, uiErr)
			require.Equal(t, tt.code, uiErr.Code)
		})
	}
	require.Nil(t, MapDomainError(nil))
}

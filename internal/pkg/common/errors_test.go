package common

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCustomErrorWrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := fmt.Errorf("load menu: %w", ErrSheetsUnavailable.Wrap(cause))

	assert.ErrorIs(t, err, ErrSheetsUnavailable)
	assert.ErrorIs(t, err, cause)
	assert.NotErrorIs(t, err, ErrNotFound)
	assert.Equal(t, "load menu: 試算表服務錯誤: connection refused", err.Error())
	assert.Nil(t, ErrSheetsUnavailable.Err)
}

func TestToResponse(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		debug   bool
		status  int
		code    string
		details bool
	}{
		{"custom", ErrSheetsNotConfigured, false, http.StatusServiceUnavailable, "SHEETS_NOT_CONFIGURED", false},
		{"wrapped", fmt.Errorf("x: %w", ErrInvalidRow.Wrap(errors.New("row -1"))), true, http.StatusBadRequest, "INVALID_ROW", true},
		{"validation", NewValidationError("values must not be empty"), false, http.StatusBadRequest, ErrCodeInvalidRequest, false},
		{"unknown", errors.New("boom"), false, http.StatusInternalServerError, ErrCodeInternalError, false},
		{"unknown debug", errors.New("boom"), true, http.StatusInternalServerError, ErrCodeInternalError, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, resp := ToResponse(tt.err, tt.debug)
			assert.Equal(t, tt.status, status)
			assert.Equal(t, tt.code, resp.Code)
			assert.Equal(t, tt.details, resp.Details != "")
		})
	}
}

func TestValidationMessage(t *testing.T) {
	err := fmt.Errorf("proxy: %w", NewValidationError("sheet name is required"))
	assert.True(t, IsValidationError(err))

	_, resp := ToResponse(err, false)
	assert.Equal(t, "sheet name is required", resp.Message)
	assert.False(t, IsValidationError(ErrInvalidRequest))
}

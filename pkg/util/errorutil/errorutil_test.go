package errorutil

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToDomainError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantCode   string
		wantStatus int
		wantMsg    string
	}{
		{"validation", NewValidationError("Missing username"), CodeValidation, http.StatusBadRequest, "Missing username"},
		{"not found", NewNotFound("User not found."), CodeNotFound, http.StatusNotFound, "User not found."},
		{"conflict stays 400", NewConflict("Username already taken."), CodeConflict, http.StatusBadRequest, "Username already taken."},
		{"wrapped domain error", fmt.Errorf("signup: %w", NewNotFound("gone")), CodeNotFound, http.StatusNotFound, "gone"},
		{"plain error is opaque", errors.New("dial tcp: connection refused"), CodeInternal, http.StatusInternalServerError, "internal server error"},
		{"fiber 405", fiber.ErrMethodNotAllowed, CodeValidation, http.StatusMethodNotAllowed, "Method Not Allowed"},
		{"fiber 404", fiber.ErrNotFound, CodeNotFound, http.StatusNotFound, "Not Found"},
		{"fiber 503 hides detail", fiber.NewError(http.StatusServiceUnavailable, "pool exhausted"), CodeInternal, http.StatusServiceUnavailable, "internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ToDomainError(tt.err)
			require.NotNil(t, got)
			assert.Equal(t, tt.wantCode, got.Code)
			assert.Equal(t, tt.wantStatus, got.HTTPStatus)
			assert.Equal(t, tt.wantMsg, got.Message)
		})
	}
}

func TestInternalErrorKeepsCause(t *testing.T) {
	cause := errors.New("boom")
	err := NewInternalError(cause)

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "boom")
	assert.Nil(t, ToDomainError(nil))
	assert.NoError(t, MapError(nil))
}

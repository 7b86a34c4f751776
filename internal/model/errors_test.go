package model

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestCLIError_Error verifies the error message formatting with and
// without an underlying error.
func TestCLIError_Error(t *testing.T) {
	t.Run("without underlying error", func(t *testing.T) {
		err := NewCLIError(ExitConfigError, "config not readable")
		assert.Equal(t, "config not readable", err.Error())
		assert.Equal(t, ExitConfigError, err.Code)
		assert.Nil(t, err.Unwrap())
	})

	t.Run("with underlying error", func(t *testing.T) {
		inner := errors.New("permission denied")
		err := WrapCLIError(ExitGeneralError, "failed to open", inner)
		assert.Equal(t, "failed to open: permission denied", err.Error())
		assert.True(t, errors.Is(err, inner))
	})
}

// TestServiceError verifies that a wrapped ServiceError is found and is not a TransportError.
func TestServiceError(t *testing.T) {
	err := fmt.Errorf("lookup districts: %w", &ServiceError{Provider: "turknet", Code: 17, Message: "Adres bulunamadı"})

	svcErr, ok := AsServiceError(err)
	require.True(t, ok)
	assert.Equal(t, 17, svcErr.Code)
	assert.Equal(t, "Adres bulunamadı", svcErr.Message)
	assert.Contains(t, err.Error(), "turknet service error 17")

	_, ok = AsTransportError(err)
	assert.False(t, ok)
}

// TestTransportError_Error verifies the message for each combination of status and cause.
func TestTransportError_Error(t *testing.T) {
	inner := errors.New("connection refused")

	assert.Equal(t, "GetToken: HTTP 502", (&TransportError{Op: "GetToken", StatusCode: 502}).Error())
	assert.Equal(t, "GetToken: connection refused", (&TransportError{Op: "GetToken", Err: inner}).Error())
	assert.Equal(t, "GetToken: request failed", (&TransportError{Op: "GetToken"}).Error())
	assert.True(t, errors.Is(&TransportError{Op: "x", Err: inner}, inner))
}

// TestExitCodeFor checks the mapping from the error taxonomy to process
// exit codes. Service errors are an informative outcome and exit cleanly.
func TestExitCodeFor(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ExitCode
	}{
		{"nil", nil, ExitSuccess},
		{"service error", &ServiceError{Code: 3, Message: "x"}, ExitSuccess},
		{"validation", NewValidationError("bad"), ExitValidationError},
		{"transport", &TransportError{Op: "q", StatusCode: 500}, ExitTransportError},
		{"wrapped transport", WrapCLIError(ExitGeneralError, "query failed", &TransportError{Op: "q"}), ExitTransportError},
		{"cli error code wins", NewCLIError(ExitUserCancelled, "cancelled"), ExitUserCancelled},
		{"generic", errors.New("boom"), ExitGeneralError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExitCodeFor(tt.err))
		})
	}
}

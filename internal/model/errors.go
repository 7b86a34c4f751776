package model

import (
	"errors"
	"fmt"
)

// ErrValidation is the sentinel wrapped by every input validation error.
// Validation errors are raised before any network call is attempted.
var ErrValidation = errors.New("validation error")

// NewValidationError formats a message and wraps ErrValidation so callers
// can test for it with errors.Is.
func NewValidationError(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// IsValidationError reports whether err is (or wraps) a validation error.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrValidation)
}

// TransportError reports that an HTTP exchange with a provider failed:
// the connection failed, the status code was not 2xx, or the body could
// not be decoded. No retry is attempted for any of these.
type TransportError struct {
	// Op names the remote operation (e.g. "GetBBKCountyList").
	Op string

	// StatusCode is the HTTP status, or 0 if no response was received.
	StatusCode int

	// Err is the underlying error, if any.
	Err error
}

// Error satisfies the error interface.
func (e *TransportError) Error() string {
	switch {
	case e.StatusCode != 0 && e.Err != nil:
		return fmt.Sprintf("%s: HTTP %d: %v", e.Op, e.StatusCode, e.Err)
	case e.StatusCode != 0:
		return fmt.Sprintf("%s: HTTP %d", e.Op, e.StatusCode)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	default:
		return e.Op + ": request failed"
	}
}

// Unwrap returns the underlying error for use with errors.Is/errors.As.
func (e *TransportError) Unwrap() error {
	return e.Err
}

// ServiceError is a failure reported by the provider itself inside a
// successful HTTP response: the service envelope carried a non-zero
// result code. Code and Message are taken verbatim from the envelope.
type ServiceError struct {
	// Provider names the remote service ("turknet").
	Provider string

	// Code is the provider's numeric result code. Never 0.
	Code int

	// Message is the provider's human-readable explanation.
	Message string
}

// Error satisfies the error interface.
func (e *ServiceError) Error() string {
	if e.Provider != "" {
		return fmt.Sprintf("%s service error %d: %s", e.Provider, e.Code, e.Message)
	}
	return fmt.Sprintf("service error %d: %s", e.Code, e.Message)
}

// AsServiceError extracts a ServiceError from err's chain.
func AsServiceError(err error) (*ServiceError, bool) {
	var svcErr *ServiceError
	if errors.As(err, &svcErr) {
		return svcErr, true
	}
	return nil, false
}

// AsTransportError extracts a TransportError from err's chain.
func AsTransportError(err error) (*TransportError, bool) {
	var tErr *TransportError
	if errors.As(err, &tErr) {
		return tErr, true
	}
	return nil, false
}

// ExitCode defines the process exit codes of the CLI.
type ExitCode int

const (
	// ExitSuccess indicates the command completed successfully. Provider
	// service errors also exit with this code: they are an informative
	// outcome ("address not found"), not a failure of the tool.
	ExitSuccess ExitCode = 0

	// ExitGeneralError indicates an unspecified error occurred.
	ExitGeneralError ExitCode = 1

	// ExitValidationError indicates malformed user input.
	ExitValidationError ExitCode = 2

	// ExitTransportError indicates the provider could not be reached or
	// answered with a non-success HTTP status.
	ExitTransportError ExitCode = 3

	// ExitConfigError indicates the configuration file or environment
	// could not be loaded.
	ExitConfigError ExitCode = 4

	// ExitUserCancelled indicates the user cancelled an interactive prompt.
	ExitUserCancelled ExitCode = 7
)

// CLIError is a custom error type that carries an exit code.
// This allows the CLI layer to translate domain errors into
// appropriate process exit codes.
type CLIError struct {
	// Code is the exit code to return to the OS.
	Code ExitCode

	// Message is the human-readable error description.
	Message string

	// Err is the underlying error, if any.
	Err error
}

// Error satisfies the error interface. It returns the human-readable
// error message, optionally including the underlying error.
func (e *CLIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error for use with errors.Is/errors.As.
func (e *CLIError) Unwrap() error {
	return e.Err
}

// NewCLIError creates a new CLIError with the given exit code and message.
func NewCLIError(code ExitCode, message string) *CLIError {
	return &CLIError{Code: code, Message: message}
}

// WrapCLIError creates a new CLIError that wraps an existing error.
func WrapCLIError(code ExitCode, message string, err error) *CLIError {
	return &CLIError{Code: code, Message: message, Err: err}
}

// ExitCodeFor classifies err into the exit code the process should use.
// Service errors map to ExitSuccess; see ExitSuccess.
func ExitCodeFor(err error) ExitCode {
	if err == nil {
		return ExitSuccess
	}
	var cliErr *CLIError
	if errors.As(err, &cliErr) && cliErr.Code != ExitGeneralError {
		return cliErr.Code
	}
	if _, ok := AsServiceError(err); ok {
		return ExitSuccess
	}
	if IsValidationError(err) {
		return ExitValidationError
	}
	if _, ok := AsTransportError(err); ok {
		return ExitTransportError
	}
	return ExitGeneralError
}

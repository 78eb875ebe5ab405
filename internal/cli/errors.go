package cli

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/roach88/orderlens/internal/classify"
	"github.com/roach88/orderlens/internal/config"
	"github.com/roach88/orderlens/internal/enrich"
	"github.com/roach88/orderlens/internal/loader"
	"github.com/roach88/orderlens/internal/store"
)

// Exit codes.
const (
	ExitSuccess      = 0 // Analysis done or listing printed
	ExitFailure      = 1 // Artifacts or run history could not be written
	ExitCommandError = 2 // Bad input: missing file or column, invalid config, duplicate order id
)

// ExitError carries the process exit code for a failed command.
type ExitError struct {
	Code    int    // ExitFailure or ExitCommandError
	Message string // E-code prefixed summary
	Err     error  // Underlying error (optional)

	// Reported is set once the error was written through the formatter.
	Reported bool
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// NewExitError creates an ExitError without an underlying error.
func NewExitError(code int, message string) *ExitError {
	return &ExitError{Code: code, Message: message}
}

// WrapExitError wraps err with an exit code.
func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// GetExitCode returns the exit code carried by err, or ExitFailure.
func GetExitCode(err error) int {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}

// Reported reports whether err was already written to the user.
func Reported(err error) bool {
	var exitErr *ExitError
	return errors.As(err, &exitErr) && exitErr.Reported
}

// Error codes shared by all commands.
const (
	ErrCodeGeneric     = "E001" // Generic/unknown error
	ErrCodeNotFound    = "E005" // Path not found
	ErrCodeWriteFailed = "E007" // File write error
	ErrCodeConfig      = "E008" // Invalid configuration

	// Input errors
	ErrCodeMissingColumn  = "E201" // Required CSV column absent
	ErrCodeDuplicateOrder = "E202" // Order id appears twice
	ErrCodeRules          = "E203" // Rule file unreadable or empty

	// Run history errors
	ErrCodeStore       = "E301" // Database open/read/write failed
	ErrCodeRunNotFound = "E302" // No run with the given id
)

// errorCode maps a stage error to its CLI error code.
func errorCode(err error) string {
	switch {
	case errors.Is(err, loader.ErrMissingColumn):
		return ErrCodeMissingColumn
	case errors.Is(err, enrich.ErrDuplicateOrder):
		return ErrCodeDuplicateOrder
	case errors.Is(err, config.ErrInvalid):
		return ErrCodeConfig
	case errors.Is(err, classify.ErrNoRules):
		return ErrCodeRules
	case errors.Is(err, store.ErrNotFound):
		return ErrCodeRunNotFound
	case errors.Is(err, fs.ErrNotExist):
		return ErrCodeNotFound
	default:
		return ErrCodeGeneric
	}
}

// fail reports err through the formatter and returns an ExitError carrying
// exitCode. An empty code is derived from err.
func fail(formatter *OutputFormatter, exitCode int, code, message string, err error) error {
	if code == "" {
		code = errorCode(err)
	}
	_ = formatter.Error(code, fmt.Sprintf("%s: %v", message, err), nil)
	exitErr := WrapExitError(exitCode, fmt.Sprintf("%s: %s", code, message), err)
	exitErr.Reported = true
	return exitErr
}

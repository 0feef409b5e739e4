package output

import (
	"context"
	"errors"
)

// Exit codes:
// 0   = Success
// 1   = Precondition failure (wrong branch, unrelated history, bad config)
// 2   = Git invocation failure
// 3   = Apply step failure (lease rejected, ref moved underneath us)
// 130 = Interrupted
const (
	ExitSuccess      = 0
	ExitPrecondition = 1
	ExitTool         = 2
	ExitApply        = 3
	ExitInterrupted  = 130
)

// ExitError is an error that carries an exit code for the CLI.
type ExitError struct {
	Code    int
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *ExitError) Error() string {
	if e.Cause != nil && e.Message == "" {
		return e.Cause.Error()
	}
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

// Unwrap returns the underlying cause for errors.Is/errors.As support.
func (e *ExitError) Unwrap() error {
	return e.Cause
}

// NewPreconditionError reports a state that must be fixed before git-tidy
// can run. Nothing has been changed when this is returned.
func NewPreconditionError(message string) *ExitError {
	return &ExitError{Code: ExitPrecondition, Message: message}
}

// NewToolError wraps a failed git invocation.
func NewToolError(message string, cause error) *ExitError {
	return &ExitError{Code: ExitTool, Message: message, Cause: cause}
}

// NewApplyError wraps a failure while applying decisions. Earlier actions
// may already have been applied.
func NewApplyError(message string, cause error) *ExitError {
	return &ExitError{Code: ExitApply, Message: message, Cause: cause}
}

// ExitCode maps an error to the process exit code.
// Cancellation wins over any wrapping code so ^C always exits 130.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	if errors.Is(err, context.Canceled) {
		return ExitInterrupted
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitPrecondition
}

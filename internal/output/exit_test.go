package output

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestExitCode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil is success", nil, ExitSuccess},
		{"precondition", NewPreconditionError("cannot proceed from branch feature-x"), ExitPrecondition},
		{"tool", NewToolError("git merge-base failed", errors.New("fatal: bad object")), ExitTool},
		{"apply", NewApplyError("push feature-x", errors.New("stale info")), ExitApply},
		{"wrapped tool error", fmt.Errorf("discover: %w", NewToolError("git for-each-ref", errors.New("boom"))), ExitTool},
		{"cancelled", context.Canceled, ExitInterrupted},
		{"cancelled inside tool error", NewToolError("git fetch origin", context.Canceled), ExitInterrupted},
		{"untyped error", errors.New("something"), ExitPrecondition},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := ExitCode(tt.err); got != tt.want {
				t.Errorf("ExitCode(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

func TestExitError_Error(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  *ExitError
		want string
	}{
		{"message only", NewPreconditionError("wrong branch"), "wrong branch"},
		{"message and cause", NewToolError("git fetch origin", errors.New("could not resolve host")), "git fetch origin: could not resolve host"},
		{"cause only", &ExitError{Code: ExitTool, Cause: errors.New("boom")}, "boom"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestExitError_Unwrap(t *testing.T) {
	t.Parallel()

	cause := errors.New("stale info")
	err := NewApplyError("push feature-x", cause)
	if !errors.Is(err, cause) {
		t.Error("errors.Is(err, cause) = false, want true")
	}
}

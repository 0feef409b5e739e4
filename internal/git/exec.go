package git

import (
	"context"
	"errors"
	"strings"

	"github.com/raphi011/git-tidy/internal/cmd"
	"github.com/raphi011/git-tidy/internal/output"
)

// gitArgs prepends -C <dir> to args if dir is non-empty.
func gitArgs(dir string, args []string) []string {
	if dir == "" {
		return args
	}
	return append([]string{"-C", dir}, args...)
}

// runGit executes a git command with context support and verbose logging.
func runGit(ctx context.Context, dir string, args ...string) error {
	return toolError(cmd.RunContext(ctx, "", "git", gitArgs(dir, args)...), args)
}

// outputGit executes a git command with context support and verbose logging,
// returning stdout.
func outputGit(ctx context.Context, dir string, args ...string) ([]byte, error) {
	out, err := cmd.OutputContext(ctx, "", "git", gitArgs(dir, args)...)
	return out, toolError(err, args)
}

// inputGit executes a git command with input on stdin, returning stdout.
func inputGit(ctx context.Context, dir string, input []byte, args ...string) ([]byte, error) {
	out, err := cmd.InputOutputContext(ctx, "", input, "git", gitArgs(dir, args)...)
	return out, toolError(err, args)
}

// outputLine runs git and returns stdout with the final newline removed.
func outputLine(ctx context.Context, dir string, args ...string) (string, error) {
	out, err := outputGit(ctx, dir, args...)
	if err != nil {
		return "", err
	}
	return strings.TrimSuffix(string(out), "\n"), nil
}

// toolError tags a failed invocation with the tool exit code.
// Cancellation passes through so the CLI can exit 130.
func toolError(err error, args []string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	sub := "git"
	if len(args) > 0 {
		sub = "git " + args[0]
	}
	return output.NewToolError(sub+" failed", err)
}

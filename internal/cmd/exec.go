package cmd

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"syscall"
	"time"

	"github.com/raphi011/git-tidy/internal/log"
)

// RunContext executes a command in dir and discards stdout.
// On failure the error carries the command's trimmed stderr.
func RunContext(ctx context.Context, dir, name string, args ...string) error {
	_, err := run(ctx, dir, nil, name, args...)
	return err
}

// OutputContext executes a command in dir and returns its stdout.
func OutputContext(ctx context.Context, dir, name string, args ...string) ([]byte, error) {
	return run(ctx, dir, nil, name, args...)
}

// InputOutputContext executes a command in dir with stdin connected to input
// and returns its stdout.
func InputOutputContext(ctx context.Context, dir string, input []byte, name string, args ...string) ([]byte, error) {
	return run(ctx, dir, input, name, args...)
}

func run(ctx context.Context, dir string, input []byte, name string, args ...string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	done := log.FromContext(ctx).Command(dir, name, args...)
	start := time.Now()

	c := exec.CommandContext(ctx, name, args...)
	c.Dir = dir
	if input != nil {
		c.Stdin = bytes.NewReader(input)
	}

	var stdout, stderr bytes.Buffer
	c.Stdout = &stdout
	c.Stderr = &stderr

	err := c.Run()
	done(time.Since(start))
	if err != nil {
		// A killed process reports "signal: killed"; surface the cancellation instead
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		// ^C reaches the child before our context is cancelled
		if interrupted(err) {
			return nil, context.Canceled
		}
		if errMsg := strings.TrimSpace(stderr.String()); errMsg != "" {
			return nil, fmt.Errorf("%s", errMsg)
		}
		return nil, err
	}
	return stdout.Bytes(), nil
}

// interrupted reports whether err is a process killed by SIGINT or SIGTERM.
func interrupted(err error) bool {
	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) {
		return false
	}
	ws, ok := exitErr.Sys().(syscall.WaitStatus)
	if !ok || !ws.Signaled() {
		return false
	}
	return ws.Signal() == syscall.SIGINT || ws.Signal() == syscall.SIGTERM
}

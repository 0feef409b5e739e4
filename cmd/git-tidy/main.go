package main

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"syscall"

	"github.com/charmbracelet/fang"

	"github.com/raphi011/git-tidy/internal/output"
)

// Version information - set by goreleaser
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	err := fang.Execute(context.Background(), newRootCmd(),
		fang.WithVersion(versionString()),
		fang.WithoutCompletions(),
		fang.WithNotifySignal(os.Interrupt, syscall.SIGTERM),
	)
	return output.ExitCode(err)
}

// versionString returns the version string.
func versionString() string {
	return fmt.Sprintf("%s (%s, %s, %s)", version, commit[:min(7, len(commit))], date, runtime.Version())
}

// Package progress shows live progress on stderr while git-tidy fetches
// remotes and fingerprints integration commits.
//
// Every component degrades to a no-op when its writer is not a terminal,
// so piped or scripted runs only ever see the final report.
package progress

import (
	"fmt"
	"io"
	"os"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/mattn/go-isatty"
)

// stopTimeout bounds how long Stop waits for the renderer to exit.
const stopTimeout = 500 * time.Millisecond

// Enabled reports whether w is a terminal able to show live output.
func Enabled(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// live runs a bubbletea program in the background on out.
type live struct {
	program *tea.Program
	out     io.Writer
	done    chan struct{}
}

func startLive(out io.Writer, m tea.Model) *live {
	l := &live{
		program: tea.NewProgram(m, tea.WithoutSignalHandler(), tea.WithOutput(out), tea.WithInput(nil)),
		out:     out,
		done:    make(chan struct{}),
	}
	go func() {
		_, _ = l.program.Run()
		close(l.done)
	}()
	return l
}

// stop quits the program and clears the line it drew on.
func (l *live) stop() {
	l.program.Quit()
	select {
	case <-l.done:
	case <-time.After(stopTimeout):
	}
	fmt.Fprint(l.out, "\r\033[K")
}

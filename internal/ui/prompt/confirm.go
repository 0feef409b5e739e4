package prompt

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	tea "charm.land/bubbletea/v2"
	"github.com/mattn/go-isatty"

	"github.com/raphi011/git-tidy/internal/ui/styles"
)

// ErrNotInteractive is returned when a prompt is requested but stdin is
// not a terminal.
var ErrNotInteractive = errors.New("stdin is not a terminal")

// ConfirmResult holds the result of a confirmation prompt.
type ConfirmResult struct {
	Confirmed bool
	Cancelled bool
}

type confirmModel struct {
	prompt    string
	confirmed bool
	done      bool
	cancelled bool
}

func (m confirmModel) Init() tea.Cmd {
	return nil
}

func (m confirmModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return m, nil
	}
	switch key.String() {
	case "y", "Y":
		m.confirmed = true
	case "n", "N", "enter":
		// enter takes the default, which is no
	case "ctrl+c", "q", "esc":
		m.cancelled = true
	default:
		return m, nil
	}
	m.done = true
	return m, tea.Quit
}

func (m confirmModel) View() tea.View {
	return tea.NewView(m.text())
}

func (m confirmModel) text() string {
	if m.done {
		return ""
	}
	return fmt.Sprintf("%s %s ", m.prompt, styles.MutedStyle.Render("[y/N]"))
}

// Interactive reports whether stdin is attached to a terminal.
func Interactive() bool {
	fd := os.Stdin.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// Confirm shows a yes/no prompt on out and returns the user's choice.
// The default answer is "no" if the user presses enter without input.
// Returns ErrNotInteractive when stdin is not a terminal.
func Confirm(ctx context.Context, out io.Writer, prompt string) (ConfirmResult, error) {
	if !Interactive() {
		return ConfirmResult{}, ErrNotInteractive
	}

	p := tea.NewProgram(confirmModel{prompt: prompt},
		tea.WithContext(ctx),
		tea.WithOutput(out),
		tea.WithoutSignalHandler(),
	)
	final, err := p.Run()
	if err != nil {
		if ctx.Err() != nil {
			return ConfirmResult{Cancelled: true}, ctx.Err()
		}
		return ConfirmResult{}, fmt.Errorf("running prompt: %w", err)
	}

	m := final.(confirmModel)
	if m.done {
		fmt.Fprintln(out, prompt, answer(m))
	}
	return ConfirmResult{
		Confirmed: m.confirmed,
		Cancelled: m.cancelled,
	}, nil
}

func answer(m confirmModel) string {
	if m.confirmed {
		return "yes"
	}
	return "no"
}

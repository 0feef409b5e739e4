package progress

import (
	"fmt"
	"io"
	"sync"

	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"

	"github.com/raphi011/git-tidy/internal/ui/styles"
)

type messageUpdate string

// Spinner shows an indeterminate activity indicator such as
// "fetching origin".
type Spinner struct {
	out     io.Writer
	mu      sync.Mutex
	msgs    chan string
	live    *live
	message string
}

type spinnerModel struct {
	spinner spinner.Model
	message string
	msgs    <-chan string
}

func (m spinnerModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.next())
}

func (m spinnerModel) next() tea.Cmd {
	return func() tea.Msg {
		msg, ok := <-m.msgs
		if !ok {
			return tea.Quit()
		}
		return messageUpdate(msg)
	}
}

func (m spinnerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case messageUpdate:
		m.message = string(msg)
		return m, m.next()
	default:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
}

func (m spinnerModel) View() tea.View {
	return tea.NewView(m.text())
}

func (m spinnerModel) text() string {
	if m.message == "" {
		return ""
	}
	return fmt.Sprintf("%s %s", m.spinner.View(), styles.MutedStyle.Render(m.message))
}

// NewSpinner creates a spinner that renders message on out once started.
func NewSpinner(out io.Writer, message string) *Spinner {
	return &Spinner{out: out, message: message}
}

// Start begins the animation. It does nothing when out is not a terminal
// or the spinner is already running.
func (s *Spinner) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.live != nil || !Enabled(s.out) {
		return
	}
	s.msgs = make(chan string, 10)
	sp := spinner.New(spinner.WithSpinner(spinner.MiniDot))
	s.live = startLive(s.out, spinnerModel{spinner: sp, message: s.message, msgs: s.msgs})
}

// Set replaces the message. Updates are dropped while the renderer is
// busy rather than blocking the caller.
func (s *Spinner) Set(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.message = message
	if s.live == nil {
		return
	}
	select {
	case s.msgs <- message:
	default:
	}
}

// Message returns the most recent message.
func (s *Spinner) Message() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.message
}

// Stop ends the animation and clears its line. Safe to call repeatedly.
func (s *Spinner) Stop() {
	s.mu.Lock()
	l := s.live
	if l == nil {
		s.mu.Unlock()
		return
	}
	s.live = nil
	close(s.msgs)
	s.mu.Unlock()

	l.stop()
}

package progress

import (
	"fmt"
	"io"
	"sync"

	"charm.land/bubbles/v2/progress"
	tea "charm.land/bubbletea/v2"

	"github.com/raphi011/git-tidy/internal/ui/styles"
)

// barWidth is the rendered width of the bar itself.
const barWidth = 30

type countUpdate struct {
	done, total int
}

// Bar shows determinate progress, e.g. "fingerprinting 120/480 commits".
// Its Report method matches the progress callback of the fingerprint
// cache and may be called from several goroutines.
type Bar struct {
	out     io.Writer
	label   string
	mu      sync.Mutex
	updates chan countUpdate
	live    *live
	done    int
	total   int
}

type barModel struct {
	bar     progress.Model
	label   string
	done    int
	total   int
	updates <-chan countUpdate
}

func (m barModel) Init() tea.Cmd {
	return m.next()
}

func (m barModel) next() tea.Cmd {
	return func() tea.Msg {
		u, ok := <-m.updates
		if !ok {
			return tea.Quit()
		}
		return u
	}
}

func (m barModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case countUpdate:
		m.done, m.total = msg.done, msg.total
		return m, m.next()
	default:
		var cmd tea.Cmd
		m.bar, cmd = m.bar.Update(msg)
		return m, cmd
	}
}

func (m barModel) View() tea.View {
	return tea.NewView(m.text())
}

func (m barModel) text() string {
	return fmt.Sprintf("%s %s %d/%d", m.bar.ViewAs(fraction(m.done, m.total)),
		styles.MutedStyle.Render(m.label), m.done, m.total)
}

func fraction(done, total int) float64 {
	if total <= 0 {
		return 0
	}
	if done >= total {
		return 1
	}
	return float64(done) / float64(total)
}

// NewBar creates a progress bar labelled label that renders on out.
func NewBar(out io.Writer, label string) *Bar {
	return &Bar{out: out, label: label}
}

// Report records that done of total units are finished. The bar starts
// on the first report so callers that never compute anything draw nothing.
func (b *Bar) Report(done, total int) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.done, b.total = done, total
	if b.live == nil {
		if !Enabled(b.out) {
			return
		}
		b.updates = make(chan countUpdate, 16)
		bar := progress.New(
			progress.WithWidth(barWidth),
			progress.WithoutPercentage(),
			progress.WithColors(styles.Update, styles.Success),
		)
		b.live = startLive(b.out, barModel{bar: bar, label: b.label, done: done, total: total, updates: b.updates})
		return
	}
	select {
	case b.updates <- countUpdate{done: done, total: total}:
	default:
	}
}

// Counts returns the last reported progress.
func (b *Bar) Counts() (done, total int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.done, b.total
}

// Stop removes the bar. Safe to call when it never started.
func (b *Bar) Stop() {
	b.mu.Lock()
	l := b.live
	if l == nil {
		b.mu.Unlock()
		return
	}
	b.live = nil
	close(b.updates)
	b.mu.Unlock()

	l.stop()
}

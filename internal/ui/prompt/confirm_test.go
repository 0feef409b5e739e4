package prompt

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"
)

func keyPress(key string) tea.KeyPressMsg {
	if len(key) == 1 {
		return tea.KeyPressMsg{Code: rune(key[0])}
	}
	switch key {
	case "ctrl+c":
		return tea.KeyPressMsg{Code: 'c', Mod: tea.ModCtrl}
	case "enter":
		return tea.KeyPressMsg{Code: tea.KeyEnter}
	case "esc":
		return tea.KeyPressMsg{Code: tea.KeyEscape}
	default:
		return tea.KeyPressMsg{Code: rune(key[0])}
	}
}

func TestConfirmModel_Update(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		key       string
		confirmed bool
		done      bool
		cancelled bool
		wantCmd   bool
	}{
		{"y confirms", "y", true, true, false, true},
		{"Y confirms", "Y", true, true, false, true},
		{"n declines", "n", false, true, false, true},
		{"N declines", "N", false, true, false, true},
		{"enter defaults no", "enter", false, true, false, true},
		{"ctrl+c cancels", "ctrl+c", false, true, true, true},
		{"esc cancels", "esc", false, true, true, true},
		{"q cancels", "q", false, true, true, true},
		{"unhandled is no-op", "x", false, false, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			m := confirmModel{prompt: "Continue?"}
			updated, cmd := m.Update(keyPress(tt.key))
			um := updated.(confirmModel)

			if um.confirmed != tt.confirmed {
				t.Errorf("confirmed = %v, want %v", um.confirmed, tt.confirmed)
			}
			if um.done != tt.done {
				t.Errorf("done = %v, want %v", um.done, tt.done)
			}
			if um.cancelled != tt.cancelled {
				t.Errorf("cancelled = %v, want %v", um.cancelled, tt.cancelled)
			}
			if (cmd != nil) != tt.wantCmd {
				t.Errorf("cmd nil = %v, want nil = %v", cmd == nil, !tt.wantCmd)
			}
		})
	}
}

func TestConfirmModel_ViewNotDone(t *testing.T) {
	t.Parallel()

	m := confirmModel{prompt: "Delete files?"}
	_ = m.View()
	if m.text() == "" {
		t.Error("view text should not be empty when not done")
	}
}

func TestConfirmModel_ViewDone(t *testing.T) {
	t.Parallel()

	m := confirmModel{prompt: "Delete files?", done: true}
	_ = m.View()
	if got := m.text(); got != "" {
		t.Errorf("view text = %q, want empty once answered", got)
	}
}

func TestConfirmModel_Init(t *testing.T) {
	t.Parallel()

	m := confirmModel{prompt: "test"}
	cmd := m.Init()
	if cmd != nil {
		t.Error("Init() should return nil cmd")
	}
}

func TestConfirmModel_ViewShowsDefault(t *testing.T) {
	t.Parallel()

	m := confirmModel{prompt: "Apply?"}
	if got := m.text(); !strings.Contains(got, "Apply?") || !strings.Contains(got, "[y/N]") {
		t.Errorf("text() = %q, want prompt and [y/N]", got)
	}
}

func TestConfirmModel_IgnoresNonKeys(t *testing.T) {
	t.Parallel()

	m := confirmModel{prompt: "Apply?"}
	updated, cmd := m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	if cmd != nil {
		t.Error("non-key message should not produce a command")
	}
	if updated.(confirmModel).done {
		t.Error("non-key message should not finish the prompt")
	}
}

func TestAnswer(t *testing.T) {
	t.Parallel()

	if got := answer(confirmModel{confirmed: true}); got != "yes" {
		t.Errorf("answer(confirmed) = %q, want yes", got)
	}
	if got := answer(confirmModel{cancelled: true}); got != "no" {
		t.Errorf("answer(cancelled) = %q, want no", got)
	}
}

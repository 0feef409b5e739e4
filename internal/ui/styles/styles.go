// Package styles provides shared lipgloss styles for git-tidy output.
//
// This package centralizes color definitions so the report, the plan
// table and the interactive prompt agree on what "merged" or "warn"
// looks like. Colors are plain ANSI indexes; the output writer
// downsamples or strips them depending on the terminal.
package styles

import (
	"image/color"

	"charm.land/lipgloss/v2"
)

// Palette used throughout the UI
var (
	// Success is used for merged and ok labels (green)
	Success color.Color = lipgloss.Color("2")

	// Update is used for ref updates (bright cyan)
	Update color.Color = lipgloss.Color("14")

	// Warning is used for warnings and suppressed actions (bright yellow)
	Warning color.Color = lipgloss.Color("11")

	// Danger is used for deletions (red)
	Danger color.Color = lipgloss.Color("1")

	// Push is used for mirror pushes (magenta)
	Push color.Color = lipgloss.Color("5")

	// Muted is used for secondary text (gray)
	Muted color.Color = lipgloss.Color("8")
)

// Common styles
var (
	// Bold applies bold formatting
	Bold = lipgloss.NewStyle().Bold(true)

	// MutedStyle applies the muted color
	MutedStyle = lipgloss.NewStyle().Foreground(Muted)
)

var labelStyles = map[string]lipgloss.Style{
	"merged": lipgloss.NewStyle().Foreground(Success),
	"ok":     lipgloss.NewStyle().Foreground(Success),
	"update": lipgloss.NewStyle().Foreground(Update),
	"warn":   lipgloss.NewStyle().Foreground(Warning),
	"delete": lipgloss.NewStyle().Foreground(Danger),
	"push":   lipgloss.NewStyle().Foreground(Push),
}

// LabelStyle returns the style for a status label.
// Unknown labels (including "note") render unstyled.
func LabelStyle(label string) lipgloss.Style {
	if s, ok := labelStyles[label]; ok {
		return s
	}
	return lipgloss.NewStyle()
}

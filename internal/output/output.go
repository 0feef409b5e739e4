// Package output provides context-aware output for git-tidy.
// Stdout is used for the report (status lines, plan tables, JSON/YAML).
// Stderr (via log package) is used for diagnostics.
package output

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/colorprofile"
	"gopkg.in/yaml.v3"

	"github.com/raphi011/git-tidy/internal/ui/styles"
)

type ctxKey struct{}

// ColorMode selects whether report output is colored.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"
	ColorAlways ColorMode = "always"
	ColorNever  ColorMode = "never"
)

// Label is the upper-cased tag in front of a status line.
type Label string

const (
	LabelNote   Label = "note"
	LabelMerged Label = "merged"
	LabelUpdate Label = "update"
	LabelWarn   Label = "warn"
	LabelOK     Label = "ok"
	LabelDelete Label = "delete"
	LabelPush   Label = "push"
)

// labelWidth is the padded width of a status label.
const labelWidth = 8

// Printer writes the report to stdout.
type Printer struct {
	w      io.Writer // underlying writer
	styled io.Writer // w wrapped for color downsampling
}

// New creates a Printer that never emits color.
func New(w io.Writer) *Printer {
	return NewStyled(w, ColorNever)
}

// NewStyled creates a Printer whose styles are downsampled to what w supports.
// ColorAlways forces ANSI colors, ColorNever strips them.
func NewStyled(w io.Writer, mode ColorMode) *Printer {
	cw := colorprofile.NewWriter(w, os.Environ())
	switch mode {
	case ColorAlways:
		cw.Profile = colorprofile.ANSI
	case ColorNever:
		cw.Profile = colorprofile.NoTTY
	}
	return &Printer{w: w, styled: cw}
}

// WithPrinter attaches an uncolored Printer for w to the context.
func WithPrinter(ctx context.Context, w io.Writer) context.Context {
	return NewContext(ctx, New(w))
}

// NewContext attaches p to the context.
func NewContext(ctx context.Context, p *Printer) context.Context {
	return context.WithValue(ctx, ctxKey{}, p)
}

// FromContext retrieves the Printer from context.
// Returns a Printer writing to os.Stdout if none is attached.
func FromContext(ctx context.Context) *Printer {
	if p, ok := ctx.Value(ctxKey{}).(*Printer); ok {
		return p
	}
	return New(os.Stdout)
}

// Print writes output without a newline.
func (p *Printer) Print(a ...any) {
	fmt.Fprint(p.styled, a...)
}

// Printf writes formatted output.
func (p *Printer) Printf(format string, a ...any) {
	fmt.Fprintf(p.styled, format, a...)
}

// Println writes a line of output.
func (p *Printer) Println(a ...any) {
	fmt.Fprintln(p.styled, a...)
}

// Status writes a report line: a padded, colored label followed by the message.
func (p *Printer) Status(label Label, format string, a ...any) {
	tag := fmt.Sprintf("%-*s", labelWidth, strings.ToUpper(string(label)))
	fmt.Fprintf(p.styled, "%s %s\n", styles.LabelStyle(string(label)).Render(tag), fmt.Sprintf(format, a...))
}

// Note writes a NOTE line.
func (p *Printer) Note(format string, a ...any) { p.Status(LabelNote, format, a...) }

// Merged writes a MERGED line.
func (p *Printer) Merged(format string, a ...any) { p.Status(LabelMerged, format, a...) }

// Update writes an UPDATE line.
func (p *Printer) Update(format string, a ...any) { p.Status(LabelUpdate, format, a...) }

// Warn writes a WARN line.
func (p *Printer) Warn(format string, a ...any) { p.Status(LabelWarn, format, a...) }

// OK writes an OK line.
func (p *Printer) OK(format string, a ...any) { p.Status(LabelOK, format, a...) }

// WriteJSON encodes v as indented JSON.
func (p *Printer) WriteJSON(v any) error {
	enc := json.NewEncoder(p.w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encoding JSON: %w", err)
	}
	return nil
}

// WriteYAML encodes v as YAML.
func (p *Printer) WriteYAML(v any) error {
	enc := yaml.NewEncoder(p.w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encoding YAML: %w", err)
	}
	return enc.Close()
}

// Writer returns the underlying writer.
func (p *Printer) Writer() io.Writer {
	return p.w
}

package output

import (
	"bytes"
	"context"
	"os"
	"strings"
	"testing"
)

func TestWithPrinter_FromContext(t *testing.T) {
	t.Parallel()

	t.Run("round trip", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		ctx := WithPrinter(context.Background(), &buf)
		p := FromContext(ctx)
		if p == nil {
			t.Fatal("FromContext returned nil")
		}
		if p.Writer() != &buf {
			t.Error("Writer() should return the buffer passed to WithPrinter")
		}
	})

	t.Run("default to stdout when not set", func(t *testing.T) {
		t.Parallel()
		p := FromContext(context.Background())
		if p == nil {
			t.Fatal("FromContext returned nil on empty context")
		}
		if p.Writer() != os.Stdout {
			t.Error("Writer() should default to os.Stdout")
		}
	})
}

func TestPrinter_Print(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	p := FromContext(WithPrinter(context.Background(), &buf))

	p.Print("hello", " ", "world")
	if got := buf.String(); got != "hello world" {
		t.Errorf("Print() wrote %q, want %q", got, "hello world")
	}
}

func TestPrinter_Printf(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	p := FromContext(WithPrinter(context.Background(), &buf))

	p.Printf("count: %d", 42)
	if got := buf.String(); got != "count: 42" {
		t.Errorf("Printf() wrote %q, want %q", got, "count: 42")
	}
}

func TestPrinter_Println(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	p := FromContext(WithPrinter(context.Background(), &buf))

	p.Println("line one")
	p.Println("line two")
	want := "line one\nline two\n"
	if got := buf.String(); got != want {
		t.Errorf("Println() wrote %q, want %q", got, want)
	}
}

func TestPrinter_Writer(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	ctx := WithPrinter(context.Background(), &buf)
	p := FromContext(ctx)

	w := p.Writer()
	if w != &buf {
		t.Error("Writer() should return the underlying writer")
	}

	// Write directly through the writer
	if _, err := w.Write([]byte("direct")); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if got := buf.String(); got != "direct" {
		t.Errorf("direct Write produced %q, want %q", got, "direct")
	}
}

func TestPrinter_Status(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		write func(p *Printer)
		want  string
	}{
		{
			name:  "note",
			write: func(p *Printer) { p.Note("computing patch ids since %s...", "2026-01-02") },
			want:  "NOTE     computing patch ids since 2026-01-02...\n",
		},
		{
			name:  "merged",
			write: func(p *Printer) { p.Merged("feature-y merged as %s", "c0ffee12") },
			want:  "MERGED   feature-y merged as c0ffee12\n",
		},
		{
			name:  "warn",
			write: func(p *Printer) { p.Warn("feature-x is missing on remote and is not merged") },
			want:  "WARN     feature-x is missing on remote and is not merged\n",
		},
		{
			name:  "long label is not truncated",
			write: func(p *Printer) { p.Status(Label("verylonglabel"), "msg") },
			want:  "VERYLONGLABEL msg\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var buf bytes.Buffer
			tt.write(NewStyled(&buf, ColorNever))
			if got := buf.String(); got != tt.want {
				t.Errorf("Status wrote %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPrinter_StatusColorAlways(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	p := NewStyled(&buf, ColorAlways)
	p.Merged("feature-y merged as c0ffee12")
	if !strings.Contains(buf.String(), "\x1b[") {
		t.Errorf("Status with ColorAlways wrote %q, want ANSI escapes", buf.String())
	}
}

func TestPrinter_WriteJSON(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	p := New(&buf)
	if err := p.WriteJSON(map[string]any{"branch": "feature-y"}); err != nil {
		t.Fatalf("WriteJSON() = %v", err)
	}
	want := "{\n  \"branch\": \"feature-y\"\n}\n"
	if got := buf.String(); got != want {
		t.Errorf("WriteJSON() wrote %q, want %q", got, want)
	}
}

func TestPrinter_WriteYAML(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	p := New(&buf)
	v := struct {
		Delete []string `yaml:"delete"`
	}{Delete: []string{"feature-y"}}
	if err := p.WriteYAML(v); err != nil {
		t.Fatalf("WriteYAML() = %v", err)
	}
	want := "delete:\n  - feature-y\n"
	if got := buf.String(); got != want {
		t.Errorf("WriteYAML() wrote %q, want %q", got, want)
	}
}

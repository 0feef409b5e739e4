package main

import (
	"bytes"
	"context"
	"slices"
	"strings"
	"testing"

	"github.com/raphi011/git-tidy/internal/config"
	"github.com/raphi011/git-tidy/internal/output"
	"github.com/raphi011/git-tidy/internal/reconcile"
)

func TestOverrides(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		args  []string
		check func(t *testing.T, o config.Overrides)
	}{
		{
			name: "no flags",
			check: func(t *testing.T, o config.Overrides) {
				if o.PersonalRemote != nil || o.IntegrationBranch != nil || o.Workers != nil || o.NoFetch != nil {
					t.Errorf("unset flags produced overrides: %+v", o)
				}
			},
		},
		{
			name: "personal",
			args: []string{"-p", "me"},
			check: func(t *testing.T, o config.Overrides) {
				if o.PersonalRemote == nil || *o.PersonalRemote != "me" {
					t.Errorf("PersonalRemote = %v, want me", o.PersonalRemote)
				}
			},
		},
		{
			name: "master",
			args: []string{"--master"},
			check: func(t *testing.T, o config.Overrides) {
				if o.IntegrationBranch == nil || *o.IntegrationBranch != "master" {
					t.Errorf("IntegrationBranch = %v, want master", o.IntegrationBranch)
				}
			},
		},
		{
			name: "lists",
			args: []string{"-e", "release", "-e", "prod", "-i", "wip/"},
			check: func(t *testing.T, o config.Overrides) {
				if !slices.Equal(o.Eternal, []string{"release", "prod"}) {
					t.Errorf("Eternal = %v", o.Eternal)
				}
				if !slices.Equal(o.IgnorePrefixes, []string{"wip/"}) {
					t.Errorf("IgnorePrefixes = %v", o.IgnorePrefixes)
				}
			},
		},
		{
			name: "workers and switches",
			args: []string{"--workers", "3", "-n", "--no-push"},
			check: func(t *testing.T, o config.Overrides) {
				if o.Workers == nil || *o.Workers != 3 {
					t.Errorf("Workers = %v, want 3", o.Workers)
				}
				if o.NoFetch == nil || !*o.NoFetch || o.NoPush == nil || !*o.NoPush {
					t.Errorf("NoFetch/NoPush = %v/%v, want true", o.NoFetch, o.NoPush)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cmd := newRootCmd()
			if err := cmd.ParseFlags(tt.args); err != nil {
				t.Fatalf("ParseFlags(%v) error = %v", tt.args, err)
			}
			tt.check(t, overrides(cmd))
		})
	}
}

func TestRootCmd_MutuallyExclusive(t *testing.T) {
	t.Parallel()

	tests := [][]string{
		{"--verbose", "--quiet"},
		{"--master", "--integration", "trunk"},
		{"--really", "--dry-run"},
	}
	for _, args := range tests {
		cmd := newRootCmd()
		cmd.SetArgs(args)
		cmd.SetOut(&bytes.Buffer{})
		cmd.SetErr(&bytes.Buffer{})
		if err := cmd.ExecuteContext(context.Background()); err == nil {
			t.Errorf("Execute(%v) succeeded, want mutually exclusive error", args)
		}
	}
}

func TestRootCmd_InvalidColor(t *testing.T) {
	t.Parallel()

	cmd := newRootCmd()
	cmd.SetArgs([]string{"--color", "sometimes", "--config", "/nonexistent/config.toml", "config", "show"})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	err := cmd.ExecuteContext(context.Background())
	if output.ExitCode(err) != output.ExitPrecondition {
		t.Errorf("exit code = %d (err %v), want %d", output.ExitCode(err), err, output.ExitPrecondition)
	}
}

func TestCheckFormat(t *testing.T) {
	t.Parallel()

	if err := checkFormat("json", formatText, formatJSON); err != nil {
		t.Errorf("checkFormat(json) error = %v", err)
	}
	err := checkFormat("xml", formatText, formatJSON, formatYAML)
	if err == nil || !strings.Contains(err.Error(), "text, json or yaml") {
		t.Errorf("checkFormat(xml) error = %v, want list of formats", err)
	}
}

func TestJoinOr(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   []string
		want string
	}{
		{nil, ""},
		{[]string{"a"}, "a"},
		{[]string{"a", "b"}, "a or b"},
		{[]string{"a", "b", "c"}, "a, b or c"},
	}
	for _, tt := range tests {
		if got := joinOr(tt.in); got != tt.want {
			t.Errorf("joinOr(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestConfirmQuestion(t *testing.T) {
	t.Parallel()

	if got := confirmQuestion("delete 2 branches, push 1"); got != "Delete 2 branches, push 1?" {
		t.Errorf("confirmQuestion() = %q", got)
	}
	if got := confirmQuestion(""); got != "Apply changes?" {
		t.Errorf("confirmQuestion(\"\") = %q", got)
	}
}

func TestPlural(t *testing.T) {
	t.Parallel()

	if got := plural(1, "restore command"); got != "1 restore command" {
		t.Errorf("plural(1) = %q", got)
	}
	if got := plural(3, "restore command"); got != "3 restore commands" {
		t.Errorf("plural(3) = %q", got)
	}
}

func TestSuggest(t *testing.T) {
	t.Parallel()

	names := []string{"feature-login", "feature-logout", "bugfix-crash", "docs"}
	got := suggest("login", names)
	if len(got) == 0 || got[0] != "feature-login" {
		t.Errorf("suggest(login) = %v, want feature-login first", got)
	}
	if got := suggest("zzz", names); len(got) != 0 {
		t.Errorf("suggest(zzz) = %v, want none", got)
	}
	if got := suggest("f", names); len(got) > maxSuggestions {
		t.Errorf("suggest(f) returned %d names, want at most %d", len(got), maxSuggestions)
	}
}

func TestPrintOutcomes(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	printOutcomes(output.New(&buf), &reconcile.Plan{Outcomes: []reconcile.Outcome{
		{Branch: "a", Message: "a merged as 1234abcd", Label: output.LabelMerged},
		{Branch: "b", Message: "b is missing on me and is not merged", Label: output.LabelWarn},
	}})

	want := "MERGED   a merged as 1234abcd\nWARN     b is missing on me and is not merged\n"
	if got := buf.String(); got != want {
		t.Errorf("printOutcomes() =\n%q\nwant\n%q", got, want)
	}
}

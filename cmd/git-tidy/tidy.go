package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"github.com/raphi011/git-tidy/internal/apply"
	"github.com/raphi011/git-tidy/internal/log"
	"github.com/raphi011/git-tidy/internal/output"
	"github.com/raphi011/git-tidy/internal/reconcile"
	"github.com/raphi011/git-tidy/internal/ui/prompt"
)

// runTidy is the default command: classify, confirm, apply.
func runTidy(cmd *cobra.Command, flags tidyFlags) error {
	s, err := openSession(cmd, sessionOptions{requireIntegration: true})
	if err != nil {
		return err
	}
	defer s.Close()

	ctx := cmd.Context()
	out := output.FromContext(ctx)

	plan, err := s.plan(cmd)
	if err != nil {
		return err
	}
	printOutcomes(out, plan)

	if plan.Empty() {
		return nil
	}
	if flags.dryRun {
		out.Note("dry run, would %s", apply.Summary(plan))
		return nil
	}

	applier := apply.New(s.repo, apply.Options{
		Really:  flags.really,
		Confirm: confirmFunc(cmd.ErrOrStderr()),
	})
	res, err := applier.Apply(ctx, plan, s.strategy)
	if res.Declined {
		out.Note("nothing changed")
	}
	if flags.copyRestore && len(res.Deleted) > 0 {
		copyRestore(ctx, res)
	}
	return err
}

// printOutcomes writes one status line per classified branch.
func printOutcomes(out *output.Printer, p *reconcile.Plan) {
	for _, o := range p.Outcomes {
		out.Status(o.Label, "%s", o.Message)
	}
}

// confirmFunc asks on the terminal before anything is changed.
func confirmFunc(w io.Writer) apply.ConfirmFunc {
	return func(ctx context.Context, summary string) (bool, error) {
		res, err := prompt.Confirm(ctx, w, confirmQuestion(summary))
		if errors.Is(err, prompt.ErrNotInteractive) {
			return false, output.NewPreconditionError("stdin is not a terminal: re-run with --really to apply without asking")
		}
		if err != nil {
			return false, err
		}
		return res.Confirmed && !res.Cancelled, nil
	}
}

func confirmQuestion(summary string) string {
	if summary == "" {
		return "Apply changes?"
	}
	return strings.ToUpper(summary[:1]) + summary[1:] + "?"
}

// copyRestore puts the restore commands of deleted branches on the
// clipboard. Failure only warns; the commands were already printed.
func copyRestore(ctx context.Context, res apply.Result) {
	l := log.FromContext(ctx)
	if err := clipboard.WriteAll(res.RestoreCommands()); err != nil {
		l.Printf("Warning: failed to copy to clipboard: %v\n", err)
		return
	}
	l.Printf("Copied %s to the clipboard\n", plural(len(res.Deleted), "restore command"))
}

func plural(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}

package main

import (
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/raphi011/git-tidy/internal/output"
	"github.com/raphi011/git-tidy/internal/ui/static"
)

// Output formats accepted by --format.
const (
	formatText  = "text"
	formatTable = "table"
	formatJSON  = "json"
	formatYAML  = "yaml"
)

func newPlanCmd() *cobra.Command {
	var (
		format string
		all    bool
	)

	cmd := &cobra.Command{
		Use:     "plan",
		Short:   "Show what git-tidy would do",
		GroupID: GroupCore,
		Args:    cobra.NoArgs,
		Long: `Classify every branch and print the resulting plan without applying it.

Unlike the bare command, plan works from any checked-out branch since it
never changes anything.`,
		Example: `  git tidy plan                 # status lines
  git tidy plan -f table --all  # every branch as a table
  git tidy plan -f json         # machine-readable plan
  git tidy plan --remote        # plan for the mirror`,
		ValidArgsFunction: cobra.NoFileCompletions,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkFormat(format, formatText, formatTable, formatJSON, formatYAML); err != nil {
				return err
			}
			machine := format == formatJSON || format == formatYAML

			s, err := openSession(cmd, sessionOptions{machine: machine})
			if err != nil {
				return err
			}
			defer s.Close()

			plan, err := s.plan(cmd)
			if err != nil {
				return err
			}

			out := output.FromContext(cmd.Context())
			switch format {
			case formatJSON:
				return out.WriteJSON(plan.Summary(s.strategy))
			case formatYAML:
				return out.WriteYAML(plan.Summary(s.strategy))
			case formatTable:
				out.Print(static.RenderPlan(plan, all))
			default:
				printOutcomes(out, plan)
			}
			if plan.Empty() {
				out.Note("nothing to do")
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", formatText, "Output format: text, table, json or yaml")
	cmd.Flags().BoolVarP(&all, "all", "a", false, "Include branches without action in the table")
	_ = cmd.RegisterFlagCompletionFunc("format", cobra.FixedCompletions(
		[]string{formatText, formatTable, formatJSON, formatYAML}, cobra.ShellCompDirectiveNoFileComp))

	return cmd
}

// checkFormat validates a --format value.
func checkFormat(format string, allowed ...string) error {
	if slices.Contains(allowed, format) {
		return nil
	}
	return output.NewPreconditionError(fmt.Sprintf("unknown format %q (want %s)", format, joinOr(allowed)))
}

func joinOr(items []string) string {
	if len(items) < 2 {
		return strings.Join(items, "")
	}
	return strings.Join(items[:len(items)-1], ", ") + " or " + items[len(items)-1]
}

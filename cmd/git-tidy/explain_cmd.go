package main

import (
	"fmt"
	"strings"

	"github.com/sahilm/fuzzy"
	"github.com/spf13/cobra"

	"github.com/raphi011/git-tidy/internal/branch"
	"github.com/raphi011/git-tidy/internal/git"
	"github.com/raphi011/git-tidy/internal/output"
	"github.com/raphi011/git-tidy/internal/reconcile"
)

// maxSuggestions caps the "did you mean" list for unknown branches.
const maxSuggestions = 3

func newExplainCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:     "explain <branch>",
		Short:   "Show why a branch gets its action",
		GroupID: GroupCore,
		Args:    cobra.ExactArgs(1),
		Long: `Classify a single branch and print everything the decision was based
on: fingerprint, the integration commit it was merged as, its upstream
and the mirror counterpart with commit times.

With --remote the argument names a branch on the mirror.`,
		Example: `  git tidy explain feature-x
  git tidy explain feature-x -f json
  git tidy explain --remote me/feature-x`,
		ValidArgsFunction: completeBranches,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkFormat(format, formatText, formatJSON, formatYAML); err != nil {
				return err
			}

			s, err := openSession(cmd, sessionOptions{machine: format != formatText})
			if err != nil {
				return err
			}
			defer s.Close()

			b, err := findCandidate(s.strategy, s.set, args[0])
			if err != nil {
				return err
			}
			if err := s.scan(cmd); err != nil {
				return err
			}
			ev, err := s.engine.Explain(cmd.Context(), s.strategy, s.set, b)
			if err != nil {
				return err
			}

			out := output.FromContext(cmd.Context())
			switch format {
			case formatJSON:
				return out.WriteJSON(ev)
			case formatYAML:
				return out.WriteYAML(ev)
			}
			printEvaluation(out, ev)
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", formatText, "Output format: text, json or yaml")
	return cmd
}

// findCandidate looks a branch up by name or display name. Unknown names
// fail with the closest candidates as suggestions.
func findCandidate(st reconcile.Strategy, set reconcile.Set, name string) (*branch.Branch, error) {
	candidates := st.Candidates(set)
	names := make([]string, len(candidates))
	for i, b := range candidates {
		if b.Name == name || st.Display(b) == name {
			return b, nil
		}
		names[i] = st.Display(b)
	}

	msg := fmt.Sprintf("no %s branch named %s", st.Name(), name)
	if s := suggest(name, names); len(s) > 0 {
		msg += "; did you mean " + strings.Join(s, ", ") + "?"
	}
	return nil, output.NewPreconditionError(msg)
}

// suggest returns up to maxSuggestions fuzzy matches of name.
func suggest(name string, names []string) []string {
	matches := fuzzy.Find(name, names)
	var out []string
	for i := 0; i < len(matches) && i < maxSuggestions; i++ {
		out = append(out, matches[i].Str)
	}
	return out
}

// printEvaluation writes the fields of an evaluation followed by the
// resulting status line.
func printEvaluation(out *output.Printer, ev reconcile.Evaluation) {
	field := func(name, value string) {
		if value != "" {
			out.Printf("%-13s %s\n", name+":", value)
		}
	}
	at := func(name, commit string) string {
		if commit == "" {
			return name
		}
		return fmt.Sprintf("%s (%s)", name, git.Short(commit))
	}

	field("branch", ev.Branch)
	field("head", ev.Head)
	field("merge base", ev.MergeBase)
	field("birth", ev.Birth)
	if ev.Fingerprint.IsNone() {
		field("fingerprint", "none (no net change)")
	} else {
		field("fingerprint", string(ev.Fingerprint))
	}
	field("merged as", ev.MergedAs)
	if ev.Upstream != "" {
		field("upstream", at(ev.Upstream, ev.UpstreamAt))
	}
	if ev.Counterpart != "" {
		field("counterpart", at(ev.Counterpart, ev.CounterAt))
	}
	field("local time", ev.LocalTime)
	field("mirror time", ev.MirrorTime)
	field("rule", string(ev.Rule))
	field("action", string(ev.Action))
	out.Println()
	out.Status(ev.Label, "%s", ev.Message)
}

// completeBranches completes local branch names.
func completeBranches(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	dir, err := workDir(cmd)
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	refs, err := git.ForEachRef(cmd.Context(), dir, "refs/heads")
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	var names []string
	for _, ref := range refs {
		name := strings.TrimPrefix(ref.Name, "refs/heads/")
		if strings.HasPrefix(name, toComplete) {
			names = append(names, name)
		}
	}
	return names, cobra.ShellCompDirectiveNoFileComp
}

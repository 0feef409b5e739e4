package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/raphi011/git-tidy/internal/config"
	"github.com/raphi011/git-tidy/internal/log"
	"github.com/raphi011/git-tidy/internal/output"
)

// Command group IDs for organizing help output
const (
	GroupCore    = "core"
	GroupUtility = "utility"
	GroupConfig  = "config"
)

// annotationConfigOptional marks commands that must work with a broken
// global config, e.g. the one that rewrites it.
const annotationConfigOptional = "git-tidy/config-optional"

// tidyFlags are the flags of the bare git-tidy command.
type tidyFlags struct {
	really      bool
	dryRun      bool
	copyRestore bool
}

func newRootCmd() *cobra.Command {
	var flags tidyFlags

	cmd := &cobra.Command{
		Use:   "git-tidy",
		Short: "Delete merged branches and keep your mirror in sync",
		Long: `git-tidy reconciles your branches against the integration branch and
your personal mirror remote.

A branch is merged when its net change (merge-base..head) has the same
patch id as a commit on the integration branch, so squash merges and
rebases are detected. For every other branch git-tidy follows a foreign
upstream, compares against the mirror, and pushes or fast-forwards
whichever side is behind.

Nothing is changed without confirmation unless --really is given.`,
		Example: `  git tidy                  # classify, confirm, apply
  git tidy --dry-run        # only show what would happen
  git tidy -p me --really   # use remote "me" as mirror, do not ask
  git tidy --remote         # tidy the mirror instead of local branches`,
		Args:                       cobra.NoArgs,
		SilenceUsage:               true,
		SilenceErrors:              true,
		SuggestionsMinimumDistance: 2, // Enable typo suggestions
		PersistentPreRunE:          setup,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTidy(cmd, flags)
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringP("upstream", "u", "", "Upstream remote (default from config: origin)")
	pf.StringP("personal", "p", "", "Personal mirror remote; empty disables the mirror")
	pf.String("integration", "", "Integration branch (default from config: main)")
	pf.Bool("master", false, "Use master as the integration branch")
	pf.StringArrayP("eternal", "e", nil, "Branch that is never touched (repeatable)")
	pf.StringArrayP("ignore-prefix", "i", nil, "Skip branches starting with prefix (repeatable)")
	pf.BoolP("no-fetch", "n", false, "Do not fetch any remote")
	pf.Bool("no-push", false, "Never push to the mirror, only warn")
	pf.Bool("remote", false, "Tidy the personal mirror instead of local branches")
	pf.Int("workers", 0, "Parallel git invocations (default from config: 8)")
	pf.String("engine", "", `Fingerprint engine: "git" or "native"`)
	pf.String("color", "", `Report colors: "auto", "always" or "never"`)
	pf.StringP("dir", "C", "", "Run as if started in this directory")
	pf.String("config", "", "Global config file (default ~/.config/git-tidy/config.toml)")
	pf.BoolP("verbose", "v", false, "Show git commands being executed")
	pf.BoolP("quiet", "q", false, "Suppress all log output")
	cmd.MarkFlagsMutuallyExclusive("verbose", "quiet")
	cmd.MarkFlagsMutuallyExclusive("integration", "master")
	_ = pf.MarkHidden("config")

	cmd.Flags().BoolVar(&flags.really, "really", false, "Do not ask, just do")
	cmd.Flags().BoolVar(&flags.dryRun, "dry-run", false, "Show the plan without applying it")
	cmd.Flags().BoolVar(&flags.copyRestore, "copy-restore", false, "Copy restore commands for deleted branches to the clipboard")
	cmd.MarkFlagsMutuallyExclusive("really", "dry-run")

	cmd.AddGroup(
		&cobra.Group{ID: GroupCore, Title: "Core Commands:"},
		&cobra.Group{ID: GroupUtility, Title: "Utility Commands:"},
		&cobra.Group{ID: GroupConfig, Title: "Configuration Commands:"},
	)

	cmd.AddCommand(newPlanCmd())
	cmd.AddCommand(newExplainCmd())
	cmd.AddCommand(newCacheCmd())
	cmd.AddCommand(newConfigCmd())
	cmd.AddCommand(newCompletionCmd())

	return cmd
}

// setup loads the global config and attaches the logger, the report
// printer and the config to the command context.
func setup(cmd *cobra.Command, args []string) error {
	switch cmd.Name() {
	case "completion", "__complete", "__completeNoDesc", "help", "man":
		return nil
	}

	f := cmd.Flags()
	verbose, _ := f.GetBool("verbose")
	quiet, _ := f.GetBool("quiet")
	l := log.New(cmd.ErrOrStderr(), verbose, quiet)

	cfg, err := loadGlobalConfig(cmd)
	if err != nil {
		if cmd.Annotations[annotationConfigOptional] != "true" {
			return output.NewPreconditionError(err.Error())
		}
		l.Printf("Warning: %v (using defaults)\n", err)
		cfg = config.Default()
	}

	color := cfg.Color
	if f.Changed("color") {
		color, _ = f.GetString("color")
		if err := config.ValidateColorMode(color); err != nil {
			return output.NewPreconditionError(err.Error())
		}
	}

	ctx := cmd.Context()
	ctx = log.WithLogger(ctx, l)
	ctx = output.NewContext(ctx, output.NewStyled(cmd.OutOrStdout(), output.ColorMode(color)))
	ctx = config.WithConfig(ctx, &cfg)
	cmd.SetContext(ctx)
	return nil
}

func loadGlobalConfig(cmd *cobra.Command) (config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	if path == "" {
		return config.Load()
	}
	return config.LoadFile(path)
}

// workDir returns the directory given with -C, or the current directory.
func workDir(cmd *cobra.Command) (string, error) {
	if dir, _ := cmd.Flags().GetString("dir"); dir != "" {
		return dir, nil
	}
	wd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get working directory: %w", err)
	}
	return wd, nil
}

// overrides collects the config settings given as flags.
func overrides(cmd *cobra.Command) config.Overrides {
	f := cmd.Flags()
	str := func(name string) *string {
		if !f.Changed(name) {
			return nil
		}
		v, _ := f.GetString(name)
		return &v
	}
	flag := func(name string) *bool {
		if !f.Changed(name) {
			return nil
		}
		v, _ := f.GetBool(name)
		return &v
	}

	o := config.Overrides{
		UpstreamRemote:    str("upstream"),
		PersonalRemote:    str("personal"),
		IntegrationBranch: str("integration"),
		Engine:            str("engine"),
		Color:             str("color"),
		NoFetch:           flag("no-fetch"),
		NoPush:            flag("no-push"),
	}
	if master := flag("master"); master != nil && *master {
		name := "master"
		o.IntegrationBranch = &name
	}
	if f.Changed("workers") {
		n, _ := f.GetInt("workers")
		o.Workers = &n
	}
	o.Eternal, _ = f.GetStringArray("eternal")
	o.IgnorePrefixes, _ = f.GetStringArray("ignore-prefix")
	return o
}

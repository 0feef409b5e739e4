package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/raphi011/git-tidy/internal/config"
	"github.com/raphi011/git-tidy/internal/git"
	"github.com/raphi011/git-tidy/internal/output"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "config",
		Short:   "Manage configuration",
		Aliases: []string{"cfg"},
		GroupID: GroupConfig,
		Long: `Manage git-tidy configuration.

Global config: ~/.config/git-tidy/config.toml
Local config:  .git-tidy.toml (at the repository top level)`,
		Example: `  git tidy config init          # Create default global config
  git tidy config init --local  # Create local repo config
  git tidy config show          # Show effective config`,
	}

	cmd.AddCommand(newConfigInitCmd())
	cmd.AddCommand(newConfigShowCmd())

	return cmd
}

func newConfigInitCmd() *cobra.Command {
	var (
		force  bool
		stdout bool
		local  bool
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create default config file",
		Args:  cobra.NoArgs,
		Long: `Create default config file.

Without flags, creates the global config.
With --local, creates .git-tidy.toml at the top level of the current repository.`,
		Example: `  git tidy config init           # Create global config
  git tidy config init --local   # Create local repo config
  git tidy config init -f        # Overwrite existing config
  git tidy config init -s        # Print config to stdout`,
		Annotations: map[string]string{annotationConfigOptional: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			out := output.FromContext(cmd.Context())

			if stdout {
				if local {
					out.Print(config.DefaultLocalConfig())
				} else {
					out.Print(config.DefaultConfig())
				}
				return nil
			}

			var (
				path string
				err  error
			)
			if local {
				repo, _, rerr := openRepo(cmd)
				if rerr != nil {
					return rerr
				}
				path, err = config.InitLocal(repo.Path, force)
			} else {
				path, err = config.Init(force)
			}
			if err != nil {
				return fmt.Errorf("%w (use -f to overwrite)", err)
			}

			out.Printf("Created config file: %s\n", path)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite existing config")
	cmd.Flags().BoolVarP(&stdout, "stdout", "s", false, "Print config to stdout")
	cmd.Flags().BoolVar(&local, "local", false, "Create per-repo .git-tidy.toml instead of global config")

	return cmd
}

func newConfigShowCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show effective configuration",
		Args:  cobra.NoArgs,
		Long: `Show effective configuration.

Inside a repository the local .git-tidy.toml and any flags are merged on
top of the global config. Otherwise shows the global config only.`,
		Example: `  git tidy config show           # TOML
  git tidy config show -f json   # Output as JSON
  git tidy config show -p me     # with a flag applied`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkFormat(format, "toml", formatJSON, formatYAML); err != nil {
				return err
			}
			ctx := cmd.Context()

			cfg := config.FromContext(ctx)
			var localPath string
			dir, err := workDir(cmd)
			if err != nil {
				return err
			}
			if git.CheckGit() == nil && git.IsInsideRepoPath(ctx, dir) {
				repo, merged, err := openRepo(cmd)
				if err != nil {
					return err
				}
				cfg = merged
				localPath = filepath.Join(repo.Path, config.LocalConfigFileName)
			} else if cfg, err = cfg.WithOverrides(overrides(cmd)); err != nil {
				return output.NewPreconditionError(err.Error())
			}

			out := output.FromContext(ctx)
			switch format {
			case formatJSON:
				return out.WriteJSON(cfg)
			case formatYAML:
				return out.WriteYAML(cfg)
			}
			if path, err := config.Path(); err == nil {
				out.Printf("# global: %s\n", path)
			}
			if localPath != "" {
				out.Printf("# local:  %s\n", localPath)
			}
			return cfg.Write(out.Writer())
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "toml", "Output format: toml, json or yaml")
	return cmd
}

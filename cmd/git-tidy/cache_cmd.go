package main

import (
	"github.com/spf13/cobra"

	"github.com/raphi011/git-tidy/internal/cache"
	"github.com/raphi011/git-tidy/internal/output"
)

func newCacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "cache",
		Short:   "Inspect or clear the patch id cache",
		GroupID: GroupUtility,
		Long: `Inspect or clear the patch id cache.

The cache maps integration commits to their patch ids so later runs only
fingerprint new commits. It lives in the repository's git directory,
one file per fingerprint engine.`,
		Example: `  git tidy cache stats
  git tidy cache stats -f json
  git tidy cache clear`,
	}

	cmd.AddCommand(newCacheStatsCmd())
	cmd.AddCommand(newCacheClearCmd())
	return cmd
}

func newCacheStatsCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show cache location and entry counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkFormat(format, formatText, formatJSON, formatYAML); err != nil {
				return err
			}
			repo, cfg, err := openRepo(cmd)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			path, err := cachePath(ctx, repo, cfg)
			if err != nil {
				return err
			}
			c, err := cache.Load(path)
			if err != nil {
				return err
			}
			stats := c.Stats()

			out := output.FromContext(ctx)
			switch format {
			case formatJSON:
				return out.WriteJSON(stats)
			case formatYAML:
				return out.WriteYAML(stats)
			}
			out.Printf("path:      %s\n", stats.Path)
			out.Printf("engine:    %s\n", cfg.Fingerprint.Engine)
			out.Printf("entries:   %d\n", stats.Entries)
			out.Printf("sentinels: %d\n", stats.Sentinels)
			if stats.Skipped > 0 {
				out.Printf("skipped:   %d (malformed lines, dropped on next save)\n", stats.Skipped)
			}
			out.Printf("size:      %d bytes\n", stats.Size)
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", formatText, "Output format: text, json or yaml")
	return cmd
}

func newCacheClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete the cache file",
		Long:  `Delete the cache file. The next run fingerprints the whole scan window again.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, cfg, err := openRepo(cmd)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			path, err := cachePath(ctx, repo, cfg)
			if err != nil {
				return err
			}
			if err := cache.Clear(ctx, path); err != nil {
				return err
			}
			output.FromContext(ctx).Note("removed %s", path)
			return nil
		},
	}
}

// Package config handles loading and validation of git-tidy configuration.
//
// Configuration is read from the global config.toml and an optional
// per-repo .git-tidy.toml, then overridden by command-line flags.
//
// # Configuration Sources (highest priority first)
//
//   - Command-line flags
//   - .git-tidy.toml at the repository top level
//   - $XDG_CONFIG_HOME/git-tidy/config.toml (default ~/.config/git-tidy/config.toml)
//   - Default values
//
// # Key Settings
//
//   - integration_branch: the trunk branches are merged into (default "main")
//   - upstream_remote: remote the integration branch is fetched from (default "origin")
//   - personal_remote: the personal mirror; empty disables mirror checks
//   - eternal: branch names that are never touched
//   - ignore_prefixes: branch name prefixes that are skipped
//   - workers: parallel patch-id computations (default 8)
//
// Lists from the local file are appended to the global ones; scalars
// replace them.
package config

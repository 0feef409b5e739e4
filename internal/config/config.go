package config

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"

	"github.com/BurntSushi/toml"

	"github.com/raphi011/git-tidy/internal/storage"
)

// LocalConfigFileName is the per-repo override file at the repository top level.
const LocalConfigFileName = ".git-tidy.toml"

// DefaultWorkers bounds parallel patch-id computation.
const DefaultWorkers = 8

// FingerprintConfig holds patch fingerprint settings
type FingerprintConfig struct {
	Engine string `toml:"engine" json:"engine" yaml:"engine"` // "git" (git patch-id) or "native"
}

// CacheConfig holds fingerprint cache settings
type CacheConfig struct {
	Path string `toml:"path" json:"path" yaml:"path"` // empty = inside the repository's git dir
}

// Config holds the git-tidy configuration
type Config struct {
	UpstreamRemote    string            `toml:"upstream_remote" json:"upstream_remote" yaml:"upstream_remote"`
	PersonalRemote    string            `toml:"personal_remote" json:"personal_remote" yaml:"personal_remote"`
	IntegrationBranch string            `toml:"integration_branch" json:"integration_branch" yaml:"integration_branch"`
	Eternal           []string          `toml:"eternal" json:"eternal" yaml:"eternal"`
	IgnorePrefixes    []string          `toml:"ignore_prefixes" json:"ignore_prefixes" yaml:"ignore_prefixes"`
	NoFetch           bool              `toml:"no_fetch" json:"no_fetch" yaml:"no_fetch"`
	NoPush            bool              `toml:"no_push" json:"no_push" yaml:"no_push"`
	Workers           int               `toml:"workers" json:"workers" yaml:"workers"`
	Color             string            `toml:"color" json:"color" yaml:"color"` // "auto", "always" or "never"
	Fingerprint       FingerprintConfig `toml:"fingerprint" json:"fingerprint" yaml:"fingerprint"`
	Cache             CacheConfig       `toml:"cache" json:"cache" yaml:"cache"`
}

// Default returns the default configuration
func Default() Config {
	return Config{
		UpstreamRemote:    "origin",
		IntegrationBranch: "main",
		Eternal:           []string{"main", "master"},
		Workers:           DefaultWorkers,
		Color:             "auto",
		Fingerprint:       FingerprintConfig{Engine: "git"},
	}
}

// HasMirror reports whether a personal mirror remote is configured.
func (c *Config) HasMirror() bool {
	return c.PersonalRemote != ""
}

// Dir returns the git-tidy configuration directory.
//
// Resolution:
//   - $GIT_TIDY_CONFIG_HOME if set
//   - $XDG_CONFIG_HOME/git-tidy if set
//   - %AppData%/git-tidy on Windows
//   - ~/.config/git-tidy elsewhere
func Dir() (string, error) {
	if dir := os.Getenv("GIT_TIDY_CONFIG_HOME"); dir != "" {
		return dir, nil
	}
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "git-tidy"), nil
	}
	if runtime.GOOS == "windows" {
		if appData := os.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, "git-tidy"), nil
		}
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "git-tidy"), nil
}

// Path returns the path to the global config file
func Path() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// Load reads the global config file.
// Returns Default() if the file doesn't exist (no error).
// Returns error only if the file exists but is invalid.
func Load() (Config, error) {
	path, err := Path()
	if err != nil {
		return Default(), nil
	}
	return LoadFile(path)
}

// LoadFile reads a config file at path, filling unset keys from Default().
func LoadFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return Default(), fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	md, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return Default(), fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return Default(), fmt.Errorf("unknown key %q in %s", undecoded[0].String(), path)
	}

	if err := cfg.Validate(); err != nil {
		return Default(), fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Write encodes the config as TOML.
func (c *Config) Write(w io.Writer) error {
	return toml.NewEncoder(w).Encode(c)
}

const defaultConfig = `# git-tidy configuration

# Branch that all feature work is merged into. git-tidy refuses to run
# unless this branch is checked out.
# integration_branch = "main"

# Remote the integration branch comes from
# upstream_remote = "origin"

# Remote that mirrors your local branches (backup/sharing).
# Leave empty to skip mirror comparison.
# personal_remote = "me"

# Branches that are never touched
# eternal = ["main", "master"]

# Branch name prefixes to skip (e.g. long-lived experiments)
# ignore_prefixes = ["wip/"]

# Skip the initial fetch / never push to the mirror
# no_fetch = false
# no_push = false

# Parallel patch-id computations
# workers = 8

# Report colors: "auto", "always" or "never"
# color = "auto"

# [fingerprint]
# "git" pipes diffs through git patch-id; "native" hashes parsed diffs in-process
# engine = "git"

# [cache]
# Defaults to <git-dir>/git-tidy/patch-ids
# path = "~/.cache/git-tidy/patch-ids"
`

// DefaultConfig returns the default global configuration template content.
func DefaultConfig() string {
	return defaultConfig
}

// Init creates a default config file at the global config path.
// If force is true, overwrites an existing file.
// Returns the path to the created file.
func Init(force bool) (string, error) {
	path, err := Path()
	if err != nil {
		return "", err
	}
	return path, writeTemplate(path, defaultConfig, force)
}

func writeTemplate(path, content string, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return errors.New("config file already exists: " + path)
		}
	}
	return storage.WriteFile(path, []byte(content), 0644)
}

type ctxKey struct{}

// WithConfig attaches the effective config to the context.
func WithConfig(ctx context.Context, cfg *Config) context.Context {
	return context.WithValue(ctx, ctxKey{}, cfg)
}

// FromContext returns the config attached to ctx, or defaults.
func FromContext(ctx context.Context) *Config {
	if cfg, ok := ctx.Value(ctxKey{}).(*Config); ok {
		return cfg
	}
	cfg := Default()
	return &cfg
}

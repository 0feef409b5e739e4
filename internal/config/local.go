package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// LocalConfig holds per-repo configuration overrides from .git-tidy.toml.
// Pointer fields and zero-value strings indicate "not set" (inherit from global).
type LocalConfig struct {
	UpstreamRemote    string            `toml:"upstream_remote"`
	PersonalRemote    string            `toml:"personal_remote"`
	IntegrationBranch string            `toml:"integration_branch"`
	Eternal           []string          `toml:"eternal"`
	IgnorePrefixes    []string          `toml:"ignore_prefixes"`
	NoFetch           *bool             `toml:"no_fetch"`
	NoPush            *bool             `toml:"no_push"`
	Workers           *int              `toml:"workers"`
	Fingerprint       FingerprintConfig `toml:"fingerprint"`
	Cache             CacheConfig       `toml:"cache"`
}

// LoadLocal reads a per-repo .git-tidy.toml from the given repo path.
// Returns nil (no error) if the file doesn't exist.
// Returns an error only on parse or validation failure.
func LoadLocal(repoPath string) (*LocalConfig, error) {
	configFile := filepath.Join(repoPath, LocalConfigFileName)

	data, err := os.ReadFile(configFile)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read local config %s: %w", configFile, err)
	}

	var local LocalConfig
	md, err := toml.Decode(string(data), &local)
	if err != nil {
		return nil, fmt.Errorf("failed to parse local config %s: %w", configFile, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("unknown key %q in %s", undecoded[0].String(), configFile)
	}

	if err := validateEnum(local.Fingerprint.Engine, "fingerprint.engine", ValidEngines); err != nil {
		return nil, fmt.Errorf("%s: %w", configFile, err)
	}
	if local.Workers != nil && *local.Workers < 1 {
		return nil, fmt.Errorf("%s: workers must be at least 1, got %d", configFile, *local.Workers)
	}

	return &local, nil
}

// defaultLocalConfig is the template for git-tidy config init --local
const defaultLocalConfig = `# git-tidy local config (per-repo overrides)
# Place this file at the top level of the repository.
# Settings here override the global config.toml for this repo only.
# Lists (eternal, ignore_prefixes) are appended to the global lists.

# integration_branch = "master"
# upstream_remote = "upstream"
# personal_remote = "origin"
# eternal = ["release"]
# ignore_prefixes = ["dependabot/"]
# no_push = true
# workers = 4

# [fingerprint]
# engine = "native"
`

// DefaultLocalConfig returns the default local configuration template content.
func DefaultLocalConfig() string {
	return defaultLocalConfig
}

// InitLocal writes the local config template into repoPath.
func InitLocal(repoPath string, force bool) (string, error) {
	path := filepath.Join(repoPath, LocalConfigFileName)
	return path, writeTemplate(path, defaultLocalConfig, force)
}

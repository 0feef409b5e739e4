package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// Valid enum values for configuration fields.
var (
	ValidEngines    = []string{"git", "native"}
	ValidColorModes = []string{"auto", "always", "never"}
)

// Validate checks enum values and numeric bounds.
func (c *Config) Validate() error {
	if c.IntegrationBranch == "" {
		return fmt.Errorf("integration_branch must not be empty")
	}
	if err := validateEnum(c.Fingerprint.Engine, "fingerprint.engine", ValidEngines); err != nil {
		return err
	}
	if err := validateEnum(c.Color, "color", ValidColorModes); err != nil {
		return err
	}
	if c.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", c.Workers)
	}
	if c.PersonalRemote != "" && c.PersonalRemote == c.UpstreamRemote {
		return fmt.Errorf("personal_remote and upstream_remote must differ, both are %q", c.PersonalRemote)
	}
	return nil
}

// ValidateColorMode validates a --color flag value.
func ValidateColorMode(mode string) error {
	return validateEnum(mode, "color", ValidColorModes)
}

// validateEnum checks that value (if non-empty) is one of the allowed values.
// Returns a formatted error mentioning the field name and allowed options.
func validateEnum(value, field string, allowed []string) error {
	if value == "" {
		return nil
	}
	if !slices.Contains(allowed, value) {
		return fmt.Errorf("invalid %s %q: must be %s", field, value, formatOptions(allowed))
	}
	return nil
}

// formatOptions renders allowed values as `"a", "b", or "c"`.
func formatOptions(allowed []string) string {
	quoted := make([]string, len(allowed))
	for i, v := range allowed {
		quoted[i] = fmt.Sprintf("%q", v)
	}
	switch len(quoted) {
	case 1:
		return quoted[0]
	case 2:
		return quoted[0] + " or " + quoted[1]
	}
	return strings.Join(quoted[:len(quoted)-1], ", ") + ", or " + quoted[len(quoted)-1]
}

// ExpandPath expands a leading ~ to the user's home directory.
func ExpandPath(path string) (string, error) {
	if path == "~" {
		return os.UserHomeDir()
	}
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("expand ~: %w", err)
		}
		return filepath.Join(home, path[2:]), nil
	}
	return path, nil
}

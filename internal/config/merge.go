package config

// MergeLocal merges a local per-repo config into a global config,
// returning a new Config without mutating the global.
// Returns global unchanged if local is nil.
func MergeLocal(global *Config, local *LocalConfig) *Config {
	if local == nil {
		return global
	}

	// Shallow copy global; Color is global-only and inherited as-is.
	merged := *global

	if local.UpstreamRemote != "" {
		merged.UpstreamRemote = local.UpstreamRemote
	}
	if local.PersonalRemote != "" {
		merged.PersonalRemote = local.PersonalRemote
	}
	if local.IntegrationBranch != "" {
		merged.IntegrationBranch = local.IntegrationBranch
	}

	// Lists append with dedup
	if len(local.Eternal) > 0 {
		merged.Eternal = appendUnique(global.Eternal, local.Eternal)
	}
	if len(local.IgnorePrefixes) > 0 {
		merged.IgnorePrefixes = appendUnique(global.IgnorePrefixes, local.IgnorePrefixes)
	}

	if local.NoFetch != nil {
		merged.NoFetch = *local.NoFetch
	}
	if local.NoPush != nil {
		merged.NoPush = *local.NoPush
	}
	if local.Workers != nil {
		merged.Workers = *local.Workers
	}
	if local.Fingerprint.Engine != "" {
		merged.Fingerprint.Engine = local.Fingerprint.Engine
	}
	if local.Cache.Path != "" {
		merged.Cache.Path = local.Cache.Path
	}

	return &merged
}

// appendUnique appends items from extra to base, skipping duplicates.
// Returns a new slice (never mutates base).
func appendUnique(base, extra []string) []string {
	seen := make(map[string]bool, len(base))
	for _, v := range base {
		seen[v] = true
	}

	result := make([]string, len(base))
	copy(result, base)

	for _, v := range extra {
		if !seen[v] {
			result = append(result, v)
			seen[v] = true
		}
	}

	return result
}

package config

import "fmt"

// Overrides holds settings given on the command line. Nil pointers and
// empty lists leave the underlying config alone.
type Overrides struct {
	UpstreamRemote    *string
	PersonalRemote    *string
	IntegrationBranch *string
	Eternal           []string
	IgnorePrefixes    []string
	NoFetch           *bool
	NoPush            *bool
	Workers           *int
	Engine            *string
	Color             *string
}

// WithOverrides returns a copy of c with o applied on top. Lists are
// appended like local config lists. The result is validated.
func (c *Config) WithOverrides(o Overrides) (*Config, error) {
	merged := *c

	setString(&merged.UpstreamRemote, o.UpstreamRemote)
	setString(&merged.PersonalRemote, o.PersonalRemote)
	setString(&merged.IntegrationBranch, o.IntegrationBranch)
	setString(&merged.Fingerprint.Engine, o.Engine)
	setString(&merged.Color, o.Color)

	if len(o.Eternal) > 0 {
		merged.Eternal = appendUnique(c.Eternal, o.Eternal)
	}
	if len(o.IgnorePrefixes) > 0 {
		merged.IgnorePrefixes = appendUnique(c.IgnorePrefixes, o.IgnorePrefixes)
	}
	if o.NoFetch != nil {
		merged.NoFetch = *o.NoFetch
	}
	if o.NoPush != nil {
		merged.NoPush = *o.NoPush
	}
	if o.Workers != nil {
		merged.Workers = *o.Workers
	}

	if err := merged.Validate(); err != nil {
		return nil, fmt.Errorf("invalid flags: %w", err)
	}
	return &merged, nil
}

func setString(dst, src *string) {
	if src != nil {
		*dst = *src
	}
}

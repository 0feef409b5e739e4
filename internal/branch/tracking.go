package branch

import (
	"fmt"
	"strings"
)

const (
	headsPrefix   = "refs/heads/"
	remotesPrefix = "refs/remotes/"
)

// TrackingRef identifies a remote-tracking branch.
type TrackingRef struct {
	Remote   string
	Branch   string
	Personal bool // Remote is the configured personal mirror
}

// Ref returns the full remote-tracking ref name.
func (t TrackingRef) Ref() string {
	return remotesPrefix + t.Remote + "/" + t.Branch
}

// String returns remote/branch.
func (t TrackingRef) String() string {
	return t.Remote + "/" + t.Branch
}

// ParseTrackingRef parses an upstream ref such as refs/remotes/origin/feature.
//
// ok is false when there is nothing to track: an empty upstream or a local
// branch upstream (refs/heads/...). Any other ref shape, or a remote that is
// not configured, is an error. Remote names may contain slashes, so the
// longest configured remote that prefixes the ref wins.
func ParseTrackingRef(ref string, remotes []string, personal string) (t TrackingRef, ok bool, err error) {
	if ref == "" || strings.HasPrefix(ref, headsPrefix) {
		return TrackingRef{}, false, nil
	}
	rest, found := strings.CutPrefix(ref, remotesPrefix)
	if !found {
		return TrackingRef{}, false, fmt.Errorf("invalid tracking ref %q: not under %s", ref, remotesPrefix)
	}

	remote := ""
	for _, r := range remotes {
		if len(r) > len(remote) && strings.HasPrefix(rest, r+"/") {
			remote = r
		}
	}
	if remote == "" {
		return TrackingRef{}, false, fmt.Errorf("invalid tracking ref %q: no configured remote matches", ref)
	}

	name := strings.TrimPrefix(rest, remote+"/")
	if name == "" {
		return TrackingRef{}, false, fmt.Errorf("invalid tracking ref %q: missing branch name", ref)
	}
	return TrackingRef{Remote: remote, Branch: name, Personal: remote == personal}, true, nil
}

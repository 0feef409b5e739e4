// Package fingerprint computes content identities for changes.
//
// A fingerprint depends only on the text a change introduces, never on
// commit metadata or ancestry, so a branch that was squash-merged, rebased
// or cherry-picked onto the integration branch fingerprints the same as the
// commit that landed it.
//
// Two engines are available. [GitEngine] pipes diff-tree output through
// git patch-id, matching git's own notion of equivalence. [NativeEngine]
// parses the same diff with go-gitdiff and hashes it in-process.
package fingerprint

import (
	"context"
	"errors"
	"strings"
)

// ID is a hex patch fingerprint, 40 characters in SHA-1 repositories.
type ID string

// None is returned for changes that have no fingerprint: empty diffs and
// merge commits.
const None ID = ""

// Sentinel marks "computed, no fingerprint" in the persisted cache.
// A real fingerprint must never equal it.
const Sentinel ID = "0000000000000000000000000000000000000000"

// ErrSentinel is returned when a computation yields the reserved sentinel.
var ErrSentinel = errors.New("fingerprint collides with the reserved sentinel")

// IsNone reports whether id carries no fingerprint.
func (id ID) IsNone() bool {
	return id == None || id == Sentinel
}

// Short abbreviates the id for display.
func (id ID) Short() string {
	if len(id) <= 8 {
		return string(id)
	}
	return string(id[:8])
}

// Valid reports whether s looks like a fingerprint or the sentinel.
// SHA-256 repositories produce 64 hex characters.
func Valid(s string) bool {
	if len(s) != 40 && len(s) != 64 {
		return false
	}
	return strings.IndexFunc(s, func(r rune) bool {
		return !('0' <= r && r <= '9' || 'a' <= r && r <= 'f')
	}) < 0
}

// Differ produces the raw+patch diffs a fingerprint is computed from.
type Differ interface {
	DiffTree(ctx context.Context, base, head string) ([]byte, error)
	DiffTreeCommit(ctx context.Context, commit string) ([]byte, error)
}

// Engine reduces diffs to fingerprints. Range and Commit must agree: a
// branch range and a single commit introducing the same change yield the
// same ID.
type Engine interface {
	// Name identifies the engine; cache files are kept per engine.
	Name() string
	// Range fingerprints the net change base..head.
	Range(ctx context.Context, base, head string) (ID, error)
	// Commit fingerprints the change one commit introduces.
	Commit(ctx context.Context, commit string) (ID, error)
}

// checked rejects values that would be confused with the sentinel.
func checked(id ID) (ID, error) {
	if id == Sentinel {
		return None, ErrSentinel
	}
	return id, nil
}

package branch

import (
	"context"
	"time"

	"github.com/raphi011/git-tidy/internal/fingerprint"
)

// Branch is a named pointer to a commit, local or on the mirror.
type Branch struct {
	Name      string       // short name, without refs/heads/ or the remote prefix
	Ref       string       // full ref name
	Head      string       // commit the ref points at
	MergeBase string       // fork point from the integration branch
	Birth     time.Time    // commit time of MergeBase
	Upstream  *TrackingRef // nil when the branch tracks nothing remote

	fp       fingerprint.ID
	fpCached bool
}

// Fingerprint returns the fingerprint of MergeBase..Head, computing it with
// engine on the first call only. A failed computation is not memoized.
func (b *Branch) Fingerprint(ctx context.Context, engine fingerprint.Engine) (fingerprint.ID, error) {
	if b.fpCached {
		return b.fp, nil
	}
	id, err := engine.Range(ctx, b.MergeBase, b.Head)
	if err != nil {
		return fingerprint.None, err
	}
	b.fp, b.fpCached = id, true
	return id, nil
}

// HasForeignUpstream reports whether the branch tracks a non-mirror remote.
func (b *Branch) HasForeignUpstream() bool {
	return b.Upstream != nil && !b.Upstream.Personal
}

// OldestBirth returns the earliest birth across all given branch sets, and
// false if there are no branches.
func OldestBirth(local []*Branch, mirror map[string]*Branch) (time.Time, bool) {
	var oldest time.Time
	found := false
	visit := func(b *Branch) {
		if !found || b.Birth.Before(oldest) {
			oldest, found = b.Birth, true
		}
	}
	for _, b := range local {
		visit(b)
	}
	for _, b := range mirror {
		visit(b)
	}
	return oldest, found
}

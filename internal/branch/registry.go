package branch

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/raphi011/git-tidy/internal/git"
	"github.com/raphi011/git-tidy/internal/log"
	"github.com/raphi011/git-tidy/internal/output"
)

// Git is the subset of git the registry needs.
type Git interface {
	ForEachRef(ctx context.Context, prefix string) ([]git.Ref, error)
	MergeBase(ctx context.Context, a, b string) (string, error)
	CommitTime(ctx context.Context, commit string) (time.Time, error)
	Remotes(ctx context.Context) ([]string, error)
}

// Options selects which branches take part in a run.
type Options struct {
	Integration    string   // integration branch name, e.g. main
	PersonalRemote string   // mirror remote; empty disables mirror discovery
	Eternal        []string // names never considered
	IgnorePrefixes []string // name prefixes never considered
	Workers        int      // parallel merge-base lookups
}

// Registry enumerates branches.
type Registry struct {
	git  Git
	opts Options
}

// NewRegistry returns a registry over g.
func NewRegistry(g Git, opts Options) *Registry {
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	return &Registry{git: g, opts: opts}
}

// IntegrationRef is the full ref of the integration branch.
func (r *Registry) IntegrationRef() string {
	return headsPrefix + r.opts.Integration
}

// Skipped reports whether name is eternal or matches an ignore prefix.
func (r *Registry) Skipped(name string) bool {
	if name == r.opts.Integration || slices.Contains(r.opts.Eternal, name) {
		return true
	}
	for _, p := range r.opts.IgnorePrefixes {
		if p != "" && strings.HasPrefix(name, p) {
			return true
		}
	}
	return false
}

// Discover returns the local branches in ref order and the mirror branches
// keyed by short name. A branch without history in common with the
// integration branch fails the whole discovery.
func (r *Registry) Discover(ctx context.Context) ([]*Branch, map[string]*Branch, error) {
	remotes, err := r.git.Remotes(ctx)
	if err != nil {
		return nil, nil, err
	}

	localRefs, err := r.git.ForEachRef(ctx, strings.TrimSuffix(headsPrefix, "/"))
	if err != nil {
		return nil, nil, err
	}
	var local []*Branch
	for _, ref := range localRefs {
		name, ok := strings.CutPrefix(ref.Name, headsPrefix)
		if !ok || !ref.IsCommit() || r.Skipped(name) {
			continue
		}
		b := &Branch{Name: name, Ref: ref.Name, Head: ref.Commit}
		up, tracked, err := ParseTrackingRef(ref.Upstream, remotes, r.opts.PersonalRemote)
		if err != nil {
			return nil, nil, output.NewPreconditionError(fmt.Sprintf("branch %s: %v", name, err))
		}
		if tracked {
			b.Upstream = &up
		}
		local = append(local, b)
	}

	mirror := make(map[string]*Branch)
	var mirrorList []*Branch
	if r.opts.PersonalRemote != "" {
		prefix := remotesPrefix + r.opts.PersonalRemote + "/"
		mirrorRefs, err := r.git.ForEachRef(ctx, strings.TrimSuffix(prefix, "/"))
		if err != nil {
			return nil, nil, err
		}
		for _, ref := range mirrorRefs {
			name, ok := strings.CutPrefix(ref.Name, prefix)
			if !ok || name == "HEAD" || !ref.IsCommit() || r.Skipped(name) {
				continue
			}
			b := &Branch{Name: name, Ref: ref.Name, Head: ref.Commit}
			mirror[name] = b
			mirrorList = append(mirrorList, b)
		}
	}

	if err := r.resolveBases(ctx, append(slices.Clone(local), mirrorList...)); err != nil {
		return nil, nil, err
	}

	log.FromContext(ctx).Debug("discovered branches", "local", len(local), "mirror", len(mirror))
	return local, mirror, nil
}

// resolveBases fills MergeBase and Birth, bounded by Workers.
func (r *Registry) resolveBases(ctx context.Context, branches []*Branch) error {
	integration := r.IntegrationRef()

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(r.opts.Workers)
	for _, b := range branches {
		g.Go(func() error {
			base, err := r.git.MergeBase(ctx, b.Head, integration)
			if err != nil {
				if errors.Is(err, git.ErrNoMergeBase) {
					return output.NewPreconditionError(fmt.Sprintf(
						"branch %s shares no history with %s and cannot be classified", b.Ref, r.opts.Integration))
				}
				return err
			}
			birth, err := r.git.CommitTime(ctx, base)
			if err != nil {
				return err
			}
			b.MergeBase, b.Birth = base, birth
			return nil
		})
	}
	return g.Wait()
}

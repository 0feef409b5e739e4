package reconcile

import (
	"context"
	"sync"

	"github.com/raphi011/git-tidy/internal/log"
)

// RemoteFetcher fetches a named remote.
type RemoteFetcher interface {
	Fetch(ctx context.Context, remote string) error
}

// Fetcher fetches each remote at most once per run.
type Fetcher struct {
	git  RemoteFetcher
	skip bool

	mu   sync.Mutex
	done map[string]error
}

// NewFetcher returns a fetcher. With skip set nothing is fetched.
func NewFetcher(g RemoteFetcher, skip bool) *Fetcher {
	return &Fetcher{git: g, skip: skip, done: make(map[string]error)}
}

// Fetch fetches remote unless it was already fetched in this run.
// A failure is remembered and returned again.
func (f *Fetcher) Fetch(ctx context.Context, remote string) error {
	if f.skip || remote == "" {
		return nil
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if err, ok := f.done[remote]; ok {
		return err
	}
	log.FromContext(ctx).Debug("fetching", "remote", remote)
	err := f.git.Fetch(ctx, remote)
	f.done[remote] = err
	return err
}

// Fetched reports whether remote was fetched successfully.
func (f *Fetcher) Fetched(remote string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	err, ok := f.done[remote]
	return ok && err == nil
}

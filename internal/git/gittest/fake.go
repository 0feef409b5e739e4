// Package gittest provides an in-memory git collaborator for tests.
package gittest

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/raphi011/git-tidy/internal/git"
)

// Fake is an in-memory repository. Refs hold both local branches and
// remote-tracking branches; mutations update Refs and are recorded in Calls.
type Fake struct {
	mu sync.Mutex

	Current     string
	RemoteNames []string
	Refs        []git.Ref
	MergeBases  map[string]string    // head commit -> merge-base
	Times       map[string]time.Time // commit -> committer time
	History     []string             // integration commits, newest first

	// AfterFetch replaces refs under refs/remotes/<remote>/ when that
	// remote is fetched.
	AfterFetch map[string][]git.Ref

	// Fail injects errors by operation key, e.g. "fetch origin",
	// "push feature-x", "update-ref refs/heads/x", "branch -D".
	Fail map[string]error

	Calls   []string
	Fetched []string
}

// New returns an empty fake on branch main.
func New() *Fake {
	return &Fake{
		Current:    "main",
		MergeBases: make(map[string]string),
		Times:      make(map[string]time.Time),
		AfterFetch: make(map[string][]git.Ref),
		Fail:       make(map[string]error),
	}
}

// AddRef adds a commit ref with an optional upstream.
func (f *Fake) AddRef(name, commit, upstream string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Refs = append(f.Refs, git.Ref{Commit: commit, Type: "commit", Name: name, Upstream: upstream})
}

// SetCommit records a commit's time and its merge-base with the
// integration branch.
func (f *Fake) SetCommit(commit, mergeBase string, at time.Time) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Times[commit] = at
	if mergeBase != "" {
		f.MergeBases[commit] = mergeBase
	}
}

// Ref returns the commit of a ref, or "".
func (f *Fake) Ref(name string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lookup(name)
}

func (f *Fake) lookup(name string) string {
	for _, r := range f.Refs {
		if r.Name == name {
			return r.Commit
		}
	}
	return ""
}

func (f *Fake) fail(key string) error {
	if err, ok := f.Fail[key]; ok {
		return err
	}
	return nil
}

func (f *Fake) record(call string) {
	f.Calls = append(f.Calls, call)
}

func (f *Fake) setRef(name, commit string) {
	for i := range f.Refs {
		if f.Refs[i].Name == name {
			f.Refs[i].Commit = commit
			return
		}
	}
	f.Refs = append(f.Refs, git.Ref{Commit: commit, Type: "commit", Name: name})
}

func (f *Fake) removeRef(name string) {
	f.Refs = slices.DeleteFunc(f.Refs, func(r git.Ref) bool { return r.Name == name })
}

func (f *Fake) ForEachRef(_ context.Context, prefix string) ([]git.Ref, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []git.Ref
	for _, r := range f.Refs {
		if strings.HasPrefix(r.Name, prefix+"/") {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *Fake) CurrentBranch(context.Context) (string, error) {
	return f.Current, nil
}

func (f *Fake) MergeBase(_ context.Context, a, _ string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if base, ok := f.MergeBases[a]; ok {
		return base, nil
	}
	return "", fmt.Errorf("merge-base %s: %w", git.Short(a), git.ErrNoMergeBase)
}

func (f *Fake) CommitTime(_ context.Context, commit string) (time.Time, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	at, ok := f.Times[commit]
	if !ok {
		return time.Time{}, fmt.Errorf("unknown commit %s", commit)
	}
	return at, nil
}

func (f *Fake) ResolveRef(_ context.Context, ref string) (string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	commit := f.lookup(ref)
	return commit, commit != "", nil
}

func (f *Fake) Remotes(context.Context) ([]string, error) {
	return f.RemoteNames, nil
}

// CommitsSince returns History entries whose time is not before since.
// Commits without a recorded time are always included.
func (f *Fake) CommitsSince(_ context.Context, _ string, since time.Time) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []string
	for _, c := range f.History {
		if at, ok := f.Times[c]; ok && at.Before(since) {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}

func (f *Fake) Fetch(_ context.Context, remote string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Fetched = append(f.Fetched, remote)
	if err := f.fail("fetch " + remote); err != nil {
		return err
	}
	if refs, ok := f.AfterFetch[remote]; ok {
		prefix := "refs/remotes/" + remote + "/"
		f.Refs = slices.DeleteFunc(f.Refs, func(r git.Ref) bool { return strings.HasPrefix(r.Name, prefix) })
		f.Refs = append(f.Refs, refs...)
	}
	return nil
}

func (f *Fake) DeleteBranches(_ context.Context, names ...string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.fail("branch -D"); err != nil {
		return err
	}
	f.record("branch -D " + strings.Join(names, " "))
	for _, n := range names {
		f.removeRef("refs/heads/" + n)
	}
	return nil
}

func (f *Fake) PushWithLease(_ context.Context, remote, commit string, lease git.Lease) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.fail("push " + lease.Branch); err != nil {
		return err
	}
	tracking := "refs/remotes/" + remote + "/" + lease.Branch
	if cur := f.lookup(tracking); cur != lease.Expect {
		return fmt.Errorf("! [rejected] %s (stale info)", lease.Branch)
	}
	f.record(fmt.Sprintf("push %s %s:%s", remote, git.Short(commit), lease.Branch))
	f.setRef(tracking, commit)
	return nil
}

func (f *Fake) DeleteRemoteBranches(_ context.Context, remote string, leases ...git.Lease) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	names := make([]string, len(leases))
	for i, l := range leases {
		if err := f.fail("push --delete " + l.Branch); err != nil {
			return err
		}
		tracking := "refs/remotes/" + remote + "/" + l.Branch
		if cur := f.lookup(tracking); cur != l.Expect {
			return fmt.Errorf("! [rejected] %s (stale info)", l.Branch)
		}
		names[i] = l.Branch
	}
	f.record(fmt.Sprintf("push %s --delete %s", remote, strings.Join(names, " ")))
	for _, n := range names {
		f.removeRef("refs/remotes/" + remote + "/" + n)
	}
	return nil
}

func (f *Fake) UpdateRef(_ context.Context, ref, newCommit, oldCommit string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.fail("update-ref " + ref); err != nil {
		return err
	}
	if cur := f.lookup(ref); cur != oldCommit {
		return fmt.Errorf("cannot lock ref '%s': is at %s but expected %s", ref, cur, oldCommit)
	}
	f.record(fmt.Sprintf("update-ref %s %s", ref, git.Short(newCommit)))
	f.setRef(ref, newCommit)
	return nil
}

package git

import (
	"context"
	"time"
)

// Repo binds the package functions to one repository so callers can depend
// on small interfaces instead of the git binary.
type Repo struct {
	Path string
}

// Open returns a Repo rooted at the working tree containing path.
func Open(ctx context.Context, path string) (*Repo, error) {
	top, err := TopLevel(ctx, path)
	if err != nil {
		return nil, err
	}
	return &Repo{Path: top}, nil
}

func (r *Repo) ForEachRef(ctx context.Context, prefix string) ([]Ref, error) {
	return ForEachRef(ctx, r.Path, prefix)
}

func (r *Repo) CurrentBranch(ctx context.Context) (string, error) {
	return CurrentBranch(ctx, r.Path)
}

func (r *Repo) MergeBase(ctx context.Context, a, b string) (string, error) {
	return MergeBase(ctx, r.Path, a, b)
}

func (r *Repo) CommitTime(ctx context.Context, commit string) (time.Time, error) {
	return CommitTime(ctx, r.Path, commit)
}

func (r *Repo) ResolveRef(ctx context.Context, ref string) (string, bool, error) {
	return ResolveRef(ctx, r.Path, ref)
}

func (r *Repo) Remotes(ctx context.Context) ([]string, error) {
	return Remotes(ctx, r.Path)
}

func (r *Repo) GitDir(ctx context.Context) (string, error) {
	return GitDir(ctx, r.Path)
}

func (r *Repo) CommitsSince(ctx context.Context, rev string, since time.Time) ([]string, error) {
	return CommitsSince(ctx, r.Path, rev, since)
}

func (r *Repo) DiffTree(ctx context.Context, base, head string) ([]byte, error) {
	return DiffTree(ctx, r.Path, base, head)
}

func (r *Repo) DiffTreeCommit(ctx context.Context, commit string) ([]byte, error) {
	return DiffTreeCommit(ctx, r.Path, commit)
}

func (r *Repo) PatchID(ctx context.Context, patch []byte) (string, error) {
	return PatchID(ctx, r.Path, patch)
}

func (r *Repo) Fetch(ctx context.Context, remote string) error {
	return Fetch(ctx, r.Path, remote)
}

func (r *Repo) DeleteBranches(ctx context.Context, names ...string) error {
	return DeleteBranches(ctx, r.Path, names...)
}

func (r *Repo) PushWithLease(ctx context.Context, remote, commit string, lease Lease) error {
	return PushWithLease(ctx, r.Path, remote, commit, lease)
}

func (r *Repo) DeleteRemoteBranches(ctx context.Context, remote string, leases ...Lease) error {
	return DeleteRemoteBranches(ctx, r.Path, remote, leases...)
}

func (r *Repo) UpdateRef(ctx context.Context, ref, newCommit, oldCommit string) error {
	return UpdateRef(ctx, r.Path, ref, newCommit, oldCommit)
}

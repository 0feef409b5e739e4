package git

import (
	"context"
)

// Lease pins the value a remote branch must still have for a push to land.
// An empty Expect means the branch must not exist on the remote yet.
type Lease struct {
	Branch string
	Expect string
}

func (l Lease) flag() string {
	return "--force-with-lease=refs/heads/" + l.Branch + ":" + l.Expect
}

// Fetch fetches a remote, pruning deleted branches.
func Fetch(ctx context.Context, path, remote string) error {
	return runGit(ctx, path, "fetch", "--prune", "--quiet", remote)
}

// DeleteBranches force-deletes local branches in one invocation.
func DeleteBranches(ctx context.Context, path string, names ...string) error {
	if len(names) == 0 {
		return nil
	}
	return runGit(ctx, path, append([]string{"branch", "-D"}, names...)...)
}

// PushWithLease pushes commit to refs/heads/<lease.Branch> on remote,
// refusing if the remote branch no longer matches lease.Expect.
func PushWithLease(ctx context.Context, path, remote, commit string, lease Lease) error {
	return runGit(ctx, path, "push", "--quiet", lease.flag(), remote, commit+":refs/heads/"+lease.Branch)
}

// DeleteRemoteBranches deletes branches on remote in one push, each guarded
// by its lease.
func DeleteRemoteBranches(ctx context.Context, path, remote string, leases ...Lease) error {
	if len(leases) == 0 {
		return nil
	}
	args := []string{"push", "--quiet"}
	for _, l := range leases {
		args = append(args, l.flag())
	}
	args = append(args, remote)
	for _, l := range leases {
		args = append(args, ":refs/heads/"+l.Branch)
	}
	return runGit(ctx, path, args...)
}

// UpdateRef points ref at newCommit if it still points at oldCommit.
func UpdateRef(ctx context.Context, path, ref, newCommit, oldCommit string) error {
	return runGit(ctx, path, "update-ref", "-m", "git-tidy: update", ref, newCommit, oldCommit)
}

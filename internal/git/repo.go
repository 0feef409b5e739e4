package git

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// ErrNoMergeBase is returned when two commits share no history.
var ErrNoMergeBase = errors.New("no common ancestor")

// DetachedHead is what CurrentBranch reports without a checked-out branch.
const DetachedHead = "(detached)"

// ShortLen is the abbreviated commit length used in reports.
const ShortLen = 8

// Short abbreviates a commit id for display.
func Short(id string) string {
	if len(id) <= ShortLen {
		return id
	}
	return id[:ShortLen]
}

// TopLevel returns the working tree root containing path.
func TopLevel(ctx context.Context, path string) (string, error) {
	return outputLine(ctx, path, "rev-parse", "--show-toplevel")
}

// GitDir returns the absolute common git directory, shared by all worktrees
// of the repository.
func GitDir(ctx context.Context, path string) (string, error) {
	dir, err := outputLine(ctx, path, "rev-parse", "--git-common-dir")
	if err != nil {
		return "", err
	}
	if !filepath.IsAbs(dir) {
		base := path
		if base == "" {
			base = "."
		}
		dir = filepath.Join(base, dir)
	}
	return filepath.Abs(dir)
}

// CurrentBranch returns the checked-out branch name from
// `git status --branch --porcelain=v2`, or DetachedHead.
func CurrentBranch(ctx context.Context, path string) (string, error) {
	out, err := outputGit(ctx, path, "status", "--branch", "--porcelain=v2", "--untracked-files=no")
	if err != nil {
		return "", err
	}
	return parseBranchHead(string(out))
}

func parseBranchHead(status string) (string, error) {
	for line := range strings.SplitSeq(status, "\n") {
		rest, ok := strings.CutPrefix(line, "# branch.head ")
		if !ok {
			continue
		}
		return strings.TrimSpace(rest), nil
	}
	return "", fmt.Errorf("no branch.head line in git status output")
}

// MergeBase returns the best common ancestor of a and b.
// Returns ErrNoMergeBase for unrelated histories.
func MergeBase(ctx context.Context, path, a, b string) (string, error) {
	base, err := outputLine(ctx, path, "merge-base", a, b)
	if err != nil {
		// merge-base exits 1 without output when nothing is shared
		if exitStatus(err) == 1 {
			return "", fmt.Errorf("merge-base %s %s: %w", Short(a), Short(b), ErrNoMergeBase)
		}
		return "", err
	}
	return base, nil
}

// CommitTime returns the committer timestamp of a commit.
func CommitTime(ctx context.Context, path, commit string) (time.Time, error) {
	out, err := outputLine(ctx, path, "show", "-s", "--format=%ct", commit)
	if err != nil {
		return time.Time{}, err
	}
	secs, err := strconv.ParseInt(strings.TrimSpace(out), 10, 64)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse commit time of %s: %w", Short(commit), err)
	}
	return time.Unix(secs, 0), nil
}

// ResolveRef returns the commit a ref points at.
// ok is false (with a nil error) when the ref does not exist.
func ResolveRef(ctx context.Context, path, ref string) (commit string, ok bool, err error) {
	out, err := outputLine(ctx, path, "rev-parse", "--verify", "--quiet", ref+"^{commit}")
	if err != nil {
		if exitStatus(err) == 1 {
			return "", false, nil
		}
		return "", false, err
	}
	return out, true, nil
}

// RefExists reports whether ref resolves to a commit.
func RefExists(ctx context.Context, path, ref string) (bool, error) {
	_, ok, err := ResolveRef(ctx, path, ref)
	return ok, err
}

// Remotes lists the configured remote names.
func Remotes(ctx context.Context, path string) ([]string, error) {
	out, err := outputGit(ctx, path, "remote")
	if err != nil {
		return nil, err
	}
	return strings.Fields(string(out)), nil
}

// exitStatus returns the git exit code carried by err, or -1.
func exitStatus(err error) int {
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	return -1
}

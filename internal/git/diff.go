package git

import (
	"context"
	"strings"
	"time"
)

// CommitsSince lists commits reachable from rev committed after since,
// newest first.
func CommitsSince(ctx context.Context, path, rev string, since time.Time) ([]string, error) {
	out, err := outputGit(ctx, path, "log", "--format=%H", "--since="+since.Format(time.RFC3339), rev, "--")
	if err != nil {
		return nil, err
	}
	return strings.Fields(string(out)), nil
}

// DiffTree returns the raw+patch diff between two commits. Blob ids are
// never abbreviated so binary changes fingerprint the same in every clone.
func DiffTree(ctx context.Context, path, base, head string) ([]byte, error) {
	return outputGit(ctx, path, "diff-tree", "--patch-with-raw", "--full-index", base, head)
}

// DiffTreeCommit returns the raw+patch diff a single commit introduces.
// Merge commits produce no patch.
func DiffTreeCommit(ctx context.Context, path, commit string) ([]byte, error) {
	return outputGit(ctx, path, "diff-tree", "--patch-with-raw", "--full-index", commit)
}

// PatchID reduces a diff to git's stable patch id.
// Returns "" when the diff contains no patch.
func PatchID(ctx context.Context, path string, patch []byte) (string, error) {
	if len(patch) == 0 {
		return "", nil
	}
	out, err := inputGit(ctx, path, patch, "patch-id", "--stable")
	if err != nil {
		return "", err
	}
	fields := strings.Fields(string(out))
	if len(fields) == 0 {
		return "", nil
	}
	return fields[0], nil
}

package fingerprint

import (
	"context"
	"fmt"
)

// PatchIDer pipes a diff through git patch-id.
type PatchIDer interface {
	Differ
	PatchID(ctx context.Context, patch []byte) (string, error)
}

// GitEngine fingerprints with git patch-id --stable.
type GitEngine struct {
	git PatchIDer
}

// NewGitEngine returns an engine backed by the git binary.
func NewGitEngine(git PatchIDer) *GitEngine {
	return &GitEngine{git: git}
}

// Name implements Engine.
func (e *GitEngine) Name() string { return "git" }

// Range implements Engine.
func (e *GitEngine) Range(ctx context.Context, base, head string) (ID, error) {
	patch, err := e.git.DiffTree(ctx, base, head)
	if err != nil {
		return None, fmt.Errorf("diff %s..%s: %w", short(base), short(head), err)
	}
	return e.patchID(ctx, patch)
}

// Commit implements Engine.
func (e *GitEngine) Commit(ctx context.Context, commit string) (ID, error) {
	patch, err := e.git.DiffTreeCommit(ctx, commit)
	if err != nil {
		return None, fmt.Errorf("diff %s: %w", short(commit), err)
	}
	return e.patchID(ctx, patch)
}

func (e *GitEngine) patchID(ctx context.Context, patch []byte) (ID, error) {
	id, err := e.git.PatchID(ctx, patch)
	if err != nil {
		return None, fmt.Errorf("patch-id: %w", err)
	}
	return checked(ID(id))
}

func short(commit string) string {
	return ID(commit).Short()
}

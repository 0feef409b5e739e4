package fingerprint

import (
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"slices"
	"strings"
	"unicode"

	"github.com/bluekeyes/go-gitdiff/gitdiff"
)

// NativeEngine parses diffs with go-gitdiff and hashes the changed lines
// in-process. Context lines, hunk offsets and whitespace are ignored, and
// files are visited in path order, so the result is stable under rebases.
type NativeEngine struct {
	git Differ
}

// NewNativeEngine returns an engine that only needs git for diff text.
func NewNativeEngine(git Differ) *NativeEngine {
	return &NativeEngine{git: git}
}

// Name implements Engine.
func (e *NativeEngine) Name() string { return "native" }

// Range implements Engine.
func (e *NativeEngine) Range(ctx context.Context, base, head string) (ID, error) {
	patch, err := e.git.DiffTree(ctx, base, head)
	if err != nil {
		return None, fmt.Errorf("diff %s..%s: %w", short(base), short(head), err)
	}
	return Hash(patch)
}

// Commit implements Engine.
func (e *NativeEngine) Commit(ctx context.Context, commit string) (ID, error) {
	patch, err := e.git.DiffTreeCommit(ctx, commit)
	if err != nil {
		return None, fmt.Errorf("diff %s: %w", short(commit), err)
	}
	return Hash(patch)
}

// Hash fingerprints diff text. Returns None if the diff changes no lines.
func Hash(patch []byte) (ID, error) {
	if len(bytes.TrimSpace(patch)) == 0 {
		return None, nil
	}
	files, _, err := gitdiff.Parse(bytes.NewReader(patch))
	if err != nil {
		return None, fmt.Errorf("parse diff: %w", err)
	}

	slices.SortFunc(files, func(a, b *gitdiff.File) int {
		return strings.Compare(filePath(a), filePath(b))
	})

	h := sha1.New()
	changed := false
	for _, f := range files {
		fmt.Fprintf(h, "diff %s %s\x00", f.OldName, f.NewName)
		if f.IsBinary || len(f.TextFragments) == 0 {
			// Binary and content-less changes carry no lines; their blob ids
			// stand in for the content.
			if blobChange(f) {
				fmt.Fprintf(h, "blob %s %s\x00", f.OldOIDPrefix, f.NewOIDPrefix)
				changed = true
			}
			if f.BinaryFragment != nil {
				h.Write(f.BinaryFragment.Data)
				changed = true
			}
			continue
		}
		for _, frag := range f.TextFragments {
			for _, line := range frag.Lines {
				var op byte
				switch line.Op {
				case gitdiff.OpAdd:
					op = '+'
				case gitdiff.OpDelete:
					op = '-'
				default:
					continue
				}
				h.Write([]byte{op})
				h.Write([]byte(stripSpace(line.Line)))
				h.Write([]byte{0})
				changed = true
			}
		}
	}
	if !changed {
		return None, nil
	}
	return checked(ID(hex.EncodeToString(h.Sum(nil))))
}

// blobChange reports whether f names distinct old and new blobs.
func blobChange(f *gitdiff.File) bool {
	return (f.OldOIDPrefix != "" || f.NewOIDPrefix != "") && f.OldOIDPrefix != f.NewOIDPrefix
}

func filePath(f *gitdiff.File) string {
	if f.NewName != "" {
		return f.NewName
	}
	return f.OldName
}

func stripSpace(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}

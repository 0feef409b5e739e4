package git

import (
	"context"
	"fmt"
	"strings"
)

// Ref is one line of for-each-ref output.
type Ref struct {
	Commit   string // object id
	Type     string // object type, "commit" for branches
	Name     string // full ref name, e.g. refs/heads/feature-x
	Upstream string // full upstream ref name, empty if none
}

// IsCommit reports whether the ref points at a commit object.
func (r Ref) IsCommit() bool {
	return r.Type == "commit"
}

const refFormat = "--format=%(objectname) %(objecttype) %(refname) %(upstream)"

// ForEachRef lists refs under prefix (e.g. refs/heads or refs/remotes/me).
func ForEachRef(ctx context.Context, path, prefix string) ([]Ref, error) {
	out, err := outputGit(ctx, path, "for-each-ref", refFormat, prefix)
	if err != nil {
		return nil, err
	}
	return parseRefs(string(out))
}

func parseRefs(out string) ([]Ref, error) {
	var refs []Ref
	for line := range strings.SplitSeq(strings.TrimSuffix(out, "\n"), "\n") {
		if line == "" {
			continue
		}
		fields := strings.SplitN(line, " ", 4)
		if len(fields) < 3 {
			return nil, fmt.Errorf("malformed for-each-ref line %q", line)
		}
		ref := Ref{Commit: fields[0], Type: fields[1], Name: fields[2]}
		if len(fields) == 4 {
			ref.Upstream = strings.TrimSpace(fields[3])
		}
		refs = append(refs, ref)
	}
	return refs, nil
}

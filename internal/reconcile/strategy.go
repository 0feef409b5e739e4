package reconcile

import (
	"slices"
	"strings"
	"time"

	"github.com/raphi011/git-tidy/internal/branch"
)

// Set is the branch model discovered for a run.
type Set struct {
	Local  []*branch.Branch
	Mirror map[string]*branch.Branch
}

// Oldest returns the earliest birth in the set.
func (s Set) Oldest() (time.Time, bool) {
	return branch.OldestBirth(s.Local, s.Mirror)
}

// Strategy decides which branches a run classifies and how they relate to
// the other side.
type Strategy interface {
	// Name is "local" or "mirror".
	Name() string
	// Candidates returns the branches to classify, in report order.
	Candidates(s Set) []*branch.Branch
	// Counterpart returns the same-named branch on the other side.
	Counterpart(s Set, b *branch.Branch) (*branch.Branch, bool)
	// Pair orders a candidate and its counterpart as (local, mirror).
	Pair(b, counterpart *branch.Branch) (local, mirror *branch.Branch)
	// Display formats a candidate's name for reports.
	Display(b *branch.Branch) string
	// Missing describes a candidate without counterpart.
	Missing(b *branch.Branch) string
}

// Local classifies local branches against the mirror.
type Local struct {
	Remote string // personal mirror; empty when no mirror is configured
}

func (Local) Name() string { return "local" }

func (Local) Candidates(s Set) []*branch.Branch { return s.Local }

func (Local) Counterpart(s Set, b *branch.Branch) (*branch.Branch, bool) {
	m, ok := s.Mirror[b.Name]
	return m, ok
}

func (Local) Pair(b, counterpart *branch.Branch) (*branch.Branch, *branch.Branch) {
	return b, counterpart
}

func (Local) Display(b *branch.Branch) string { return b.Name }

func (l Local) Missing(b *branch.Branch) string {
	return b.Name + " is missing on " + l.Remote + " and is not merged"
}

// Mirror classifies the mirror's branches against local ones.
type Mirror struct {
	Remote string
}

func (Mirror) Name() string { return "mirror" }

func (Mirror) Candidates(s Set) []*branch.Branch {
	names := make([]string, 0, len(s.Mirror))
	for name := range s.Mirror {
		names = append(names, name)
	}
	slices.SortFunc(names, strings.Compare)

	out := make([]*branch.Branch, len(names))
	for i, name := range names {
		out[i] = s.Mirror[name]
	}
	return out
}

func (Mirror) Counterpart(s Set, b *branch.Branch) (*branch.Branch, bool) {
	for _, l := range s.Local {
		if l.Name == b.Name {
			return l, true
		}
	}
	return nil, false
}

func (Mirror) Pair(b, counterpart *branch.Branch) (*branch.Branch, *branch.Branch) {
	return counterpart, b
}

func (m Mirror) Display(b *branch.Branch) string { return m.Remote + "/" + b.Name }

func (m Mirror) Missing(b *branch.Branch) string {
	return m.Display(b) + " is missing locally and is not merged"
}

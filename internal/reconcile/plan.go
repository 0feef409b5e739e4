package reconcile

import (
	"github.com/raphi011/git-tidy/internal/branch"
	"github.com/raphi011/git-tidy/internal/fingerprint"
	"github.com/raphi011/git-tidy/internal/output"
)

// Rule names the rule that decided a branch.
type Rule string

const (
	RuleMerged          Rule = "merged"
	RuleUpstreamGone    Rule = "upstream-gone"
	RuleUpstreamMoved   Rule = "upstream-moved"
	RuleUpstreamMatches Rule = "upstream-matches"
	RuleMissing         Rule = "missing"
	RuleUnmerged        Rule = "unmerged" // no mirror configured
	RuleMatches         Rule = "matches"
	RulePush            Rule = "push"
	RuleNoPush          Rule = "no-push"
	RulePull            Rule = "pull"
)

// Action is what the applier will do about a branch.
type Action string

const (
	ActionNone   Action = "none"
	ActionDelete Action = "delete"
	ActionUpdate Action = "update"
	ActionPush   Action = "push"
)

// Deletion removes a merged or abandoned branch. For the mirror strategy
// the branch lives on the remote.
type Deletion struct {
	Branch   *branch.Branch
	MergedAs string // integration commit with the same fingerprint; empty for a vanished upstream
}

// Update moves a local ref to a new commit. From is the expected current
// value, making the write a compare-and-swap.
type Update struct {
	Name   string
	Ref    string
	From   string
	To     string
	Source string // where To came from, e.g. origin/feature
}

// Push sends a local branch to the mirror. Lease is the mirror's last
// seen commit for the branch.
type Push struct {
	Branch *branch.Branch
	Lease  string
}

// Outcome is the classification of one branch.
type Outcome struct {
	Branch  string       `json:"branch" yaml:"branch"`
	Rule    Rule         `json:"rule" yaml:"rule"`
	Action  Action       `json:"action" yaml:"action"`
	Message string       `json:"message" yaml:"message"`
	Label   output.Label `json:"-" yaml:"-"`
}

// Plan accumulates decisions for the applier.
type Plan struct {
	Strategy string // "local" or "mirror"
	Remote   string // personal mirror remote

	ToDelete []Deletion
	ToUpdate []Update
	ToPush   []Push

	Outcomes []Outcome
}

// Empty reports whether the plan has nothing to apply.
func (p *Plan) Empty() bool {
	return len(p.ToDelete) == 0 && len(p.ToUpdate) == 0 && len(p.ToPush) == 0
}

// Count returns the number of actions.
func (p *Plan) Count() int {
	return len(p.ToDelete) + len(p.ToUpdate) + len(p.ToPush)
}

// Evaluation is the full reasoning behind one outcome.
type Evaluation struct {
	Outcome

	Head        string         `json:"head" yaml:"head"`
	MergeBase   string         `json:"merge_base" yaml:"merge_base"`
	Birth       string         `json:"birth" yaml:"birth"`
	Fingerprint fingerprint.ID `json:"fingerprint,omitempty" yaml:"fingerprint,omitempty"`
	MergedAs    string         `json:"merged_as,omitempty" yaml:"merged_as,omitempty"`
	Upstream    string         `json:"upstream,omitempty" yaml:"upstream,omitempty"`
	UpstreamAt  string         `json:"upstream_head,omitempty" yaml:"upstream_head,omitempty"`
	Counterpart string         `json:"counterpart,omitempty" yaml:"counterpart,omitempty"`
	CounterAt   string         `json:"counterpart_head,omitempty" yaml:"counterpart_head,omitempty"`
	LocalTime   string         `json:"local_time,omitempty" yaml:"local_time,omitempty"`
	MirrorTime  string         `json:"mirror_time,omitempty" yaml:"mirror_time,omitempty"`
}

// Summary is the machine-readable form of a plan.
type Summary struct {
	Strategy string    `json:"strategy" yaml:"strategy"`
	Delete   []string  `json:"delete" yaml:"delete"`
	Update   []string  `json:"update" yaml:"update"`
	Push     []string  `json:"push" yaml:"push"`
	Outcomes []Outcome `json:"outcomes" yaml:"outcomes"`
}

// Summary flattens the plan into names for JSON/YAML output.
func (p *Plan) Summary(st Strategy) Summary {
	s := Summary{
		Strategy: p.Strategy,
		Delete:   []string{},
		Update:   []string{},
		Push:     []string{},
		Outcomes: p.Outcomes,
	}
	if s.Outcomes == nil {
		s.Outcomes = []Outcome{}
	}
	for _, d := range p.ToDelete {
		s.Delete = append(s.Delete, st.Display(d.Branch))
	}
	for _, u := range p.ToUpdate {
		s.Update = append(s.Update, u.Name)
	}
	for _, ps := range p.ToPush {
		s.Push = append(s.Push, ps.Branch.Name)
	}
	return s
}

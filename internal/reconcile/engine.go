package reconcile

import (
	"context"
	"fmt"
	"time"

	"github.com/raphi011/git-tidy/internal/branch"
	"github.com/raphi011/git-tidy/internal/cache"
	"github.com/raphi011/git-tidy/internal/fingerprint"
	"github.com/raphi011/git-tidy/internal/git"
	"github.com/raphi011/git-tidy/internal/log"
	"github.com/raphi011/git-tidy/internal/output"
)

// Git is the subset of git the engine needs.
type Git interface {
	RemoteFetcher
	ResolveRef(ctx context.Context, ref string) (string, bool, error)
	CommitTime(ctx context.Context, commit string) (time.Time, error)
	CommitsSince(ctx context.Context, rev string, since time.Time) ([]string, error)
}

// Options configure an engine.
type Options struct {
	Integration    string
	PersonalRemote string
	NoPush         bool
	Workers        int
}

// Engine classifies branches for one run.
type Engine struct {
	git     Git
	fp      fingerprint.Engine
	cache   *cache.Cache
	fetcher *Fetcher
	opts    Options

	window  map[string]bool // integration commits inside the scan window
	scanned bool
}

// New returns an engine. The fetcher is shared with the initial fetch so a
// remote is never fetched twice in one run.
func New(g Git, fp fingerprint.Engine, c *cache.Cache, fetcher *Fetcher, opts Options) *Engine {
	return &Engine{git: g, fp: fp, cache: c, fetcher: fetcher, opts: opts}
}

// ScanIntegration fingerprints every integration commit since the given
// time, reusing cached values, and fixes the scan window for this run.
// Returns how many fingerprints had to be computed.
func (e *Engine) ScanIntegration(ctx context.Context, since time.Time) (int, error) {
	commits, err := e.git.CommitsSince(ctx, "refs/heads/"+e.opts.Integration, since)
	if err != nil {
		return 0, err
	}

	computed, err := e.cache.Ensure(ctx, commits, e.fp.Commit, e.opts.Workers)
	if err != nil {
		return computed, err
	}

	e.window = make(map[string]bool, len(commits))
	for _, c := range commits {
		e.window[c] = true
	}
	e.scanned = true
	log.FromContext(ctx).Debug("scanned integration history",
		"commits", len(commits), "computed", computed, "since", since.Format(time.DateOnly))
	return computed, nil
}

// MergedAs returns the integration commit whose fingerprint equals id.
// Only commits inside the scan window count, even when the cache knows an
// older commit with the same fingerprint.
func (e *Engine) MergedAs(id fingerprint.ID) (string, bool) {
	return e.cache.Match(id, func(commit string) bool { return e.window[commit] })
}

// Plan classifies every candidate of st.
func (e *Engine) Plan(ctx context.Context, st Strategy, set Set) (*Plan, error) {
	if !e.scanned {
		return nil, fmt.Errorf("integration history not scanned")
	}
	plan := &Plan{Strategy: st.Name(), Remote: e.opts.PersonalRemote}
	for _, b := range st.Candidates(set) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		ev, err := e.classify(ctx, st, set, b, plan)
		if err != nil {
			return nil, err
		}
		plan.Outcomes = append(plan.Outcomes, ev.Outcome)
	}
	return plan, nil
}

// Explain classifies a single candidate without recording decisions.
func (e *Engine) Explain(ctx context.Context, st Strategy, set Set, b *branch.Branch) (Evaluation, error) {
	if !e.scanned {
		return Evaluation{}, fmt.Errorf("integration history not scanned")
	}
	return e.classify(ctx, st, set, b, &Plan{Strategy: st.Name(), Remote: e.opts.PersonalRemote})
}

func (e *Engine) classify(ctx context.Context, st Strategy, set Set, b *branch.Branch, plan *Plan) (Evaluation, error) {
	name := st.Display(b)
	ev := Evaluation{
		Outcome:   Outcome{Branch: name, Action: ActionNone},
		Head:      b.Head,
		MergeBase: b.MergeBase,
		Birth:     b.Birth.Format(time.RFC3339),
	}
	decide := func(rule Rule, action Action, label output.Label, format string, a ...any) (Evaluation, error) {
		ev.Rule, ev.Action, ev.Label = rule, action, label
		ev.Message = fmt.Sprintf(format, a...)
		return ev, nil
	}

	// 1. merged by content
	id, err := b.Fingerprint(ctx, e.fp)
	if err != nil {
		return ev, fmt.Errorf("fingerprint %s: %w", name, err)
	}
	ev.Fingerprint = id
	if commit, ok := e.MergedAs(id); ok {
		ev.MergedAs = commit
		plan.ToDelete = append(plan.ToDelete, Deletion{Branch: b, MergedAs: commit})
		return decide(RuleMerged, ActionDelete, output.LabelMerged, "%s merged as %s", name, git.Short(commit))
	}

	// 2. foreign upstream
	if b.HasForeignUpstream() {
		up := b.Upstream
		ev.Upstream = up.String()
		if err := e.fetcher.Fetch(ctx, up.Remote); err != nil {
			return ev, fmt.Errorf("fetch %s: %w", up.Remote, err)
		}
		head, exists, err := e.git.ResolveRef(ctx, up.Ref())
		if err != nil {
			return ev, err
		}
		ev.UpstreamAt = head
		switch {
		case !exists:
			plan.ToDelete = append(plan.ToDelete, Deletion{Branch: b})
			return decide(RuleUpstreamGone, ActionDelete, output.LabelDelete, "%s is gone from %s", name, up.Remote)
		case head != b.Head:
			plan.ToUpdate = append(plan.ToUpdate, Update{Name: b.Name, Ref: b.Ref, From: b.Head, To: head, Source: up.String()})
			return decide(RuleUpstreamMoved, ActionUpdate, output.LabelUpdate, "%s %s -> %s (from %s)",
				name, git.Short(b.Head), git.Short(head), up)
		default:
			return decide(RuleUpstreamMatches, ActionNone, output.LabelOK, "%s matches %s", name, up)
		}
	}

	if e.opts.PersonalRemote == "" {
		return decide(RuleUnmerged, ActionNone, output.LabelNote, "%s is not merged", name)
	}

	// 3. no counterpart
	other, ok := st.Counterpart(set, b)
	if !ok {
		return decide(RuleMissing, ActionNone, output.LabelWarn, "%s", st.Missing(b))
	}
	local, mirror := st.Pair(b, other)
	ev.Counterpart = st.Display(other)
	ev.CounterAt = other.Head

	// 4. same commit
	if local.Head == mirror.Head {
		return decide(RuleMatches, ActionNone, output.LabelOK, "%s matches %s/%s", name, e.opts.PersonalRemote, mirror.Name)
	}

	// 5. diverged: newer side wins, ties go to the mirror
	localAt, err := e.git.CommitTime(ctx, local.Head)
	if err != nil {
		return ev, err
	}
	mirrorAt, err := e.git.CommitTime(ctx, mirror.Head)
	if err != nil {
		return ev, err
	}
	ev.LocalTime = localAt.Format(time.RFC3339)
	ev.MirrorTime = mirrorAt.Format(time.RFC3339)

	if localAt.After(mirrorAt) {
		if e.opts.NoPush {
			return decide(RuleNoPush, ActionNone, output.LabelWarn, "%s is newer locally than on %s (not pushing)",
				local.Name, e.opts.PersonalRemote)
		}
		plan.ToPush = append(plan.ToPush, Push{Branch: local, Lease: mirror.Head})
		return decide(RulePush, ActionPush, output.LabelPush, "%s is newer locally, pushing %s to %s",
			local.Name, git.Short(local.Head), e.opts.PersonalRemote)
	}
	plan.ToUpdate = append(plan.ToUpdate, Update{
		Name:   local.Name,
		Ref:    local.Ref,
		From:   local.Head,
		To:     mirror.Head,
		Source: e.opts.PersonalRemote + "/" + mirror.Name,
	})
	return decide(RulePull, ActionUpdate, output.LabelUpdate, "%s %s -> %s (from %s/%s)",
		local.Name, git.Short(local.Head), git.Short(mirror.Head), e.opts.PersonalRemote, mirror.Name)
}

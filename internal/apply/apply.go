package apply

import (
	"context"
	"fmt"
	"strings"

	"github.com/raphi011/git-tidy/internal/git"
	"github.com/raphi011/git-tidy/internal/output"
	"github.com/raphi011/git-tidy/internal/reconcile"
)

// Git is the subset of git the applier needs.
type Git interface {
	DeleteBranches(ctx context.Context, names ...string) error
	PushWithLease(ctx context.Context, remote, commit string, lease git.Lease) error
	DeleteRemoteBranches(ctx context.Context, remote string, leases ...git.Lease) error
	UpdateRef(ctx context.Context, ref, newCommit, oldCommit string) error
}

// ConfirmFunc asks whether to go ahead with the summarized actions.
type ConfirmFunc func(ctx context.Context, summary string) (bool, error)

// Options control confirmation.
type Options struct {
	Really  bool        // skip confirmation
	Confirm ConfirmFunc // required unless Really
}

// Restore is how to bring back a deleted branch.
type Restore struct {
	Branch  string `json:"branch" yaml:"branch"`
	Commit  string `json:"commit" yaml:"commit"`
	Command string `json:"command" yaml:"command"`
}

// Result lists what was done.
type Result struct {
	Declined bool
	Deleted  []Restore
	Pushed   []string
	Updated  []string
}

// RestoreCommands returns one restore command per deleted branch.
func (r Result) RestoreCommands() string {
	lines := make([]string, len(r.Deleted))
	for i, d := range r.Deleted {
		lines[i] = d.Command
	}
	return strings.Join(lines, "\n")
}

// Applier executes plans.
type Applier struct {
	git  Git
	opts Options
}

// New returns an applier.
func New(g Git, opts Options) *Applier {
	return &Applier{git: g, opts: opts}
}

// Summary describes a plan in one line, e.g. "delete 2 branches, push 1".
func Summary(p *reconcile.Plan) string {
	var parts []string
	add := func(n int, verb string) {
		if n == 0 {
			return
		}
		noun := "branches"
		if n == 1 {
			noun = "branch"
		}
		if len(parts) > 0 {
			parts = append(parts, fmt.Sprintf("%s %d", verb, n))
			return
		}
		parts = append(parts, fmt.Sprintf("%s %d %s", verb, n, noun))
	}
	add(len(p.ToDelete), "delete")
	add(len(p.ToPush), "push")
	add(len(p.ToUpdate), "update")
	return strings.Join(parts, ", ")
}

// Apply confirms and executes the plan.
func (a *Applier) Apply(ctx context.Context, p *reconcile.Plan, st reconcile.Strategy) (Result, error) {
	var res Result
	if p.Empty() {
		return res, nil
	}

	if !a.opts.Really {
		if a.opts.Confirm == nil {
			return res, output.NewPreconditionError("confirmation required: re-run with --really")
		}
		ok, err := a.opts.Confirm(ctx, Summary(p))
		if err != nil {
			return res, err
		}
		if !ok {
			res.Declined = true
			return res, nil
		}
	}

	out := output.FromContext(ctx)

	if err := a.deleteAll(ctx, p, st, &res); err != nil {
		return res, err
	}

	for _, push := range p.ToPush {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		b := push.Branch
		lease := git.Lease{Branch: b.Name, Expect: push.Lease}
		if err := a.git.PushWithLease(ctx, p.Remote, b.Head, lease); err != nil {
			return res, output.NewApplyError(fmt.Sprintf("failed to push %s to %s", b.Name, p.Remote), err)
		}
		res.Pushed = append(res.Pushed, b.Name)
		out.Status(output.LabelPush, "%s -> %s/%s (%s)", b.Name, p.Remote, b.Name, git.Short(b.Head))
	}

	for _, u := range p.ToUpdate {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		if err := a.git.UpdateRef(ctx, u.Ref, u.To, u.From); err != nil {
			return res, output.NewApplyError(fmt.Sprintf("failed to update %s", u.Name), err)
		}
		res.Updated = append(res.Updated, u.Name)
		out.Update("%s %s -> %s", u.Name, git.Short(u.From), git.Short(u.To))
	}

	return res, nil
}

func (a *Applier) deleteAll(ctx context.Context, p *reconcile.Plan, st reconcile.Strategy, res *Result) error {
	if len(p.ToDelete) == 0 {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	mirror := st.Name() == "mirror"
	names := make([]string, len(p.ToDelete))
	leases := make([]git.Lease, len(p.ToDelete))
	for i, d := range p.ToDelete {
		names[i] = d.Branch.Name
		leases[i] = git.Lease{Branch: d.Branch.Name, Expect: d.Branch.Head}
	}

	var err error
	if mirror {
		err = a.git.DeleteRemoteBranches(ctx, p.Remote, leases...)
	} else {
		err = a.git.DeleteBranches(ctx, names...)
	}
	if err != nil {
		return output.NewApplyError(fmt.Sprintf("failed to delete %s", strings.Join(names, ", ")), err)
	}

	out := output.FromContext(ctx)
	for _, d := range p.ToDelete {
		r := Restore{Branch: st.Display(d.Branch), Commit: d.Branch.Head}
		if mirror {
			r.Command = fmt.Sprintf("git push %s %s:refs/heads/%s", p.Remote, d.Branch.Head, d.Branch.Name)
		} else {
			r.Command = fmt.Sprintf("git branch %s %s", d.Branch.Name, d.Branch.Head)
		}
		res.Deleted = append(res.Deleted, r)
		out.Status(output.LabelDelete, "%s (restore: %s)", r.Branch, r.Command)
	}
	return nil
}

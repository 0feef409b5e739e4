//go:build integration

package main

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/raphi011/git-tidy/internal/cache"
	"github.com/raphi011/git-tidy/internal/output"
	"github.com/raphi011/git-tidy/internal/reconcile"
)

func TestTidy_SquashMergeIsDeleted(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	f.git("checkout", "--quiet", "-b", "feature")
	f.commit("a.txt", "a\n", "Add a")
	f.commit("b.txt", "b\n", "Add b")
	f.git("checkout", "--quiet", "main")
	f.git("merge", "--quiet", "--squash", "feature")
	squash := f.commit("b.txt", "b\n", "Squashed feature")

	stdout, _, err := f.run("-p", "", "--really")
	if err != nil {
		t.Fatalf("git-tidy failed: %v\n%s", err, stdout)
	}

	if want := "MERGED   feature merged as " + squash[:8]; !strings.Contains(stdout, want) {
		t.Errorf("expected %q in output:\n%s", want, stdout)
	}
	if !strings.Contains(stdout, "DELETE   feature (restore: git branch feature ") {
		t.Errorf("expected delete line with restore hint:\n%s", stdout)
	}
	if f.branchExists("feature") {
		t.Error("feature should have been deleted")
	}
}

func TestTidy_CherryPickedIsDeleted(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	f.git("checkout", "--quiet", "-b", "feature")
	picked := f.commit("feature.txt", "feature\n", "Add feature")
	f.git("checkout", "--quiet", "main")
	f.commit("other.txt", "other\n", "Unrelated work")
	f.git("cherry-pick", picked)

	stdout, _, err := f.run("-n", "-p", "", "--really")
	if err != nil {
		t.Fatalf("git-tidy failed: %v\n%s", err, stdout)
	}
	if !strings.Contains(stdout, "MERGED   feature merged as") {
		t.Errorf("rebased branch not detected as merged:\n%s", stdout)
	}
	if f.branchExists("feature") {
		t.Error("feature should have been deleted")
	}
}

func TestTidy_UnmergedIsKept(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	f.git("checkout", "--quiet", "-b", "feature")
	f.commit("feature.txt", "feature\n", "Add feature")
	f.git("checkout", "--quiet", "main")

	stdout, _, err := f.run("-n", "-p", "", "--really")
	if err != nil {
		t.Fatalf("git-tidy failed: %v\n%s", err, stdout)
	}
	if !strings.Contains(stdout, "NOTE     feature is not merged") {
		t.Errorf("expected unmerged note:\n%s", stdout)
	}
	if !f.branchExists("feature") {
		t.Error("unmerged branch must be kept")
	}
}

func TestTidy_DryRunChangesNothing(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	f.git("checkout", "--quiet", "-b", "feature")
	picked := f.commit("feature.txt", "feature\n", "Add feature")
	f.git("checkout", "--quiet", "main")
	f.git("cherry-pick", picked)

	stdout, _, err := f.run("-n", "-p", "", "--dry-run")
	if err != nil {
		t.Fatalf("git-tidy failed: %v\n%s", err, stdout)
	}
	if !strings.Contains(stdout, "dry run, would delete 1 branch") {
		t.Errorf("expected dry run summary:\n%s", stdout)
	}
	if !f.branchExists("feature") {
		t.Error("dry run must not delete branches")
	}
}

func TestTidy_WrongBranch(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	f.git("checkout", "--quiet", "-b", "feature")

	_, _, err := f.run("-n", "-p", "", "--really")
	if output.ExitCode(err) != output.ExitPrecondition {
		t.Fatalf("exit code = %d (err %v), want %d", output.ExitCode(err), err, output.ExitPrecondition)
	}
	if !strings.Contains(err.Error(), "cannot proceed from branch feature") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestTidy_NoConfirmationWithoutTerminal(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	f.git("checkout", "--quiet", "-b", "feature")
	picked := f.commit("feature.txt", "feature\n", "Add feature")
	f.git("checkout", "--quiet", "main")
	f.git("cherry-pick", picked)

	_, _, err := f.run("-n", "-p", "")
	if output.ExitCode(err) != output.ExitPrecondition {
		t.Fatalf("exit code = %d (err %v), want %d", output.ExitCode(err), err, output.ExitPrecondition)
	}
	if !f.branchExists("feature") {
		t.Error("nothing may change without confirmation")
	}
}

func TestTidy_MirrorPushAndPull(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	// ahead: mirror has an older commit, local is newer -> push
	f.git("checkout", "--quiet", "-b", "ahead")
	f.commit("ahead.txt", "1\n", "Ahead 1")
	f.git("push", "--quiet", "me", "ahead")
	aheadHead := f.commit("ahead.txt", "2\n", "Ahead 2")

	// behind: mirror has a newer commit than local -> update local
	f.git("checkout", "--quiet", "-b", "behind", "main")
	f.commit("behind.txt", "1\n", "Behind 1")
	behindMirror := f.commit("behind.txt", "2\n", "Behind 2")
	f.git("push", "--quiet", "me", "behind")
	f.git("reset", "--quiet", "--hard", "HEAD~1")

	// lonely: never pushed -> warn
	f.git("checkout", "--quiet", "-b", "lonely", "main")
	f.commit("lonely.txt", "1\n", "Lonely")
	f.git("checkout", "--quiet", "main")

	stdout, _, err := f.run("-p", "me", "--really")
	if err != nil {
		t.Fatalf("git-tidy failed: %v\n%s", err, stdout)
	}

	for _, want := range []string{
		"PUSH     ahead is newer locally, pushing " + aheadHead[:8] + " to me",
		"UPDATE   behind ",
		"WARN     lonely is missing on me and is not merged",
	} {
		if !strings.Contains(stdout, want) {
			t.Errorf("expected %q in output:\n%s", want, stdout)
		}
	}
	if got := f.mirrorHead("ahead"); got != aheadHead {
		t.Errorf("mirror ahead = %s, want %s", got, aheadHead)
	}
	if got := f.revParse("behind"); got != behindMirror {
		t.Errorf("local behind = %s, want %s", got, behindMirror)
	}
}

func TestTidy_NoPushOnlyWarns(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	f.git("checkout", "--quiet", "-b", "ahead")
	old := f.commit("ahead.txt", "1\n", "Ahead 1")
	f.git("push", "--quiet", "me", "ahead")
	f.commit("ahead.txt", "2\n", "Ahead 2")
	f.git("checkout", "--quiet", "main")

	stdout, _, err := f.run("-p", "me", "--no-push", "--really")
	if err != nil {
		t.Fatalf("git-tidy failed: %v\n%s", err, stdout)
	}
	if !strings.Contains(stdout, "WARN     ahead is newer locally than on me (not pushing)") {
		t.Errorf("expected no-push warning:\n%s", stdout)
	}
	if got := f.mirrorHead("ahead"); got != old {
		t.Errorf("mirror ahead moved to %s despite --no-push", got)
	}
}

func TestTidy_ForeignUpstreamGone(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	f.git("checkout", "--quiet", "-b", "topic")
	f.commit("topic.txt", "topic\n", "Topic")
	f.git("push", "--quiet", "-u", "origin", "topic")
	f.git("checkout", "--quiet", "main")
	f.git("push", "--quiet", "origin", "--delete", "topic")

	stdout, _, err := f.run("-p", "me", "--really")
	if err != nil {
		t.Fatalf("git-tidy failed: %v\n%s", err, stdout)
	}
	if !strings.Contains(stdout, "DELETE   topic is gone from origin") {
		t.Errorf("expected abandoned upstream deletion:\n%s", stdout)
	}
	if f.branchExists("topic") {
		t.Error("topic should have been deleted")
	}
}

func TestTidy_RemoteMode(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	f.git("checkout", "--quiet", "-b", "feature")
	picked := f.commit("feature.txt", "feature\n", "Add feature")
	f.git("push", "--quiet", "me", "feature")
	f.git("checkout", "--quiet", "main")
	f.git("cherry-pick", picked)
	f.git("branch", "-D", "feature")

	stdout, _, err := f.run("-p", "me", "--remote", "--really")
	if err != nil {
		t.Fatalf("git-tidy failed: %v\n%s", err, stdout)
	}
	if !strings.Contains(stdout, "MERGED   me/feature merged as") {
		t.Errorf("expected merged mirror branch:\n%s", stdout)
	}
	if got := f.mirrorHead("feature"); got != "" {
		t.Errorf("mirror feature still at %s, want deleted", got)
	}
}

func TestPlan_JSON(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	f.git("checkout", "--quiet", "-b", "feature")
	picked := f.commit("feature.txt", "feature\n", "Add feature")
	f.git("checkout", "--quiet", "-b", "wip", "main")
	f.commit("wip.txt", "wip\n", "Wip")
	f.git("checkout", "--quiet", "main")
	f.git("cherry-pick", picked)

	// plan works from any branch
	f.git("checkout", "--quiet", "wip")

	stdout, _, err := f.run("-n", "-p", "", "plan", "-f", "json")
	if err != nil {
		t.Fatalf("git-tidy plan failed: %v\n%s", err, stdout)
	}

	var s reconcile.Summary
	if err := json.Unmarshal([]byte(stdout), &s); err != nil {
		t.Fatalf("plan output is not JSON: %v\n%s", err, stdout)
	}
	if len(s.Delete) != 1 || s.Delete[0] != "feature" {
		t.Errorf("Delete = %v, want [feature]", s.Delete)
	}
	if len(s.Outcomes) != 2 {
		t.Errorf("got %d outcomes, want 2", len(s.Outcomes))
	}
	if !f.branchExists("feature") {
		t.Error("plan must not change anything")
	}
}

func TestExplain(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	f.git("checkout", "--quiet", "-b", "feature-login")
	picked := f.commit("login.txt", "login\n", "Add login")
	f.git("checkout", "--quiet", "main")
	f.git("cherry-pick", picked)
	head := f.revParse("HEAD")

	stdout, _, err := f.run("-n", "-p", "", "explain", "feature-login")
	if err != nil {
		t.Fatalf("git-tidy explain failed: %v\n%s", err, stdout)
	}
	for _, want := range []string{"merged as:    " + head, "rule:         merged", "action:       delete"} {
		if !strings.Contains(stdout, want) {
			t.Errorf("expected %q in output:\n%s", want, stdout)
		}
	}

	_, _, err = f.run("-n", "-p", "", "explain", "login")
	if err == nil || !strings.Contains(err.Error(), "did you mean feature-login") {
		t.Errorf("explain of unknown branch error = %v, want suggestion", err)
	}
}

func TestCache_ReusedAcrossRuns(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	f.git("checkout", "--quiet", "-b", "feature")
	f.commit("feature.txt", "feature\n", "Add feature")
	f.git("checkout", "--quiet", "main")
	f.commit("main.txt", "main\n", "Main work")

	_, stderr, err := f.run("-n", "-p", "", "-v", "plan")
	if err != nil {
		t.Fatalf("first plan failed: %v", err)
	}
	if !strings.Contains(stderr, "computed patch ids") {
		t.Errorf("first run should compute patch ids, log:\n%s", stderr)
	}

	_, stderr, err = f.run("-n", "-p", "", "-v", "plan")
	if err != nil {
		t.Fatalf("second plan failed: %v", err)
	}
	if strings.Contains(stderr, "computed patch ids") {
		t.Errorf("second run should reuse the cache, log:\n%s", stderr)
	}

	stdout, _, err := f.run("-p", "", "cache", "stats", "-f", "json")
	if err != nil {
		t.Fatalf("cache stats failed: %v", err)
	}
	var stats cache.Stats
	if err := json.Unmarshal([]byte(stdout), &stats); err != nil {
		t.Fatalf("stats output is not JSON: %v\n%s", err, stdout)
	}
	if stats.Entries == 0 || stats.Size == 0 {
		t.Errorf("stats = %+v, want entries on disk", stats)
	}

	if _, _, err := f.run("-p", "", "cache", "clear"); err != nil {
		t.Fatalf("cache clear failed: %v", err)
	}
	stdout, _, err = f.run("-p", "", "cache", "stats", "-f", "json")
	if err != nil {
		t.Fatalf("cache stats failed: %v", err)
	}
	if err := json.Unmarshal([]byte(stdout), &stats); err != nil {
		t.Fatalf("stats output is not JSON: %v", err)
	}
	if stats.Entries != 0 {
		t.Errorf("entries after clear = %d, want 0", stats.Entries)
	}
}

func TestTidy_NativeEngine(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	f.git("checkout", "--quiet", "-b", "feature")
	f.commit("a.txt", "a\n", "Add a")
	f.commit("b.txt", "b\n", "Add b")
	f.git("checkout", "--quiet", "main")
	f.git("merge", "--quiet", "--squash", "feature")
	f.commit("b.txt", "b\n", "Squashed feature")

	stdout, _, err := f.run("-n", "-p", "", "--engine", "native", "--really")
	if err != nil {
		t.Fatalf("git-tidy failed: %v\n%s", err, stdout)
	}
	if !strings.Contains(stdout, "MERGED   feature merged as") {
		t.Errorf("native engine missed the squash merge:\n%s", stdout)
	}
}

func TestTidy_RelandedChangeWithNarrowerWindow(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	// an old branch widens the first run's window back to the root commit
	f.git("checkout", "--quiet", "-b", "old")
	f.commit("old.txt", "old\n", "Old work")
	f.git("checkout", "--quiet", "main")
	f.commit("x.txt", "x\n", "Add x")
	f.git("revert", "--no-edit", "HEAD")

	if _, _, err := f.run("-n", "-p", "", "plan"); err != nil {
		t.Fatalf("first plan failed: %v", err)
	}
	f.git("branch", "--quiet", "-D", "old")

	// the same change lands again, inside the narrower window
	f.git("checkout", "--quiet", "-b", "feature")
	picked := f.commit("x.txt", "x\n", "Add x again")
	f.git("checkout", "--quiet", "main")
	f.git("cherry-pick", picked)
	relanded := f.revParse("HEAD")

	stdout, _, err := f.run("-n", "-p", "", "--really")
	if err != nil {
		t.Fatalf("git-tidy failed: %v\n%s", err, stdout)
	}
	if want := "MERGED   feature merged as " + relanded[:8]; !strings.Contains(stdout, want) {
		t.Errorf("expected %q in output:\n%s", want, stdout)
	}
	if f.branchExists("feature") {
		t.Error("feature should have been deleted")
	}
}

func TestTidy_NativeEngineBinaryChanges(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	f.git("checkout", "--quiet", "-b", "landed")
	picked := f.commit("logo.bin", "\x00\x01landed", "Add logo")
	f.git("checkout", "--quiet", "-b", "other", "main")
	f.commit("logo.bin", "\x00\x01other", "Add other logo")
	f.git("checkout", "--quiet", "main")
	f.git("cherry-pick", picked)

	stdout, _, err := f.run("-n", "-p", "", "--engine", "native", "plan")
	if err != nil {
		t.Fatalf("git-tidy plan failed: %v\n%s", err, stdout)
	}
	if !strings.Contains(stdout, "MERGED   landed merged as") {
		t.Errorf("binary change that landed was not detected:\n%s", stdout)
	}
	if !strings.Contains(stdout, "NOTE     other is not merged") {
		t.Errorf("different binary content must not count as merged:\n%s", stdout)
	}
}

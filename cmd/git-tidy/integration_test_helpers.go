//go:build integration

package main

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// resolvePath resolves symlinks in a path.
// This is needed on macOS where /var is a symlink to /private/var.
func resolvePath(t *testing.T, path string) string {
	t.Helper()
	resolved, err := filepath.EvalSymlinks(path)
	if err != nil {
		t.Fatalf("failed to resolve path %s: %v", path, err)
	}
	return resolved
}

// fixture is a working repository with a bare "origin" holding the
// integration branch and a bare "me" acting as personal mirror.
type fixture struct {
	t      *testing.T
	dir    string
	origin string
	mirror string
	config string
	clock  time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	base := resolvePath(t, t.TempDir())

	f := &fixture{
		t:      t,
		dir:    filepath.Join(base, "work"),
		origin: filepath.Join(base, "origin.git"),
		mirror: filepath.Join(base, "me.git"),
		config: filepath.Join(base, "config.toml"),
		clock:  time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC),
	}

	runIn(t, base, nil, "git", "init", "--bare", "-b", "main", f.origin)
	runIn(t, base, nil, "git", "init", "--bare", "-b", "main", f.mirror)
	if err := os.MkdirAll(f.dir, 0755); err != nil {
		t.Fatalf("failed to create work dir: %v", err)
	}
	f.git("init", "-b", "main")
	f.git("config", "user.email", "test@test.com")
	f.git("config", "user.name", "Test User")
	f.git("config", "commit.gpgsign", "false")
	f.commit("README.md", "# work\n", "Initial commit")
	f.git("remote", "add", "origin", f.origin)
	f.git("remote", "add", "me", f.mirror)
	f.git("push", "--quiet", "-u", "origin", "main")
	return f
}

// git runs git in the working repository. Every call advances the clock
// by a minute so commit times are strictly increasing.
func (f *fixture) git(args ...string) string {
	f.t.Helper()
	f.clock = f.clock.Add(time.Minute)
	stamp := f.clock.Format(time.RFC3339)
	env := []string{"GIT_AUTHOR_DATE=" + stamp, "GIT_COMMITTER_DATE=" + stamp}
	return runIn(f.t, f.dir, env, "git", args...)
}

// commit writes file and commits it on the current branch.
func (f *fixture) commit(file, content, msg string) string {
	f.t.Helper()
	if err := os.WriteFile(filepath.Join(f.dir, file), []byte(content), 0644); err != nil {
		f.t.Fatalf("failed to write %s: %v", file, err)
	}
	f.git("add", file)
	f.git("commit", "--quiet", "-m", msg)
	return f.revParse("HEAD")
}

func (f *fixture) revParse(rev string) string {
	f.t.Helper()
	return f.git("rev-parse", rev)
}

// branchExists reports whether a local branch exists.
func (f *fixture) branchExists(name string) bool {
	f.t.Helper()
	cmd := exec.Command("git", "-C", f.dir, "rev-parse", "--verify", "--quiet", "refs/heads/"+name)
	return cmd.Run() == nil
}

// mirrorHead returns the commit of a branch on the mirror, or "".
func (f *fixture) mirrorHead(name string) string {
	f.t.Helper()
	out := runIn(f.t, f.dir, nil, "git", "ls-remote", f.mirror, "refs/heads/"+name)
	sha, _, _ := strings.Cut(out, "\t")
	return sha
}

// run executes git-tidy in the working repository and returns stdout
// and stderr.
func (f *fixture) run(args ...string) (string, string, error) {
	f.t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := newRootCmd()
	cmd.SetArgs(append([]string{"-C", f.dir, "--config", f.config}, args...))
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func runIn(t *testing.T, dir string, env []string, name string, args ...string) string {
	t.Helper()
	cmd := exec.Command(name, args...)
	cmd.Dir = dir
	cmd.Env = append(os.Environ(), env...)
	out, err := cmd.CombinedOutput()
	if err != nil {
		t.Fatalf("failed to run %s %v: %v\n%s", name, args, err, out)
	}
	return strings.TrimSpace(string(out))
}

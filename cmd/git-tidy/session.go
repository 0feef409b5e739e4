package main

import (
	"context"
	"fmt"
	"path/filepath"
	"slices"
	"time"

	"github.com/spf13/cobra"

	"github.com/raphi011/git-tidy/internal/branch"
	"github.com/raphi011/git-tidy/internal/cache"
	"github.com/raphi011/git-tidy/internal/config"
	"github.com/raphi011/git-tidy/internal/fingerprint"
	"github.com/raphi011/git-tidy/internal/git"
	"github.com/raphi011/git-tidy/internal/log"
	"github.com/raphi011/git-tidy/internal/output"
	"github.com/raphi011/git-tidy/internal/reconcile"
	"github.com/raphi011/git-tidy/internal/ui/progress"
)

// sessionOptions select the checks and the strategy of a run.
type sessionOptions struct {
	requireIntegration bool // refuse unless the integration branch is checked out
	machine            bool // stdout carries JSON/YAML; notes go to the log
}

// session is the state of one classification run.
type session struct {
	repo     *git.Repo
	cfg      *config.Config
	fetcher  *reconcile.Fetcher
	cache    *cache.Cache
	unlock   func()
	engine   *reconcile.Engine
	strategy reconcile.Strategy
	set      reconcile.Set
	machine  bool
}

// openRepo finds the repository for cmd and its effective config
// (flags over .git-tidy.toml over the global file).
func openRepo(cmd *cobra.Command) (*git.Repo, *config.Config, error) {
	if err := git.CheckGit(); err != nil {
		return nil, nil, output.NewPreconditionError(err.Error())
	}
	ctx := cmd.Context()

	dir, err := workDir(cmd)
	if err != nil {
		return nil, nil, err
	}
	if !git.IsInsideRepoPath(ctx, dir) {
		return nil, nil, output.NewPreconditionError(fmt.Sprintf("not a git repository: %s", dir))
	}
	repo, err := git.Open(ctx, dir)
	if err != nil {
		return nil, nil, err
	}

	local, err := config.LoadLocal(repo.Path)
	if err != nil {
		return nil, nil, output.NewPreconditionError(err.Error())
	}
	cfg, err := config.MergeLocal(config.FromContext(ctx), local).WithOverrides(overrides(cmd))
	if err != nil {
		return nil, nil, output.NewPreconditionError(err.Error())
	}
	cmd.SetContext(config.WithConfig(ctx, cfg))
	return repo, cfg, nil
}

// openSession runs every step up to classification: precondition checks,
// the initial fetch, branch discovery and opening the locked cache.
// Callers must Close the session.
func openSession(cmd *cobra.Command, opts sessionOptions) (*session, error) {
	repo, cfg, err := openRepo(cmd)
	if err != nil {
		return nil, err
	}
	ctx := cmd.Context()
	l := log.FromContext(ctx)

	mirrorMode, _ := cmd.Flags().GetBool("remote")
	if mirrorMode && !cfg.HasMirror() {
		return nil, output.NewPreconditionError("--remote needs a personal remote (--personal or personal_remote)")
	}

	if opts.requireIntegration {
		current, err := repo.CurrentBranch(ctx)
		if err != nil {
			return nil, err
		}
		if current != cfg.IntegrationBranch {
			return nil, output.NewPreconditionError(fmt.Sprintf("cannot proceed from branch %s: check out %s first", current, cfg.IntegrationBranch))
		}
	}
	if _, ok, err := repo.ResolveRef(ctx, "refs/heads/"+cfg.IntegrationBranch); err != nil {
		return nil, err
	} else if !ok {
		return nil, output.NewPreconditionError(fmt.Sprintf("integration branch %s does not exist", cfg.IntegrationBranch))
	}

	remotes, err := repo.Remotes(ctx)
	if err != nil {
		return nil, err
	}
	if cfg.HasMirror() && !slices.Contains(remotes, cfg.PersonalRemote) {
		return nil, output.NewPreconditionError(fmt.Sprintf("personal remote %s is not configured (git remote add %s <url>)", cfg.PersonalRemote, cfg.PersonalRemote))
	}

	fetcher := reconcile.NewFetcher(repo, cfg.NoFetch)
	if err := initialFetch(ctx, cmd, fetcher, cfg, remotes); err != nil {
		return nil, err
	}

	registry := branch.NewRegistry(repo, branch.Options{
		Integration:    cfg.IntegrationBranch,
		PersonalRemote: cfg.PersonalRemote,
		Eternal:        cfg.Eternal,
		IgnorePrefixes: cfg.IgnorePrefixes,
		Workers:        cfg.Workers,
	})
	local, mirror, err := registry.Discover(ctx)
	if err != nil {
		return nil, err
	}

	path, err := cachePath(ctx, repo, cfg)
	if err != nil {
		return nil, err
	}
	c, unlock, err := cache.LoadWithLock(ctx, path)
	if err != nil {
		return nil, err
	}
	l.Debug("loaded cache", "path", path, "entries", c.Len())

	fp, err := newFingerprintEngine(cfg.Fingerprint.Engine, repo)
	if err != nil {
		unlock()
		return nil, err
	}

	var strategy reconcile.Strategy = reconcile.Local{Remote: cfg.PersonalRemote}
	if mirrorMode {
		strategy = reconcile.Mirror{Remote: cfg.PersonalRemote}
	}

	return &session{
		repo:    repo,
		cfg:     cfg,
		fetcher: fetcher,
		cache:   c,
		unlock:  unlock,
		engine: reconcile.New(repo, fp, c, fetcher, reconcile.Options{
			Integration:    cfg.IntegrationBranch,
			PersonalRemote: cfg.PersonalRemote,
			NoPush:         cfg.NoPush,
			Workers:        cfg.Workers,
		}),
		strategy: strategy,
		set:      reconcile.Set{Local: local, Mirror: mirror},
		machine:  opts.machine,
	}, nil
}

// Close releases the cache lock.
func (s *session) Close() {
	if s.unlock != nil {
		s.unlock()
		s.unlock = nil
	}
}

// scan fingerprints the integration history back to the oldest branch
// birth, with a progress bar on stderr.
func (s *session) scan(cmd *cobra.Command) error {
	ctx := cmd.Context()
	since, ok := s.set.Oldest()
	if !ok {
		since = time.Now()
	}
	s.note(ctx, "computing patch ids since %s...", since.Format(time.DateOnly))

	bar := progress.NewBar(cmd.ErrOrStderr(), "fingerprinting commits")
	s.cache.OnProgress = bar.Report
	computed, err := s.engine.ScanIntegration(ctx, since)
	bar.Stop()
	if err != nil {
		return err
	}
	if computed > 0 {
		log.FromContext(ctx).Debug("computed patch ids", "count", computed, "cache", s.cache.Len())
	}
	return nil
}

// plan scans and classifies every candidate.
func (s *session) plan(cmd *cobra.Command) (*reconcile.Plan, error) {
	if err := s.scan(cmd); err != nil {
		return nil, err
	}
	return s.engine.Plan(cmd.Context(), s.strategy, s.set)
}

// note writes a NOTE line to the report, or to the log when stdout
// carries machine output.
func (s *session) note(ctx context.Context, format string, a ...any) {
	if s.machine {
		log.FromContext(ctx).Printf(format+"\n", a...)
		return
	}
	output.FromContext(ctx).Note(format, a...)
}

// initialFetch fetches the upstream and mirror remotes once, through the
// fetcher the engine reuses for foreign upstreams.
func initialFetch(ctx context.Context, cmd *cobra.Command, f *reconcile.Fetcher, cfg *config.Config, remotes []string) error {
	if cfg.NoFetch {
		return nil
	}
	targets := []string{cfg.UpstreamRemote}
	if cfg.HasMirror() {
		targets = append(targets, cfg.PersonalRemote)
	}

	sp := progress.NewSpinner(cmd.ErrOrStderr(), "")
	defer sp.Stop()
	for _, remote := range targets {
		if !slices.Contains(remotes, remote) {
			log.FromContext(ctx).Printf("Warning: remote %s is not configured, not fetching it\n", remote)
			continue
		}
		sp.Set("fetching " + remote)
		sp.Start()
		if err := f.Fetch(ctx, remote); err != nil {
			return err
		}
	}
	return nil
}

// cachePath returns the cache file for the configured engine.
func cachePath(ctx context.Context, repo *git.Repo, cfg *config.Config) (string, error) {
	if cfg.Cache.Path != "" {
		path, err := config.ExpandPath(cfg.Cache.Path)
		if err != nil {
			return "", err
		}
		if !filepath.IsAbs(path) {
			path = filepath.Join(repo.Path, path)
		}
		if cfg.Fingerprint.Engine != "" && cfg.Fingerprint.Engine != "git" {
			path += "." + cfg.Fingerprint.Engine
		}
		return path, nil
	}
	gitDir, err := repo.GitDir(ctx)
	if err != nil {
		return "", err
	}
	return cache.Path(gitDir, cfg.Fingerprint.Engine), nil
}

func newFingerprintEngine(name string, repo *git.Repo) (fingerprint.Engine, error) {
	switch name {
	case "", "git":
		return fingerprint.NewGitEngine(repo), nil
	case "native":
		return fingerprint.NewNativeEngine(repo), nil
	}
	return nil, output.NewPreconditionError(fmt.Sprintf("unknown fingerprint engine %q", name))
}

package cache

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/raphi011/git-tidy/internal/fingerprint"
	"github.com/raphi011/git-tidy/internal/storage"
)

// FileName is the cache file name for the git engine. Other engines append
// their name as an extension.
const FileName = "patch-ids"

// ComputeFunc fingerprints one commit. fingerprint.None means the commit
// has no fingerprint.
type ComputeFunc func(ctx context.Context, commit string) (fingerprint.ID, error)

// ProgressFunc is called after each computed fingerprint. It must be safe
// for concurrent use.
type ProgressFunc func(done, total int)

// Cache maps commits to fingerprints and fingerprints back to commits.
type Cache struct {
	path    string
	entries map[string]fingerprint.ID
	order   []string
	index   map[fingerprint.ID][]string // commits per fingerprint, in insertion order
	skipped int

	// OnProgress, if set, is reported to while Ensure computes.
	OnProgress ProgressFunc
}

// Stats summarizes the cache contents.
type Stats struct {
	Path      string `json:"path" yaml:"path"`
	Entries   int    `json:"entries" yaml:"entries"`
	Sentinels int    `json:"sentinels" yaml:"sentinels"`
	Skipped   int    `json:"skipped" yaml:"skipped"`
	Size      int64  `json:"size" yaml:"size"`
}

// Path returns the cache file for an engine inside gitDir.
func Path(gitDir, engine string) string {
	name := FileName
	if engine != "" && engine != "git" {
		name += "." + engine
	}
	return filepath.Join(gitDir, "git-tidy", name)
}

// LockPath returns the lock file guarding a cache file.
func LockPath(path string) string {
	return path + ".lock"
}

// New returns an empty cache that saves to path.
func New(path string) *Cache {
	return &Cache{
		path:    path,
		entries: make(map[string]fingerprint.ID),
		index:   make(map[fingerprint.ID][]string),
	}
}

// Load reads the cache file at path. A missing file yields an empty cache.
// Malformed lines are skipped and counted in Stats.
func Load(path string) (*Cache, error) {
	c := New(path)

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return c, nil
		}
		return nil, fmt.Errorf("failed to read cache: %w", err)
	}

	sc := bufio.NewScanner(bytes.NewReader(data))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		commit, id, ok := strings.Cut(line, " ")
		if !ok || commit == "" || !fingerprint.Valid(id) {
			c.skipped++
			continue
		}
		c.add(commit, fingerprint.ID(id))
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("failed to read cache: %w", err)
	}
	return c, nil
}

// LoadWithLock acquires the cache lock and loads the cache.
// Returns cache, unlock function, and error.
// Caller must defer unlock() if err == nil.
func LoadWithLock(ctx context.Context, path string) (*Cache, func(), error) {
	lock := NewFileLock(LockPath(path))
	if err := lock.Lock(ctx); err != nil {
		return nil, nil, fmt.Errorf("failed to acquire cache lock: %w", err)
	}

	c, err := Load(path)
	if err != nil {
		_ = lock.Unlock()
		return nil, nil, err
	}

	unlock := func() { _ = lock.Unlock() }
	return c, unlock, nil
}

// add records an entry. Existing commits are left alone; commits sharing a
// fingerprint are indexed in the order they were added.
func (c *Cache) add(commit string, id fingerprint.ID) {
	if _, ok := c.entries[commit]; ok {
		return
	}
	c.entries[commit] = id
	c.order = append(c.order, commit)
	if id == fingerprint.Sentinel {
		return
	}
	c.index[id] = append(c.index[id], commit)
}

// Get returns the stored value for commit; Sentinel if it has no fingerprint.
func (c *Cache) Get(commit string) (fingerprint.ID, bool) {
	id, ok := c.entries[commit]
	return id, ok
}

// Lookup returns the first commit recorded for a fingerprint.
func (c *Cache) Lookup(id fingerprint.ID) (string, bool) {
	return c.Match(id, func(string) bool { return true })
}

// Match returns the first commit recorded for a fingerprint that accept
// allows. Callers restrict matches to a set of commits this way, e.g. the
// scan window, without losing later commits with the same fingerprint.
func (c *Cache) Match(id fingerprint.ID, accept func(commit string) bool) (string, bool) {
	if id.IsNone() {
		return "", false
	}
	for _, commit := range c.index[id] {
		if accept(commit) {
			return commit, true
		}
	}
	return "", false
}

// Len returns the number of cached commits.
func (c *Cache) Len() int {
	return len(c.entries)
}

// Missing returns the commits not yet cached, deduplicated, in input order.
func (c *Cache) Missing(commits []string) []string {
	seen := make(map[string]bool, len(commits))
	var missing []string
	for _, commit := range commits {
		if _, ok := c.entries[commit]; ok || seen[commit] {
			continue
		}
		seen[commit] = true
		missing = append(missing, commit)
	}
	return missing
}

// Ensure computes fingerprints for every commit not yet cached, using up
// to workers goroutines, then saves the cache once. Returns how many
// fingerprints were computed.
func (c *Cache) Ensure(ctx context.Context, commits []string, compute ComputeFunc, workers int) (int, error) {
	missing := c.Missing(commits)
	if len(missing) == 0 {
		return 0, nil
	}
	if workers < 1 {
		workers = 1
	}

	results := make([]fingerprint.ID, len(missing))
	var done atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, commit := range missing {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			id, err := compute(gctx, commit)
			if err != nil {
				return fmt.Errorf("fingerprint %s: %w", fingerprint.ID(commit).Short(), err)
			}
			if id == fingerprint.Sentinel {
				return fmt.Errorf("fingerprint %s: %w", fingerprint.ID(commit).Short(), fingerprint.ErrSentinel)
			}
			results[i] = id
			if c.OnProgress != nil {
				c.OnProgress(int(done.Add(1)), len(missing))
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		// Prefer the caller's cancellation over a worker's derived error
		if ctxErr := ctx.Err(); ctxErr != nil {
			return 0, ctxErr
		}
		return 0, err
	}

	for i, commit := range missing {
		id := results[i]
		if id == fingerprint.None {
			id = fingerprint.Sentinel
		}
		c.add(commit, id)
	}

	if err := c.Save(); err != nil {
		return len(missing), err
	}
	return len(missing), nil
}

// Save writes the cache to disk atomically.
func (c *Cache) Save() error {
	var buf bytes.Buffer
	for _, commit := range c.order {
		fmt.Fprintf(&buf, "%s %s\n", commit, c.entries[commit])
	}
	if err := storage.WriteFile(c.path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write cache: %w", err)
	}
	return nil
}

// Stats reports entry counts and the on-disk size.
func (c *Cache) Stats() Stats {
	s := Stats{Path: c.path, Entries: len(c.entries), Skipped: c.skipped}
	for _, id := range c.entries {
		if id == fingerprint.Sentinel {
			s.Sentinels++
		}
	}
	if info, err := os.Stat(c.path); err == nil {
		s.Size = info.Size()
	}
	return s
}

// Clear removes the cache file under its lock.
func Clear(ctx context.Context, path string) error {
	lock := NewFileLock(LockPath(path))
	if err := lock.Lock(ctx); err != nil {
		return fmt.Errorf("failed to acquire cache lock: %w", err)
	}
	defer func() { _ = lock.Unlock() }()

	if err := storage.Remove(path); err != nil {
		return fmt.Errorf("failed to remove cache: %w", err)
	}
	return nil
}

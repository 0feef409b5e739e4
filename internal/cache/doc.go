// Package cache persists patch fingerprints of integration-branch commits.
//
// The file lives at <git-dir>/git-tidy/patch-ids (patch-ids.native for the
// native engine) and holds one line per commit:
//
//	<commit-id> <fingerprint>
//
// Commits without a fingerprint (merges, empty commits) are stored with
// [fingerprint.Sentinel] so they are never recomputed. The file is read
// whole and rewritten whole: [Cache.Save] writes a temp file and renames it
// over the old one.
//
// # Reverse Index
//
// Alongside the commit map the cache keeps fingerprint -> commit. The first
// commit recorded for a fingerprint wins; later commits with the same
// fingerprint are stored but never replace the index entry.
//
// # Concurrency
//
// [Cache.Ensure] computes missing fingerprints on a bounded worker pool and
// saves once after every worker succeeded. A failed or cancelled Ensure
// leaves both the in-memory cache and the file untouched.
//
// Use [LoadWithLock] to hold an exclusive lock (<file>.lock) for the whole
// load/ensure/save cycle so concurrent runs serialize.
package cache

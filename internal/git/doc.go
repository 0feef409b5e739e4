// Package git provides git operations via shell commands.
//
// All operations call the git CLI through [github.com/raphi011/git-tidy/internal/cmd]
// rather than using Go git libraries. This keeps the user's configuration
// (SSH keys, credential helpers, hooks, patch-id settings) in effect and
// guarantees the patch ids match what git itself computes.
//
// # Queries
//
//   - [ForEachRef]: enumerate refs with object id, type and upstream
//   - [CurrentBranch]: checked-out branch from porcelain v2 status
//   - [MergeBase], [CommitTime], [ResolveRef], [RefExists]
//   - [CommitsSince]: integration history inside the scan window
//
// # Fingerprint Plumbing
//
//   - [DiffTree], [DiffTreeCommit]: raw+patch diff text
//   - [PatchID]: pipe a diff through git patch-id --stable
//
// # Mutations
//
//   - [Fetch]: fetch --prune a remote
//   - [DeleteBranches]: batch branch -D
//   - [PushWithLease], [DeleteRemoteBranches]: force-with-lease pushes
//   - [UpdateRef]: compare-and-swap ref write
//
// Every failure is returned as an [output.ExitError] with the tool exit
// code, except context cancellation which is returned unchanged.
package git

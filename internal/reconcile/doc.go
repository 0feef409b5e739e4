// Package reconcile classifies branches into delete, update and push
// decisions.
//
// Every candidate branch is checked against these rules in order; the
// first rule that applies decides:
//
//  1. Merged: its MergeBase..Head fingerprint equals the fingerprint of a
//     commit on the integration branch inside the scan window. Delete.
//  2. Foreign upstream: the remote is fetched (once per run). A vanished
//     upstream ref means delete; a moved one means update the local ref;
//     a matching one is left alone.
//  3. No counterpart on the other side: warn only.
//  4. Counterpart at the same commit: nothing to do.
//  5. Diverged: if the local head is strictly newer, push it to the mirror
//     (warn only with pushing disabled), otherwise update the local ref to
//     the mirror's commit.
//
// Ancestry is never consulted for rule 1: squash merges and rebases break
// ancestry but keep content.
//
// The scan window starts at the oldest birth across local and mirror
// branches; no branch can have content merged before it forked.
//
// Two [Strategy] implementations share the rules. [Local] iterates local
// branches and compares them with the mirror. [Mirror] iterates the
// mirror's branches, names them <remote>/<branch>, and deletes merged ones
// on the remote.
package reconcile

// Package branch builds the in-memory branch model for one run.
//
// [Registry.Discover] enumerates local branches and the personal mirror's
// remote-tracking branches, computes each branch's merge-base with the
// integration branch and its birth (the merge-base's commit time), and
// parses foreign upstreams into [TrackingRef] values.
//
// Branch values are immutable after discovery except for the patch
// fingerprint, which [Branch.Fingerprint] computes on first use and
// memoizes on the branch itself.
package branch

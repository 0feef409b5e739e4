// Package apply executes a reconciliation plan.
//
// Actions run in a fixed order: one batched delete of every merged or
// abandoned branch, then force-with-lease pushes to the mirror, then
// compare-and-swap ref updates. Each successful action is reported as it
// lands. The first failure stops the run; earlier actions stay applied and
// a re-run picks up the new state.
//
// Unless told to proceed, a non-empty plan is confirmed first through a
// caller supplied [ConfirmFunc]. An empty plan never prompts.
package apply

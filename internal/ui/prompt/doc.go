// Package prompt provides the interactive confirmation shown before
// git-tidy changes any branch.
//
// [Confirm] renders a single yes/no question with bubbletea and
// defaults to "no". It refuses to run when stdin is not a terminal so
// scripted invocations must pass --really instead of hanging.
package prompt

// Package ui groups the terminal presentation layers of git-tidy.
//
// Subpackages:
//   - [styles]: shared lipgloss colors for status labels
//   - [static]: the plan table
//   - [progress]: spinners and progress bars on stderr
//   - [prompt]: the confirmation shown before applying a plan
//
// Nothing here decides anything about branches; the reconcile and apply
// packages produce the data this package renders.
package ui

// Package cmd provides helpers for executing shell commands with proper error handling.
//
// Commands run with a context so that an interrupted git-tidy run stops the
// child process. Stderr is captured and becomes the error message, making
// git failures readable without a second round trip.
//
// # Usage
//
//	out, err := cmd.OutputContext(ctx, repoPath, "git", "for-each-ref", "refs/heads")
//	if err != nil {
//	    // err contains git's stderr
//	}
//
//	// Piping data into a command:
//	id, err := cmd.InputOutputContext(ctx, repoPath, patch, "git", "patch-id", "--stable")
//
// Every invocation is echoed to the context logger when verbose mode is on.
package cmd

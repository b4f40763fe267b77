// Package cmd provides helpers for executing external commands with proper error handling.
//
// Every command is logged through the context logger (see [log.Logger.Command]),
// and failures carry the trimmed stderr of the child as their message.
//
// # Usage
//
//	if err := cmd.RunContext(ctx, repoDir, "git", "fetch", "origin"); err != nil {
//	    return fmt.Errorf("fetch: %w", err)
//	}
//
//	out, err := cmd.OutputContext(ctx, repoDir, "git", "worktree", "list", "--porcelain")
//
// wt shells out to git and gh for every mutation. Read-only ref lookups may go
// through go-git instead (see internal/refs).
package cmd

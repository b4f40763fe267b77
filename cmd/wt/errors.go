package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/easy-worktree/wt/internal/git"
	"github.com/easy-worktree/wt/internal/metadata"
	"github.com/easy-worktree/wt/internal/plan"
	"github.com/easy-worktree/wt/internal/project"
	"github.com/easy-worktree/wt/internal/session"
	"github.com/easy-worktree/wt/internal/worktree"
)

var errNotInRepo = errors.New("not inside a git repository")

// usageError marks bad flag combinations and arguments.
type usageError struct{ msg string }

func (e *usageError) Error() string { return e.msg }

func usagef(format string, args ...any) error {
	return &usageError{msg: fmt.Sprintf(format, args...)}
}

// printError writes err as "wt: <kind>: <message>" followed by a hint line.
func printError(w io.Writer, err error) {
	kind, hint := classify(err)
	fmt.Fprintf(w, "wt: %s: %v\n", kind, err)
	if hint != "" {
		fmt.Fprintf(w, "hint: %s\n", hint)
	}
}

func classify(err error) (kind, hint string) {
	var (
		notFound *worktree.NotFoundError
		nesting  *session.NestingError
		usage    *usageError
	)

	switch {
	case errors.As(err, &notFound):
		if notFound.Suggestion != "" {
			return "not found", fmt.Sprintf("did you mean %q?", notFound.Suggestion)
		}
		return "not found", "run 'wt list' to see worktrees"
	case errors.Is(err, project.ErrNotInitialized):
		return "not initialized", "run 'wt init'"
	case errors.As(err, &nesting):
		return "nested session", "exit the current wt shell first"
	case errors.Is(err, worktree.ErrAlreadyExists):
		return "already exists", "pick another name or remove it with 'wt rm'"
	case errors.Is(err, plan.ErrDefaultBranchNotFound):
		return "no default branch", "pass a branch or --base explicitly"
	case errors.Is(err, session.ErrNoPreviousSelection):
		return "no previous selection", "select a worktree by name first"
	case errors.Is(err, metadata.ErrUnavailable):
		return "metadata", "check permissions of the wt data directory"
	case errors.Is(err, errNotInRepo):
		return "not a repository", "run wt inside a git repository"
	case errors.Is(err, git.ErrGitNotFound):
		return "git", ""
	case errors.Is(err, git.ErrGitTooOld):
		return "git", "upgrade git"
	case errors.Is(err, context.Canceled):
		return "interrupted", ""
	case errors.As(err, &usage):
		return "usage", "Run 'wt -h' for help"
	default:
		return "error", "Run 'wt -h' for help"
	}
}

package git

import (
	"context"
	"fmt"
	"strings"
)

// Stash stashes all uncommitted changes of path, untracked files included.
// It reports false when there was nothing to stash.
func Stash(ctx context.Context, path, message string) (bool, error) {
	before, err := stashCount(ctx, path)
	if err != nil {
		return false, err
	}
	if err := runGit(ctx, path, "stash", "push", "-u", "-m", message); err != nil {
		return false, fmt.Errorf("failed to stash changes: %w", err)
	}
	after, err := stashCount(ctx, path)
	if err != nil {
		return false, err
	}
	return after > before, nil
}

// StashPop applies and removes the most recent stash entry in path.
func StashPop(ctx context.Context, path string) error {
	if err := runGit(ctx, path, "stash", "pop"); err != nil {
		return fmt.Errorf("failed to pop stash: %w", err)
	}
	return nil
}

func stashCount(ctx context.Context, path string) (int, error) {
	out, err := outputGit(ctx, path, "stash", "list")
	if err != nil {
		return 0, fmt.Errorf("failed to list stash: %w", err)
	}
	s := strings.TrimSpace(string(out))
	if s == "" {
		return 0, nil
	}
	return strings.Count(s, "\n") + 1, nil
}

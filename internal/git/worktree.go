package git

import (
	"context"
	"fmt"
	"strings"

	"github.com/easy-worktree/wt/internal/plan"
)

// WorktreeInfo is one entry of "git worktree list --porcelain".
type WorktreeInfo struct {
	Path     string `json:"path"`
	Branch   string `json:"branch,omitempty"` // empty when detached
	Head     string `json:"head"`
	Detached bool   `json:"detached,omitempty"`
	Bare     bool   `json:"bare,omitempty"`
	Prunable bool   `json:"prunable,omitempty"`
}

// ListWorktrees returns all worktrees of the repository containing dir. The
// primary working copy comes first.
func ListWorktrees(ctx context.Context, dir string) ([]WorktreeInfo, error) {
	out, err := outputGit(ctx, dir, "worktree", "list", "--porcelain")
	if err != nil {
		return nil, fmt.Errorf("failed to list worktrees: %w", err)
	}
	return parseWorktreeList(string(out)), nil
}

func parseWorktreeList(out string) []WorktreeInfo {
	var worktrees []WorktreeInfo
	var current WorktreeInfo

	for _, line := range strings.Split(out, "\n") {
		switch {
		case strings.HasPrefix(line, "worktree "):
			if current.Path != "" {
				worktrees = append(worktrees, current)
			}
			current = WorktreeInfo{Path: strings.TrimPrefix(line, "worktree ")}
		case strings.HasPrefix(line, "HEAD "):
			current.Head = strings.TrimPrefix(line, "HEAD ")
		case strings.HasPrefix(line, "branch refs/heads/"):
			current.Branch = strings.TrimPrefix(line, "branch refs/heads/")
		case line == "detached":
			current.Detached = true
		case line == "bare":
			current.Bare = true
		case strings.HasPrefix(line, "prunable"):
			current.Prunable = true
		}
	}
	if current.Path != "" {
		worktrees = append(worktrees, current)
	}
	return worktrees
}

// AddWorktree realises p for a new worktree at path by running its commands
// in the repository at repoPath.
func AddWorktree(ctx context.Context, repoPath string, p plan.Plan, path string) error {
	for _, args := range p.Commands(path) {
		if err := runGit(ctx, repoPath, args...); err != nil {
			return fmt.Errorf("git %s: %w", args[0]+" "+args[1], err)
		}
	}
	return nil
}

// RemoveWorktree removes the worktree at path. Without force git refuses
// when it has uncommitted changes.
func RemoveWorktree(ctx context.Context, repoPath, path string, force bool) error {
	args := []string{"worktree", "remove"}
	if force {
		args = append(args, "--force")
	}
	args = append(args, path)
	if err := runGit(ctx, repoPath, args...); err != nil {
		return fmt.Errorf("failed to remove worktree: %w", err)
	}
	return nil
}

// PruneWorktrees prunes stale worktree references
func PruneWorktrees(ctx context.Context, repoPath string) error {
	return runGit(ctx, repoPath, "worktree", "prune")
}

package git

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Toplevel returns the top-level directory of the working copy containing dir.
func Toplevel(ctx context.Context, dir string) (string, error) {
	out, err := outputGit(ctx, dir, "rev-parse", "--show-toplevel")
	if err != nil {
		return "", fmt.Errorf("not in a git repository: %w", err)
	}
	return strings.TrimSpace(string(out)), nil
}

// CommonDir returns the absolute git directory shared by all worktrees.
func CommonDir(ctx context.Context, dir string) (string, error) {
	out, err := outputGit(ctx, dir, "rev-parse", "--path-format=absolute", "--git-common-dir")
	if err != nil {
		return "", fmt.Errorf("not in a git repository: %w", err)
	}
	return filepath.Clean(strings.TrimSpace(string(out))), nil
}

// PrimaryRoot returns the primary working copy of the repository containing
// dir. git lists it first.
func PrimaryRoot(ctx context.Context, dir string) (string, error) {
	wts, err := ListWorktrees(ctx, dir)
	if err != nil {
		return "", err
	}
	if len(wts) == 0 || wts[0].Bare {
		return "", fmt.Errorf("no primary working copy for %s", dir)
	}
	return wts[0].Path, nil
}

// CurrentBranch returns the checked out branch, or "" for a detached HEAD.
func CurrentBranch(ctx context.Context, path string) (string, error) {
	out, err := outputGit(ctx, path, "branch", "--show-current")
	if err != nil {
		return "", fmt.Errorf("failed to get branch: %w", err)
	}
	return strings.TrimSpace(string(out)), nil
}

// HeadSHA returns the commit rev points at.
func HeadSHA(ctx context.Context, dir, rev string) (string, error) {
	out, err := outputGit(ctx, dir, "rev-parse", "--verify", "--quiet", rev+"^{commit}")
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", rev, err)
	}
	return strings.TrimSpace(string(out)), nil
}

// LastCommitTime returns the committer time of the last commit in path.
func LastCommitTime(ctx context.Context, path string) (time.Time, error) {
	out, err := outputGit(ctx, path, "log", "-1", "--format=%ct")
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to get last commit time: %w", err)
	}
	ts, err := strconv.ParseInt(strings.TrimSpace(string(out)), 10, 64)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse commit timestamp: %w", err)
	}
	return time.Unix(ts, 0), nil
}

// WorkStatus summarises "git status --porcelain".
type WorkStatus struct {
	Clean        bool
	HasUntracked bool
}

// Status reports whether path has uncommitted changes or untracked files.
func Status(ctx context.Context, path string) (WorkStatus, error) {
	out, err := outputGit(ctx, path, "status", "--porcelain")
	if err != nil {
		return WorkStatus{}, fmt.Errorf("status %s: %w", path, err)
	}
	return parseStatus(string(out)), nil
}

func parseStatus(out string) WorkStatus {
	st := WorkStatus{Clean: true}
	for _, line := range strings.Split(out, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		st.Clean = false
		if strings.HasPrefix(line, "??") {
			st.HasUntracked = true
		}
	}
	return st
}

// Changes are line counts of uncommitted changes against HEAD.
type Changes struct {
	Insertions   int  `json:"insertions"`
	Deletions    int  `json:"deletions"`
	HasUntracked bool `json:"has_untracked"`
}

// DiffStat counts inserted and deleted lines of tracked changes in path and
// reports untracked files.
func DiffStat(ctx context.Context, path string) (Changes, error) {
	out, err := outputGit(ctx, path, "diff", "HEAD", "--numstat")
	if err != nil {
		return Changes{}, fmt.Errorf("failed to get diff stats: %w", err)
	}
	c := parseNumstat(string(out))

	st, err := Status(ctx, path)
	if err != nil {
		return c, err
	}
	c.HasUntracked = st.HasUntracked
	return c, nil
}

func parseNumstat(out string) Changes {
	var c Changes
	for _, line := range strings.Split(strings.TrimSpace(out), "\n") {
		parts := strings.Fields(line)
		if len(parts) < 2 {
			continue
		}
		// binary files show "-"
		if n, err := strconv.Atoi(parts[0]); err == nil {
			c.Insertions += n
		}
		if n, err := strconv.Atoi(parts[1]); err == nil {
			c.Deletions += n
		}
	}
	return c
}

// MergedBranches returns the local branches whose tips are reachable from base.
func MergedBranches(ctx context.Context, repoPath, base string) (map[string]bool, error) {
	out, err := outputGit(ctx, repoPath, "branch", "--merged", base)
	if err != nil {
		return nil, fmt.Errorf("failed to check merge status: %w", err)
	}
	return parseBranchList(string(out)), nil
}

func parseBranchList(out string) map[string]bool {
	branches := make(map[string]bool)
	for _, line := range strings.Split(out, "\n") {
		trimmed := strings.TrimSpace(line)
		// "* " marks the current branch, "+ " one checked out in another worktree
		trimmed = strings.TrimPrefix(trimmed, "* ")
		trimmed = strings.TrimPrefix(trimmed, "+ ")
		if trimmed == "" || strings.HasPrefix(trimmed, "(") {
			continue
		}
		branches[trimmed] = true
	}
	return branches
}

// DeleteBranch deletes a local branch.
func DeleteBranch(ctx context.Context, repoPath, branch string, force bool) error {
	flag := "-d"
	if force {
		flag = "-D"
	}
	if err := runGit(ctx, repoPath, "branch", flag, branch); err != nil {
		return fmt.Errorf("failed to delete branch: %w", err)
	}
	return nil
}

// Fetch fetches all branches of remote.
func Fetch(ctx context.Context, repoPath, remote string) error {
	if err := runGit(ctx, repoPath, "fetch", remote, "--quiet"); err != nil {
		return fmt.Errorf("failed to fetch %s: %w", remote, err)
	}
	return nil
}

// RemoteURL returns the configured URL of remote.
func RemoteURL(ctx context.Context, repoPath, remote string) (string, error) {
	out, err := outputGit(ctx, repoPath, "remote", "get-url", remote)
	if err != nil {
		return "", fmt.Errorf("failed to get %s url: %w", remote, err)
	}
	return strings.TrimSpace(string(out)), nil
}

// FetchRef fetches a single refspec from remote, e.g. "pull/12/head:pr@12".
func FetchRef(ctx context.Context, repoPath, remote, refspec string) error {
	if err := runGit(ctx, repoPath, "fetch", remote, refspec, "--quiet"); err != nil {
		return fmt.Errorf("failed to fetch %s %s: %w", remote, refspec, err)
	}
	return nil
}

// Clone clones url into dir.
func Clone(ctx context.Context, url, dir string) error {
	if err := runGit(ctx, "", "clone", url, dir); err != nil {
		return fmt.Errorf("failed to clone %s: %w", url, err)
	}
	return nil
}

// Diff runs "git diff" or, for a named tool, "git difftool" in path with the
// terminal attached.
func Diff(ctx context.Context, path, tool string, args ...string) error {
	return interactiveGit(ctx, path, diffArgs(tool, args)...)
}

func diffArgs(tool string, args []string) []string {
	if tool == "" || tool == "default" {
		return append([]string{"diff"}, args...)
	}
	return append([]string{"difftool", "--tool=" + tool, "-y"}, args...)
}

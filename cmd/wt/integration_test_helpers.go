//go:build integration

package main

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

// resolvePath resolves symlinks in a path.
// This is needed on macOS where /var is a symlink to /private/var.
func resolvePath(t *testing.T, path string) string {
	t.Helper()
	resolved, err := filepath.EvalSymlinks(path)
	if err != nil {
		t.Fatalf("failed to resolve path %s: %v", path, err)
	}
	return resolved
}

// setupTestRepo creates a git repo on branch main with an initial commit in
// dir/name. Returns the absolute path to the created repo (with symlinks
// resolved).
func setupTestRepo(t *testing.T, dir, name string) string {
	t.Helper()

	dir = resolvePath(t, dir)
	repoPath := filepath.Join(dir, name)
	if err := os.MkdirAll(repoPath, 0755); err != nil {
		t.Fatalf("failed to create repo dir: %v", err)
	}

	runGitCommand(t, repoPath, "init", "-b", "main")
	runGitCommand(t, repoPath, "config", "user.email", "test@test.com")
	runGitCommand(t, repoPath, "config", "user.name", "Test User")
	runGitCommand(t, repoPath, "config", "commit.gpgsign", "false")

	writeFile(t, filepath.Join(repoPath, "README.md"), "# "+name+"\n")
	runGitCommand(t, repoPath, "add", "README.md")
	runGitCommand(t, repoPath, "commit", "-m", "Initial commit")

	return repoPath
}

// setupInitializedRepo is setupTestRepo plus a committed wt init.
func setupInitializedRepo(t *testing.T) string {
	t.Helper()
	repo := setupTestRepo(t, t.TempDir(), "repo")
	mustRunWt(t, repo, nil, "init")
	runGitCommand(t, repo, "add", ".gitignore", ".wt")
	runGitCommand(t, repo, "commit", "-m", "wt init")
	return repo
}

// runGitCommand runs git in dir and returns its trimmed output.
func runGitCommand(t *testing.T, dir string, args ...string) string {
	t.Helper()
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	out, err := cmd.CombinedOutput()
	if err != nil {
		t.Fatalf("git %v failed: %v\n%s", args, err, out)
	}
	return strings.TrimSpace(string(out))
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return string(data)
}

// wtResult is the outcome of one invocation.
type wtResult struct {
	Stdout string
	Stderr string
	Code   int
}

// runWt runs wt in dir with env (WT_SESSION_NAME and SHELL are only taken
// from env, never from the test process).
func runWt(t *testing.T, dir string, env []string, args ...string) wtResult {
	t.Helper()
	var stdout, stderr bytes.Buffer
	a := newApp(dir, env)
	a.interactive = func() bool { return false }
	code := run(context.Background(), a, args, &stdout, &stderr)
	return wtResult{Stdout: stdout.String(), Stderr: stderr.String(), Code: code}
}

// mustRunWt is runWt failing the test on a non-zero exit.
func mustRunWt(t *testing.T, dir string, env []string, args ...string) string {
	t.Helper()
	res := runWt(t, dir, env, args...)
	if res.Code != 0 {
		t.Fatalf("wt %v exited %d\nstdout: %s\nstderr: %s", args, res.Code, res.Stdout, res.Stderr)
	}
	return strings.TrimSpace(res.Stdout)
}

// addWorktree creates a worktree without fetching and returns its path.
func addWorktree(t *testing.T, repo, name string, extra ...string) string {
	t.Helper()
	return mustRunWt(t, repo, nil, append([]string{"add", name, "--no-fetch"}, extra...)...)
}

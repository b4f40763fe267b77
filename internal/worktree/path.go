package worktree

import (
	"os"
	"path/filepath"
	"strings"
)

// Dir resolves the configured worktrees directory against the project root.
// Supports:
//   - ".worktrees" or "./.worktrees" = nested inside the project
//   - "~/worktrees" = under the home directory
//   - "/absolute/worktrees" = absolute path
func Dir(root, worktreesDir string) string {
	switch {
	case strings.HasPrefix(worktreesDir, "~/"):
		home, err := os.UserHomeDir()
		if err != nil || home == "" {
			// keep the ~ prefix so it shows up in error messages
			return worktreesDir
		}
		return filepath.Join(home, worktreesDir[2:])

	case filepath.IsAbs(worktreesDir):
		return filepath.Clean(worktreesDir)

	default:
		return filepath.Join(root, strings.TrimPrefix(worktreesDir, "./"))
	}
}

// Path returns where the worktree called name lives.
func Path(root, worktreesDir, name string) string {
	return filepath.Join(Dir(root, worktreesDir), name)
}

// IgnoreEntry returns the .gitignore line for a worktrees directory inside
// the project, or "" when it lives elsewhere.
func IgnoreEntry(root, worktreesDir string) string {
	rel, err := filepath.Rel(root, Dir(root, worktreesDir))
	if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
		return ""
	}
	return filepath.ToSlash(rel) + "/"
}

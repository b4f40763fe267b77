package hooks

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/easy-worktree/wt/internal/cmd"
	"github.com/easy-worktree/wt/internal/log"
)

// PostAdd is the hook run after a worktree was created.
const PostAdd = "post-add"

// CommandType identifies which command is triggering the hook
type CommandType string

const (
	CommandAdd   CommandType = "add"
	CommandStash CommandType = "stash"
	CommandPR    CommandType = "pr"
)

// Context holds the values passed to a hook
type Context struct {
	Name    string      // worktree name
	Path    string      // absolute worktree path
	Branch  string      // branch name
	Root    string      // primary working copy
	Trigger CommandType // command that triggered the hook
}

// Env returns the hook's WT_* environment entries.
func (c Context) Env() []string {
	return []string{
		"WT_WORKTREE_NAME=" + c.Name,
		"WT_WORKTREE_PATH=" + c.Path,
		"WT_BRANCH=" + c.Branch,
		"WT_PROJECT_ROOT=" + c.Root,
		"WT_TRIGGER=" + string(c.Trigger),
	}
}

// Find returns the path of the named hook in stateDir, if present.
func Find(stateDir, name string) (string, bool, error) {
	path := filepath.Join(stateDir, name)
	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	if info.IsDir() {
		return "", false, fmt.Errorf("hook %s is a directory", path)
	}
	return path, true, nil
}

// Run executes the hook at path inside c.Path.
func Run(ctx context.Context, path string, c Context) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}

	name, args := path, []string(nil)
	if info.Mode().Perm()&0o111 == 0 {
		name, args = "sh", []string{path}
	}

	log.FromContext(ctx).Printf("Running hook '%s'...\n", filepath.Base(path))
	if err := cmd.RunEnvContext(ctx, c.Path, c.Env(), name, args...); err != nil {
		return fmt.Errorf("hook %q failed: %w", filepath.Base(path), err)
	}
	return nil
}

// RunIfPresent runs the named hook from stateDir when it exists. It reports
// whether a hook ran.
func RunIfPresent(ctx context.Context, stateDir, name string, c Context) (bool, error) {
	path, ok, err := Find(stateDir, name)
	if err != nil || !ok {
		return false, err
	}
	return true, Run(ctx, path, c)
}

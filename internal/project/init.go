package project

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/easy-worktree/wt/internal/config"
	"github.com/easy-worktree/wt/internal/worktree"
)

const configTemplate = `# wt project configuration. Values here override the global config;
# .wt/config.local.toml overrides this file and is not committed.

# Directory for worktrees, relative to the project root.
worktrees_dir = ".worktrees"

# Files copied from the project root into new worktrees.
setup_files = [".env"]

# Copy setup files from here instead of the project root.
# setup_source_dir = ""

[diff]
# "default" runs git diff; anything else is passed to git difftool --tool.
tool = "default"

# Pull request state for clean --closed and list --pr comes from gh or glab,
# picked from the remote URL unless set here.
# [forge]
# default = "github"
# [forge.hosts]
# "git.example.com" = "gitlab"
`

// InitResult reports what Init changed.
type InitResult struct {
	CreatedConfig bool
	UpdatedIgnore bool
	IgnoreEntry   string
	StateDir      string
}

// Init creates the .wt state directory in root. It is idempotent: existing
// configuration is never overwritten and .gitignore files only gain
// missing entries.
func Init(root string) (InitResult, error) {
	res := InitResult{StateDir: filepath.Join(root, config.StateDirName)}

	if err := EnsureStateIgnore(res.StateDir); err != nil {
		return res, err
	}

	cfgPath := filepath.Join(res.StateDir, config.ProjectFile)
	f, err := os.OpenFile(cfgPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	switch {
	case err == nil:
		_, werr := f.WriteString(configTemplate)
		cerr := f.Close()
		if err := errors.Join(werr, cerr); err != nil {
			return res, err
		}
		res.CreatedConfig = true
	case !os.IsExist(err):
		return res, err
	}

	// honour a worktrees_dir already set in the config layers
	cfg, _ := config.Load(config.SourcesFor(root))
	res.IgnoreEntry = worktree.IgnoreEntry(root, cfg.WorktreesDir)
	if res.IgnoreEntry != "" {
		added, err := appendIgnore(filepath.Join(root, ".gitignore"), res.IgnoreEntry)
		if err != nil {
			return res, err
		}
		res.UpdatedIgnore = added
	}
	return res, nil
}

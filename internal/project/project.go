// Package project locates the primary working copy a command operates on
// and manages its .wt state directory.
package project

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/easy-worktree/wt/internal/config"
	"github.com/easy-worktree/wt/internal/git"
	"github.com/easy-worktree/wt/internal/metadata"
	"github.com/easy-worktree/wt/internal/worktree"
)

// ErrNotInitialized means the project has no .wt directory yet.
var ErrNotInitialized = errors.New("project not initialized")

// LastSelectionFile stores the previously selected worktree name.
const LastSelectionFile = "last_selection"

// stateIgnores are the .wt entries that stay out of version control.
var stateIgnores = []string{config.LocalFile, LastSelectionFile, "*.lock"}

// Project is a repository with its effective configuration.
type Project struct {
	Root      string // primary working copy
	CommonDir string
	Config    config.Config
	Warnings  []config.LoadWarning
}

// Open finds the project containing dir and loads its configuration.
func Open(ctx context.Context, dir string) (*Project, error) {
	root, err := git.PrimaryRoot(ctx, dir)
	if err != nil {
		return nil, err
	}
	common, err := git.CommonDir(ctx, dir)
	if err != nil {
		return nil, err
	}
	cfg, warnings := config.Load(config.SourcesFor(root))
	return &Project{Root: root, CommonDir: common, Config: cfg, Warnings: warnings}, nil
}

// StateDir returns the .wt directory.
func (p *Project) StateDir() string {
	return filepath.Join(p.Root, config.StateDirName)
}

// Sources returns the configuration layer files of the project.
func (p *Project) Sources() config.Sources {
	return config.SourcesFor(p.Root)
}

// Initialized reports whether the .wt directory exists.
func (p *Project) Initialized() bool {
	info, err := os.Stat(p.StateDir())
	return err == nil && info.IsDir()
}

// RequireInit returns ErrNotInitialized unless .wt exists.
func (p *Project) RequireInit() error {
	if !p.Initialized() {
		return fmt.Errorf("%s: %w", p.Root, ErrNotInitialized)
	}
	return nil
}

// WorktreesDir returns the absolute directory new worktrees are created in.
func (p *Project) WorktreesDir() string {
	return worktree.Dir(p.Root, p.Config.WorktreesDir)
}

// WorktreePath returns the path for a worktree called name.
func (p *Project) WorktreePath(name string) string {
	return worktree.Path(p.Root, p.Config.WorktreesDir, name)
}

// Store opens the metadata store shared by all worktrees of the repository.
func (p *Project) Store() (*metadata.Store, error) {
	dir, err := metadata.DefaultDir()
	if err != nil {
		return nil, err
	}
	return metadata.Open(dir, metadata.Identity(p.CommonDir)), nil
}

// EnsureStateIgnore creates .wt/.gitignore, adding any missing entries for
// local-only state files.
func EnsureStateIgnore(stateDir string) error {
	if err := os.MkdirAll(stateDir, 0o755); err != nil {
		return err
	}
	_, err := appendIgnore(filepath.Join(stateDir, ".gitignore"), stateIgnores...)
	return err
}

// appendIgnore adds entries missing from a .gitignore file, keeping its
// existing content. It reports whether anything was added.
func appendIgnore(path string, entries ...string) (bool, error) {
	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return false, err
	}

	have := make(map[string]bool)
	for _, line := range strings.Split(string(data), "\n") {
		have[strings.TrimSpace(line)] = true
	}

	var missing []string
	for _, e := range entries {
		if e != "" && !have[e] && !have[strings.TrimSuffix(e, "/")] {
			missing = append(missing, e)
		}
	}
	if len(missing) == 0 {
		return false, nil
	}

	var b strings.Builder
	b.Write(data)
	if len(data) > 0 && !strings.HasSuffix(string(data), "\n") {
		b.WriteString("\n")
	}
	for _, m := range missing {
		b.WriteString(m)
		b.WriteString("\n")
	}

	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return false, err
	}
	return true, nil
}

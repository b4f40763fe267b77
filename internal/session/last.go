package session

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/easy-worktree/wt/internal/project"
	"github.com/easy-worktree/wt/internal/storage"
)

// FileLastSelection keeps the last selection in <Dir>/last_selection,
// where Dir is the project's .wt directory.
type FileLastSelection struct {
	Dir string
}

func (f FileLastSelection) path() string {
	return filepath.Join(f.Dir, project.LastSelectionFile)
}

// Load returns the stored name. A missing or empty file means none.
func (f FileLastSelection) Load() (string, bool, error) {
	data, err := os.ReadFile(f.path())
	if os.IsNotExist(err) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	name := strings.TrimSpace(string(data))
	return name, name != "", nil
}

// Save stores name, creating .wt and its .gitignore when needed.
func (f FileLastSelection) Save(name string) error {
	if err := project.EnsureStateIgnore(f.Dir); err != nil {
		return err
	}
	return storage.WithLock(f.path(), func() error {
		return storage.WriteFile(f.path(), []byte(name+"\n"), 0o644)
	})
}

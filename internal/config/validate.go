package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// Validate checks the decoded configuration for values wt cannot work with.
func (c Config) Validate() error {
	var errs []error

	// worktrees_dir may point outside the project, e.g. "../wts"
	if strings.TrimSpace(c.WorktreesDir) == "" {
		errs = append(errs, errors.New("worktrees_dir must not be empty"))
	}

	for i, f := range c.SetupFiles {
		if f == "" || filepath.IsAbs(f) || escapesRoot(f) {
			errs = append(errs, fmt.Errorf("invalid setup_files[%d] %q: must be a relative path inside the project", i, f))
		}
	}

	if c.Diff.Tool == "" {
		errs = append(errs, errors.New("diff.tool must not be empty (use \"default\")"))
	}
	if c.Remote == "" {
		errs = append(errs, errors.New("remote must not be empty"))
	}

	if !validForge(c.Forge.Default) {
		errs = append(errs, fmt.Errorf("invalid forge.default %q (expected github or gitlab)", c.Forge.Default))
	}
	for host, name := range c.Forge.Hosts {
		if name == "" || !validForge(name) {
			errs = append(errs, fmt.Errorf("invalid forge.hosts.%s %q (expected github or gitlab)", host, name))
		}
	}

	return errors.Join(errs...)
}

func validForge(name string) bool {
	switch name {
	case "", "github", "gitlab":
		return true
	}
	return false
}

func escapesRoot(rel string) bool {
	clean := filepath.Clean(rel)
	return clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator))
}

package main

import (
	"os"
	"path"
	"strings"

	"github.com/spf13/cobra"

	"github.com/easy-worktree/wt/internal/git"
	"github.com/easy-worktree/wt/internal/output"
)

func newCloneCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "clone <url> [dir]",
		Short:   "Clone a repository and initialize wt",
		GroupID: GroupConfig,
		Args:    cobra.RangeArgs(1, 2),
		Long: `Clone a repository and run wt init in it.

Without dir the repository is cloned into a directory named after the last
element of the URL, without ".git".`,
		Example: `  wt clone git@github.com:org/repo.git
  wt clone https://github.com/org/repo.git ~/src/repo`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			url := args[0]
			dir := repoDirName(url)
			if len(args) == 2 {
				dir = args[1]
			}
			if dir == "" {
				return usagef("cannot derive a directory from %q, pass one", url)
			}
			dir = a.absPath(dir)
			if _, err := os.Stat(dir); err == nil {
				return usagef("%s already exists", dir)
			}

			if err := git.Clone(ctx, url, dir); err != nil {
				return err
			}
			if err := initProject(cmd, dir); err != nil {
				return err
			}
			output.FromContext(ctx).Println(dir)
			return nil
		},
	}
}

// repoDirName returns the clone directory git would pick for url.
func repoDirName(url string) string {
	url = strings.TrimRight(url, "/")
	// scp-like syntax: host:path
	if i := strings.LastIndex(url, ":"); i >= 0 && !strings.Contains(url, "://") {
		url = url[i+1:]
	}
	name := strings.TrimSuffix(path.Base(url), ".git")
	if name == "." || name == "/" {
		return ""
	}
	return name
}

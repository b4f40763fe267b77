package main

import (
	"github.com/spf13/cobra"

	"github.com/easy-worktree/wt/internal/log"
	"github.com/easy-worktree/wt/internal/project"
)

func newInitCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "init",
		Short:   "Prepare the repository for wt",
		GroupID: GroupConfig,
		Args:    cobra.NoArgs,
		Long: `Create the .wt directory in the primary working copy.

Creates .wt/config.toml with commented defaults and .wt/.gitignore for the
local-only state files. When the worktrees directory lives inside the
repository it is added to the root .gitignore.

Running init again only adds what is missing; existing files keep their
content.`,
		Example: `  wt init`,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := a.project()
			if err != nil {
				return err
			}
			return initProject(cmd, p.Root)
		},
	}
}

func initProject(cmd *cobra.Command, root string) error {
	l := log.FromContext(cmd.Context())

	res, err := project.Init(root)
	if err != nil {
		return err
	}

	if res.CreatedConfig {
		l.Printf("Created %s\n", res.StateDir)
	} else {
		l.Printf("%s already exists, kept existing config\n", res.StateDir)
	}
	if res.UpdatedIgnore {
		l.Printf("Added %s to .gitignore\n", res.IgnoreEntry)
	}
	return nil
}

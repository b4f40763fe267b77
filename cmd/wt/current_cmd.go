package main

import (
	"github.com/spf13/cobra"

	"github.com/easy-worktree/wt/internal/output"
	"github.com/easy-worktree/wt/internal/session"
	"github.com/easy-worktree/wt/internal/snapshot"
)

func newCurrentCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "current",
		Short:   "Print the name of the current worktree",
		GroupID: GroupSession,
		Args:    cobra.NoArgs,
		Long: `Print the name of the worktree wt considers current.

Inside a wt select shell this is the session's worktree. Otherwise it is
the worktree containing the working directory, and "main" for the primary
working copy.`,
		Example: `  PS1='[$(wt current)] $ '`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := output.FromContext(ctx)

			if st := session.StateFromEnv(a.lookupEnv); st.IsActive() {
				out.Println(st.Active)
				return nil
			}

			p, err := a.project()
			if err != nil {
				return err
			}
			snaps, err := buildSnapshots(ctx, p, nil)
			if err != nil {
				return err
			}
			name := currentWorktree(snaps, a.workDir)
			if name == "" {
				name = snapshot.PrimaryName
			}
			out.Println(name)
			return nil
		},
	}
}

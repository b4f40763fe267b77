package main

import (
	"github.com/spf13/cobra"

	"github.com/easy-worktree/wt/internal/git"
)

func newDiffCmd(a *app) *cobra.Command {
	var tool string

	cmd := &cobra.Command{
		Use:     "diff [name] [-- git-diff-args...]",
		Short:   "Show the changes of a worktree",
		GroupID: GroupUtility,
		Long: `Show the uncommitted changes of a worktree.

Runs git diff inside the worktree, or git difftool when diff.tool is set
to anything but "default". Arguments after -- are passed through.
Without a name the current worktree is used.`,
		Example: `  wt diff                       # Current worktree
  wt diff feature-x -- --stat   # Summary of feature-x
  wt diff --tool vimdiff api    # One-off difftool`,
		ValidArgsFunction: a.completeWorktreeNames,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			names, passthrough := args, []string(nil)
			if dash := cmd.ArgsLenAtDash(); dash >= 0 {
				names, passthrough = args[:dash], args[dash:]
			}
			if len(names) > 1 {
				return usagef("diff takes at most one worktree name, pass git arguments after --")
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
			if len(names) == 1 {
				name = names[0]
			}
			s, err := findWorktree(snaps, name)
			if err != nil {
				return err
			}

			if tool == "" {
				tool = p.Config.Diff.Tool
			}
			return git.Diff(ctx, s.Path, tool, passthrough...)
		},
	}

	cmd.Flags().StringVar(&tool, "tool", "", "Diff tool for this run (overrides diff.tool)")

	return cmd
}

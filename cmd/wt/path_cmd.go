package main

import (
	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"github.com/easy-worktree/wt/internal/log"
	"github.com/easy-worktree/wt/internal/output"
)

func newPathCmd(a *app) *cobra.Command {
	var copyToClipboard bool

	cmd := &cobra.Command{
		Use:     "path <name>",
		Short:   "Print the absolute path of a worktree",
		GroupID: GroupSession,
		Args:    cobra.ExactArgs(1),
		Long: `Print the absolute path of a worktree for shell scripting.

Use with shell command substitution: cd $(wt path feature-x)`,
		Example: `  cd $(wt path feature-x)    # cd to feature-x
  cd $(wt path main)         # cd to the primary working copy
  wt path --copy feature-x   # copy the path to the clipboard`,
		ValidArgsFunction: a.completeWorktreeNames,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := output.FromContext(ctx)

			p, err := a.project()
			if err != nil {
				return err
			}
			snaps, err := buildSnapshots(ctx, p, nil)
			if err != nil {
				return err
			}
			s, err := findWorktree(snaps, args[0])
			if err != nil {
				return err
			}

			if copyToClipboard {
				if err := clipboard.WriteAll(s.Path); err != nil {
					log.FromContext(ctx).Warnf("could not copy to clipboard: %v", err)
				} else {
					log.FromContext(ctx).Printf("Copied %s to clipboard\n", s.Path)
					return nil
				}
			}
			out.Println(s.Path)
			return nil
		},
	}

	cmd.Flags().BoolVar(&copyToClipboard, "copy", false, "Copy the path to the clipboard instead of printing it")

	return cmd
}

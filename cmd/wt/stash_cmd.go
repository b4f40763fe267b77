package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/easy-worktree/wt/internal/git"
	"github.com/easy-worktree/wt/internal/hooks"
	"github.com/easy-worktree/wt/internal/log"
	"github.com/easy-worktree/wt/internal/output"
	"github.com/easy-worktree/wt/internal/worktree"
)

func newStashCmd(a *app) *cobra.Command {
	var skipSetup bool

	cmd := &cobra.Command{
		Use:     "stash <name>",
		Short:   "Move local changes into a new worktree",
		GroupID: GroupCore,
		Args:    cobra.ExactArgs(1),
		Long: `Move the uncommitted changes of the current worktree into a new one.

The changes, including untracked files, are stashed, a worktree <name> is
created on a new branch starting at the current commit, and the stash is
applied there. If the worktree cannot be created the changes are restored
where they came from.`,
		Example: `  wt stash experiment   # Continue the current changes in "experiment"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			l := log.FromContext(ctx)

			p, err := a.initializedProject()
			if err != nil {
				return err
			}
			name := args[0]
			if err := worktree.ValidateName(name); err != nil {
				return err
			}
			if _, err := checkFree(ctx, p, name); err != nil {
				return err
			}

			src, err := git.Toplevel(ctx, a.workDir)
			if err != nil {
				return err
			}
			head, err := git.HeadSHA(ctx, src, "HEAD")
			if err != nil {
				return err
			}

			stashed, err := git.Stash(ctx, src, "wt stash: "+name)
			if err != nil {
				return err
			}
			if !stashed {
				return usagef("no local changes to move")
			}

			created := false
			path, _, err := createWorktree(ctx, p, addOptions{
				Name:      name,
				Base:      head,
				SkipSetup: skipSetup,
				NoFetch:   true,
				Trigger:   hooks.CommandStash,
				Prepare: func(path string) error {
					created = true
					if err := git.StashPop(ctx, path); err != nil {
						return fmt.Errorf("worktree %s created but applying the changes failed, they are still in the stash: %w", name, err)
					}
					return nil
				},
			})
			if err != nil {
				if created {
					return err
				}
				if perr := git.StashPop(ctx, src); perr != nil {
					return fmt.Errorf("%w (changes are still in the stash: %v)", err, perr)
				}
				return err
			}
			l.Printf("Moved local changes to %s\n", name)
			output.FromContext(ctx).Println(path)
			return nil
		},
	}

	cmd.Flags().BoolVar(&skipSetup, "skip-setup", false, "Do not copy setup files")

	return cmd
}

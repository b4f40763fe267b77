package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/easy-worktree/wt/internal/git"
	"github.com/easy-worktree/wt/internal/log"
	"github.com/easy-worktree/wt/internal/snapshot"
)

func newRemoveCmd(a *app) *cobra.Command {
	var (
		force        bool
		deleteBranch bool
	)

	cmd := &cobra.Command{
		Use:     "rm <name>",
		Short:   "Remove a worktree",
		Aliases: []string{"remove"},
		GroupID: GroupCore,
		Args:    cobra.ExactArgs(1),
		Long: `Remove a worktree and forget its metadata.

git refuses to remove a worktree with uncommitted changes unless --force
is given. The branch is kept unless --delete-branch is passed.`,
		Example: `  wt rm feature-x                  # Remove a clean worktree
  wt rm feature-x -f               # Discard local changes
  wt rm feature-x --delete-branch  # Also delete the branch`,
		ValidArgsFunction: a.completeWorktreeNames,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			l := log.FromContext(ctx)

			p, err := a.project()
			if err != nil {
				return err
			}
			store := openStore(ctx, p)

			snaps, err := buildSnapshots(ctx, p, store)
			if err != nil {
				return err
			}
			if args[0] == snapshot.PrimaryName {
				return usagef("cannot remove the primary working copy")
			}
			s, err := findWorktree(snaps, args[0])
			if err != nil {
				return err
			}

			if err := git.RemoveWorktree(ctx, p.Root, s.Path, force); err != nil {
				if !force && !s.IsClean {
					return fmt.Errorf("%s has local changes, use --force to discard them: %w", s.Name, err)
				}
				return err
			}
			if store != nil {
				if err := store.Remove(s.Path); err != nil {
					l.Warnf("forget metadata: %v", err)
				}
			}
			l.Printf("Removed worktree %s\n", s.Name)

			if deleteBranch && s.Branch != "" {
				if err := git.DeleteBranch(ctx, p.Root, s.Branch, force); err != nil {
					return err
				}
				l.Printf("Deleted branch %s\n", s.Branch)
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Remove even with uncommitted changes")
	cmd.Flags().BoolVar(&deleteBranch, "delete-branch", false, "Also delete the worktree's branch")

	return cmd
}

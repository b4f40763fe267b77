package main

import (
	"github.com/spf13/cobra"

	"github.com/easy-worktree/wt/internal/hooks"
	"github.com/easy-worktree/wt/internal/log"
	"github.com/easy-worktree/wt/internal/metadata"
)

func newSetupCmd(a *app) *cobra.Command {
	var runHook bool

	cmd := &cobra.Command{
		Use:     "setup [name]",
		Short:   "Copy setup files into a worktree",
		GroupID: GroupUtility,
		Args:    cobra.MaximumNArgs(1),
		Long: `Copy the configured setup_files into a worktree.

Files come from setup_source_dir (the project root by default). Files that
already exist in the worktree are never overwritten, so running setup again
only fills in what is missing.

Without a name the worktree containing the working directory is used.`,
		Example: `  wt setup              # Current worktree
  wt setup feature-x    # A specific worktree
  wt setup --hook       # Also run .wt/post-add again`,
		ValidArgsFunction: a.completeWorktreeNames,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			l := log.FromContext(ctx)

			p, err := a.initializedProject()
			if err != nil {
				return err
			}
			snaps, err := buildSnapshots(ctx, p, nil)
			if err != nil {
				return err
			}

			name := currentWorktree(snaps, a.workDir)
			if len(args) == 1 {
				name = args[0]
			}
			if name == "" {
				return usagef("not inside a worktree, pass a name")
			}
			s, err := findWorktree(snaps, name)
			if err != nil {
				return err
			}
			if metadata.Normalize(s.Path) == metadata.Normalize(setupSource(p)) {
				return usagef("%s is the setup source; run setup in or for another worktree", s.Name)
			}

			if len(p.Config.SetupFiles) == 0 {
				l.Println("No setup_files configured")
			} else if err := copySetupFiles(ctx, p, s.Path); err != nil {
				return err
			}

			if runHook {
				ran, err := hooks.RunIfPresent(ctx, p.StateDir(), hooks.PostAdd, hooks.Context{
					Name:    s.Name,
					Path:    s.Path,
					Branch:  s.Branch,
					Root:    p.Root,
					Trigger: hooks.CommandAdd,
				})
				if err != nil {
					return err
				}
				if !ran {
					l.Printf("No %s hook\n", hooks.PostAdd)
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&runHook, "hook", false, "Run the post-add hook after copying")

	return cmd
}

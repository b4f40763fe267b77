package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/easy-worktree/wt/internal/log"
	"github.com/easy-worktree/wt/internal/output"
	"github.com/easy-worktree/wt/internal/session"
	"github.com/easy-worktree/wt/internal/snapshot"
	"github.com/easy-worktree/wt/internal/ui/prompt"
)

func newSelectCmd(a *app) *cobra.Command {
	var (
		command   string
		printPath bool
	)

	cmd := &cobra.Command{
		Use:     "select [name|-]",
		Short:   "Open a shell in a worktree",
		Aliases: []string{"s"},
		GroupID: GroupSession,
		Args:    cobra.MaximumNArgs(1),
		Long: `Open a shell inside a worktree.

The shell runs with WT_SESSION_NAME set to the worktree name. Inside such a
shell only the same worktree can be selected again; exit it first to switch
elsewhere.

Use "-" to go back to the previously selected worktree and "main" for the
primary working copy. Without a name an interactive picker is shown.

When stdout or stdin is not a terminal, or with --print, the path is
printed instead of starting a shell:
  cd "$(wt select --print feature-x)"`,
		Example: `  wt select feature-x            # Shell in feature-x
  wt select -                    # Back to the previous worktree
  wt select main                 # Shell in the primary working copy
  wt select api -c 'make test'   # Run a command, then stay in the shell`,
		ValidArgsFunction: a.completeWorktreeNames,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			l := log.FromContext(ctx)
			out := output.FromContext(ctx)

			p, err := a.project()
			if err != nil {
				return err
			}
			// creation times are not shown here, so the store stays untouched
			snaps, err := buildSnapshots(ctx, p, nil)
			if err != nil {
				return err
			}

			interactive := a.interactive() && !printPath

			target := ""
			if len(args) == 1 {
				target = args[0]
			} else {
				if !interactive {
					return usagef("a worktree name is required when not running in a terminal")
				}
				res, err := prompt.Select("Select worktree", pickerOptions(snaps))
				if err != nil {
					return err
				}
				if res.Cancelled {
					return nil
				}
				target = res.Value
			}

			m := &session.Machine{
				Resolve: func(name string) (string, error) {
					s, err := findWorktree(snaps, name)
					return s.Path, err
				},
				Last:    session.FileLastSelection{Dir: p.StateDir()},
				Shell:   a.getenv("SHELL"),
				Environ: a.env,
			}
			st := session.StateFromEnv(a.lookupEnv)
			req := session.Request{
				Target:      target,
				Outgoing:    currentWorktree(snaps, a.workDir),
				Interactive: interactive,
				Command:     command,
			}

			var t session.Transition
			if target == "-" {
				t, err = m.ToggleBack(st, req)
			} else {
				t, err = m.SwitchTo(st, req)
			}
			if err != nil {
				return err
			}
			l.Debug("select", "transition", t.Kind.String(), "name", t.Name)

			switch t.Kind {
			case session.Stay:
				l.Printf("Already in %s\n", t.Name)
				out.Println(t.Path)
				return nil
			case session.PrintPath:
				out.Println(t.Path)
				return nil
			case session.Spawn:
				l.Printf("Entering %s (exit the shell to return)\n", t.Name)
				return session.Enter(t)
			default:
				return fmt.Errorf("unexpected transition %s", t.Kind)
			}
		},
	}

	cmd.Flags().StringVarP(&command, "command", "c", "", "Run a command in the new shell first")
	cmd.Flags().BoolVarP(&printPath, "print", "p", false, "Print the path instead of starting a shell")

	return cmd
}

// pickerOptions lists the worktrees with their branch, or the short head
// for detached ones.
func pickerOptions(snaps []snapshot.Snapshot) []prompt.Option {
	opts := make([]prompt.Option, 0, len(snaps))
	for _, s := range snaps {
		detail := s.Branch
		if s.Detached {
			detail = "detached at " + s.Head[:min(7, len(s.Head))]
		}
		if detail == s.Name {
			detail = ""
		}
		opts = append(opts, prompt.Option{Value: s.Name, Detail: detail})
	}
	return opts
}

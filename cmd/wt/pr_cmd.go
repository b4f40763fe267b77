package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/easy-worktree/wt/internal/forge"
	"github.com/easy-worktree/wt/internal/git"
	"github.com/easy-worktree/wt/internal/hooks"
	"github.com/easy-worktree/wt/internal/log"
	"github.com/easy-worktree/wt/internal/output"
	"github.com/easy-worktree/wt/internal/ui/progress"
	"github.com/easy-worktree/wt/internal/ui/static"
	"github.com/easy-worktree/wt/internal/ui/styles"
)

func newPrCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "pr",
		Short:   "Work with pull requests",
		GroupID: GroupCore,
		Long: `Work with pull requests (GitHub) and merge requests (GitLab).

The platform is detected from the remote URL, or set with forge.default
and forge.hosts in the config. gh or glab must be installed and
authenticated.`,
	}

	cmd.AddCommand(newPrAddCmd(a))
	cmd.AddCommand(newPrListCmd(a))

	return cmd
}

// prWorktreeName is the worktree and branch name used for a checked out PR.
func prWorktreeName(n int) string {
	return fmt.Sprintf("pr@%d", n)
}

func newPrAddCmd(a *app) *cobra.Command {
	var skipSetup bool

	cmd := &cobra.Command{
		Use:   "add <number>",
		Short: "Create a worktree for a pull request",
		Args:  cobra.ExactArgs(1),
		Long: `Create a worktree for a pull request.

The PR head is fetched into a local branch pr@<number> and checked out in a
worktree of the same name. This works for PRs from forks too.`,
		Example: `  wt pr add 123     # Worktree pr@123 with the head of PR #123`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			l := log.FromContext(ctx)

			n, err := strconv.Atoi(args[0])
			if err != nil || n <= 0 {
				return usagef("invalid pull request number %q", args[0])
			}
			p, err := a.initializedProject()
			if err != nil {
				return err
			}
			name := prWorktreeName(n)
			if _, err := checkFree(ctx, p, name); err != nil {
				return err
			}

			f := detectForge(ctx, p)
			if err := f.Check(ctx); err != nil {
				return err
			}
			pr, err := f.ViewPR(ctx, p.Root, n)
			if err != nil {
				return err
			}
			l.Printf("%s %s\n", styles.FormatPR(pr), pr.Title)

			if err := git.FetchRef(ctx, p.Root, p.Config.Remote, f.HeadRef(n)+":"+name); err != nil {
				return err
			}

			path, _, err := createWorktree(ctx, p, addOptions{
				Name:      name,
				Branch:    name,
				SkipSetup: skipSetup,
				NoFetch:   true,
				Trigger:   hooks.CommandPR,
			})
			if err != nil {
				return err
			}
			output.FromContext(ctx).Println(path)
			return nil
		},
	}

	cmd.Flags().BoolVar(&skipSetup, "skip-setup", false, "Do not copy setup files")

	return cmd
}

func newPrListCmd(a *app) *cobra.Command {
	var (
		state  string
		format = formatFlag(output.FormatTable)
	)

	cmd := &cobra.Command{
		Use:     "list",
		Short:   "List pull requests",
		Aliases: []string{"ls"},
		Args:    cobra.NoArgs,
		Example: `  wt pr list                  # Open pull requests
  wt pr list --state merged   # Recently merged`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := output.FromContext(ctx)

			switch strings.ToUpper(state) {
			case forge.PRStateOpen, forge.PRStateMerged, forge.PRStateClosed:
			default:
				return usagef("invalid state %q, use open, merged or closed", state)
			}
			p, err := a.project()
			if err != nil {
				return err
			}
			f := detectForge(ctx, p)
			if err := f.Check(ctx); err != nil {
				return err
			}

			sp := progress.Start("Fetching pull requests...")
			prs, err := f.ListPRs(ctx, p.Root, strings.ToUpper(state))
			sp.Stop()
			if err != nil {
				return err
			}

			if format != formatFlag(output.FormatTable) {
				return output.Encode(out.Writer(), output.Format(format), prs)
			}
			if len(prs) == 0 {
				log.FromContext(ctx).Println("No pull requests")
				return nil
			}
			rows := make([][]string, 0, len(prs))
			for i := range prs {
				pr := &prs[i]
				rows = append(rows, []string{styles.FormatPR(pr), styles.FormatPRState(pr.State, pr.IsDraft), pr.Branch, pr.Author, pr.Title})
			}
			out.Print(static.RenderTable([]string{"PR", "STATE", "BRANCH", "AUTHOR", "TITLE"}, rows))
			return nil
		},
	}

	cmd.Flags().StringVar(&state, "state", "open", "State: open, merged, closed")
	cmd.Flags().Var(&format, "format", "Output format: table, json, yaml")
	cmd.RegisterFlagCompletionFunc("format", formatCompletion)

	return cmd
}

package main

import (
	"context"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/easy-worktree/wt/internal/git"
	"github.com/easy-worktree/wt/internal/hooks"
	"github.com/easy-worktree/wt/internal/log"
	"github.com/easy-worktree/wt/internal/output"
	"github.com/easy-worktree/wt/internal/plan"
	"github.com/easy-worktree/wt/internal/project"
	"github.com/easy-worktree/wt/internal/setup"
	"github.com/easy-worktree/wt/internal/worktree"
)

// addOptions describe one worktree creation.
type addOptions struct {
	Name      string
	Branch    string
	Base      string
	SkipSetup bool
	NoFetch   bool
	Trigger   hooks.CommandType

	// Prepare runs right after git created the worktree, before setup
	// files are copied and the hook runs.
	Prepare func(path string) error
}

func newAddCmd(a *app) *cobra.Command {
	var opts addOptions

	cmd := &cobra.Command{
		Use:     "add <name> [branch]",
		Short:   "Create a worktree",
		GroupID: GroupCore,
		Args:    cobra.RangeArgs(1, 2),
		Long: `Create a worktree called <name> in the worktrees directory.

Without a branch, the branch is chosen automatically:
  - <remote>/<name> exists: check it out, tracking the remote
  - local branch <name> exists: check it out
  - otherwise: create <name> from the default branch

Pass a branch to check out an existing branch under a different name, or
--base to create <name> from a specific ref.

After creation the configured setup_files are copied from the project and
the .wt/post-add hook runs inside the new worktree.`,
		Example: `  wt add feature-x                 # Auto: remote, local or new branch
  wt add hotfix release/1.2        # Check out an existing branch
  wt add spike --base origin/dev   # New branch from origin/dev
  wt add quick --skip-setup        # Skip copying setup files`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			p, err := a.initializedProject()
			if err != nil {
				return err
			}

			opts.Name = args[0]
			if len(args) == 2 {
				opts.Branch = args[1]
			}
			if opts.Branch != "" && opts.Base != "" {
				return usagef("a branch argument and --base cannot be combined")
			}
			opts.Trigger = hooks.CommandAdd

			path, _, err := createWorktree(ctx, p, opts)
			if err != nil {
				return err
			}
			output.FromContext(ctx).Println(path)
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.Base, "base", "", "Create the branch from this ref")
	cmd.Flags().BoolVar(&opts.SkipSetup, "skip-setup", false, "Do not copy setup files")
	cmd.Flags().BoolVar(&opts.NoFetch, "no-fetch", false, "Do not fetch the remote first")

	return cmd
}

// createWorktree plans and creates a worktree, then runs the setup copy and
// the post-add hook. A failing hook is reported but leaves the worktree in
// place.
func createWorktree(ctx context.Context, p *project.Project, opts addOptions) (string, plan.Plan, error) {
	l := log.FromContext(ctx)

	if err := worktree.ValidateName(opts.Name); err != nil {
		return "", plan.Plan{}, err
	}
	path, err := checkFree(ctx, p, opts.Name)
	if err != nil {
		return "", plan.Plan{}, err
	}

	remote := p.Config.Remote
	if !opts.NoFetch && opts.Base == "" && hasRemote(ctx, p.Root, remote) {
		if err := git.Fetch(ctx, p.Root, remote); err != nil {
			l.Warnf("%v", err)
		}
	}

	planner := &plan.Planner{Remote: remote}
	pl, err := planner.Plan(ctx, repoQuery(ctx, p.Root), plan.Request{
		Name:   opts.Name,
		Branch: opts.Branch,
		Base:   opts.Base,
	})
	if err != nil {
		return "", pl, err
	}
	l.Debug("plan", "name", opts.Name, "plan", pl.String())

	if err := git.AddWorktree(ctx, p.Root, pl, path); err != nil {
		return "", pl, err
	}
	l.Printf("Created worktree %s (%s)\n", opts.Name, pl)

	if store := openStore(ctx, p); store != nil {
		if err := store.RecordCreated(path, time.Now()); err != nil {
			l.Warnf("record creation time: %v", err)
		}
	}

	if opts.Prepare != nil {
		if err := opts.Prepare(path); err != nil {
			return path, pl, err
		}
	}

	if !opts.SkipSetup {
		if err := copySetupFiles(ctx, p, path); err != nil {
			l.Warnf("setup: %v", err)
		}
	}

	_, err = hooks.RunIfPresent(ctx, p.StateDir(), hooks.PostAdd, hooks.Context{
		Name:    opts.Name,
		Path:    path,
		Branch:  pl.Branch,
		Root:    p.Root,
		Trigger: opts.Trigger,
	})
	if err != nil {
		l.Warnf("%s hook: %v", hooks.PostAdd, err)
	}
	return path, pl, nil
}

// setupSource returns the directory setup files are copied from.
func setupSource(p *project.Project) string {
	src := p.Config.SetupSourceDir
	switch {
	case src == "":
		return p.Root
	case filepath.IsAbs(src):
		return src
	default:
		return filepath.Join(p.Root, src)
	}
}

func copySetupFiles(ctx context.Context, p *project.Project, target string) error {
	if len(p.Config.SetupFiles) == 0 {
		return nil
	}
	l := log.FromContext(ctx)

	res, err := setup.CopyFiles(ctx, setupSource(p), target, p.Config.SetupFiles)
	for _, f := range res.Copied {
		l.Debug("copied", "file", f)
	}
	for _, f := range res.Missing {
		l.Debug("setup file not found", "entry", f, "dir", setupSource(p))
	}
	if err != nil {
		return err
	}
	if n := len(res.Copied); n > 0 {
		l.Printf("Copied %d setup %s\n", n, plural(n, "file", "files"))
	}
	return nil
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/easy-worktree/wt/internal/clean"
	"github.com/easy-worktree/wt/internal/forge"
	"github.com/easy-worktree/wt/internal/git"
	"github.com/easy-worktree/wt/internal/log"
	"github.com/easy-worktree/wt/internal/metadata"
	"github.com/easy-worktree/wt/internal/plan"
	"github.com/easy-worktree/wt/internal/project"
	"github.com/easy-worktree/wt/internal/snapshot"
	"github.com/easy-worktree/wt/internal/ui/progress"
	"github.com/easy-worktree/wt/internal/ui/prompt"
)

func newCleanCmd(a *app) *cobra.Command {
	var (
		filters clean.Filters
		yes     bool
		dryRun  bool
	)

	cmd := &cobra.Command{
		Use:     "clean",
		Short:   "Remove merged, closed or stale worktrees",
		GroupID: GroupCore,
		Args:    cobra.NoArgs,
		Long: `Remove worktrees whose work is done.

Filters (at least one is required):
  --merged   branch merged into the default branch, or its PR merged
  --closed   PR closed without merging
  --days N   created at least N days ago
  --all      every clean worktree

Only worktrees without local changes are candidates. The primary working
copy and worktrees reachable through an alias are never removed.

A branch that still points at the default branch head is only treated as
merged when its pull request was merged, so freshly created worktrees
survive --merged.`,
		Example: `  wt clean --merged              # Remove merged worktrees (asks first)
  wt clean --merged --closed -y  # No confirmation
  wt clean --days 30 --dry-run   # Show what would go`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			l := log.FromContext(ctx)
			stderr := cmd.ErrOrStderr()

			if !filters.Any() {
				return usagef("choose what to clean with --merged, --closed, --days or --all")
			}
			p, err := a.initializedProject()
			if err != nil {
				return err
			}
			store := openStore(ctx, p)

			snaps, err := buildSnapshots(ctx, p, store)
			if err != nil {
				return err
			}

			in := clean.Input{
				Snapshots:   snaps,
				PrimaryPath: p.Root,
				AliasPaths:  aliasedSnapshots(store, snaps),
				Filters:     filters,
				Now:         time.Now(),
			}
			if filters.IncludeMerged {
				in.MergedBranches, in.DefaultHead = localMerged(ctx, p)
			}
			if filters.IncludeMerged || filters.IncludeClosed {
				sp := progress.Start("Fetching pull requests...")
				in.MergedPRBranches, in.ClosedPRBranches = closedPRs(ctx, p)
				sp.Stop()
			}

			targets := clean.Select(in)
			if len(targets) == 0 {
				l.Println("Nothing to clean")
				return nil
			}
			for _, t := range targets {
				fmt.Fprintf(stderr, "%s (reason: %s)\n", t.Name, t.Reason)
			}
			if dryRun {
				return nil
			}

			if !yes {
				res, err := prompt.Confirm(fmt.Sprintf("Remove %d %s?", len(targets), plural(len(targets), "worktree", "worktrees")))
				if err != nil {
					return err
				}
				if !res.Confirmed {
					l.Println("Aborted")
					return nil
				}
			}

			failed := 0
			for _, t := range targets {
				if err := git.RemoveWorktree(ctx, p.Root, t.Path, false); err != nil {
					if ctx.Err() != nil {
						return ctx.Err()
					}
					l.Warnf("%s: %v", t.Name, err)
					failed++
					continue
				}
				if store != nil {
					if err := store.Remove(t.Path); err != nil {
						l.Warnf("forget metadata of %s: %v", t.Name, err)
					}
				}
				l.Printf("Removed worktree %s\n", t.Name)
			}

			if err := git.PruneWorktrees(ctx, p.Root); err != nil {
				l.Debug("worktree prune", "err", err)
			}
			if store != nil {
				pruneMetadata(ctx, p, store)
			}

			if failed > 0 {
				return fmt.Errorf("%d of %d %s could not be removed", failed, len(targets), plural(len(targets), "worktree", "worktrees"))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&filters.IncludeMerged, "merged", false, "Remove worktrees whose branch is merged")
	cmd.Flags().BoolVar(&filters.IncludeClosed, "closed", false, "Remove worktrees whose PR was closed unmerged")
	cmd.Flags().BoolVar(&filters.IncludeAllClean, "all", false, "Remove every clean worktree")
	cmd.Flags().IntVar(&filters.MinAgeDays, "days", clean.NoAgeLimit, "Remove worktrees created at least N days ago")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Do not ask for confirmation")
	cmd.Flags().BoolVarP(&dryRun, "dry-run", "n", false, "Only print what would be removed")

	return cmd
}

// aliasedSnapshots returns the snapshot paths reachable through an alias.
func aliasedSnapshots(store *metadata.Store, snaps []snapshot.Snapshot) map[string]bool {
	out := make(map[string]bool)
	if store == nil {
		return out
	}
	aliased := store.AliasedPaths()
	for _, s := range snaps {
		if aliased[metadata.Normalize(s.Path)] {
			out[s.Path] = true
		}
	}
	return out
}

// localMerged returns the branches merged into the default branch and the
// commit the default branch points at. Both are empty when the default
// branch cannot be determined.
func localMerged(ctx context.Context, p *project.Project) (map[string]bool, string) {
	l := log.FromContext(ctx)
	q := repoQuery(ctx, p.Root)

	planner := &plan.Planner{Remote: p.Config.Remote}
	ref, err := planner.DefaultBranch(ctx, q)
	if err != nil {
		l.Warnf("merged check skipped: %v", err)
		return nil, ""
	}

	merged, err := git.MergedBranches(ctx, p.Root, ref)
	if err != nil {
		l.Warnf("%v", err)
		return nil, ""
	}
	head, _, err := q.ResolveRef(ctx, ref)
	if err != nil {
		l.Debug("resolve default head", "ref", ref, "err", err)
	}
	return merged, head
}

// closedPRs queries the hosting platform. Any failure leaves both sets
// empty so only local information is used.
func closedPRs(ctx context.Context, p *project.Project) (merged, closed map[string]bool) {
	l := log.FromContext(ctx)
	f := detectForge(ctx, p)
	if err := f.Check(ctx); err != nil {
		l.Warnf("%v", err)
		return nil, nil
	}
	merged, closed, err := forge.Closed(ctx, f, p.Root)
	if err != nil {
		l.Warnf("pull request state unavailable: %v", err)
		return nil, nil
	}
	return merged, closed
}

// pruneMetadata drops records of worktrees that no longer exist.
func pruneMetadata(ctx context.Context, p *project.Project, store *metadata.Store) {
	infos, err := git.ListWorktrees(ctx, p.Root)
	if err != nil {
		return
	}
	live := make([]string, 0, len(infos))
	for _, wi := range infos {
		live = append(live, wi.Path)
	}
	if err := store.Prune(live); err != nil {
		log.FromContext(ctx).Warnf("prune metadata: %v", err)
	}
}

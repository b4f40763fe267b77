package main

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"golang.org/x/sync/errgroup"

	"github.com/easy-worktree/wt/internal/forge"
	"github.com/easy-worktree/wt/internal/log"
	"github.com/easy-worktree/wt/internal/output"
	"github.com/easy-worktree/wt/internal/snapshot"
	"github.com/easy-worktree/wt/internal/ui/progress"
	"github.com/easy-worktree/wt/internal/ui/static"
)

// sortFlag is the --sort value of list.
type sortFlag string

const (
	sortCreated    sortFlag = "created"
	sortName       sortFlag = "name"
	sortLastCommit sortFlag = "last-commit"
)

func (s *sortFlag) String() string { return string(*s) }
func (s *sortFlag) Type() string   { return "order" }

func (s *sortFlag) Set(v string) error {
	switch sortFlag(v) {
	case sortCreated, sortName, sortLastCommit:
		*s = sortFlag(v)
		return nil
	}
	return fmt.Errorf("must be one of created, name, last-commit")
}

// formatFlag is a --format value.
type formatFlag output.Format

func (f *formatFlag) String() string { return string(*f) }
func (f *formatFlag) Type() string   { return "format" }

func (f *formatFlag) Set(v string) error {
	switch output.Format(v) {
	case output.FormatTable, output.FormatJSON, output.FormatYAML:
		*f = formatFlag(v)
		return nil
	}
	return fmt.Errorf("must be one of table, json, yaml")
}

var (
	_ pflag.Value = (*sortFlag)(nil)
	_ pflag.Value = (*formatFlag)(nil)
)

// listEntry is one worktree in structured output.
type listEntry struct {
	snapshot.Snapshot `yaml:",inline"`
	PR                *forge.PRInfo `json:"pr,omitempty" yaml:"pr,omitempty"`
}

// prLookupLimit bounds concurrent gh/glab processes.
const prLookupLimit = 4

func newListCmd(a *app) *cobra.Command {
	var (
		withPR bool
		sortBy = sortCreated
		format = formatFlag(output.FormatTable)
	)

	cmd := &cobra.Command{
		Use:     "list",
		Short:   "List worktrees",
		Aliases: []string{"ls"},
		GroupID: GroupCore,
		Args:    cobra.NoArgs,
		Long: `List the worktrees of the current repository.

Worktrees are sorted by creation date (most recent first) by default.
Creation dates come from the wt metadata store; worktrees wt did not
create get the best timestamp the filesystem offers.

With --pr, the pull request of each branch is looked up with gh or glab:
  ● open   ✔ merged   ✘ closed   ◌ draft`,
		Example: `  wt list                      # Table, newest first
  wt list --sort name          # Alphabetical
  wt list --pr                 # Include pull request state
  wt list --format json        # Output as JSON`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := output.FromContext(ctx)

			p, err := a.project()
			if err != nil {
				return err
			}
			store := openStore(ctx, p)

			snaps, err := buildSnapshots(ctx, p, store)
			if err != nil {
				return err
			}
			sortSnapshots(snaps, sortBy)

			var prs map[string]*forge.PRInfo
			if withPR {
				sp := progress.Start("Fetching pull requests...")
				prs = lookupPRs(ctx, detectForge(ctx, p), p.Root, snaps)
				sp.Stop()
			}

			if format != formatFlag(output.FormatTable) {
				entries := make([]listEntry, 0, len(snaps))
				for _, s := range snaps {
					entries = append(entries, listEntry{Snapshot: s, PR: prs[s.Branch]})
				}
				return output.Encode(out.Writer(), output.Format(format), entries)
			}

			now := time.Now()
			rows := make([][]string, 0, len(snaps))
			for _, s := range snaps {
				rows = append(rows, static.WorktreeTableRow(s, prs[s.Branch], withPR, now))
			}
			out.Print(static.RenderTable(static.WorktreeHeaders(withPR), rows))
			return nil
		},
	}

	cmd.Flags().BoolVar(&withPR, "pr", false, "Show pull request state per branch")
	cmd.Flags().Var(&sortBy, "sort", "Sort by: created, name, last-commit")
	cmd.Flags().Var(&format, "format", "Output format: table, json, yaml")
	cmd.RegisterFlagCompletionFunc("sort", cobra.FixedCompletions(
		[]string{string(sortCreated), string(sortName), string(sortLastCommit)}, cobra.ShellCompDirectiveNoFileComp))
	cmd.RegisterFlagCompletionFunc("format", formatCompletion)

	return cmd
}

var formatCompletion = cobra.FixedCompletions(
	[]string{string(output.FormatTable), string(output.FormatJSON), string(output.FormatYAML)},
	cobra.ShellCompDirectiveNoFileComp)

// sortSnapshots orders snaps in place. Ties fall back to the name so the
// output is stable.
func sortSnapshots(snaps []snapshot.Snapshot, by sortFlag) {
	sort.SliceStable(snaps, func(i, j int) bool {
		a, b := snaps[i], snaps[j]
		switch by {
		case sortLastCommit:
			if !a.LastCommitAt.Equal(b.LastCommitAt) {
				return a.LastCommitAt.After(b.LastCommitAt)
			}
		case sortCreated:
			if !a.CreatedAt.Equal(b.CreatedAt) {
				return a.CreatedAt.After(b.CreatedAt)
			}
		}
		return a.Name < b.Name
	})
}

// lookupPRs finds the pull request of every branch. Failures are reported
// once and leave the PR column empty.
func lookupPRs(ctx context.Context, f forge.Forge, dir string, snaps []snapshot.Snapshot) map[string]*forge.PRInfo {
	l := log.FromContext(ctx)

	if err := f.Check(ctx); err != nil {
		l.Warnf("%v", err)
		return nil
	}

	var (
		mu       sync.Mutex
		prs      = make(map[string]*forge.PRInfo)
		firstErr error
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(prLookupLimit)
	for _, s := range snaps {
		if s.Branch == "" || s.Primary {
			continue
		}
		branch := s.Branch
		g.Go(func() error {
			pr, err := f.PRForBranch(gctx, dir, branch)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				if firstErr == nil {
					firstErr = err
				}
				return nil
			}
			if pr != nil {
				prs[branch] = pr
			}
			return nil
		})
	}
	_ = g.Wait()

	if firstErr != nil {
		l.Warnf("pull request lookup: %v", firstErr)
	}
	return prs
}

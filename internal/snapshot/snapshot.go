// Package snapshot builds point-in-time views of a repository's worktrees
// by combining git queries with recorded creation times.
package snapshot

import (
	"context"
	"errors"
	"path/filepath"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/easy-worktree/wt/internal/git"
	"github.com/easy-worktree/wt/internal/log"
	"github.com/easy-worktree/wt/internal/metadata"
)

// PrimaryName addresses the primary working copy.
const PrimaryName = "main"

// Snapshot is one worktree as observed now. It is never persisted.
type Snapshot struct {
	Name         string    `json:"name" yaml:"name"`
	Path         string    `json:"path" yaml:"path"`
	Branch       string    `json:"branch,omitempty" yaml:"branch,omitempty"`
	Detached     bool      `json:"detached,omitempty" yaml:"detached,omitempty"`
	Head         string    `json:"head" yaml:"head"`
	Primary      bool      `json:"primary,omitempty" yaml:"primary,omitempty"`
	IsClean      bool      `json:"clean" yaml:"clean"`
	HasUntracked bool      `json:"has_untracked,omitempty" yaml:"has_untracked,omitempty"`
	Insertions   int       `json:"insertions" yaml:"insertions"`
	Deletions    int       `json:"deletions" yaml:"deletions"`
	CreatedAt    time.Time `json:"created_at,omitzero" yaml:"created_at,omitempty"`
	LastCommitAt time.Time `json:"last_commit_at,omitzero" yaml:"last_commit_at,omitempty"`
}

// VCS is the subset of git queries a snapshot needs.
type VCS interface {
	ListWorktrees(ctx context.Context, dir string) ([]git.WorktreeInfo, error)
	DiffStat(ctx context.Context, path string) (git.Changes, error)
	Status(ctx context.Context, path string) (git.WorkStatus, error)
	LastCommitTime(ctx context.Context, path string) (time.Time, error)
}

// CLI implements VCS with the git package.
type CLI struct{}

func (CLI) ListWorktrees(ctx context.Context, dir string) ([]git.WorktreeInfo, error) {
	return git.ListWorktrees(ctx, dir)
}

func (CLI) DiffStat(ctx context.Context, path string) (git.Changes, error) {
	return git.DiffStat(ctx, path)
}

func (CLI) Status(ctx context.Context, path string) (git.WorkStatus, error) {
	return git.Status(ctx, path)
}

func (CLI) LastCommitTime(ctx context.Context, path string) (time.Time, error) {
	return git.LastCommitTime(ctx, path)
}

// Times supplies creation times. *metadata.Store satisfies it.
type Times interface {
	Observe(path string) (time.Time, error)
}

// CommitTimes reads commit times by revision. *refs.Repo satisfies it.
type CommitTimes interface {
	LastCommitTime(ctx context.Context, rev string) (time.Time, error)
}

// Builder assembles snapshots. When Commits is set, commit times are read
// through it and VCS is only asked when that fails.
type Builder struct {
	VCS     VCS
	Times   Times
	Commits CommitTimes
	Root    string // primary working copy
}

// Build returns one snapshot per worktree in git's order, primary first.
// Prunable entries are skipped. A worktree whose status cannot be read is
// reported as not clean so it is never removed by accident.
func (b *Builder) Build(ctx context.Context) ([]Snapshot, error) {
	infos, err := b.VCS.ListWorktrees(ctx, b.Root)
	if err != nil {
		return nil, err
	}

	var live []git.WorktreeInfo
	for _, wi := range infos {
		if wi.Prunable || wi.Bare {
			continue
		}
		live = append(live, wi)
	}

	snaps := make([]Snapshot, len(live))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(8)
	for i, wi := range live {
		g.Go(func() error {
			snaps[i] = b.inspect(gctx, wi)
			return nil
		})
	}
	_ = g.Wait()
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// the store serialises writes through a file lock, so observe sequentially
	l := log.FromContext(ctx)
	warned := false
	for i := range snaps {
		if snaps[i].Primary || b.Times == nil {
			continue
		}
		at, err := b.Times.Observe(snaps[i].Path)
		if err != nil {
			if errors.Is(err, metadata.ErrUnavailable) && !warned {
				l.Warnf("metadata store unavailable, using filesystem times: %v", err)
				warned = true
			} else {
				l.Debug("observe creation time", "path", snaps[i].Path, "err", err)
			}
		}
		snaps[i].CreatedAt = at
	}

	return snaps, nil
}

func (b *Builder) inspect(ctx context.Context, wi git.WorktreeInfo) Snapshot {
	s := Snapshot{
		Name:     filepath.Base(wi.Path),
		Path:     wi.Path,
		Branch:   wi.Branch,
		Detached: wi.Detached || wi.Branch == "",
		Head:     wi.Head,
		Primary:  samePath(wi.Path, b.Root),
	}
	if s.Primary {
		s.Name = PrimaryName
	}

	l := log.FromContext(ctx)

	if st, err := b.VCS.Status(ctx, wi.Path); err != nil {
		l.Debug("status", "path", wi.Path, "err", err)
	} else {
		s.IsClean = st.Clean
		s.HasUntracked = st.HasUntracked
	}

	if !s.IsClean {
		if c, err := b.VCS.DiffStat(ctx, wi.Path); err == nil {
			s.Insertions, s.Deletions = c.Insertions, c.Deletions
		}
	}

	s.LastCommitAt = b.commitTime(ctx, wi)
	return s
}

func (b *Builder) commitTime(ctx context.Context, wi git.WorktreeInfo) time.Time {
	if b.Commits != nil && wi.Head != "" {
		at, err := b.Commits.LastCommitTime(ctx, wi.Head)
		if err == nil {
			return at
		}
		log.FromContext(ctx).Debug("read commit time", "head", wi.Head, "err", err)
	}
	at, err := b.VCS.LastCommitTime(ctx, wi.Path)
	if err != nil {
		return time.Time{}
	}
	return at
}

func samePath(a, b string) bool {
	if filepath.Clean(a) == filepath.Clean(b) {
		return true
	}
	return metadata.Normalize(a) == metadata.Normalize(b)
}

// Find returns the snapshot with the given name.
func Find(snaps []Snapshot, name string) (Snapshot, bool) {
	for _, s := range snaps {
		if s.Name == name {
			return s, true
		}
	}
	return Snapshot{}, false
}

// Names lists snapshot names in order.
func Names(snaps []Snapshot) []string {
	names := make([]string, 0, len(snaps))
	for _, s := range snaps {
		names = append(names, s.Name)
	}
	return names
}

// Package clean selects worktrees that are safe to remove.
//
// Selection is pure: it never touches git or the filesystem. Callers gather
// snapshots, merge and pull request state, and alias paths, then remove
// whatever [Select] returns.
package clean

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/easy-worktree/wt/internal/snapshot"
)

// Kind is why a worktree was selected.
type Kind string

const (
	KindMerged Kind = "merged"
	KindClosed Kind = "closed"
	KindOlder  Kind = "older"
	KindClean  Kind = "clean"
)

// Reason annotates a selected worktree.
type Reason struct {
	Kind Kind
	Days int // set for KindOlder
}

func (r Reason) String() string {
	if r.Kind == KindOlder {
		return fmt.Sprintf("older than %d days", r.Days)
	}
	return string(r.Kind)
}

// Target is a worktree selected for removal.
type Target struct {
	snapshot.Snapshot
	Reason Reason
}

// NoAgeLimit disables the age rule.
const NoAgeLimit = -1

// Filters choose which reasons apply. MinAgeDays < 0 disables the age rule.
type Filters struct {
	IncludeMerged   bool
	IncludeClosed   bool
	IncludeAllClean bool
	MinAgeDays      int
}

// Any reports whether at least one filter is enabled.
func (f Filters) Any() bool {
	return f.IncludeMerged || f.IncludeClosed || f.IncludeAllClean || f.MinAgeDays >= 0
}

// Input is everything Select decides on.
type Input struct {
	Snapshots   []snapshot.Snapshot
	PrimaryPath string
	AliasPaths  map[string]bool

	// MergedBranches come from local ancestry, MergedPRBranches from the
	// hosting platform. Only the latter confirms a branch that has not
	// diverged from the default branch.
	MergedBranches   map[string]bool
	MergedPRBranches map[string]bool
	ClosedPRBranches map[string]bool
	DefaultHead      string // empty when unknown

	Filters Filters
	Now     time.Time
}

// Select returns the worktrees to remove in input order. The primary
// working copy and aliased worktrees are never selected, and every reason
// requires a clean worktree.
func Select(in Input) []Target {
	var targets []Target
	for _, s := range in.Snapshots {
		if excluded(in, s) {
			continue
		}
		if r, ok := reason(in, s); ok {
			targets = append(targets, Target{Snapshot: s, Reason: r})
		}
	}
	return targets
}

func excluded(in Input, s snapshot.Snapshot) bool {
	if s.Primary || (in.PrimaryPath != "" && filepath.Clean(s.Path) == filepath.Clean(in.PrimaryPath)) {
		return true
	}
	return in.AliasPaths[s.Path] || in.AliasPaths[filepath.Clean(s.Path)]
}

func reason(in Input, s snapshot.Snapshot) (Reason, bool) {
	if !s.IsClean {
		return Reason{}, false
	}
	f := in.Filters

	if f.IncludeMerged && merged(in, s) {
		return Reason{Kind: KindMerged}, true
	}
	if f.IncludeClosed && !s.Detached && in.ClosedPRBranches[s.Branch] {
		return Reason{Kind: KindClosed}, true
	}
	if f.MinAgeDays >= 0 && !s.CreatedAt.IsZero() {
		days := int(in.Now.Sub(s.CreatedAt) / (24 * time.Hour))
		if days >= f.MinAgeDays {
			return Reason{Kind: KindOlder, Days: f.MinAgeDays}, true
		}
	}
	if f.IncludeAllClean {
		return Reason{Kind: KindClean}, true
	}
	return Reason{}, false
}

// merged applies the freshness safeguard: a branch still at the default
// branch head looks merged to git but may just be new, so only a merged
// pull request confirms it.
func merged(in Input, s snapshot.Snapshot) bool {
	if s.Detached || s.Branch == "" {
		return false
	}
	if in.MergedPRBranches[s.Branch] {
		return true
	}
	if !in.MergedBranches[s.Branch] {
		return false
	}
	return in.DefaultHead == "" || s.Head != in.DefaultHead
}

// Package plan decides which branch a new worktree checks out and from
// which ref, and turns that decision into git commands.
package plan

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrDefaultBranchNotFound means no default branch could be detected to
// base a new branch on.
var ErrDefaultBranchNotFound = errors.New("default branch not found")

// Mode is how the worktree's branch comes to exist.
type Mode string

const (
	ModeCheckoutExisting Mode = "checkout-existing"
	ModeCreateFromBase   Mode = "create-from-base"
)

// RepoQuery answers the read-only ref questions the planner asks.
type RepoQuery interface {
	LocalBranchExists(ctx context.Context, name string) (bool, error)
	RemoteBranchExists(ctx context.Context, remote, name string) (bool, error)
	// ResolveRef returns the commit a ref name points at.
	ResolveRef(ctx context.Context, name string) (sha string, ok bool, err error)
	// DefaultBranchPointer returns the short target of refs/remotes/<remote>/HEAD, e.g. "origin/main".
	DefaultBranchPointer(ctx context.Context, remote string) (ref string, ok bool, err error)
	// CurrentBranch returns the branch checked out in the primary working copy.
	CurrentBranch(ctx context.Context) (string, bool, error)
}

// Request is what the user asked for.
type Request struct {
	Name   string // worktree name, also the branch name in auto mode
	Branch string // explicit existing branch to check out
	Base   string // explicit base to create Name from
}

// Plan is the resolved branch decision.
type Plan struct {
	Branch      string `json:"branch"`
	SourceRef   string `json:"source_ref"`
	Mode        Mode   `json:"mode"`
	LocalExists bool   `json:"local_exists,omitempty"`
	Remote      string `json:"remote,omitempty"` // set when SourceRef is a remote-tracking ref
}

// DefaultCandidates are tried, in order, when the remote has no HEAD pointer.
// "{remote}" is replaced by the planner's remote name.
var DefaultCandidates = []string{"{remote}/main", "{remote}/master", "main", "master"}

// Planner resolves requests against a repository.
type Planner struct {
	Remote     string   // remote name, "origin" when empty
	Candidates []string // DefaultCandidates when nil
}

func (p *Planner) remote() string {
	if p.Remote == "" {
		return "origin"
	}
	return p.Remote
}

// Plan resolves req. The first matching rule wins:
//  1. an explicit base creates Name from it
//  2. an explicit branch is checked out as is
//  3. an existing remote-tracking or local branch named Name is checked out
//  4. otherwise Name is created from the detected default branch
func (p *Planner) Plan(ctx context.Context, q RepoQuery, req Request) (Plan, error) {
	if req.Base != "" {
		return Plan{Branch: req.Name, SourceRef: req.Base, Mode: ModeCreateFromBase}, nil
	}
	if req.Branch != "" {
		return Plan{Branch: req.Branch, SourceRef: req.Branch, Mode: ModeCheckoutExisting}, nil
	}

	remote := p.remote()

	localExists, err := q.LocalBranchExists(ctx, req.Name)
	if err != nil {
		return Plan{}, fmt.Errorf("check local branch %s: %w", req.Name, err)
	}
	remoteExists, err := q.RemoteBranchExists(ctx, remote, req.Name)
	if err != nil {
		return Plan{}, fmt.Errorf("check remote branch %s/%s: %w", remote, req.Name, err)
	}

	switch {
	case remoteExists:
		return Plan{
			Branch:      req.Name,
			SourceRef:   remote + "/" + req.Name,
			Mode:        ModeCheckoutExisting,
			LocalExists: localExists,
			Remote:      remote,
		}, nil
	case localExists:
		return Plan{Branch: req.Name, SourceRef: req.Name, Mode: ModeCheckoutExisting, LocalExists: true}, nil
	}

	base, err := p.DefaultBranch(ctx, q)
	if err != nil {
		return Plan{}, err
	}
	return Plan{Branch: req.Name, SourceRef: base, Mode: ModeCreateFromBase}, nil
}

// DefaultBranch detects the ref new branches are based on: the remote's
// HEAD pointer, then the conventional candidates, then the branch checked
// out in the primary working copy.
func (p *Planner) DefaultBranch(ctx context.Context, q RepoQuery) (string, error) {
	remote := p.remote()

	if ref, ok, err := q.DefaultBranchPointer(ctx, remote); err != nil {
		return "", err
	} else if ok {
		if _, ok, err := q.ResolveRef(ctx, ref); err != nil {
			return "", err
		} else if ok {
			return ref, nil
		}
	}

	candidates := p.Candidates
	if candidates == nil {
		candidates = DefaultCandidates
	}
	for _, c := range candidates {
		ref := strings.ReplaceAll(c, "{remote}", remote)
		_, ok, err := q.ResolveRef(ctx, ref)
		if err != nil {
			return "", err
		}
		if ok {
			return ref, nil
		}
	}

	if branch, ok, err := q.CurrentBranch(ctx); err != nil {
		return "", err
	} else if ok {
		if _, ok, err := q.ResolveRef(ctx, branch); err != nil {
			return "", err
		} else if ok {
			return branch, nil
		}
	}

	return "", ErrDefaultBranchNotFound
}

// Commands returns the git argument lists that realise the plan for a
// worktree at path, in execution order.
func (p Plan) Commands(path string) [][]string {
	switch {
	case p.Mode == ModeCreateFromBase:
		return [][]string{{"worktree", "add", "-b", p.Branch, path, p.SourceRef}}
	case p.Remote != "" && !p.LocalExists:
		return [][]string{{"worktree", "add", "--track", "-b", p.Branch, path, p.SourceRef}}
	case p.Remote != "":
		// keep local commits; only point the branch at its remote counterpart
		return [][]string{
			{"worktree", "add", path, p.Branch},
			{"branch", "--set-upstream-to=" + p.SourceRef, p.Branch},
		}
	default:
		return [][]string{{"worktree", "add", path, p.Branch}}
	}
}

func (p Plan) String() string {
	return fmt.Sprintf("%s %s from %s", p.Mode, p.Branch, p.SourceRef)
}

// Package refs answers read-only ref questions by reading the repository
// directly with go-git, without starting git processes.
package refs

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

// Repo is a read-only view of a repository's refs.
type Repo struct {
	repo *git.Repository

	// go-git object reads share packfile state
	objMu sync.Mutex
}

// Open opens the repository containing path. Linked worktrees resolve to
// their common dir so refs are shared with the primary working copy.
func Open(path string) (*Repo, error) {
	r, err := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{
		DetectDotGit:          true,
		EnableDotGitCommonDir: true,
	})
	if err != nil {
		return nil, fmt.Errorf("open repository %s: %w", path, err)
	}
	return &Repo{repo: r}, nil
}

// New wraps an already opened repository.
func New(r *git.Repository) *Repo {
	return &Repo{repo: r}
}

func notFound(err error) bool {
	return errors.Is(err, plumbing.ErrReferenceNotFound) || errors.Is(err, plumbing.ErrObjectNotFound)
}

func (r *Repo) hasRef(ctx context.Context, name plumbing.ReferenceName) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	_, err := r.repo.Reference(name, true)
	switch {
	case err == nil:
		return true, nil
	case notFound(err):
		return false, nil
	default:
		return false, err
	}
}

// LocalBranchExists reports whether refs/heads/<name> exists.
func (r *Repo) LocalBranchExists(ctx context.Context, name string) (bool, error) {
	return r.hasRef(ctx, plumbing.NewBranchReferenceName(name))
}

// RemoteBranchExists reports whether refs/remotes/<remote>/<name> exists.
func (r *Repo) RemoteBranchExists(ctx context.Context, remote, name string) (bool, error) {
	return r.hasRef(ctx, plumbing.NewRemoteReferenceName(remote, name))
}

// ResolveRef resolves a revision such as "main", "origin/main" or a SHA.
func (r *Repo) ResolveRef(ctx context.Context, name string) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}
	h, err := r.repo.ResolveRevision(plumbing.Revision(name))
	switch {
	case err == nil:
		return h.String(), true, nil
	case notFound(err):
		return "", false, nil
	default:
		return "", false, fmt.Errorf("resolve %s: %w", name, err)
	}
}

// DefaultBranchPointer returns the short target of refs/remotes/<remote>/HEAD.
func (r *Repo) DefaultBranchPointer(ctx context.Context, remote string) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}
	ref, err := r.repo.Reference(plumbing.NewRemoteHEADReferenceName(remote), false)
	switch {
	case err == nil:
	case notFound(err):
		return "", false, nil
	default:
		return "", false, err
	}
	if ref.Type() != plumbing.SymbolicReference {
		return "", false, nil
	}
	return ref.Target().Short(), true, nil
}

// CurrentBranch returns the branch HEAD points at, even when it has no
// commits yet. A detached HEAD reports false.
func (r *Repo) CurrentBranch(ctx context.Context) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}
	ref, err := r.repo.Reference(plumbing.HEAD, false)
	if err != nil {
		if notFound(err) {
			return "", false, nil
		}
		return "", false, err
	}
	if ref.Type() != plumbing.SymbolicReference || !ref.Target().IsBranch() {
		return "", false, nil
	}
	return ref.Target().Short(), true, nil
}

// LastCommitTime returns the committer time of the commit rev resolves to.
func (r *Repo) LastCommitTime(ctx context.Context, rev string) (time.Time, error) {
	if err := ctx.Err(); err != nil {
		return time.Time{}, err
	}
	r.objMu.Lock()
	defer r.objMu.Unlock()

	h, err := r.repo.ResolveRevision(plumbing.Revision(rev))
	if err != nil {
		return time.Time{}, fmt.Errorf("resolve %s: %w", rev, err)
	}
	c, err := r.repo.CommitObject(*h)
	if err != nil {
		return time.Time{}, fmt.Errorf("read commit %s: %w", h, err)
	}
	return c.Committer.When, nil
}

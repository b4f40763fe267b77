package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/easy-worktree/wt/internal/forge"
	"github.com/easy-worktree/wt/internal/git"
	"github.com/easy-worktree/wt/internal/log"
	"github.com/easy-worktree/wt/internal/metadata"
	"github.com/easy-worktree/wt/internal/plan"
	"github.com/easy-worktree/wt/internal/project"
	"github.com/easy-worktree/wt/internal/refs"
	"github.com/easy-worktree/wt/internal/snapshot"
	"github.com/easy-worktree/wt/internal/worktree"
)

// openStore opens the metadata store. A store that cannot be located is
// reported and treated as absent.
func openStore(ctx context.Context, p *project.Project) *metadata.Store {
	s, err := p.Store()
	if err != nil {
		log.FromContext(ctx).Warnf("metadata store unavailable: %v", err)
		return nil
	}
	return s
}

// buildSnapshots lists the project's worktrees with their status.
func buildSnapshots(ctx context.Context, p *project.Project, store *metadata.Store) ([]snapshot.Snapshot, error) {
	b := &snapshot.Builder{VCS: snapshot.CLI{}, Root: p.Root}
	if store != nil {
		b.Times = store
	}
	if r, err := refs.Open(p.Root); err == nil {
		b.Commits = r
	} else {
		log.FromContext(ctx).Debug("open repository", "err", err)
	}
	return b.Build(ctx)
}

// findWorktree returns the snapshot called name, failing with a
// NotFoundError that suggests the closest known name.
func findWorktree(snaps []snapshot.Snapshot, name string) (snapshot.Snapshot, error) {
	if s, ok := snapshot.Find(snaps, name); ok {
		return s, nil
	}
	return snapshot.Snapshot{}, worktree.NewNotFound(name, snapshot.Names(snaps))
}

// currentWorktree returns the name of the worktree containing dir, or ""
// when dir is outside all of them. Nested worktree directories resolve to
// the innermost one.
func currentWorktree(snaps []snapshot.Snapshot, dir string) string {
	dir = metadata.Normalize(dir)
	best, bestLen := "", -1
	for _, s := range snaps {
		p := metadata.Normalize(s.Path)
		if dir != p && !strings.HasPrefix(dir, p+string(filepath.Separator)) {
			continue
		}
		if len(p) > bestLen {
			best, bestLen = s.Name, len(p)
		}
	}
	return best
}

// repoQuery answers ref questions through go-git, falling back to git
// processes when the repository cannot be opened directly.
func repoQuery(ctx context.Context, root string) plan.RepoQuery {
	r, err := refs.Open(root)
	if err != nil {
		log.FromContext(ctx).Debug("go-git unavailable, using git", "err", err)
		return git.Query{Dir: root}
	}
	return r
}

// hasRemote reports whether remote is configured.
func hasRemote(ctx context.Context, root, remote string) bool {
	_, err := git.RemoteURL(ctx, root, remote)
	return err == nil
}

// detectForge picks the hosting CLI for the project.
func detectForge(ctx context.Context, p *project.Project) forge.Forge {
	return forge.DetectFromRepo(ctx, p.Root, p.Config.Remote, p.Config.Forge)
}

// nameTaken reports whether a worktree called name is already registered.
func nameTaken(ctx context.Context, p *project.Project, name string) (bool, error) {
	infos, err := git.ListWorktrees(ctx, p.Root)
	if err != nil {
		return false, err
	}
	for _, wi := range infos {
		if filepath.Base(wi.Path) == name && metadata.Normalize(wi.Path) != metadata.Normalize(p.Root) {
			return true, nil
		}
	}
	return false, nil
}

// checkFree fails with ErrAlreadyExists when name or its directory is in use.
func checkFree(ctx context.Context, p *project.Project, name string) (string, error) {
	path := p.WorktreePath(name)
	if _, err := os.Lstat(path); err == nil {
		return "", fmt.Errorf("%s: %w", path, worktree.ErrAlreadyExists)
	}
	taken, err := nameTaken(ctx, p, name)
	if err != nil {
		return "", err
	}
	if taken {
		return "", fmt.Errorf("%s: %w", name, worktree.ErrAlreadyExists)
	}
	return path, nil
}

package git

import (
	"context"
	"strings"
)

// Query answers branch planning questions with the git CLI. It is used
// when the repository cannot be read in-process.
type Query struct {
	Dir string
}

func (q Query) verify(ctx context.Context, ref string) bool {
	return runGit(ctx, q.Dir, "show-ref", "--verify", "--quiet", ref) == nil
}

func (q Query) LocalBranchExists(ctx context.Context, name string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	return q.verify(ctx, "refs/heads/"+name), nil
}

func (q Query) RemoteBranchExists(ctx context.Context, remote, name string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	return q.verify(ctx, "refs/remotes/"+remote+"/"+name), nil
}

func (q Query) ResolveRef(ctx context.Context, name string) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}
	sha, err := HeadSHA(ctx, q.Dir, name)
	if err != nil {
		if ctx.Err() != nil {
			return "", false, ctx.Err()
		}
		return "", false, nil
	}
	return sha, true, nil
}

func (q Query) DefaultBranchPointer(ctx context.Context, remote string) (string, bool, error) {
	out, err := outputGit(ctx, q.Dir, "symbolic-ref", "--quiet", "--short", "refs/remotes/"+remote+"/HEAD")
	if err != nil {
		if ctx.Err() != nil {
			return "", false, ctx.Err()
		}
		return "", false, nil
	}
	ref := strings.TrimSpace(string(out))
	return ref, ref != "", nil
}

func (q Query) CurrentBranch(ctx context.Context) (string, bool, error) {
	out, err := outputGit(ctx, q.Dir, "symbolic-ref", "--quiet", "--short", "HEAD")
	if err != nil {
		if ctx.Err() != nil {
			return "", false, ctx.Err()
		}
		return "", false, nil
	}
	branch := strings.TrimSpace(string(out))
	return branch, branch != "", nil
}

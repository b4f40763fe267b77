package git

import (
	"context"
	"errors"
	"testing"

	"github.com/easy-worktree/wt/internal/plan"
)

var _ plan.RepoQuery = Query{}

func TestQuery(t *testing.T) {
	t.Parallel()

	repoPath, _ := setupTestRepoWithOrigin(t)
	ctx := context.Background()
	q := Query{Dir: repoPath}

	if ok, err := q.LocalBranchExists(ctx, "main"); err != nil || !ok {
		t.Errorf("LocalBranchExists(main) = %v, %v", ok, err)
	}
	if ok, _ := q.LocalBranchExists(ctx, "nope"); ok {
		t.Error("LocalBranchExists(nope) = true")
	}
	if ok, err := q.RemoteBranchExists(ctx, "origin", "main"); err != nil || !ok {
		t.Errorf("RemoteBranchExists(origin, main) = %v, %v", ok, err)
	}
	if _, ok, err := q.ResolveRef(ctx, "origin/main"); err != nil || !ok {
		t.Errorf("ResolveRef(origin/main) = %v, %v", ok, err)
	}
	if _, ok, _ := q.ResolveRef(ctx, "origin/master"); ok {
		t.Error("ResolveRef(origin/master) = true")
	}
	if b, ok, err := q.CurrentBranch(ctx); err != nil || !ok || b != "main" {
		t.Errorf("CurrentBranch() = %q, %v, %v", b, ok, err)
	}

	if err := runGit(ctx, repoPath, "remote", "set-head", "origin", "main"); err != nil {
		t.Fatal(err)
	}
	if ref, ok, err := q.DefaultBranchPointer(ctx, "origin"); err != nil || !ok || ref != "origin/main" {
		t.Errorf("DefaultBranchPointer() = %q, %v, %v", ref, ok, err)
	}
}

func TestQuery_PlanWithoutRemote(t *testing.T) {
	t.Parallel()

	repoPath := setupTestRepo(t)
	got, err := (&plan.Planner{}).Plan(context.Background(), Query{Dir: repoPath}, plan.Request{Name: "feature-x"})
	if err != nil {
		t.Fatalf("Plan() error = %v", err)
	}
	want := plan.Plan{Branch: "feature-x", SourceRef: "main", Mode: plan.ModeCreateFromBase}
	if got != want {
		t.Errorf("Plan() = %+v, want %+v", got, want)
	}
}

func TestQuery_Cancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := (Query{Dir: t.TempDir()}).LocalBranchExists(ctx, "main"); !errors.Is(err, context.Canceled) {
		t.Errorf("LocalBranchExists() error = %v, want context.Canceled", err)
	}
}

package plan

import (
	"context"
	"errors"
	"reflect"
	"testing"
)

// fakeRepo answers RepoQuery from fixed ref tables.
type fakeRepo struct {
	local   map[string]bool
	remote  map[string]bool   // "origin/x"
	refs    map[string]string // resolvable refs -> sha
	head    string            // symbolic pointer target, "" when unset
	current string
	err     error
}

func (f *fakeRepo) LocalBranchExists(_ context.Context, name string) (bool, error) {
	return f.local[name], f.err
}

func (f *fakeRepo) RemoteBranchExists(_ context.Context, remote, name string) (bool, error) {
	return f.remote[remote+"/"+name], f.err
}

func (f *fakeRepo) ResolveRef(_ context.Context, name string) (string, bool, error) {
	sha, ok := f.refs[name]
	return sha, ok, f.err
}

func (f *fakeRepo) DefaultBranchPointer(_ context.Context, _ string) (string, bool, error) {
	return f.head, f.head != "", f.err
}

func (f *fakeRepo) CurrentBranch(_ context.Context) (string, bool, error) {
	return f.current, f.current != "", f.err
}

func TestPlan(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		repo *fakeRepo
		req  Request
		want Plan
	}{
		{
			name: "explicit base wins over everything",
			repo: &fakeRepo{local: map[string]bool{"feature-x": true}, remote: map[string]bool{"origin/feature-x": true}},
			req:  Request{Name: "feature-x", Branch: "other", Base: "HEAD"},
			want: Plan{Branch: "feature-x", SourceRef: "HEAD", Mode: ModeCreateFromBase},
		},
		{
			name: "explicit branch checks out",
			repo: &fakeRepo{},
			req:  Request{Name: "review", Branch: "feature-y"},
			want: Plan{Branch: "feature-y", SourceRef: "feature-y", Mode: ModeCheckoutExisting},
		},
		{
			name: "remote preferred over local",
			repo: &fakeRepo{local: map[string]bool{"feature-x": true}, remote: map[string]bool{"origin/feature-x": true}},
			req:  Request{Name: "feature-x"},
			want: Plan{Branch: "feature-x", SourceRef: "origin/feature-x", Mode: ModeCheckoutExisting, LocalExists: true, Remote: "origin"},
		},
		{
			name: "remote only",
			repo: &fakeRepo{remote: map[string]bool{"origin/feature-x": true}},
			req:  Request{Name: "feature-x"},
			want: Plan{Branch: "feature-x", SourceRef: "origin/feature-x", Mode: ModeCheckoutExisting, Remote: "origin"},
		},
		{
			name: "local only",
			repo: &fakeRepo{local: map[string]bool{"feature-x": true}},
			req:  Request{Name: "feature-x"},
			want: Plan{Branch: "feature-x", SourceRef: "feature-x", Mode: ModeCheckoutExisting, LocalExists: true},
		},
		{
			name: "new branch from symbolic pointer",
			repo: &fakeRepo{head: "origin/develop", refs: map[string]string{"origin/develop": "d1", "origin/main": "m1"}},
			req:  Request{Name: "feature-x"},
			want: Plan{Branch: "feature-x", SourceRef: "origin/develop", Mode: ModeCreateFromBase},
		},
		{
			name: "dangling pointer falls through to candidates",
			repo: &fakeRepo{head: "origin/gone", refs: map[string]string{"origin/master": "m1"}},
			req:  Request{Name: "feature-x"},
			want: Plan{Branch: "feature-x", SourceRef: "origin/master", Mode: ModeCreateFromBase},
		},
		{
			name: "remote candidates before local",
			repo: &fakeRepo{refs: map[string]string{"main": "l1", "origin/main": "r1"}},
			req:  Request{Name: "feature-x"},
			want: Plan{Branch: "feature-x", SourceRef: "origin/main", Mode: ModeCreateFromBase},
		},
		{
			name: "local main without remote",
			repo: &fakeRepo{refs: map[string]string{"main": "abc123"}},
			req:  Request{Name: "feature-x"},
			want: Plan{Branch: "feature-x", SourceRef: "main", Mode: ModeCreateFromBase},
		},
		{
			name: "current branch of primary as last resort",
			repo: &fakeRepo{current: "trunk", refs: map[string]string{"trunk": "t1"}},
			req:  Request{Name: "feature-x"},
			want: Plan{Branch: "feature-x", SourceRef: "trunk", Mode: ModeCreateFromBase},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			p := &Planner{}
			got, err := p.Plan(context.Background(), tt.repo, tt.req)
			if err != nil {
				t.Fatalf("Plan() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Plan() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestPlan_DefaultBranchNotFound(t *testing.T) {
	t.Parallel()

	// unborn current branch does not resolve either
	repo := &fakeRepo{current: "main"}
	_, err := (&Planner{}).Plan(context.Background(), repo, Request{Name: "feature-x"})
	if !errors.Is(err, ErrDefaultBranchNotFound) {
		t.Errorf("Plan() error = %v, want ErrDefaultBranchNotFound", err)
	}
}

func TestPlan_QueryError(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	_, err := (&Planner{}).Plan(context.Background(), &fakeRepo{err: boom}, Request{Name: "x"})
	if !errors.Is(err, boom) {
		t.Errorf("Plan() error = %v, want wrapped query error", err)
	}
}

func TestPlan_CustomRemote(t *testing.T) {
	t.Parallel()

	repo := &fakeRepo{remote: map[string]bool{"upstream/fix": true}, refs: map[string]string{"upstream/main": "u1"}}
	p := &Planner{Remote: "upstream"}

	got, err := p.Plan(context.Background(), repo, Request{Name: "fix"})
	if err != nil {
		t.Fatal(err)
	}
	if got.SourceRef != "upstream/fix" {
		t.Errorf("SourceRef = %q, want upstream/fix", got.SourceRef)
	}

	got, err = p.Plan(context.Background(), repo, Request{Name: "new"})
	if err != nil {
		t.Fatal(err)
	}
	if got.SourceRef != "upstream/main" {
		t.Errorf("SourceRef = %q, want upstream/main", got.SourceRef)
	}
}

func TestPlan_Deterministic(t *testing.T) {
	t.Parallel()

	repo := &fakeRepo{
		local: map[string]bool{"a": true},
		refs:  map[string]string{"origin/main": "1", "origin/master": "2", "main": "3", "master": "4"},
	}
	p := &Planner{}
	for _, req := range []Request{{Name: "a"}, {Name: "b"}, {Name: "c", Base: "main"}} {
		first, err1 := p.Plan(context.Background(), repo, req)
		second, err2 := p.Plan(context.Background(), repo, req)
		if err1 != nil || err2 != nil {
			t.Fatalf("Plan() errors = %v, %v", err1, err2)
		}
		if first != second {
			t.Errorf("Plan(%+v) not deterministic: %+v vs %+v", req, first, second)
		}
		if !reflect.DeepEqual(first.Commands("/p"), second.Commands("/p")) {
			t.Errorf("Commands() not deterministic for %+v", req)
		}
	}
}

// A repository whose default branch is main: adding feature-x without
// explicit branch or base creates it from main.
func TestPlan_AddFeatureFromMain(t *testing.T) {
	t.Parallel()

	repo := &fakeRepo{refs: map[string]string{"main": "abc123"}, current: "main"}
	got, err := (&Planner{}).Plan(context.Background(), repo, Request{Name: "feature-x"})
	if err != nil {
		t.Fatal(err)
	}
	want := Plan{Branch: "feature-x", SourceRef: "main", Mode: ModeCreateFromBase}
	if got != want {
		t.Errorf("Plan() = %+v, want %+v", got, want)
	}
}

func TestCommands(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		plan Plan
		want [][]string
	}{
		{
			name: "create from base",
			plan: Plan{Branch: "feature-x", SourceRef: "main", Mode: ModeCreateFromBase},
			want: [][]string{{"worktree", "add", "-b", "feature-x", "/wt", "main"}},
		},
		{
			name: "track remote",
			plan: Plan{Branch: "feature-x", SourceRef: "origin/feature-x", Mode: ModeCheckoutExisting, Remote: "origin"},
			want: [][]string{{"worktree", "add", "--track", "-b", "feature-x", "/wt", "origin/feature-x"}},
		},
		{
			name: "local and remote",
			plan: Plan{Branch: "feature-x", SourceRef: "origin/feature-x", Mode: ModeCheckoutExisting, Remote: "origin", LocalExists: true},
			want: [][]string{
				{"worktree", "add", "/wt", "feature-x"},
				{"branch", "--set-upstream-to=origin/feature-x", "feature-x"},
			},
		},
		{
			name: "local branch",
			plan: Plan{Branch: "feature-x", SourceRef: "feature-x", Mode: ModeCheckoutExisting, LocalExists: true},
			want: [][]string{{"worktree", "add", "/wt", "feature-x"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tt.plan.Commands("/wt"); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Commands() = %v, want %v", got, tt.want)
			}
		})
	}
}

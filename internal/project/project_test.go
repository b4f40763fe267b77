package project

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/easy-worktree/wt/internal/config"
	"github.com/easy-worktree/wt/internal/git"
)

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	return string(data)
}

func TestInit_KeepsExistingGitignore(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, ".gitignore"), []byte("*.log"), 0o644); err != nil {
		t.Fatal(err)
	}

	res, err := Init(root)
	if err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	if !res.CreatedConfig || !res.UpdatedIgnore || res.IgnoreEntry != ".worktrees/" {
		t.Errorf("Init() = %+v", res)
	}

	if got := readFile(t, filepath.Join(root, ".gitignore")); got != "*.log\n.worktrees/\n" {
		t.Errorf(".gitignore = %q", got)
	}

	state := readFile(t, filepath.Join(root, ".wt", ".gitignore"))
	for _, want := range []string{"config.local.toml", "last_selection"} {
		if !strings.Contains(state, want) {
			t.Errorf(".wt/.gitignore missing %q: %q", want, state)
		}
	}

	// the template is a valid project layer
	doc, err := config.ReadDocument(filepath.Join(root, ".wt", "config.toml"))
	if err != nil {
		t.Fatalf("template does not parse: %v", err)
	}
	if _, err := config.Resolve(doc); err != nil {
		t.Errorf("template does not resolve: %v", err)
	}
}

func TestInit_Idempotent(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	if _, err := Init(root); err != nil {
		t.Fatal(err)
	}
	cfgPath := filepath.Join(root, ".wt", "config.toml")
	if err := os.WriteFile(cfgPath, []byte("worktrees_dir = \".worktrees\"\nsetup_files = []\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	res, err := Init(root)
	if err != nil {
		t.Fatalf("second Init() error = %v", err)
	}
	if res.CreatedConfig || res.UpdatedIgnore {
		t.Errorf("second Init() changed something: %+v", res)
	}
	if got := readFile(t, cfgPath); !strings.Contains(got, "setup_files = []") {
		t.Errorf("config overwritten: %q", got)
	}
	if got := readFile(t, filepath.Join(root, ".gitignore")); strings.Count(got, ".worktrees/") != 1 {
		t.Errorf(".gitignore = %q", got)
	}
}

func TestInit_OutsideWorktreesDir(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, ".wt"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(root, ".wt", "config.toml"), []byte("worktrees_dir = \"/tmp/wt-elsewhere\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	res, err := Init(root)
	if err != nil {
		t.Fatal(err)
	}
	if res.IgnoreEntry != "" || res.UpdatedIgnore {
		t.Errorf("Init() = %+v, want no root .gitignore change", res)
	}
	if _, err := os.Stat(filepath.Join(root, ".gitignore")); !os.IsNotExist(err) {
		t.Error("root .gitignore should not be created")
	}
}

func TestEnsureStateIgnore_AddsMissing(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(t.TempDir(), ".wt")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, ".gitignore"), []byte("config.local.toml\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := EnsureStateIgnore(dir); err != nil {
		t.Fatalf("EnsureStateIgnore() error = %v", err)
	}
	if got := readFile(t, filepath.Join(dir, ".gitignore")); got != "config.local.toml\nlast_selection\n*.lock\n" {
		t.Errorf(".gitignore = %q", got)
	}
}

func TestOpen(t *testing.T) {
	t.Parallel()

	tmp, err := filepath.EvalSymlinks(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	root := filepath.Join(tmp, "app")
	ctx := context.Background()
	for _, args := range [][]string{
		{"init", "-b", "main", root},
		{"-C", root, "-c", "user.email=t@t", "-c", "user.name=T", "commit", "--allow-empty", "-m", "init"},
	} {
		if err := git.Run(ctx, "", args...); err != nil {
			t.Fatalf("git %v: %v", args, err)
		}
	}

	p, err := Open(ctx, root)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if p.Root != root {
		t.Errorf("Root = %q, want %q", p.Root, root)
	}
	if p.WorktreePath("x") != filepath.Join(root, ".worktrees", "x") {
		t.Errorf("WorktreePath() = %q", p.WorktreePath("x"))
	}
	if err := p.RequireInit(); !errors.Is(err, ErrNotInitialized) {
		t.Errorf("RequireInit() = %v, want ErrNotInitialized", err)
	}
	if _, err := Init(root); err != nil {
		t.Fatal(err)
	}
	if err := p.RequireInit(); err != nil {
		t.Errorf("RequireInit() after Init = %v", err)
	}
}

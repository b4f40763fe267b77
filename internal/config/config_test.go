package config

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func writeLayer(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func testSources(t *testing.T) Sources {
	t.Helper()
	dir := t.TempDir()
	return Sources{
		Global:  filepath.Join(dir, "home", "config.toml"),
		Project: filepath.Join(dir, "project", ".wt", "config.toml"),
		Local:   filepath.Join(dir, "project", ".wt", "config.local.toml"),
	}
}

func TestDefault(t *testing.T) {
	t.Parallel()

	cfg := Default()
	want := Config{
		WorktreesDir: ".worktrees",
		SetupFiles:   []string{".env"},
		Remote:       "origin",
		Diff:         DiffConfig{Tool: "default"},
	}
	if !reflect.DeepEqual(cfg, want) {
		t.Errorf("Default() = %+v, want %+v", cfg, want)
	}
}

func TestLoad_NoLayers(t *testing.T) {
	t.Parallel()

	cfg, warnings := Load(testSources(t))
	if len(warnings) != 0 {
		t.Errorf("warnings = %v, want none for missing files", warnings)
	}
	if !reflect.DeepEqual(cfg, Default()) {
		t.Errorf("Load() = %+v, want defaults", cfg)
	}
}

func TestLoad_Precedence(t *testing.T) {
	t.Parallel()

	src := testSources(t)
	writeLayer(t, src.Global, `
worktrees_dir = ".global-wts"
remote = "upstream"

[diff]
tool = "vimdiff"
`)
	writeLayer(t, src.Project, `
setup_files = ["base.txt", ".env"]
setup_source_dir = "/srv/shared"

[log]
file = "/tmp/wt.log"
`)
	writeLayer(t, src.Local, `
setup_files = ["local.txt"]

[diff]
tool = "meld"
`)

	cfg, warnings := Load(src)
	if len(warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", warnings)
	}

	want := Config{
		WorktreesDir:   ".global-wts",         // only in global
		SetupFiles:     []string{"local.txt"}, // local replaces project sequence
		SetupSourceDir: "/srv/shared",         // only in project
		Remote:         "upstream",
		Diff:           DiffConfig{Tool: "meld"}, // local overrides global
		Log:            LogConfig{File: "/tmp/wt.log"},
	}
	if !reflect.DeepEqual(cfg, want) {
		t.Errorf("Load() = %+v\nwant      %+v", cfg, want)
	}
}

func TestLoad_BadLayerSkipped(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
	}{
		{"malformed toml", "worktrees_dir = [unterminated"},
		{"wrong type", "worktrees_dir = 5"},
		{"invalid value", `setup_files = ["../outside"]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			src := testSources(t)
			writeLayer(t, src.Project, `setup_files = ["project.txt"]`)
			writeLayer(t, src.Local, tt.content)

			cfg, warnings := Load(src)
			if len(warnings) != 1 {
				t.Fatalf("warnings = %v, want exactly one", warnings)
			}
			if warnings[0].Layer != LayerLocal {
				t.Errorf("warning layer = %v, want local", warnings[0].Layer)
			}
			if !strings.Contains(warnings[0].Error(), src.Local) {
				t.Errorf("warning %q should name the file", warnings[0].Error())
			}
			// Remaining layers still apply
			if !reflect.DeepEqual(cfg.SetupFiles, []string{"project.txt"}) {
				t.Errorf("SetupFiles = %v, want project layer value", cfg.SetupFiles)
			}
			if cfg.WorktreesDir != ".worktrees" {
				t.Errorf("WorktreesDir = %q, want default", cfg.WorktreesDir)
			}
		})
	}
}

func TestLoad_EmptySequenceOverrides(t *testing.T) {
	t.Parallel()

	src := testSources(t)
	writeLayer(t, src.Project, `setup_files = []`)

	cfg, warnings := Load(src)
	if len(warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", warnings)
	}
	if len(cfg.SetupFiles) != 0 {
		t.Errorf("SetupFiles = %v, want empty", cfg.SetupFiles)
	}
}

func TestLoad_WorktreesDirOutsideProject(t *testing.T) {
	t.Parallel()

	src := testSources(t)
	writeLayer(t, src.Project, `worktrees_dir = "../wts"`)

	cfg, warnings := Load(src)
	if len(warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", warnings)
	}
	if cfg.WorktreesDir != "../wts" {
		t.Errorf("WorktreesDir = %q, want ../wts", cfg.WorktreesDir)
	}

	if err := SetKey(src.Local, "worktrees_dir", ParseValue(`"../local-wts"`)); err != nil {
		t.Fatalf("SetKey: %v", err)
	}
}

func TestResolve_LocalWinsOverProject(t *testing.T) {
	t.Parallel()

	project := Document{
		"worktrees_dir": NewScalar(".p"),
		"remote":        NewScalar("origin"),
	}
	local := Document{"worktrees_dir": NewScalar(".l")}

	cfg, err := Resolve(project, local)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if cfg.WorktreesDir != ".l" {
		t.Errorf("WorktreesDir = %q, want local value", cfg.WorktreesDir)
	}
	if cfg.Remote != "origin" {
		t.Errorf("Remote = %q, want project value", cfg.Remote)
	}
}

func TestSetKey_PreservesUnrelatedKeys(t *testing.T) {
	t.Parallel()

	src := testSources(t)
	writeLayer(t, src.Project, `
worktrees_dir = ".wts"
custom_key = "kept"

[diff]
tool = "vimdiff"
extra = 1
`)

	if err := SetKey(src.Project, "diff.tool", ParseValue("meld")); err != nil {
		t.Fatalf("SetKey() error = %v", err)
	}

	doc, err := ReadDocument(src.Project)
	if err != nil {
		t.Fatalf("ReadDocument() error = %v", err)
	}
	for key, want := range map[string]string{
		"worktrees_dir": ".wts",
		"custom_key":    "kept",
		"diff.tool":     "meld",
		"diff.extra":    "1",
	} {
		v, ok := doc.Get(key)
		if !ok || v.String() != want {
			t.Errorf("%s = %q (found %v), want %q", key, v.String(), ok, want)
		}
	}
}

func TestSetKey_CreatesFile(t *testing.T) {
	t.Parallel()

	src := testSources(t)
	if err := SetKey(src.Local, "setup_files", ParseValue(`["a.txt"]`)); err != nil {
		t.Fatalf("SetKey() error = %v", err)
	}

	v, ok, err := GetKey(src.Local, "setup_files")
	if err != nil || !ok {
		t.Fatalf("GetKey() = %v, %v, %v", v, ok, err)
	}
	if v.String() != `["a.txt"]` {
		t.Errorf("setup_files = %s, want [\"a.txt\"]", v)
	}
}

func TestSetKey_RejectsInvalid(t *testing.T) {
	t.Parallel()

	src := testSources(t)
	writeLayer(t, src.Project, `worktrees_dir = ".wts"`)

	if err := SetKey(src.Project, "worktrees_dir", ParseValue("5")); err == nil {
		t.Fatal("SetKey() with wrong type = nil, want error")
	}

	v, _, _ := GetKey(src.Project, "worktrees_dir")
	if v.String() != ".wts" {
		t.Errorf("file changed after rejected SetKey: worktrees_dir = %s", v)
	}
}

func TestUnsetKey(t *testing.T) {
	t.Parallel()

	src := testSources(t)
	writeLayer(t, src.Project, "remote = \"upstream\"\nworktrees_dir = \".wts\"\n")

	if err := UnsetKey(src.Project, "remote"); err != nil {
		t.Fatalf("UnsetKey() error = %v", err)
	}
	if _, ok, _ := GetKey(src.Project, "remote"); ok {
		t.Error("remote still set after UnsetKey")
	}
	if err := UnsetKey(src.Project, "remote"); err == nil {
		t.Error("UnsetKey() of missing key = nil, want error")
	}
}

func TestGetKey_MissingFile(t *testing.T) {
	t.Parallel()

	_, ok, err := GetKey(filepath.Join(t.TempDir(), "none.toml"), "remote")
	if err != nil || ok {
		t.Errorf("GetKey() = %v, %v; want not found, nil", ok, err)
	}
}

func TestLoadWarning_Unwrap(t *testing.T) {
	t.Parallel()

	cause := errors.New("boom")
	w := LoadWarning{Layer: LayerGlobal, Path: "/x", Err: cause}
	if !errors.Is(w, cause) {
		t.Error("LoadWarning should unwrap to its cause")
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"absolute worktrees dir", func(c *Config) { c.WorktreesDir = "/var/wts" }, false},
		{"empty worktrees dir", func(c *Config) { c.WorktreesDir = " " }, true},
		{"sibling worktrees dir", func(c *Config) { c.WorktreesDir = "../wts" }, false},
		{"absolute setup file", func(c *Config) { c.SetupFiles = []string{"/etc/passwd"} }, true},
		{"escaping setup file", func(c *Config) { c.SetupFiles = []string{"../x"} }, true},
		{"empty diff tool", func(c *Config) { c.Diff.Tool = "" }, true},
		{"gitlab forge", func(c *Config) { c.Forge.Default = "gitlab" }, false},
		{"unknown forge", func(c *Config) { c.Forge.Default = "gitea" }, true},
		{"unknown forge host", func(c *Config) { c.Forge.Hosts = map[string]string{"git.corp": "bitbucket"} }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := Default()
			tt.mutate(&cfg)
			if err := cfg.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

package config

import (
	"reflect"
	"testing"
)

func TestMerge(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		dst  Document
		src  Document
		want Document
	}{
		{
			name: "scalar replaces",
			dst:  Document{"worktrees_dir": NewScalar(".worktrees")},
			src:  Document{"worktrees_dir": NewScalar(".wts")},
			want: Document{"worktrees_dir": NewScalar(".wts")},
		},
		{
			name: "sequence replaces, no concatenation",
			dst:  Document{"setup_files": Strings(".env", ".tool-versions")},
			src:  Document{"setup_files": Strings("local.txt")},
			want: Document{"setup_files": Strings("local.txt")},
		},
		{
			name: "nested tables merge recursively",
			dst: Document{"diff": NewMapping(Document{
				"tool":    NewScalar("default"),
				"options": NewMapping(Document{"color": NewScalar(true), "stat": NewScalar(false)}),
			})},
			src: Document{"diff": NewMapping(Document{
				"options": NewMapping(Document{"stat": NewScalar(true)}),
			})},
			want: Document{"diff": NewMapping(Document{
				"tool":    NewScalar("default"),
				"options": NewMapping(Document{"color": NewScalar(true), "stat": NewScalar(true)}),
			})},
		},
		{
			name: "table replaces scalar",
			dst:  Document{"diff": NewScalar("meld")},
			src:  Document{"diff": NewMapping(Document{"tool": NewScalar("meld")})},
			want: Document{"diff": NewMapping(Document{"tool": NewScalar("meld")})},
		},
		{
			name: "scalar replaces table",
			dst:  Document{"diff": NewMapping(Document{"tool": NewScalar("meld")})},
			src:  Document{"diff": NewScalar("off")},
			want: Document{"diff": NewScalar("off")},
		},
		{
			name: "keys only in dst survive",
			dst:  Document{"a": NewScalar(int64(1)), "b": NewScalar(int64(2))},
			src:  Document{"b": NewScalar(int64(3))},
			want: Document{"a": NewScalar(int64(1)), "b": NewScalar(int64(3))},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := Merge(tt.dst, tt.src)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Merge() = %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestMerge_Idempotent(t *testing.T) {
	t.Parallel()

	layer := Document{
		"setup_files": Strings("a.txt"),
		"diff":        NewMapping(Document{"tool": NewScalar("meld")}),
		"log":         NewMapping(Document{"file": NewScalar("/tmp/wt.log")}),
	}

	once := Merge(Defaults(), layer)
	twice := Merge(once, layer)
	if !reflect.DeepEqual(once, twice) {
		t.Errorf("merging a layer twice changed the result:\nonce  %#v\ntwice %#v", once, twice)
	}
}

func TestMerge_DoesNotMutateInputs(t *testing.T) {
	t.Parallel()

	dst := Document{"diff": NewMapping(Document{"tool": NewScalar("default")})}
	src := Document{"diff": NewMapping(Document{"tool": NewScalar("meld")})}

	out := Merge(dst, src)
	out["diff"].Map["tool"] = NewScalar("changed")

	if got := dst["diff"].Map["tool"].Scalar; got != "default" {
		t.Errorf("dst mutated: tool = %v", got)
	}
	if got := src["diff"].Map["tool"].Scalar; got != "meld" {
		t.Errorf("src mutated: tool = %v", got)
	}
}

func TestDocument_GetSetUnset(t *testing.T) {
	t.Parallel()

	doc := Document{}
	if err := doc.Set("diff.tool", NewScalar("meld")); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if err := doc.Set("worktrees_dir", NewScalar(".wts")); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	v, ok := doc.Get("diff.tool")
	if !ok || v.String() != "meld" {
		t.Errorf("Get(diff.tool) = %v, %v; want meld, true", v, ok)
	}
	if _, ok := doc.Get("diff.missing"); ok {
		t.Error("Get(diff.missing) found a value")
	}
	if _, ok := doc.Get("worktrees_dir.x"); ok {
		t.Error("Get through a scalar found a value")
	}

	if err := doc.Set("worktrees_dir.nested", NewScalar("x")); err == nil {
		t.Error("Set through a scalar succeeded, want error")
	}
	if err := doc.Set("a..b", NewScalar("x")); err == nil {
		t.Error("Set with empty segment succeeded, want error")
	}

	if !doc.Unset("diff.tool") {
		t.Error("Unset(diff.tool) = false")
	}
	if doc.Unset("diff.tool") {
		t.Error("second Unset(diff.tool) = true")
	}
}

func TestFromTOML(t *testing.T) {
	t.Parallel()

	raw := map[string]any{
		"setup_files": []any{".env", "secrets.json"},
		"diff":        map[string]any{"tool": "meld"},
		"hooks":       []map[string]any{{"cmd": "make"}},
		"depth":       int64(2),
	}

	doc := FromTOML(raw)

	if doc["setup_files"].Kind != KindSequence || len(doc["setup_files"].Seq) != 2 {
		t.Errorf("setup_files = %#v, want 2-item sequence", doc["setup_files"])
	}
	if doc["diff"].Kind != KindMapping {
		t.Errorf("diff kind = %v, want mapping", doc["diff"].Kind)
	}
	if doc["hooks"].Kind != KindSequence || doc["hooks"].Seq[0].Kind != KindMapping {
		t.Errorf("hooks = %#v, want sequence of mappings", doc["hooks"])
	}
	if doc["depth"].Scalar != int64(2) {
		t.Errorf("depth = %v, want 2", doc["depth"].Scalar)
	}

	if back := doc.ToTOML(); !reflect.DeepEqual(back["diff"], raw["diff"]) {
		t.Errorf("ToTOML diff = %#v, want %#v", back["diff"], raw["diff"])
	}
}

func TestParseValue(t *testing.T) {
	t.Parallel()

	tests := []struct {
		raw  string
		want Value
	}{
		{"meld", NewScalar("meld")},
		{".worktrees", NewScalar(".worktrees")},
		{`"quoted"`, NewScalar("quoted")},
		{"true", NewScalar(true)},
		{"42", NewScalar(int64(42))},
		{`["a.txt", "b.txt"]`, Strings("a.txt", "b.txt")},
		{"[]", NewSequence()},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			t.Parallel()
			got := ParseValue(tt.raw)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseValue(%q) = %#v, want %#v", tt.raw, got, tt.want)
			}
		})
	}
}

func TestValue_String(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		v    Value
		want string
	}{
		{"string", NewScalar("meld"), "meld"},
		{"bool", NewScalar(true), "true"},
		{"sequence", Strings(".env", "a b"), `[".env", "a b"]`},
		{"mapping", NewMapping(Document{"tool": NewScalar("meld")}), `tool = "meld"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tt.v.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDocument_Keys(t *testing.T) {
	t.Parallel()

	keys := Defaults().Keys()
	want := []string{"diff.tool", "remote", "setup_files", "worktrees_dir"}
	if !reflect.DeepEqual(keys, want) {
		t.Errorf("Keys() = %v, want %v", keys, want)
	}
}

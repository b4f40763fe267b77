package forge

import (
	"context"
	"testing"

	"github.com/easy-worktree/wt/internal/cmd"
	"github.com/easy-worktree/wt/internal/config"
)

func TestExtractHost(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		url  string
		want string
	}{
		{
			name: "SSH format github.com",
			url:  "git@github.com:user/repo.git",
			want: "github.com",
		},
		{
			name: "SSH format gitlab.com",
			url:  "git@gitlab.com:user/repo.git",
			want: "gitlab.com",
		},
		{
			name: "SSH format custom host",
			url:  "git@github.mycompany.com:org/repo.git",
			want: "github.mycompany.com",
		},
		{
			name: "HTTPS format github.com",
			url:  "https://github.com/user/repo.git",
			want: "github.com",
		},
		{
			name: "HTTPS format gitlab.com",
			url:  "https://gitlab.com/user/repo.git",
			want: "gitlab.com",
		},
		{
			name: "HTTPS format custom host",
			url:  "https://gitlab.internal.corp/org/repo.git",
			want: "gitlab.internal.corp",
		},
		{
			name: "HTTPS with port",
			url:  "https://code.company.com:8443/org/repo.git",
			want: "code.company.com",
		},
		{
			name: "HTTP format",
			url:  "http://github.mycompany.com/org/repo.git",
			want: "github.mycompany.com",
		},
		{
			name: "SSH protocol URL",
			url:  "ssh://git@github.com/user/repo.git",
			want: "github.com",
		},
		{
			name: "SSH protocol URL with port",
			url:  "ssh://git@gitlab.internal.corp:2222/org/repo.git",
			want: "gitlab.internal.corp",
		},
		{
			name: "empty string",
			url:  "",
			want: "",
		},
		{
			name: "invalid format",
			url:  "not-a-url",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := extractHost(tt.url)
			if got != tt.want {
				t.Errorf("extractHost(%q) = %q, want %q", tt.url, got, tt.want)
			}
		})
	}
}

func TestDetect(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		url      string
		cfg      config.ForgeConfig
		wantType string
	}{
		{
			name:     "github.com without hosts",
			url:      "git@github.com:user/repo.git",
			wantType: "*forge.GitHub",
		},
		{
			name:     "gitlab.com without hosts",
			url:      "git@gitlab.com:user/repo.git",
			wantType: "*forge.GitLab",
		},
		{
			name:     "custom host matched to gitlab",
			url:      "git@code.internal.corp:org/repo.git",
			cfg:      config.ForgeConfig{Hosts: map[string]string{"code.internal.corp": "gitlab"}},
			wantType: "*forge.GitLab",
		},
		{
			name:     "hosts priority over pattern matching",
			url:      "git@gitlab.mycompany.com:org/repo.git",
			cfg:      config.ForgeConfig{Hosts: map[string]string{"gitlab.mycompany.com": "github"}},
			wantType: "*forge.GitHub",
		},
		{
			name:     "default wins over hosts",
			url:      "git@code.internal.corp:org/repo.git",
			cfg:      config.ForgeConfig{Default: "github", Hosts: map[string]string{"code.internal.corp": "gitlab"}},
			wantType: "*forge.GitHub",
		},
		{
			name:     "default gitlab without url",
			cfg:      config.ForgeConfig{Default: "gitlab"},
			wantType: "*forge.GitLab",
		},
		{
			name:     "pattern fallback /gitlab/ in path",
			url:      "https://company.com/gitlab/org/repo.git",
			wantType: "*forge.GitLab",
		},
		{
			name:     "unknown host",
			url:      "git@unknown.example.com:org/repo.git",
			wantType: "*forge.GitHub",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := getForgeType(Detect(tt.url, tt.cfg)); got != tt.wantType {
				t.Errorf("Detect(%q, %+v) = %s, want %s", tt.url, tt.cfg, got, tt.wantType)
			}
		})
	}
}

func TestDetectFromRepo(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	ctx := context.Background()
	for _, args := range [][]string{
		{"init", "-b", "main", dir},
		{"-C", dir, "remote", "add", "origin", "git@gitlab.com:group/app.git"},
	} {
		if err := cmd.RunContext(ctx, "", "git", args...); err != nil {
			t.Fatalf("git %v: %v", args, err)
		}
	}

	if got := getForgeType(DetectFromRepo(ctx, dir, "origin", config.ForgeConfig{})); got != "*forge.GitLab" {
		t.Errorf("DetectFromRepo(origin) = %s", got)
	}
	if got := getForgeType(DetectFromRepo(ctx, dir, "missing", config.ForgeConfig{})); got != "*forge.GitHub" {
		t.Errorf("DetectFromRepo(missing) = %s", got)
	}
}

func getForgeType(f Forge) string {
	switch f.(type) {
	case *GitHub:
		return "*forge.GitHub"
	case *GitLab:
		return "*forge.GitLab"
	default:
		return "unknown"
	}
}

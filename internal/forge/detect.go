package forge

import (
	"context"
	"net/url"
	"strings"

	"github.com/easy-worktree/wt/internal/config"
	"github.com/easy-worktree/wt/internal/git"
)

// Detect returns the appropriate Forge implementation based on the remote URL.
// An explicit default wins, then exact host matches from hosts, then URL
// patterns. GitHub is the fallback.
func Detect(remoteURL string, cfg config.ForgeConfig) Forge {
	if cfg.Default != "" {
		return ByName(cfg.Default)
	}

	if len(cfg.Hosts) > 0 {
		host := extractHost(remoteURL)
		if name, ok := cfg.Hosts[host]; ok {
			return ByName(name)
		}
	}

	if isGitLab(remoteURL) {
		return &GitLab{}
	}
	return &GitHub{}
}

// DetectFromRepo detects the forge for a repository by reading the URL of remote.
// Returns GitHub as default if detection fails.
func DetectFromRepo(ctx context.Context, repoPath, remote string, cfg config.ForgeConfig) Forge {
	u, err := git.RemoteURL(ctx, repoPath, remote)
	if err != nil {
		return Detect("", cfg)
	}
	return Detect(u, cfg)
}

// extractHost parses the hostname from a git remote URL.
// Handles SSH format (git@host:path) and HTTPS format (https://host/path).
func extractHost(remoteURL string) string {
	// SSH format: git@github.com:user/repo.git
	if strings.HasPrefix(remoteURL, "git@") {
		withoutPrefix := strings.TrimPrefix(remoteURL, "git@")
		if idx := strings.Index(withoutPrefix, ":"); idx > 0 {
			return withoutPrefix[:idx]
		}
	}

	for _, scheme := range []string{"http://", "https://", "ssh://"} {
		if strings.HasPrefix(remoteURL, scheme) {
			if parsed, err := url.Parse(remoteURL); err == nil {
				return parsed.Hostname()
			}
		}
	}

	return ""
}

// ByName returns a Forge implementation by name.
// Returns GitHub for unknown names.
func ByName(name string) Forge {
	switch strings.ToLower(name) {
	case "gitlab":
		return &GitLab{}
	default:
		return &GitHub{}
	}
}

// isGitLab checks if a URL points to a GitLab instance
func isGitLab(url string) bool {
	url = strings.ToLower(url)
	return strings.Contains(url, "gitlab.") || strings.Contains(url, "/gitlab/")
}

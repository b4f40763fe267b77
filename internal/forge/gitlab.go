package forge

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"github.com/easy-worktree/wt/internal/cmd"
)

// GitLab implements Forge for GitLab repositories using the glab CLI.
type GitLab struct{}

// Name returns "gitlab"
func (g *GitLab) Name() string {
	return "gitlab"
}

// Check verifies that glab CLI is available and authenticated
func (g *GitLab) Check(ctx context.Context) error {
	if _, err := exec.LookPath("glab"); err != nil {
		return fmt.Errorf("glab not found: please install GitLab CLI (https://gitlab.com/gitlab-org/cli)")
	}

	if err := cmd.RunContext(ctx, "", "glab", "auth", "status"); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		errMsg := err.Error()
		if strings.Contains(errMsg, "not logged") || strings.Contains(errMsg, "no token") {
			return errors.New("glab not authenticated: please run 'glab auth login'")
		}
		return fmt.Errorf("glab auth check failed: %s", errMsg)
	}
	return nil
}

// ListPRs lists MRs in state using glab mr list
func (g *GitLab) ListPRs(ctx context.Context, dir, state string) ([]PRInfo, error) {
	args := []string{"mr", "list", "-F", "json", "-P", prListLimit}
	switch state {
	case PRStateMerged:
		args = append(args, "--merged")
	case PRStateClosed:
		args = append(args, "--closed")
	}

	out, err := cmd.OutputContext(ctx, dir, "glab", args...)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, cliError("glab", err)
	}
	return parseGitLabMRs(out)
}

// PRForBranch fetches the newest MR for a branch using glab CLI
func (g *GitLab) PRForBranch(ctx context.Context, dir, branch string) (*PRInfo, error) {
	out, err := cmd.OutputContext(ctx, dir, "glab", "mr", "list",
		"--source-branch", branch,
		"--all",
		"-F", "json",
		"-P", "1")
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, cliError("glab", err)
	}
	mrs, err := parseGitLabMRs(out)
	if err != nil || len(mrs) == 0 {
		return nil, err
	}
	return &mrs[0], nil
}

// ViewPR fetches an MR by IID using glab mr view
func (g *GitLab) ViewPR(ctx context.Context, dir string, number int) (*PRInfo, error) {
	out, err := cmd.OutputContext(ctx, dir, "glab", "mr", "view",
		strconv.Itoa(number),
		"-F", "json")
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, cliError("glab", err)
	}

	var raw gitlabMR
	if err := json.Unmarshal(out, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse glab output: %w", err)
	}
	mr := raw.info()
	return &mr, nil
}

// HeadRef returns GitLab's MR head ref
func (g *GitLab) HeadRef(number int) string {
	return fmt.Sprintf("merge-requests/%d/head", number)
}

type gitlabMR struct {
	IID          int    `json:"iid"`
	State        string `json:"state"` // opened, merged, closed
	Draft        bool   `json:"draft"`
	SourceBranch string `json:"source_branch"`
	Title        string `json:"title"`
	WebURL       string `json:"web_url"`
	Author       struct {
		Username string `json:"username"`
	} `json:"author"`
}

func (m gitlabMR) info() PRInfo {
	return PRInfo{
		Number:  m.IID,
		State:   normalizeGitLabState(m.State),
		IsDraft: m.Draft,
		Branch:  m.SourceBranch,
		Title:   m.Title,
		Author:  m.Author.Username,
		URL:     m.WebURL,
	}
}

func parseGitLabMRs(data []byte) ([]PRInfo, error) {
	var raw []gitlabMR
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse glab output: %w", err)
	}
	mrs := make([]PRInfo, len(raw))
	for i, m := range raw {
		mrs[i] = m.info()
	}
	return mrs, nil
}

// normalizeGitLabState converts GitLab state to normalized format
func normalizeGitLabState(state string) string {
	switch strings.ToLower(state) {
	case "opened":
		return PRStateOpen
	case "merged":
		return PRStateMerged
	case "closed":
		return PRStateClosed
	default:
		return strings.ToUpper(state)
	}
}

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

// prListLimit bounds gh pr list; older PRs rarely still have worktrees.
const prListLimit = "200"

const ghFields = "number,state,isDraft,headRefName,title,url,author"

// GitHub implements Forge for GitHub repositories using the gh CLI.
type GitHub struct{}

// Name returns "github"
func (g *GitHub) Name() string {
	return "github"
}

// Check verifies that gh CLI is available and authenticated
func (g *GitHub) Check(ctx context.Context) error {
	if _, err := exec.LookPath("gh"); err != nil {
		return fmt.Errorf("gh not found: please install GitHub CLI (https://cli.github.com)")
	}

	if err := cmd.RunContext(ctx, "", "gh", "auth", "status"); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		errMsg := err.Error()
		if strings.Contains(errMsg, "not logged") || strings.Contains(errMsg, "no accounts") {
			return errors.New("gh not authenticated: please run 'gh auth login'")
		}
		return fmt.Errorf("gh auth check failed: %s", errMsg)
	}
	return nil
}

// ListPRs lists PRs in state using gh pr list
func (g *GitHub) ListPRs(ctx context.Context, dir, state string) ([]PRInfo, error) {
	out, err := cmd.OutputContext(ctx, dir, "gh", "pr", "list",
		"--state", strings.ToLower(state),
		"--json", ghFields,
		"--limit", prListLimit)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, cliError("gh", err)
	}
	prs, err := parseGitHubPRs(out)
	if err != nil {
		return nil, err
	}
	// gh reports closed-unmerged PRs as CLOSED and merged ones as MERGED,
	// but --state closed lists both
	if state == PRStateClosed {
		prs = filterState(prs, PRStateClosed)
	}
	return prs, nil
}

// PRForBranch fetches the newest PR for a branch using gh CLI
func (g *GitHub) PRForBranch(ctx context.Context, dir, branch string) (*PRInfo, error) {
	out, err := cmd.OutputContext(ctx, dir, "gh", "pr", "list",
		"--head", branch,
		"--state", "all",
		"--json", ghFields,
		"--limit", "1")
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, cliError("gh", err)
	}
	prs, err := parseGitHubPRs(out)
	if err != nil || len(prs) == 0 {
		return nil, err
	}
	return &prs[0], nil
}

// ViewPR fetches a PR by number using gh pr view
func (g *GitHub) ViewPR(ctx context.Context, dir string, number int) (*PRInfo, error) {
	out, err := cmd.OutputContext(ctx, dir, "gh", "pr", "view",
		strconv.Itoa(number),
		"--json", ghFields)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, cliError("gh", err)
	}

	var raw githubPR
	if err := json.Unmarshal(out, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse gh output: %w", err)
	}
	pr := raw.info()
	return &pr, nil
}

// HeadRef returns GitHub's read-only PR head ref
func (g *GitHub) HeadRef(number int) string {
	return fmt.Sprintf("pull/%d/head", number)
}

type githubPR struct {
	Number      int    `json:"number"`
	State       string `json:"state"`
	IsDraft     bool   `json:"isDraft"`
	HeadRefName string `json:"headRefName"`
	Title       string `json:"title"`
	URL         string `json:"url"`
	Author      struct {
		Login string `json:"login"`
	} `json:"author"`
}

func (p githubPR) info() PRInfo {
	return PRInfo{
		Number:  p.Number,
		State:   strings.ToUpper(p.State), // GitHub already uses OPEN, MERGED, CLOSED
		IsDraft: p.IsDraft,
		Branch:  p.HeadRefName,
		Title:   p.Title,
		Author:  p.Author.Login,
		URL:     p.URL,
	}
}

func parseGitHubPRs(data []byte) ([]PRInfo, error) {
	var raw []githubPR
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse gh output: %w", err)
	}
	prs := make([]PRInfo, len(raw))
	for i, p := range raw {
		prs[i] = p.info()
	}
	return prs, nil
}

func filterState(prs []PRInfo, state string) []PRInfo {
	out := prs[:0]
	for _, pr := range prs {
		if pr.State == state {
			out = append(out, pr)
		}
	}
	return out
}

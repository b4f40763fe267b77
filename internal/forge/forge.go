package forge

import (
	"context"
	"fmt"
	"strings"
)

// Normalized PR states.
const (
	PRStateOpen   = "OPEN"
	PRStateMerged = "MERGED"
	PRStateClosed = "CLOSED"
	PRStateDraft  = "DRAFT"
)

// PRInfo is one pull/merge request.
type PRInfo struct {
	Number  int    `json:"number" yaml:"number"`
	State   string `json:"state" yaml:"state"`
	IsDraft bool   `json:"is_draft,omitzero" yaml:"is_draft,omitempty"`
	Branch  string `json:"branch" yaml:"branch"`
	Title   string `json:"title,omitempty" yaml:"title,omitempty"`
	Author  string `json:"author,omitempty" yaml:"author,omitempty"`
	URL     string `json:"url,omitempty" yaml:"url,omitempty"`
}

// DisplayState is the state shown to users; open drafts report DRAFT.
func (p PRInfo) DisplayState() string {
	if p.State == PRStateOpen && p.IsDraft {
		return PRStateDraft
	}
	return p.State
}

// Forge represents a git hosting service (GitHub, GitLab).
// All calls run the platform CLI inside dir so it can infer the repository
// from the git remotes.
type Forge interface {
	// Name returns the forge name ("github" or "gitlab")
	Name() string

	// Check verifies the CLI is installed and authenticated
	Check(ctx context.Context) error

	// ListPRs lists PRs in the given state (PRStateOpen, PRStateMerged, PRStateClosed)
	ListPRs(ctx context.Context, dir, state string) ([]PRInfo, error)

	// PRForBranch returns the most recent PR whose head is branch, or nil
	PRForBranch(ctx context.Context, dir, branch string) (*PRInfo, error)

	// ViewPR fetches a PR by number
	ViewPR(ctx context.Context, dir string, number int) (*PRInfo, error)

	// HeadRef is the remote ref holding a PR's head commit
	HeadRef(number int) string
}

// Branches returns the head branch names of prs.
func Branches(prs []PRInfo) map[string]bool {
	set := make(map[string]bool, len(prs))
	for _, pr := range prs {
		if pr.Branch != "" {
			set[pr.Branch] = true
		}
	}
	return set
}

// Closed returns the branches of merged and closed-unmerged PRs.
func Closed(ctx context.Context, f Forge, dir string) (merged, closed map[string]bool, err error) {
	m, err := f.ListPRs(ctx, dir, PRStateMerged)
	if err != nil {
		return nil, nil, err
	}
	c, err := f.ListPRs(ctx, dir, PRStateClosed)
	if err != nil {
		return nil, nil, err
	}
	return Branches(m), Branches(c), nil
}

// FormatState returns a human-readable PR state
func FormatState(state string) string {
	switch state {
	case PRStateMerged:
		return "merged"
	case PRStateOpen:
		return "open"
	case PRStateDraft:
		return "draft"
	case PRStateClosed:
		return "closed"
	default:
		return ""
	}
}

// cliError trims the CLI's stderr into a single error.
func cliError(tool string, err error) error {
	msg := strings.TrimSpace(err.Error())
	if i := strings.IndexByte(msg, '\n'); i > 0 {
		msg = msg[:i]
	}
	return fmt.Errorf("%s command failed: %s", tool, msg)
}

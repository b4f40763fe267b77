package static

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/easy-worktree/wt/internal/forge"
	"github.com/easy-worktree/wt/internal/snapshot"
	"github.com/easy-worktree/wt/internal/ui/styles"
)

// WorktreeHeaders returns the list columns, with PR when withPR is set.
func WorktreeHeaders(withPR bool) []string {
	h := []string{"NAME", "BRANCH", "STATUS", "CHANGES", "CREATED", "LAST COMMIT"}
	if withPR {
		h = append(h, "PR")
	}
	return h
}

// WorktreeTableRow renders one snapshot. pr is only consulted when withPR is set.
func WorktreeTableRow(s snapshot.Snapshot, pr *forge.PRInfo, withPR bool, now time.Time) []string {
	name := s.Name
	if s.Primary {
		name = styles.Bold.Render(name)
	}

	branch := s.Branch
	if s.Detached {
		branch = styles.MutedStyle.Render("(detached " + shortSHA(s.Head) + ")")
	}

	row := []string{
		name,
		branch,
		status(s),
		changes(s),
		relTime(s.CreatedAt, now),
		relTime(s.LastCommitAt, now),
	}
	if withPR {
		row = append(row, styles.FormatPR(pr))
	}
	return row
}

func status(s snapshot.Snapshot) string {
	switch {
	case !s.IsClean:
		return styles.WarningStyle.Render("dirty")
	case s.HasUntracked:
		return styles.WarningStyle.Render("untracked")
	default:
		return styles.SuccessStyle.Render("clean")
	}
}

func changes(s snapshot.Snapshot) string {
	if s.Insertions == 0 && s.Deletions == 0 {
		return ""
	}
	return styles.SuccessStyle.Render(fmt.Sprintf("+%d", s.Insertions)) + " " +
		styles.ErrorStyle.Render(fmt.Sprintf("-%d", s.Deletions))
}

func relTime(t, now time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return humanize.RelTime(t, now, "ago", "from now")
}

func shortSHA(sha string) string {
	if len(sha) > 7 {
		return sha[:7]
	}
	return sha
}

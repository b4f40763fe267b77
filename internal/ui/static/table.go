// Package static provides non-interactive terminal output components.
package static

import (
	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/table"

	"github.com/easy-worktree/wt/internal/ui/styles"
)

// RenderTable lays out rows under bold headers without borders, two spaces
// between columns. No rows renders nothing, not even the header.
func RenderTable(headers []string, rows [][]string) string {
	if len(rows) == 0 {
		return ""
	}

	t := table.New().
		Headers(headers...).
		Rows(rows...).
		BorderTop(false).
		BorderBottom(false).
		BorderLeft(false).
		BorderRight(false).
		BorderHeader(false).
		BorderColumn(false).
		BorderRow(false).
		StyleFunc(func(row, col int) lipgloss.Style {
			s := lipgloss.NewStyle()
			if row == table.HeaderRow {
				s = styles.Bold
			}
			if col < len(headers)-1 {
				s = s.PaddingRight(2)
			}
			return s
		})

	return t.String() + "\n"
}

package styles

import (
	"fmt"

	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"

	"github.com/easy-worktree/wt/internal/forge"
)

// PR state symbols
const (
	PROpen   = "●"
	PRMerged = "✔"
	PRClosed = "✘"
	PRDraft  = "◌"
)

// PRStateSymbol returns just the symbol for a PR state
func PRStateSymbol(state string, isDraft bool) string {
	switch state {
	case forge.PRStateMerged:
		return PRMerged
	case forge.PRStateOpen:
		if isDraft {
			return PRDraft
		}
		return PROpen
	case forge.PRStateClosed:
		return PRClosed
	default:
		return ""
	}
}

// FormatPRState returns a formatted string with symbol and state.
func FormatPRState(state string, isDraft bool) string {
	sym := PRStateSymbol(state, isDraft)
	if sym == "" {
		return ""
	}
	if isDraft && state == forge.PRStateOpen {
		state = forge.PRStateDraft
	}
	return sym + " " + forge.FormatState(state)
}

// FormatPR renders "<symbol> #<number>", colored by state and hyperlinked
// when the PR has a URL. Returns empty string for nil.
func FormatPR(pr *forge.PRInfo) string {
	if pr == nil || pr.Number == 0 {
		return ""
	}

	var style lipgloss.Style
	switch pr.DisplayState() {
	case forge.PRStateOpen:
		style = SuccessStyle
	case forge.PRStateDraft:
		style = MutedStyle
	case forge.PRStateMerged:
		style = MergedStyle
	case forge.PRStateClosed:
		style = ErrorStyle
	default:
		style = NormalStyle
	}

	text := fmt.Sprintf("%s #%d", PRStateSymbol(pr.State, pr.IsDraft), pr.Number)
	if pr.URL != "" {
		return ansi.SetHyperlink(pr.URL) + style.Render(text) + ansi.ResetHyperlink()
	}
	return style.Render(text)
}

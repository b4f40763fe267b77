package worktree

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/sahilm/fuzzy"
)

// PrimaryName is the reserved name of the primary working copy.
const PrimaryName = "main"

// ErrAlreadyExists is returned when a worktree name or directory is taken.
var ErrAlreadyExists = errors.New("worktree already exists")

var validNameRe = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9._@-]*$`)

// ValidateName checks that name can be used for a new worktree directory.
// Names must start with an alphanumeric character and contain only
// alphanumerics, dots, underscores, hyphens and "@".
func ValidateName(name string) error {
	if name == "" {
		return fmt.Errorf("worktree name cannot be empty")
	}
	if len(name) > 100 {
		return fmt.Errorf("worktree name too long (max 100 characters)")
	}
	if name == PrimaryName {
		return fmt.Errorf("worktree name %q is reserved for the primary working copy", name)
	}
	if !validNameRe.MatchString(name) {
		return fmt.Errorf("invalid worktree name %q: must start with alphanumeric, may contain a-z A-Z 0-9 . _ @ -", name)
	}
	if strings.Contains(name, "..") {
		return fmt.Errorf("worktree name cannot contain '..'")
	}
	return nil
}

// NotFoundError reports an unknown worktree name with the closest known one.
type NotFoundError struct {
	Name       string
	Suggestion string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("worktree %q not found", e.Name)
}

// NewNotFound builds a NotFoundError, suggesting the closest of known.
func NewNotFound(name string, known []string) *NotFoundError {
	return &NotFoundError{Name: name, Suggestion: Closest(name, known)}
}

// Closest returns the best fuzzy match for name among candidates, or "".
// A candidate matches when name is a subsequence of it; failing that, the
// longest candidate that is a subsequence of name wins.
func Closest(name string, candidates []string) string {
	if name == "" || len(candidates) == 0 {
		return ""
	}
	if matches := fuzzy.Find(name, candidates); len(matches) > 0 {
		return matches[0].Str
	}

	best := ""
	for _, c := range candidates {
		if len(c) <= len(best) {
			continue
		}
		if len(fuzzy.Find(c, []string{name})) > 0 {
			best = c
		}
	}
	return best
}

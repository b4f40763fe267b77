package git

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"regexp"
	"strconv"
)

// ErrGitNotFound indicates git is not installed or not in PATH
var ErrGitNotFound = errors.New("git not found: please install git (https://git-scm.com)")

// ErrGitTooOld indicates git lacks the worktree commands wt relies on.
var ErrGitTooOld = errors.New("git is too old")

// MinVersion is the oldest git with `worktree remove` and `worktree list --porcelain`.
var MinVersion = Version{Major: 2, Minor: 17}

// Version is a git release number.
type Version struct {
	Major, Minor, Patch int
}

func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}

// Less reports whether v is older than o.
func (v Version) Less(o Version) bool {
	if v.Major != o.Major {
		return v.Major < o.Major
	}
	if v.Minor != o.Minor {
		return v.Minor < o.Minor
	}
	return v.Patch < o.Patch
}

var versionRe = regexp.MustCompile(`git version (\d+)\.(\d+)(?:\.(\d+))?`)

// ParseVersion reads the output of `git version`, including vendor suffixes
// such as "2.39.3 (Apple Git-145)".
func ParseVersion(out string) (Version, error) {
	m := versionRe.FindStringSubmatch(out)
	if m == nil {
		return Version{}, fmt.Errorf("unrecognized git version %q", out)
	}
	var v Version
	v.Major, _ = strconv.Atoi(m[1])
	v.Minor, _ = strconv.Atoi(m[2])
	if m[3] != "" {
		v.Patch, _ = strconv.Atoi(m[3])
	}
	return v, nil
}

// CheckGit verifies that a recent enough git is in PATH. An unparsable
// version is let through.
func CheckGit(ctx context.Context) error {
	if _, err := exec.LookPath("git"); err != nil {
		return ErrGitNotFound
	}
	out, err := outputGit(ctx, "", "version")
	if err != nil {
		return err
	}
	v, err := ParseVersion(string(out))
	if err != nil {
		return nil
	}
	if v.Less(MinVersion) {
		return fmt.Errorf("%w: found %s, need %s or newer", ErrGitTooOld, v, MinVersion)
	}
	return nil
}

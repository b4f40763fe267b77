package git

import (
	"context"
	"os"

	"github.com/easy-worktree/wt/internal/cmd"
)

// gitArgs targets dir with -C and keeps non-ASCII paths unquoted in
// porcelain output.
func gitArgs(dir string, args []string) []string {
	full := make([]string, 0, len(args)+4)
	if dir != "" {
		full = append(full, "-C", dir)
	}
	full = append(full, "-c", "core.quotepath=off")
	return append(full, args...)
}

func runGit(ctx context.Context, dir string, args ...string) error {
	return cmd.RunContext(ctx, "", "git", gitArgs(dir, args)...)
}

func outputGit(ctx context.Context, dir string, args ...string) ([]byte, error) {
	return cmd.OutputContext(ctx, "", "git", gitArgs(dir, args)...)
}

// interactiveGit runs git with the terminal attached, for pagers and diff tools.
func interactiveGit(ctx context.Context, dir string, args ...string) error {
	return cmd.Interactive(ctx, "", os.Stdout, "git", gitArgs(dir, args)...)
}

// Run executes an arbitrary git command in dir.
func Run(ctx context.Context, dir string, args ...string) error {
	return runGit(ctx, dir, args...)
}

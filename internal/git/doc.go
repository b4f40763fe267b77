// Package git provides git operations via shell commands.
//
// All operations call the git CLI through [github.com/easy-worktree/wt/internal/cmd]
// with "git -C <dir>", so user configuration (SSH keys, credential helpers,
// hooks) applies unchanged. Read-only ref lookups that do not need a
// subprocess live in package refs; [Query] is the CLI fallback for them.
//
// # Queries
//
//   - [ListWorktrees]: worktrees of a repository from "worktree list --porcelain"
//   - [Status], [DiffStat]: cleanliness and change counts of a working copy
//   - [MergedBranches]: branches reachable from a base ref
//   - [Toplevel], [CommonDir], [PrimaryRoot]: repository locations
//
// # Mutations
//
//   - [AddWorktree]: run the commands of a branch plan
//   - [RemoveWorktree], [DeleteBranch], [Fetch], [FetchRef]
//   - [Stash], [StashPop]: carry uncommitted changes into a new worktree
package git

// Package hooks runs the project's lifecycle hooks.
//
// A hook is an executable file in the project's .wt directory named after the
// event, e.g. .wt/post-add. It runs with the new worktree as working directory
// and receives the event through environment variables:
//
//   - WT_WORKTREE_NAME: worktree name
//   - WT_WORKTREE_PATH: absolute worktree path
//   - WT_BRANCH: checked-out branch
//   - WT_PROJECT_ROOT: primary working copy
//   - WT_TRIGGER: command that triggered the hook (add, stash, pr)
//
// A hook file without the executable bit is run through sh.
package hooks

package main

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/easy-worktree/wt/internal/git"
	"github.com/easy-worktree/wt/internal/project"
	"github.com/easy-worktree/wt/internal/snapshot"
)

// completeWorktreeNames completes the first argument with worktree names.
// Completion runs without the pre-run hook, so the project is opened here.
func (a *app) completeWorktreeNames(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	p, err := project.Open(ctx, a.workDir)
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	infos, err := git.ListWorktrees(ctx, p.Root)
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}

	var names []string
	for i, wi := range infos {
		name := snapshot.PrimaryName
		if i > 0 {
			name = filepath.Base(wi.Path)
		}
		if strings.HasPrefix(name, toComplete) {
			names = append(names, name)
		}
	}
	return names, cobra.ShellCompDirectiveNoFileComp
}

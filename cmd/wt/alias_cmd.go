package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/easy-worktree/wt/internal/log"
	"github.com/easy-worktree/wt/internal/metadata"
	"github.com/easy-worktree/wt/internal/output"
	"github.com/easy-worktree/wt/internal/project"
	"github.com/easy-worktree/wt/internal/ui/static"
)

func newAliasCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "alias",
		Short:   "Manage symlinks pointing at worktrees",
		GroupID: GroupUtility,
		Long: `Manage aliases: symlinks elsewhere on disk that point at a worktree.

wt clean never removes a worktree that an alias still points at.`,
	}

	cmd.AddCommand(newAliasAddCmd(a))
	cmd.AddCommand(newAliasRmCmd(a))
	cmd.AddCommand(newAliasListCmd(a))

	return cmd
}

// aliasStore returns the metadata store, which aliases cannot work without.
func aliasStore(p *project.Project) (*metadata.Store, error) {
	s, err := p.Store()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", metadata.ErrUnavailable, err)
	}
	return s, nil
}

func (a *app) absPath(p string) string {
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Join(a.workDir, p)
}

func newAliasAddCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:               "add <name> <link>",
		Short:             "Create a symlink to a worktree",
		Args:              cobra.ExactArgs(2),
		Example:           `  wt alias add api ~/src/current-api`,
		ValidArgsFunction: a.completeWorktreeNames,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			p, err := a.project()
			if err != nil {
				return err
			}
			store, err := aliasStore(p)
			if err != nil {
				return err
			}
			snaps, err := buildSnapshots(ctx, p, nil)
			if err != nil {
				return err
			}
			s, err := findWorktree(snaps, args[0])
			if err != nil {
				return err
			}

			link := a.absPath(args[1])
			if err := os.Symlink(s.Path, link); err != nil {
				return fmt.Errorf("create alias: %w", err)
			}
			if err := store.AddAlias(s.Path, link); err != nil {
				_ = os.Remove(link)
				return err
			}
			log.FromContext(ctx).Printf("%s -> %s\n", link, s.Path)
			return nil
		},
	}
}

func newAliasRmCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <link>",
		Short:   "Remove an alias symlink",
		Aliases: []string{"remove"},
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			l := log.FromContext(ctx)

			p, err := a.project()
			if err != nil {
				return err
			}
			store, err := aliasStore(p)
			if err != nil {
				return err
			}

			link := a.absPath(args[0])
			owner, err := store.RemoveAlias(link)
			if err != nil {
				return err
			}

			info, err := os.Lstat(link)
			switch {
			case err == nil && info.Mode()&os.ModeSymlink != 0:
				if err := os.Remove(link); err != nil {
					return err
				}
			case err == nil:
				return fmt.Errorf("%s is not a symlink, leaving it in place", link)
			case owner == "":
				return fmt.Errorf("%s is not a known alias", link)
			}
			l.Printf("Removed alias %s\n", link)
			return nil
		},
	}
}

func newAliasListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Short:   "List aliases",
		Aliases: []string{"ls"},
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			p, err := a.project()
			if err != nil {
				return err
			}
			store, err := aliasStore(p)
			if err != nil {
				return err
			}
			snaps, err := buildSnapshots(ctx, p, nil)
			if err != nil {
				return err
			}
			names := make(map[string]string, len(snaps))
			for _, s := range snaps {
				names[metadata.Normalize(s.Path)] = s.Name
			}

			var rows [][]string
			for _, r := range store.Records() {
				name, ok := names[r.Path]
				if !ok {
					continue
				}
				for _, alias := range r.Aliases {
					status := "ok"
					if target, err := filepath.EvalSymlinks(alias); err != nil || metadata.Normalize(target) != r.Path {
						status = "stale"
					}
					rows = append(rows, []string{alias, name, status})
				}
			}
			if len(rows) == 0 {
				log.FromContext(ctx).Println("No aliases")
				return nil
			}
			output.FromContext(ctx).Print(static.RenderTable([]string{"ALIAS", "WORKTREE", "STATUS"}, rows))
			return nil
		},
	}
}

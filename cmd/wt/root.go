package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/easy-worktree/wt/internal/git"
	"github.com/easy-worktree/wt/internal/log"
	"github.com/easy-worktree/wt/internal/output"
	"github.com/easy-worktree/wt/internal/project"
	"github.com/easy-worktree/wt/internal/ui/prompt"
)

// Command group IDs for organizing help output
const (
	GroupCore    = "core"
	GroupSession = "session"
	GroupUtility = "utility"
	GroupConfig  = "config"
)

// app is the state of one invocation. Commands read the working directory
// and environment from here instead of the process so tests can run
// several invocations side by side.
type app struct {
	workDir string
	env     []string

	verbose bool
	quiet   bool

	// interactive reports whether a user is at the terminal
	interactive func() bool

	proj    *project.Project
	projErr error

	closeTrace func()
}

func newApp(workDir string, env []string) *app {
	return &app{workDir: workDir, env: env, interactive: prompt.IsInteractive}
}

// lookupEnv searches the invocation's environment.
func (a *app) lookupEnv(key string) (string, bool) {
	prefix := key + "="
	for i := len(a.env) - 1; i >= 0; i-- {
		if v, ok := strings.CutPrefix(a.env[i], prefix); ok {
			return v, true
		}
	}
	return "", false
}

func (a *app) getenv(key string) string {
	v, _ := a.lookupEnv(key)
	return v
}

// project returns the repository the command runs in.
func (a *app) project() (*project.Project, error) {
	if a.proj == nil {
		return nil, fmt.Errorf("%s: %w", a.workDir, errNotInRepo)
	}
	return a.proj, nil
}

// initializedProject is project plus the .wt check commands that write
// state need.
func (a *app) initializedProject() (*project.Project, error) {
	p, err := a.project()
	if err != nil {
		return nil, err
	}
	if err := p.RequireInit(); err != nil {
		return nil, err
	}
	return p, nil
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "wt",
		Short: "Worktree manager for a single repository",
		Long: `wt manages the git worktrees of one repository.

Each worktree gets a short name and lives in the configured worktrees
directory. wt select opens a shell inside a worktree, wt clean removes
the ones whose work is merged, closed or stale.`,
		SilenceUsage:               true,
		SilenceErrors:              true,
		SuggestionsMinimumDistance: 2, // Enable typo suggestions
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.prepare(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.closeTrace != nil {
				a.closeTrace()
				a.closeTrace = nil
			}
		},
		// Run is not set - shows help when no subcommand provided
	}

	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Show external commands being executed")
	root.PersistentFlags().BoolVarP(&a.quiet, "quiet", "q", false, "Suppress all log output")
	root.MarkFlagsMutuallyExclusive("verbose", "quiet")

	root.Version = versionString()
	root.SetVersionTemplate("{{.Version}}\n")

	root.AddGroup(
		&cobra.Group{ID: GroupCore, Title: "Core Commands:"},
		&cobra.Group{ID: GroupSession, Title: "Session Commands:"},
		&cobra.Group{ID: GroupUtility, Title: "Utility Commands:"},
		&cobra.Group{ID: GroupConfig, Title: "Configuration Commands:"},
	)

	// Core commands
	root.AddCommand(newAddCmd(a))
	root.AddCommand(newRemoveCmd(a))
	root.AddCommand(newListCmd(a))
	root.AddCommand(newCleanCmd(a))
	root.AddCommand(newStashCmd(a))
	root.AddCommand(newPrCmd(a))

	// Session commands
	root.AddCommand(newSelectCmd(a))
	root.AddCommand(newCurrentCmd(a))
	root.AddCommand(newPathCmd(a))

	// Utility commands
	root.AddCommand(newDiffCmd(a))
	root.AddCommand(newSetupCmd(a))
	root.AddCommand(newAliasCmd(a))

	// Config commands
	root.AddCommand(newInitCmd(a))
	root.AddCommand(newCloneCmd(a))
	root.AddCommand(newConfigCmd(a))
	root.AddCommand(newCompletionCmd())

	return root
}

// prepare installs the logger and printer and loads the project the
// working directory belongs to. Being outside a repository is not an error
// here; commands that need one ask for it via project().
func (a *app) prepare(cmd *cobra.Command) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	logger := log.New(cmd.ErrOrStderr(), a.verbose, a.quiet)
	ctx = log.WithLogger(ctx, logger)
	ctx = output.WithPrinter(ctx, cmd.OutOrStdout())
	cmd.SetContext(ctx)

	// Skip git check for completion and help commands
	if cmd.Name() == "completion" || cmd.Name() == "__complete" || cmd.Name() == "help" {
		return nil
	}

	if err := git.CheckGit(ctx); err != nil {
		return err
	}

	a.proj, a.projErr = project.Open(ctx, a.workDir)
	if a.proj == nil {
		logger.Debug("not inside a repository", "dir", a.workDir, "err", a.projErr)
		return nil
	}
	for _, w := range a.proj.Warnings {
		logger.Warnf("%v", w)
	}

	if f := a.proj.Config.Log.File; f != "" {
		z, closeFn, err := log.OpenFile(a.tracePath(f))
		if err != nil {
			logger.Warnf("trace log disabled: %v", err)
			return nil
		}
		a.closeTrace = closeFn
		logger = logger.WithTrace(z)
		cmd.SetContext(log.WithLogger(ctx, logger))
		logger.Debug("invocation", "cmd", cmd.CommandPath(), "root", a.proj.Root)
	}
	return nil
}

// tracePath expands ~/ and makes relative log paths project-relative.
func (a *app) tracePath(p string) string {
	if rest, ok := strings.CutPrefix(p, "~/"); ok {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, rest)
		}
	}
	if !filepath.IsAbs(p) && a.proj != nil {
		return filepath.Join(a.proj.Root, p)
	}
	return p
}

// run executes one invocation and returns the process exit code.
func run(ctx context.Context, a *app, args []string, stdout, stderr io.Writer) int {
	root := newRootCmd(a)
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.ExecuteContext(ctx)
	if a.closeTrace != nil {
		a.closeTrace()
	}
	if err != nil {
		printError(stderr, err)
		return 1
	}
	return 0
}

// Execute runs wt with the process arguments and exits.
func Execute() {
	workDir, err := os.Getwd()
	if err != nil {
		fmt.Fprintf(os.Stderr, "wt: failed to get working directory: %v\n", err)
		os.Exit(1)
	}

	// Create context with signal handling
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, newApp(workDir, os.Environ()), os.Args[1:], os.Stdout, os.Stderr)
	cancel()
	os.Exit(code)
}

package cmd

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/easy-worktree/wt/internal/log"
)

// RunContext executes a command in dir and returns stderr in the error message if it fails.
// A cancelled context is reported as the context error.
func RunContext(ctx context.Context, dir, name string, args ...string) error {
	_, err := run(ctx, dir, nil, name, args, false)
	return err
}

// OutputContext executes a command in dir and returns stdout, with stderr in error if it fails.
func OutputContext(ctx context.Context, dir, name string, args ...string) ([]byte, error) {
	return run(ctx, dir, nil, name, args, true)
}

// RunEnvContext is RunContext with extra environment variables appended to the
// current process environment.
func RunEnvContext(ctx context.Context, dir string, env []string, name string, args ...string) error {
	_, err := run(ctx, dir, env, name, args, false)
	return err
}

// Interactive runs a command attached to the terminal. stdout of the child goes
// to out so callers can keep primary output on stdout and diagnostics on stderr.
func Interactive(ctx context.Context, dir string, out io.Writer, name string, args ...string) error {
	done := log.FromContext(ctx).Command(dir, name, args...)
	start := time.Now()

	c := exec.CommandContext(ctx, name, args...)
	c.Dir = dir
	c.Stdin = os.Stdin
	c.Stdout = out
	c.Stderr = os.Stderr
	err := c.Run()
	done(time.Since(start))

	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	return err
}

func run(ctx context.Context, dir string, env []string, name string, args []string, capture bool) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	done := log.FromContext(ctx).Command(dir, name, args...)
	start := time.Now()

	c := exec.CommandContext(ctx, name, args...)
	c.Dir = dir
	if len(env) > 0 {
		c.Env = append(os.Environ(), env...)
	}

	var stdout, stderr bytes.Buffer
	c.Stderr = &stderr
	if capture {
		c.Stdout = &stdout
	}

	err := c.Run()
	done(time.Since(start))

	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		if errMsg := strings.TrimSpace(stderr.String()); errMsg != "" {
			return nil, errors.New(errMsg)
		}
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return stdout.Bytes(), nil
}

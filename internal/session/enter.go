package session

import (
	"fmt"
	"os"
	"os/exec"
	"syscall"
)

// execve is replaced in tests.
var execve = syscall.Exec

// Enter replaces the current process with the shell of a Spawn transition.
// It does not return on success.
func Enter(t Transition) error {
	if t.Kind != Spawn || len(t.Argv) == 0 {
		return fmt.Errorf("cannot enter a %s transition", t.Kind)
	}
	bin, err := exec.LookPath(t.Argv[0])
	if err != nil {
		return fmt.Errorf("shell %s: %w", t.Argv[0], err)
	}
	if err := os.Chdir(t.Path); err != nil {
		return fmt.Errorf("enter %s: %w", t.Path, err)
	}
	return execve(bin, t.Argv, t.Env)
}

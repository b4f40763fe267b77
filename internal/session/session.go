// Package session implements switching the current worktree.
//
// A switch either prints the target path for a calling shell to cd into or
// replaces the process with a subshell bound to the target. The subshell
// carries the selected name in WT_SESSION_NAME; while it is set the state
// is Active and switching to a different worktree is refused.
package session

import (
	"errors"
	"fmt"
	"strings"
)

// EnvName is the environment marker of an active session.
const EnvName = "WT_SESSION_NAME"

// ErrNoPreviousSelection is returned by ToggleBack when nothing was selected before.
var ErrNoPreviousSelection = errors.New("no previous selection")

// NestingError is returned when switching inside an active session.
type NestingError struct {
	Active string
	Target string
}

func (e *NestingError) Error() string {
	return fmt.Sprintf("already in wt session %q, cannot switch to %q", e.Active, e.Target)
}

// State is the session state of the calling process.
type State struct {
	Active string // empty when detached
}

// IsActive reports whether the process runs inside a session subshell.
func (s State) IsActive() bool { return s.Active != "" }

// StateFromEnv derives the state from the session marker.
func StateFromEnv(lookup func(string) (string, bool)) State {
	v, ok := lookup(EnvName)
	if !ok {
		return State{}
	}
	return State{Active: strings.TrimSpace(v)}
}

// LastSelection persists the name selected before the current one.
type LastSelection interface {
	Load() (string, bool, error)
	Save(name string) error
}

// Kind is the effect of a transition.
type Kind int

const (
	// Stay: already in the requested session; print its path.
	Stay Kind = iota
	// PrintPath: print the target path for the caller to act on.
	PrintPath
	// Spawn: replace the process with a shell in the target.
	Spawn
)

func (k Kind) String() string {
	switch k {
	case Stay:
		return "stay"
	case PrintPath:
		return "print-path"
	case Spawn:
		return "spawn"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Transition describes what to do after a successful switch.
type Transition struct {
	Kind Kind
	Name string
	Path string

	// set for Spawn
	Argv []string
	Env  []string
}

// Request is one switch.
type Request struct {
	Target      string
	Outgoing    string // name of the worktree the caller is in, if any
	Interactive bool
	Command     string // run inside the new shell before handing it over
}

// Machine computes session transitions.
type Machine struct {
	Resolve func(name string) (string, error)
	Last    LastSelection
	Shell   string   // $SHELL; /bin/sh when empty
	Environ []string // base environment of a spawned shell
}

// SwitchTo selects req.Target. Inside an active session only the active
// worktree itself can be selected; anything else fails with *NestingError
// before any lookup or write happens.
func (m *Machine) SwitchTo(st State, req Request) (Transition, error) {
	if st.IsActive() && st.Active != req.Target {
		return Transition{}, &NestingError{Active: st.Active, Target: req.Target}
	}

	path, err := m.Resolve(req.Target)
	if err != nil {
		return Transition{}, err
	}

	if st.IsActive() {
		return Transition{Kind: Stay, Name: req.Target, Path: path}, nil
	}

	if req.Outgoing != "" && req.Outgoing != req.Target && m.Last != nil {
		if err := m.Last.Save(req.Outgoing); err != nil {
			return Transition{}, fmt.Errorf("save last selection: %w", err)
		}
	}

	if !req.Interactive {
		return Transition{Kind: PrintPath, Name: req.Target, Path: path}, nil
	}
	return Transition{
		Kind: Spawn,
		Name: req.Target,
		Path: path,
		Argv: m.argv(req.Command),
		Env:  withMarker(m.Environ, req.Target),
	}, nil
}

// ToggleBack switches to the previously selected worktree.
func (m *Machine) ToggleBack(st State, req Request) (Transition, error) {
	if m.Last == nil {
		return Transition{}, ErrNoPreviousSelection
	}
	name, ok, err := m.Last.Load()
	if err != nil {
		return Transition{}, fmt.Errorf("load last selection: %w", err)
	}
	if !ok {
		return Transition{}, ErrNoPreviousSelection
	}
	req.Target = name
	return m.SwitchTo(st, req)
}

func (m *Machine) shell() string {
	if m.Shell == "" {
		return "/bin/sh"
	}
	return m.Shell
}

func (m *Machine) argv(command string) []string {
	sh := m.shell()
	if command == "" {
		return []string{sh}
	}
	return []string{sh, "-c", command + "; exec " + shellQuote(sh)}
}

func withMarker(environ []string, name string) []string {
	env := make([]string, 0, len(environ)+1)
	prefix := EnvName + "="
	for _, kv := range environ {
		if !strings.HasPrefix(kv, prefix) {
			env = append(env, kv)
		}
	}
	return append(env, prefix+name)
}

func shellQuote(s string) string {
	if s != "" && strings.IndexFunc(s, func(r rune) bool {
		return !(r == '/' || r == '.' || r == '-' || r == '_' ||
			(r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9'))
	}) < 0 {
		return s
	}
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

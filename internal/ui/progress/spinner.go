// Package progress shows a spinner on stderr while wt waits on slow
// external commands such as gh or git fetch.
package progress

import (
	"fmt"
	"os"
	"sync"
	"time"

	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/colorprofile"
	"github.com/mattn/go-isatty"

	"github.com/easy-worktree/wt/internal/ui/styles"
)

// Spinner wraps a Bubbletea spinner for simple non-interactive use
type Spinner struct {
	program *tea.Program
	done    chan struct{}
	once    sync.Once
}

type spinnerModel struct {
	spinner spinner.Model
	message string
}

func (m spinnerModel) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m spinnerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	m.spinner, cmd = m.spinner.Update(msg)
	return m, cmd
}

func (m spinnerModel) View() tea.View {
	if m.message == "" {
		return tea.NewView("")
	}
	return tea.NewView(fmt.Sprintf("%s %s", m.spinner.View(), m.message))
}

func newModel(message string) spinnerModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.AccentStyle
	return spinnerModel{spinner: sp, message: message}
}

// Start shows message with a spinner on stderr. It returns a no-op spinner
// when stderr is not a terminal.
func Start(message string) *Spinner {
	s := &Spinner{done: make(chan struct{})}
	if !isatty.IsTerminal(os.Stderr.Fd()) {
		close(s.done)
		return s
	}

	// stdin stays untouched so prompts after Stop still work
	s.program = tea.NewProgram(newModel(message),
		tea.WithoutSignalHandler(),
		tea.WithInput(nil),
		tea.WithOutput(os.Stderr),
		tea.WithColorProfile(colorprofile.Detect(os.Stderr, os.Environ())),
	)
	go func() {
		_, _ = s.program.Run()
		close(s.done)
	}()
	return s
}

// Stop stops the spinner and clears the line. Safe to call more than once.
func (s *Spinner) Stop() {
	s.once.Do(func() {
		if s.program == nil {
			return
		}
		s.program.Quit()
		select {
		case <-s.done:
		case <-time.After(500 * time.Millisecond):
		}
		fmt.Fprint(os.Stderr, "\r\033[K")
	})
}

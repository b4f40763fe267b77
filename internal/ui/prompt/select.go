package prompt

import (
	"os"

	"charm.land/bubbles/v2/list"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/colorprofile"

	"github.com/easy-worktree/wt/internal/ui/styles"
)

// Option is one entry of a Select prompt. Detail is shown dimmed next to
// the value and takes part in filtering.
type Option struct {
	Value  string
	Detail string
}

// SelectResult holds the result of a selection prompt.
type SelectResult struct {
	Value     string
	Index     int
	Cancelled bool
}

type optionItem struct {
	Option
	index int
}

func (i optionItem) Title() string {
	if i.Detail == "" {
		return i.Value
	}
	return i.Value + "  " + styles.MutedStyle.Render(i.Detail)
}
func (i optionItem) Description() string { return "" }
func (i optionItem) FilterValue() string { return i.Value + " " + i.Detail }

type selectModel struct {
	list      list.Model
	cancelled bool
	selected  int
}

func (m selectModel) Init() tea.Cmd { return nil }

func (m selectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyPressMsg:
		// keys belong to the filter input while it is open
		if m.list.FilterState() == list.Filtering && msg.String() != "enter" && msg.String() != "ctrl+c" {
			break
		}
		switch msg.String() {
		case "enter":
			if item, ok := m.list.SelectedItem().(optionItem); ok {
				m.selected = item.index
			}
			return m, tea.Quit
		case "ctrl+c", "esc", "q":
			m.cancelled = true
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.list.SetWidth(msg.Width)
		return m, nil
	}
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m selectModel) View() tea.View {
	if m.cancelled || m.selected >= 0 {
		return tea.NewView("")
	}
	return tea.NewView(m.list.View())
}

// Select lets the user pick one of options on stderr. An empty option list
// counts as cancelled.
func Select(title string, options []Option) (SelectResult, error) {
	if len(options) == 0 {
		return SelectResult{Cancelled: true}, nil
	}

	items := make([]list.Item, len(options))
	for i, opt := range options {
		items[i] = optionItem{Option: opt, index: i}
	}

	delegate := list.NewDefaultDelegate()
	delegate.ShowDescription = false
	delegate.SetSpacing(0)
	delegate.Styles.SelectedTitle = lipgloss.NewStyle().
		Foreground(styles.Accent).
		Bold(true)

	l := list.New(items, delegate, 72, min(len(options)+6, 20))
	l.Title = title
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(len(options) > 5)
	l.DisableQuitKeybindings()

	p := tea.NewProgram(selectModel{list: l, selected: -1},
		tea.WithOutput(os.Stderr),
		tea.WithColorProfile(colorprofile.Detect(os.Stderr, os.Environ())),
	)
	final, err := p.Run()
	if err != nil {
		return SelectResult{}, err
	}
	m := final.(selectModel)

	if m.cancelled || m.selected < 0 || m.selected >= len(options) {
		return SelectResult{Cancelled: true}, nil
	}
	return SelectResult{Value: options[m.selected].Value, Index: m.selected}, nil
}

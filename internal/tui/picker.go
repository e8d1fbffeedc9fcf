// Package tui provides terminal user interface components for projrouter
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Action represents the action to take after picker selection
type Action int

const (
	ActionNone Action = iota
	ActionInspect
	ActionActivate
	ActionDeactivate
	ActionQuit
)

// Entry is one registered project as shown in the picker.
type Entry struct {
	Name      string
	Port      int
	Active    bool
	Listening bool
}

// PickerResult holds the result of the picker
type PickerResult struct {
	Action   Action
	Project  *Entry
	Activate *ActivateRequest
}

// projectItem implements list.Item for project display
type projectItem struct {
	entry *Entry
}

func (i projectItem) Title() string {
	return i.entry.Name
}

func (i projectItem) Description() string {
	statusIcon := "●"
	state := "stopped"
	switch {
	case i.entry.Active && i.entry.Listening:
		statusIcon = "✓"
		state = "running"
	case i.entry.Active:
		statusIcon = "⚠"
		state = "not listening"
	}

	return fmt.Sprintf("%s %s | 127.0.0.1:%d | /%s/", statusIcon, state, i.entry.Port, i.entry.Name)
}

func (i projectItem) FilterValue() string {
	return i.entry.Name
}

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39")).
			MarginBottom(1)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			MarginTop(1)

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")).
			Bold(true)
)

// Model is the bubbletea model for the project picker
type Model struct {
	list      list.Model
	wizard    *wizardModel
	suggested int
	result    PickerResult
	quitting  bool
	width     int
	height    int
}

// NewPicker creates a new project picker. suggestedPort prefills the port
// field when a new project is activated from the picker.
func NewPicker(entries []*Entry, suggestedPort int) Model {
	items := make([]list.Item, len(entries))
	for i, e := range entries {
		items[i] = projectItem{entry: e}
	}

	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = selectedStyle
	delegate.Styles.SelectedDesc = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))

	l := list.New(items, delegate, 80, 20)
	l.Title = "projrouter - Select Project"
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.Styles.Title = titleStyle

	return Model{
		list:      l,
		suggested: suggestedPort,
	}
}

func (m Model) Init() tea.Cmd {
	if m.wizard != nil {
		return m.wizard.Init()
	}
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.wizard != nil {
		done, req, cmd := m.wizard.Update(msg)
		if !done {
			return m, cmd
		}
		m.wizard = nil
		if req == nil {
			return m, nil
		}
		m.result = PickerResult{Action: ActionActivate, Activate: req}
		m.quitting = true
		return m, tea.Quit
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.list.SetSize(msg.Width, msg.Height-4)
		return m, nil

	case tea.KeyMsg:
		// Don't handle keys if filtering
		if m.list.FilterState() == list.Filtering {
			break
		}

		switch msg.String() {
		case "enter":
			if item, ok := m.list.SelectedItem().(projectItem); ok {
				m.result = PickerResult{Action: ActionInspect, Project: item.entry}
				m.quitting = true
				return m, tea.Quit
			}

		case "n":
			w := newWizardModel(m.suggested)
			m.wizard = &w
			return m, w.Init()

		case "d":
			if item, ok := m.list.SelectedItem().(projectItem); ok {
				m.result = PickerResult{Action: ActionDeactivate, Project: item.entry}
				m.quitting = true
				return m, tea.Quit
			}

		case "q", "esc":
			m.result = PickerResult{Action: ActionQuit}
			m.quitting = true
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if m.wizard != nil {
		return m.wizard.View()
	}

	help := helpStyle.Render("[enter] Inspect  [n] Activate new  [d] Deactivate  [/] Filter  [q] Quit")

	return m.list.View() + "\n" + help
}

// Result returns the picker result
func (m Model) Result() PickerResult {
	return m.result
}

// RunPicker runs the interactive project picker. With no projects it goes
// straight to the activation form.
func RunPicker(entries []*Entry, suggestedPort int) (PickerResult, error) {
	m := NewPicker(entries, suggestedPort)
	if len(entries) == 0 {
		w := newWizardModel(suggestedPort)
		m.wizard = &w
	}

	p := tea.NewProgram(m, tea.WithAltScreen())

	finalModel, err := p.Run()
	if err != nil {
		return PickerResult{}, err
	}

	return finalModel.(Model).Result(), nil
}

// SimplePicker is a non-interactive picker that just lists projects
func SimplePicker(entries []*Entry) string {
	var sb strings.Builder

	sb.WriteString("projrouter - Projects\n")
	sb.WriteString(strings.Repeat("─", 60) + "\n\n")

	if len(entries) == 0 {
		sb.WriteString("No projects registered.\n")
		sb.WriteString("Activate one with: projrouter activate <name> <port>\n")
		return sb.String()
	}

	for i, e := range entries {
		item := projectItem{entry: e}
		sb.WriteString(fmt.Sprintf("%d. %s\n", i+1, e.Name))
		sb.WriteString(fmt.Sprintf("   %s\n\n", item.Description()))
	}

	return sb.String()
}

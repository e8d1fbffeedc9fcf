package tui

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/firefly-engineering/projrouter/internal/config"
)

// ActivateRequest is what the activation form collects.
type ActivateRequest struct {
	Name string
	Port int
}

// wizardStep identifies the current step.
type wizardStep int

const (
	stepName wizardStep = iota
	stepPort
	stepConfirm
)

// wizardModel drives the activation form.
type wizardModel struct {
	step wizardStep

	nameInput textinput.Model
	portInput textinput.Model

	selectedName string
	selectedPort int
	errMsg       string
}

var (
	wizardTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("39")).
				MarginBottom(1)

	wizardStepStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	wizardActiveStepStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("39"))

	wizardLabelStyle = lipgloss.NewStyle().
				Bold(true).
				MarginBottom(1)

	wizardValueStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("39"))

	wizardErrorStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("196"))

	wizardDimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))
)

func newWizardModel(suggestedPort int) wizardModel {
	ni := textinput.New()
	ni.Placeholder = "project-name"
	ni.Focus()
	ni.CharLimit = 63
	ni.Width = 40

	pi := textinput.New()
	pi.Placeholder = "9001"
	pi.CharLimit = 5
	pi.Width = 10
	if suggestedPort > 0 {
		pi.SetValue(strconv.Itoa(suggestedPort))
	}

	return wizardModel{
		step:      stepName,
		nameInput: ni,
		portInput: pi,
	}
}

func (w *wizardModel) Init() tea.Cmd {
	return textinput.Blink
}

// Update processes a message and returns (done, request, cmd).
// done=true with a nil request means the form was cancelled.
func (w *wizardModel) Update(msg tea.Msg) (bool, *ActivateRequest, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.Type {
		case tea.KeyCtrlC:
			return true, nil, nil
		case tea.KeyEsc:
			return w.handleBack()
		}
	}

	switch w.step {
	case stepName:
		return w.updateName(msg)
	case stepPort:
		return w.updatePort(msg)
	case stepConfirm:
		return w.updateConfirm(msg)
	}

	return false, nil, nil
}

func (w *wizardModel) handleBack() (bool, *ActivateRequest, tea.Cmd) {
	w.errMsg = ""
	switch w.step {
	case stepName:
		// Esc at first step cancels
		return true, nil, nil
	case stepPort:
		w.step = stepName
		w.portInput.Blur()
		w.nameInput.Focus()
		return false, nil, textinput.Blink
	case stepConfirm:
		w.step = stepPort
		w.portInput.Focus()
		return false, nil, textinput.Blink
	}
	return false, nil, nil
}

func (w *wizardModel) updateName(msg tea.Msg) (bool, *ActivateRequest, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEnter {
		name := strings.TrimSpace(w.nameInput.Value())
		if err := config.ValidateProjectName(name); err != nil {
			w.errMsg = err.Error()
			return false, nil, nil
		}
		w.errMsg = ""
		w.selectedName = name
		w.step = stepPort
		w.nameInput.Blur()
		w.portInput.Focus()
		return false, nil, textinput.Blink
	}

	var cmd tea.Cmd
	w.nameInput, cmd = w.nameInput.Update(msg)
	return false, nil, cmd
}

func (w *wizardModel) updatePort(msg tea.Msg) (bool, *ActivateRequest, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEnter {
		port, err := strconv.Atoi(strings.TrimSpace(w.portInput.Value()))
		if err != nil {
			w.errMsg = "port must be a number"
			return false, nil, nil
		}
		if err := config.ValidatePort(port); err != nil {
			w.errMsg = err.Error()
			return false, nil, nil
		}
		w.errMsg = ""
		w.selectedPort = port
		w.step = stepConfirm
		w.portInput.Blur()
		return false, nil, nil
	}

	var cmd tea.Cmd
	w.portInput, cmd = w.portInput.Update(msg)
	return false, nil, cmd
}

func (w *wizardModel) updateConfirm(msg tea.Msg) (bool, *ActivateRequest, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return false, nil, nil
	}
	switch keyMsg.String() {
	case "enter", "y":
		return true, &ActivateRequest{Name: w.selectedName, Port: w.selectedPort}, nil
	case "n":
		return true, nil, nil
	}
	return false, nil, nil
}

func (w *wizardModel) View() string {
	var b strings.Builder

	b.WriteString(wizardTitleStyle.Render("Activate project"))
	b.WriteString("\n")
	b.WriteString(w.progressBar())
	b.WriteString("\n\n")

	switch w.step {
	case stepName:
		b.WriteString(wizardLabelStyle.Render("Project name"))
		b.WriteString("\n")
		b.WriteString(w.nameInput.View())
		b.WriteString("\n")
		b.WriteString(wizardDimStyle.Render("Letters, digits, '-' and '_'. Served at /<name>/."))
	case stepPort:
		b.WriteString(wizardLabelStyle.Render("Backend port"))
		b.WriteString("\n")
		b.WriteString(w.portInput.View())
		b.WriteString("\n")
		b.WriteString(wizardDimStyle.Render("The backend listens on 127.0.0.1 at this port."))
	case stepConfirm:
		b.WriteString(wizardLabelStyle.Render("Confirm"))
		b.WriteString("\n")
		b.WriteString("Name: " + wizardValueStyle.Render(w.selectedName) + "\n")
		b.WriteString("Port: " + wizardValueStyle.Render(strconv.Itoa(w.selectedPort)) + "\n")
		b.WriteString("Route: " + wizardValueStyle.Render("/"+w.selectedName+"/") + "\n\n")
		b.WriteString(wizardDimStyle.Render("[enter/y] Activate  [n] Cancel  [esc] Back"))
	}

	if w.errMsg != "" {
		b.WriteString("\n\n")
		b.WriteString(wizardErrorStyle.Render(w.errMsg))
	}

	return b.String()
}

func (w *wizardModel) progressBar() string {
	labels := []string{"Name", "Port", "Confirm"}
	parts := make([]string, len(labels))
	for i, label := range labels {
		if wizardStep(i) == w.step {
			parts[i] = wizardActiveStepStyle.Render(label)
		} else {
			parts[i] = wizardStepStyle.Render(label)
		}
	}
	return strings.Join(parts, wizardStepStyle.Render(" > "))
}

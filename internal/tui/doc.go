// Package tui provides terminal user interface components for projrouter.
//
// This package uses the Bubble Tea framework for the interactive project
// picker behind "projrouter pick".
//
// # Project Picker
//
//	result, err := tui.RunPicker(entries, suggestedPort)
//	switch result.Action {
//	case tui.ActionInspect:
//	    // Show status of result.Project
//	case tui.ActionActivate:
//	    // Activate result.Activate.Name on result.Activate.Port
//	case tui.ActionDeactivate:
//	    // Deactivate result.Project
//	case tui.ActionQuit:
//	    // Exit
//	}
//
// # Picker Features
//
//   - Lists registered projects with service and port status
//   - Quick actions: Enter (inspect), n (activate form), d (deactivate), q (quit)
//   - Activation form validates the name and port before returning
//
// # Dependencies
//
// Uses the Charm libraries:
//   - github.com/charmbracelet/bubbletea - TUI framework
//   - github.com/charmbracelet/bubbles - UI components
//   - github.com/charmbracelet/lipgloss - Styling
package tui

package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func testEntries() []*Entry {
	return []*Entry{
		{Name: "alpha", Port: 9001, Active: true, Listening: true},
		{Name: "beta", Port: 9002, Active: true},
		{Name: "gamma", Port: 9003},
	}
}

func key(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func TestProjectItemMethods(t *testing.T) {
	item := projectItem{entry: &Entry{Name: "alpha", Port: 9001, Active: true, Listening: true}}

	if got := item.Title(); got != "alpha" {
		t.Errorf("Title() = %q, want %q", got, "alpha")
	}
	if got := item.FilterValue(); got != "alpha" {
		t.Errorf("FilterValue() = %q, want %q", got, "alpha")
	}

	desc := item.Description()
	for _, want := range []string{"✓", "running", "127.0.0.1:9001", "/alpha/"} {
		if !strings.Contains(desc, want) {
			t.Errorf("Description() = %q, should contain %q", desc, want)
		}
	}
}

func TestProjectItemStatusIcons(t *testing.T) {
	tests := []struct {
		entry Entry
		icon  string
		state string
	}{
		{Entry{Active: true, Listening: true}, "✓", "running"},
		{Entry{Active: true}, "⚠", "not listening"},
		{Entry{}, "●", "stopped"},
	}

	for _, tt := range tests {
		t.Run(tt.state, func(t *testing.T) {
			e := tt.entry
			desc := projectItem{entry: &e}.Description()
			if !strings.Contains(desc, tt.icon) || !strings.Contains(desc, tt.state) {
				t.Errorf("Description() = %q, want %q and %q", desc, tt.icon, tt.state)
			}
		})
	}
}

func TestModelKeyHandling(t *testing.T) {
	t.Run("quit with q", func(t *testing.T) {
		m := NewPicker(testEntries(), 9004)
		newModel, cmd := m.Update(key('q'))
		model := newModel.(Model)

		if model.result.Action != ActionQuit {
			t.Errorf("Action = %v, want ActionQuit", model.result.Action)
		}
		if !model.quitting {
			t.Error("Model should be quitting")
		}
		if cmd == nil {
			t.Error("Should return tea.Quit command")
		}
	})

	t.Run("quit with esc", func(t *testing.T) {
		m := NewPicker(testEntries(), 9004)
		newModel, _ := m.Update(tea.KeyMsg{Type: tea.KeyEsc})

		if got := newModel.(Model).result.Action; got != ActionQuit {
			t.Errorf("Action = %v, want ActionQuit", got)
		}
	})

	t.Run("inspect with enter", func(t *testing.T) {
		m := NewPicker(testEntries(), 9004)
		newModel, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
		result := newModel.(Model).Result()

		if result.Action != ActionInspect {
			t.Errorf("Action = %v, want ActionInspect", result.Action)
		}
		if result.Project == nil || result.Project.Name != "alpha" {
			t.Errorf("Project = %+v, want alpha", result.Project)
		}
	})

	t.Run("deactivate with d", func(t *testing.T) {
		m := NewPicker(testEntries(), 9004)
		newModel, _ := m.Update(key('d'))
		result := newModel.(Model).Result()

		if result.Action != ActionDeactivate || result.Project.Name != "alpha" {
			t.Errorf("result = %+v, want deactivate alpha", result)
		}
	})

	t.Run("n opens the activation form", func(t *testing.T) {
		m := NewPicker(testEntries(), 9004)
		newModel, _ := m.Update(key('n'))
		model := newModel.(Model)

		if model.wizard == nil {
			t.Fatal("wizard should be open")
		}
		if !strings.Contains(model.View(), "Activate project") {
			t.Errorf("View should show the form:\n%s", model.View())
		}
	})

	t.Run("window size update", func(t *testing.T) {
		m := NewPicker(testEntries(), 9004)
		newModel, cmd := m.Update(tea.WindowSizeMsg{Width: 100, Height: 50})
		model := newModel.(Model)

		if model.width != 100 || model.height != 50 {
			t.Errorf("size = %dx%d, want 100x50", model.width, model.height)
		}
		if cmd != nil {
			t.Error("Window size update should not return a command")
		}
	})
}

func TestModel_ActivateThroughForm(t *testing.T) {
	var model tea.Model = NewPicker(testEntries(), 9004)

	model, _ = model.Update(key('n'))
	for _, r := range "delta" {
		model, _ = model.Update(key(r))
	}
	model, _ = model.Update(tea.KeyMsg{Type: tea.KeyEnter}) // name
	model, _ = model.Update(tea.KeyMsg{Type: tea.KeyEnter}) // suggested port
	model, cmd := model.Update(tea.KeyMsg{Type: tea.KeyEnter})

	result := model.(Model).Result()
	if result.Action != ActionActivate {
		t.Fatalf("Action = %v, want ActionActivate", result.Action)
	}
	if result.Activate == nil || result.Activate.Name != "delta" || result.Activate.Port != 9004 {
		t.Errorf("Activate = %+v, want delta on 9004", result.Activate)
	}
	if cmd == nil {
		t.Error("Should return tea.Quit command")
	}
}

func TestModel_CancelFormReturnsToList(t *testing.T) {
	var model tea.Model = NewPicker(testEntries(), 9004)

	model, _ = model.Update(key('n'))
	model, _ = model.Update(tea.KeyMsg{Type: tea.KeyEsc})

	m := model.(Model)
	if m.wizard != nil {
		t.Error("wizard should be closed")
	}
	if m.quitting {
		t.Error("cancelling the form should not quit the picker")
	}
}

func TestModelInit(t *testing.T) {
	m := Model{}
	if cmd := m.Init(); cmd != nil {
		t.Error("Init() should return nil")
	}
}

func TestModelView(t *testing.T) {
	t.Run("normal view contains help", func(t *testing.T) {
		view := NewPicker(testEntries(), 0).View()

		for _, want := range []string{"[enter] Inspect", "[n] Activate new", "[d] Deactivate", "[q] Quit"} {
			if !strings.Contains(view, want) {
				t.Errorf("View should contain %q", want)
			}
		}
	})

	t.Run("quitting view is empty", func(t *testing.T) {
		m := NewPicker(testEntries(), 0)
		m.quitting = true

		if view := m.View(); view != "" {
			t.Errorf("Quitting view should be empty, got %q", view)
		}
	})
}

func TestSimplePicker(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		output := SimplePicker(nil)

		if !strings.Contains(output, "No projects registered") {
			t.Error("Should indicate no projects")
		}
		if !strings.Contains(output, "projrouter activate") {
			t.Error("Should show how to activate a project")
		}
	})

	t.Run("with projects", func(t *testing.T) {
		output := SimplePicker(testEntries())

		for _, want := range []string{"alpha", "beta", "gamma", "9002", "not listening"} {
			if !strings.Contains(output, want) {
				t.Errorf("output should contain %q:\n%s", want, output)
			}
		}
	})
}

func TestActionConstants(t *testing.T) {
	actions := []Action{ActionNone, ActionInspect, ActionActivate, ActionDeactivate, ActionQuit}
	seen := make(map[Action]bool)

	for _, a := range actions {
		if seen[a] {
			t.Errorf("Duplicate action value: %v", a)
		}
		seen[a] = true
	}
}

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/firefly-engineering/projrouter/internal/app"
	"github.com/firefly-engineering/projrouter/internal/config"
	"github.com/firefly-engineering/projrouter/internal/logging"
	"github.com/firefly-engineering/projrouter/internal/port"
	"github.com/firefly-engineering/projrouter/internal/registry"
	"github.com/firefly-engineering/projrouter/internal/tui"
)

var pickCmd = &cobra.Command{
	Use:   "pick",
	Short: "Interactive project picker",
	Long: `Opens an interactive TUI for browsing and managing projects.

Use arrow keys or j/k to navigate, / to filter.

Actions:
  Enter  - Show the selected project's status
  n      - Activate a new project (name, port, confirm)
  d      - Deactivate the selected project
  q/Esc  - Quit`,
	Args: cobra.NoArgs,
	RunE: runPick,
}

var pickSimple bool

func init() {
	pickCmd.Flags().BoolVar(&pickSimple, "simple", false, "Print the project list without the interactive UI")
	rootCmd.AddCommand(pickCmd)
}

func runPick(cmd *cobra.Command, args []string) error {
	reg, err := loadRegistry()
	if err != nil {
		return err
	}

	entries := pickerEntries(reg)
	if pickSimple {
		fmt.Fprint(cmd.OutOrStdout(), tui.SimplePicker(entries))
		return nil
	}

	suggested, err := port.Allocate(reg, port.Range{From: port.DefaultFrom, To: port.DefaultTo}, app.Default.Prober)
	if err != nil {
		logging.Debug("no port to suggest", "error", err)
		suggested = 0
	}

	logging.Debug("picker mode started", "projects", len(entries))
	result, err := tui.RunPicker(entries, suggested)
	if err != nil {
		return fmt.Errorf("picker error: %w", err)
	}

	logging.Debug("picker result", "action", result.Action)

	switch result.Action {
	case tui.ActionInspect:
		if result.Project != nil {
			return runStatus(cmd, []string{result.Project.Name})
		}

	case tui.ActionActivate:
		if result.Activate != nil {
			return runActivate(cmd, []string{result.Activate.Name, fmt.Sprint(result.Activate.Port)})
		}

	case tui.ActionDeactivate:
		if result.Project != nil {
			return runDeactivate(cmd, []string{result.Project.Name})
		}

	case tui.ActionQuit, tui.ActionNone:
		// Just exit cleanly
	}

	return nil
}

func pickerEntries(reg *registry.Registry) []*tui.Entry {
	prober := app.Default.Prober
	entries := make([]*tui.Entry, 0, len(reg.Projects))
	for _, name := range reg.Names() {
		p, _ := reg.Port(name)
		entries = append(entries, &tui.Entry{
			Name:      name,
			Port:      p,
			Active:    isActive(name),
			Listening: prober.PortOpen(config.LocalHost, p, config.PortProbeTimeout),
		})
	}
	return entries
}

package cmd

import (
	"github.com/spf13/cobra"

	"github.com/firefly-engineering/projrouter/internal/logging"
)

var deactivateCmd = &cobra.Command{
	Use:   "deactivate <name>",
	Short: "Stop a project's backend and remove its route",
	Long: `Deactivate stops and disables the project's systemd service, removes it
from the registry, regenerates the nginx routes and reloads nginx.

The project's workspace directory, entry point and unit file are left in
place.`,
	Args: cobra.ExactArgs(1),
	RunE: runDeactivate,
}

func init() {
	rootCmd.AddCommand(deactivateCmd)
}

func runDeactivate(cmd *cobra.Command, args []string) error {
	name := args[0]

	r, err := reconciler()
	if err != nil {
		return err
	}

	logging.Debug("deactivating project", "name", name)
	if err := r.Deactivate(cmd.Context(), name); err != nil {
		return err
	}

	logSuccess("Deactivated %s", name)
	return nil
}

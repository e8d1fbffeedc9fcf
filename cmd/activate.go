package cmd

import (
	"github.com/spf13/cobra"

	"github.com/firefly-engineering/projrouter/internal/logging"
)

var activateCmd = &cobra.Command{
	Use:   "activate <name> <port>",
	Short: "Register a project and bring its backend up",
	Long: `Activate registers <name> on <port>, writes its entry point and systemd
unit, starts the service, regenerates the nginx routes and reloads nginx.

The backend is verified on http://127.0.0.1:<port>/health and through
nginx at https://<domain>:<https_port>/<name>/health before returning.

Activating a registered project again re-applies it, moving it to <port>
if that differs from the registered one.`,
	Args: cobra.ExactArgs(2),
	RunE: runActivate,
}

func init() {
	rootCmd.AddCommand(activateCmd)
}

func runActivate(cmd *cobra.Command, args []string) error {
	name := args[0]
	port, err := parsePort(args[1])
	if err != nil {
		return err
	}

	r, err := reconciler()
	if err != nil {
		return err
	}

	logging.Debug("activating project", "name", name, "port", port)
	if err := r.Activate(cmd.Context(), name, port); err != nil {
		return err
	}

	reg, err := loadRegistry()
	if err != nil {
		return err
	}
	logSuccess("Activated %s on 127.0.0.1:%d", name, port)
	logInfo("Reachable at https://%s:%d/%s/", reg.Global.Domain, reg.Global.HTTPSPort, name)
	return nil
}

package cmd

import (
	"github.com/spf13/cobra"
)

var resyncCmd = &cobra.Command{
	Use:   "resync",
	Short: "Regenerate the nginx routes from the registry",
	Long: `Resync rewrites the nginx routes include from the registry, validates the
nginx configuration and reloads nginx. Backends are not touched.

Use it after check reports that the routes file differs from the registry.`,
	Args: cobra.NoArgs,
	RunE: runResync,
}

func init() {
	rootCmd.AddCommand(resyncCmd)
}

func runResync(cmd *cobra.Command, args []string) error {
	r, err := reconciler()
	if err != nil {
		return err
	}
	if err := r.Resync(cmd.Context()); err != nil {
		return err
	}

	logSuccess("Routes regenerated and nginx reloaded")
	return nil
}

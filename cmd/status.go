package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/firefly-engineering/projrouter/internal/errors"
)

var statusCmd = &cobra.Command{
	Use:   "status <name>",
	Short: "Show the health of one project",
	Long: `Status probes a single registered project: its systemd service, its
loopback port, and its health endpoint locally and through nginx.

It exits non-zero when any probe fails.`,
	Args: cobra.ExactArgs(1),
	RunE: runStatus,
}

var statusJSON bool

func init() {
	statusCmd.Flags().BoolVar(&statusJSON, "json", false, "Output status as JSON")
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	name := args[0]

	r, err := reconciler()
	if err != nil {
		return err
	}

	st, problems, err := r.Status(cmd.Context(), name)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if statusJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(st); err != nil {
			return err
		}
	} else {
		fmt.Fprintf(out, "Project:   %s\n", st.Name)
		fmt.Fprintf(out, "Port:      %d\n", st.Port)
		fmt.Fprintf(out, "Service:   %s (%s)\n", st.Service, mark(st.ServiceActive, "active", "inactive"))
		fmt.Fprintf(out, "Listening: %s\n", mark(st.Listening, "yes", "no"))
		if st.Listening {
			fmt.Fprintf(out, "Local:     %s\n", mark(st.LocalHealthy, "ok", "failed"))
			fmt.Fprintf(out, "External:  %s\n", mark(st.ExternalHealthy, "ok", "failed"))
		}
	}

	if len(problems) > 0 {
		return errors.CheckFailed(problems)
	}
	return nil
}

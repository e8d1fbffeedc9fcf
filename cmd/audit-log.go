package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/firefly-engineering/projrouter/internal/app"
	"github.com/firefly-engineering/projrouter/internal/config"
)

var auditLogCmd = &cobra.Command{
	Use:   "audit-log <name>",
	Short: "Display the audit trail for a project",
	Args:  cobra.ExactArgs(1),
	RunE:  runAuditLog,
}

var (
	auditLogJSON  bool
	auditLogClear bool
)

func init() {
	auditLogCmd.Flags().BoolVar(&auditLogJSON, "json", false, "Output events as JSON lines")
	auditLogCmd.Flags().BoolVar(&auditLogClear, "clear", false, "Delete the project's audit trail")
	rootCmd.AddCommand(auditLogCmd)
}

func runAuditLog(cmd *cobra.Command, args []string) error {
	name := args[0]
	if err := config.ValidateProjectName(name); err != nil {
		return err
	}

	auditLogger := app.Default.AuditLogger()

	if auditLogClear {
		if err := auditLogger.Remove(name); err != nil {
			return fmt.Errorf("failed to clear audit log: %w", err)
		}
		logSuccess("Cleared audit log for %s", name)
		return nil
	}

	events, err := auditLogger.Events(name)
	if err != nil {
		return fmt.Errorf("failed to read audit log: %w", err)
	}

	if len(events) == 0 {
		logInfo("No events found for project %s", name)
		return nil
	}

	out := cmd.OutOrStdout()
	for _, e := range events {
		if auditLogJSON {
			data, err := json.Marshal(e)
			if err != nil {
				return fmt.Errorf("failed to marshal event: %w", err)
			}
			fmt.Fprintln(out, string(data))
			continue
		}

		ts := e.Timestamp.Local().Format("2006-01-02 15:04:05")
		if e.Details != "" {
			fmt.Fprintf(out, "[%s] %-10s %s:%d (%s)\n", ts, e.Type, e.Project, e.Port, e.Details)
		} else {
			fmt.Fprintf(out, "[%s] %-10s %s:%d\n", ts, e.Type, e.Project, e.Port)
		}
	}

	return nil
}

package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/firefly-engineering/projrouter/internal/reconcile"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Audit the host against the registry",
	Long: `Check compares the host with the registry without changing anything:
  - nginx -t succeeds and the nginx service is active
  - the routes file matches what the registry renders, byte for byte
  - every project's service is active, its port listens, and its health
    endpoint answers both locally and through nginx

Every discrepancy is reported. The command exits non-zero if any is found.`,
	Args: cobra.NoArgs,
	RunE: runCheck,
}

var checkJSON bool

var (
	okStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	failStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
)

func init() {
	checkCmd.Flags().BoolVar(&checkJSON, "json", false, "Output the report as JSON")
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	r, err := reconciler()
	if err != nil {
		return err
	}

	report, checkErr := r.Check(cmd.Context())
	if report == nil {
		return checkErr
	}

	out := cmd.OutOrStdout()
	if checkJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(report); err != nil {
			return err
		}
		return checkErr
	}

	if err := printReport(out, report); err != nil {
		return err
	}
	if checkErr != nil {
		return checkErr
	}

	logSuccess("All checks passed")
	return nil
}

func printReport(out io.Writer, report *reconcile.CheckReport) error {
	fmt.Fprintf(out, "nginx config:   %s\n", mark(report.ProxyConfigOK, "ok", "invalid"))
	fmt.Fprintf(out, "nginx service:  %s\n", mark(report.ProxyActive, "active", "inactive"))
	fmt.Fprintf(out, "routes file:    %s\n", mark(report.RoutesInSync, "in sync", "out of sync"))

	if len(report.Projects) == 0 {
		fmt.Fprintln(out, "\nNo projects registered.")
		return nil
	}

	fmt.Fprintln(out)
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PROJECT\tPORT\tSERVICE\tLISTENING\tLOCAL\tEXTERNAL")
	fmt.Fprintln(w, "-------\t----\t-------\t---------\t-----\t--------")
	for _, p := range report.Projects {
		fmt.Fprintf(w, "%s\t%d\t%s\t%s\t%s\t%s\n",
			p.Name,
			p.Port,
			word(p.ServiceActive, "active", "inactive"),
			word(p.Listening, "yes", "no"),
			probeWord(p.Listening, p.LocalHealthy),
			probeWord(p.Listening, p.ExternalHealthy),
		)
	}
	return w.Flush()
}

func mark(ok bool, good, bad string) string {
	if ok {
		return okStyle.Render(good)
	}
	return failStyle.Render(bad)
}

func word(ok bool, good, bad string) string {
	if ok {
		return good
	}
	return bad
}

// probeWord renders an HTTP probe result; probes are skipped when the port
// is not listening.
func probeWord(listening, ok bool) string {
	if !listening {
		return "-"
	}
	return word(ok, "ok", "failed")
}

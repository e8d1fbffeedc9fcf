package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/firefly-engineering/projrouter/internal/errors"
	"github.com/firefly-engineering/projrouter/internal/monitor"
	"github.com/firefly-engineering/projrouter/internal/reconcile"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Run check periodically until interrupted",
	Long: `Watch runs check every --interval and prints a one-line summary per round
followed by any discrepancies. With --record, each round is also written
to the audit trail as one check event per project.

Editing the registry or the routes file triggers an extra round at once.

With --auto-restart, projects whose systemd service is not active are
started again.`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

var (
	watchInterval    time.Duration
	watchAutoRestart bool
	watchRecord      bool
)

func init() {
	watchCmd.Flags().DurationVar(&watchInterval, "interval", 30*time.Second, "Time between checks")
	watchCmd.Flags().BoolVar(&watchAutoRestart, "auto-restart", false, "Start projects whose service is not active")
	watchCmd.Flags().BoolVar(&watchRecord, "record", false, "Record every round in the audit trail")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	if watchInterval <= 0 {
		return fmt.Errorf("--interval must be positive")
	}

	r, err := reconciler()
	if err != nil {
		return err
	}

	watched := []string{r.Store.Path}
	if reg, err := r.Store.Load(); err == nil {
		watched = append(watched, reg.Global.RoutesFile)
	}

	ctx, stop := signal.NotifyContext(contextOf(cmd), os.Interrupt, syscall.SIGTERM)
	defer stop()

	out := cmd.OutOrStdout()
	m := monitor.New(watchInterval, r,
		monitor.WithAutoRestart(watchAutoRestart),
		monitor.WithCheckHistory(watchRecord),
		monitor.WithWatchFiles(watched...),
		monitor.WithReporter(func(report *reconcile.CheckReport, err error) {
			ts := time.Now().Format("15:04:05")
			switch {
			case report == nil:
				fmt.Fprintf(out, "[%s] %s %v\n", ts, failStyle.Render("error"), err)
			case report.OK():
				fmt.Fprintf(out, "[%s] %s %d project(s)\n", ts, okStyle.Render("ok"), len(report.Projects))
			default:
				fmt.Fprintf(out, "[%s] %s %d discrepancy(ies)\n", ts, failStyle.Render("drift"), len(report.Discrepancies))
				for _, d := range report.Discrepancies {
					fmt.Fprintf(out, "  - %s\n", d)
				}
			}
		}),
	)

	if err := m.Run(ctx); err != nil && !errors.Is(err, ctx.Err()) {
		return err
	}
	return nil
}

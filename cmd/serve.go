package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/firefly-engineering/projrouter/internal/backend"
	"github.com/firefly-engineering/projrouter/internal/logging"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run a project's placeholder backend",
	Long: `Serve runs the placeholder HTTP backend of one project on
127.0.0.1:<port>. GET /health answers "ok"; every other path answers
"Hello world: <project>".

The generated entry point of every project execs this command; systemd
keeps it running.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

var (
	serveProject string
	servePort    int
)

func init() {
	serveCmd.Flags().StringVar(&serveProject, "project", "", "Project name (required)")
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Loopback port to listen on (required)")
	_ = serveCmd.MarkFlagRequired("project")
	_ = serveCmd.MarkFlagRequired("port")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(contextOf(cmd), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := &backend.Server{
		Project: serveProject,
		Port:    servePort,
		Logger:  logging.With("project", serveProject),
	}
	logging.Debug("starting backend", "project", serveProject, "addr", srv.Addr())
	return srv.Run(ctx)
}

func contextOf(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

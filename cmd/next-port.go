package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/firefly-engineering/projrouter/internal/app"
	"github.com/firefly-engineering/projrouter/internal/port"
)

var nextPortCmd = &cobra.Command{
	Use:   "next-port",
	Short: "Suggest a free loopback port for a new project",
	Long: `Next-port prints the lowest port in the range that no registered project
owns and nothing on 127.0.0.1 is listening on.

Example:
  projrouter activate blog "$(projrouter next-port)"`,
	Args: cobra.NoArgs,
	RunE: runNextPort,
}

var (
	nextPortFrom int
	nextPortTo   int
)

func init() {
	nextPortCmd.Flags().IntVar(&nextPortFrom, "from", port.DefaultFrom, "First port to consider")
	nextPortCmd.Flags().IntVar(&nextPortTo, "to", port.DefaultTo, "Last port to consider")
	rootCmd.AddCommand(nextPortCmd)
}

func runNextPort(cmd *cobra.Command, args []string) error {
	reg, err := loadRegistry()
	if err != nil {
		return err
	}

	p, err := port.Allocate(reg, port.Range{From: nextPortFrom, To: nextPortTo}, app.Default.Prober)
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), p)
	return nil
}

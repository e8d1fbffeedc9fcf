package cmd

import (
	"github.com/spf13/cobra"

	"github.com/firefly-engineering/projrouter/internal/app"
	"github.com/firefly-engineering/projrouter/internal/config"
	"github.com/firefly-engineering/projrouter/internal/logging"
)

var (
	verbose      bool
	jsonLogs     bool
	registryPath string
	unitDir      string
	stateDir     string
	useLock      bool
)

var rootCmd = &cobra.Command{
	Use:   "projrouter",
	Short: "Per-project HTTP backends behind a single nginx",
	Long: `projrouter exposes many small per-project HTTP backends through one
nginx server under path prefixes (https://<domain>/<project>/).

A TOML registry maps project names to loopback ports. From it projrouter
generates the nginx routes include, writes one systemd unit per project,
and audits that the host matches the registry:
  - activate registers a project and brings its backend up
  - deactivate stops a backend and removes its route
  - check reports every drift between registry and host`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logging.Setup(verbose, jsonLogs, cmd.ErrOrStderr())
		logging.Stdout = cmd.OutOrStdout()
		logging.Stderr = cmd.ErrOrStderr()
		applyGlobalFlags(cmd)
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&registryPath, "registry", "", "Registry TOML file (env "+config.RegistryEnv+")")
	rootCmd.PersistentFlags().StringVar(&unitDir, "unit-dir", "", "systemd unit directory (default "+config.DefaultUnitDir+")")
	rootCmd.PersistentFlags().StringVar(&stateDir, "state-dir", "", "State directory for the audit trail (default "+config.DefaultStateDir+")")
	rootCmd.PersistentFlags().BoolVar(&useLock, "lock", false, "Hold an advisory lock on the registry while mutating")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().BoolVar(&jsonLogs, "json-logs", false, "Output logs in JSON format")
	rootCmd.CompletionOptions.DisableDefaultCmd = true
}

// applyGlobalFlags overrides the default app with explicitly given flags.
func applyGlobalFlags(cmd *cobra.Command) {
	a := app.Default
	if registryPath != "" {
		a.RegistryPath = registryPath
	}
	if unitDir != "" {
		a.Paths.UnitDir = unitDir
	}
	if stateDir != "" {
		a.Paths.StateDir = stateDir
	}
	if cmd.Flags().Changed("lock") {
		a.UseLock = useLock
	}
}

// Helper aliases for user-facing output (delegates to logging package)
var (
	logInfo    = logging.UserInfo
	logSuccess = logging.UserSuccess
	logWarning = logging.UserWarning
)

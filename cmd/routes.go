package cmd

import (
	"bytes"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/firefly-engineering/projrouter/internal/errors"
	"github.com/firefly-engineering/projrouter/internal/routes"
)

var routesCmd = &cobra.Command{
	Use:   "routes",
	Short: "Print the nginx routes the registry renders",
	Long: `Routes prints the nginx include generated from the registry to stdout.

With --diff it instead compares the routes file on disk with the rendered
one and lists each route that is missing, extra or pointing at the wrong
port. It exits non-zero when the file differs.`,
	Args: cobra.NoArgs,
	RunE: runRoutes,
}

var routesDiff bool

func init() {
	routesCmd.Flags().BoolVar(&routesDiff, "diff", false, "Compare the routes file on disk with the registry")
	rootCmd.AddCommand(routesCmd)
}

func runRoutes(cmd *cobra.Command, args []string) error {
	reg, err := loadRegistry()
	if err != nil {
		return err
	}

	rendered, err := routes.Render(reg.Projects)
	if err != nil {
		return err
	}

	if !routesDiff {
		_, err := cmd.OutOrStdout().Write(rendered)
		return err
	}

	path := reg.Global.RoutesFile
	actual, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return errors.CheckFailed([]string{"nginx routes file missing: " + path})
	}
	if err != nil {
		return fmt.Errorf("failed to read routes file: %w", err)
	}
	if bytes.Equal(actual, rendered) {
		logSuccess("%s matches the registry", path)
		return nil
	}

	parsed, err := routes.Parse(actual)
	if err != nil {
		return errors.CheckFailed([]string{fmt.Sprintf("%s is not a generated routes file: %v", path, err)})
	}
	diffs := routes.Diff(routes.FromProjects(reg.Projects), parsed)
	if len(diffs) == 0 {
		diffs = []string{path + " differs from the registry outside of its location blocks"}
	}
	return errors.CheckFailed(diffs)
}

package cmd

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/firefly-engineering/projrouter/internal/config"
	"github.com/firefly-engineering/projrouter/internal/routes"
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List registered projects",
	Long: `List shows every project in the registry with its port, systemd service
and route prefix.

Examples:
  projrouter list                 # Table
  projrouter list --output json   # JSON for piping
  projrouter list --output yaml   # YAML`,
	Args: cobra.NoArgs,
	RunE: runList,
}

var listOutput string

// projectInfo is one row of list output.
type projectInfo struct {
	Name    string `json:"name" yaml:"name"`
	Port    int    `json:"port" yaml:"port"`
	Service string `json:"service" yaml:"service"`
	Active  bool   `json:"active" yaml:"active"`
	Route   string `json:"route" yaml:"route"`
}

func init() {
	listCmd.Flags().StringVarP(&listOutput, "output", "o", "table", "Output format: table, json or yaml")
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	switch listOutput {
	case "table", "json", "yaml":
	default:
		return fmt.Errorf("unknown output format %q (want table, json or yaml)", listOutput)
	}

	reg, err := loadRegistry()
	if err != nil {
		return err
	}

	infos := make([]projectInfo, 0, len(reg.Projects))
	for _, route := range routes.FromProjects(reg.Projects) {
		infos = append(infos, projectInfo{
			Name:    route.Name,
			Port:    route.Port,
			Service: config.ServiceName(route.Name),
			Active:  isActive(route.Name),
			Route:   route.Prefix(),
		})
	}

	out := cmd.OutOrStdout()
	switch listOutput {
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(infos)
	case "yaml":
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		if err := enc.Encode(infos); err != nil {
			return err
		}
		return enc.Close()
	}

	if len(infos) == 0 {
		logInfo("No projects registered")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tPORT\tSERVICE\tSTATUS\tROUTE")
	fmt.Fprintln(w, "----\t----\t-------\t------\t-----")
	for _, info := range infos {
		fmt.Fprintf(w, "%s\t%d\t%s\t%s\t%s\n",
			info.Name,
			info.Port,
			info.Service,
			word(info.Active, "active", "inactive"),
			info.Route,
		)
	}
	return w.Flush()
}

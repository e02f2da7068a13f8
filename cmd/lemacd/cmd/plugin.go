package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/go-lemac/lemacd/internal/plugins"
)

// pluginCmd represents the plugin command.
var pluginCmd = &cobra.Command{
	Use:   "plugin",
	Short: "Algorithm plugin management commands",
	Long:  `Commands for inspecting WASM algorithm plugins.`,
}

// pluginListCmd lists the algorithm plugins loaded from the configured
// plugin directory.
var pluginListCmd = &cobra.Command{
	Use:   "list",
	Short: "List loaded algorithm plugins",
	Long:  `List all WASM algorithm plugins found in the configured plugin directory.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		log.Logger = log.Logger.Level(zerolog.Disabled)

		pm := plugins.NewPluginManager(cmd.Context())
		defer pm.Close()

		if err := pm.LoadAll(cfg.Plugin.Path); err != nil {
			return fmt.Errorf("failed to load plugins: %w", err)
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "Algorithm\tVersion\tDescription\tAuthor")
		fmt.Fprintln(w, "---------\t-------\t-----------\t------")

		for _, name := range pm.ListPlugins() {
			version, description, author := pm.GetPluginMetadata(name)
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", name, version, description, author)
		}

		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(pluginCmd)
	pluginCmd.AddCommand(pluginListCmd)
}

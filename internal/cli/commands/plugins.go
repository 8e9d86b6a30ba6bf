package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/deckport/internal/cli/plugins"
)

// NewPluginsCommand creates the plugins command.
func NewPluginsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "plugins",
		Short: "List installed plugins",
		Long: `List deckport-<command> binaries that "deckport <command>" would run.

Plugins are found next to the deckport binary, in the plugin directory
($` + plugins.EnvPluginDir + ` or ~/.deckport/plugins), and on PATH.`,
		Args: cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			w := cmd.OutOrStdout()
			found := plugins.List()
			if len(found) == 0 {
				fmt.Fprintln(w, "No plugins installed.")
				return
			}
			for _, p := range found {
				fmt.Fprintf(w, "%-16s %s\n", p.Command, p.Path)
			}
		},
	}
}

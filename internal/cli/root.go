// Package cli provides the command-line interface for deckport.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/deckport/internal/cli/commands"
	"github.com/ccollicutt/deckport/internal/cli/plugins"
)

// Execute runs the root command with the process arguments and returns
// the exit code.
func Execute() int {
	return run(context.Background(), os.Args[1:], os.Stdout, os.Stderr)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	rootCmd := NewRootCommand()
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	// An unknown first word may name a plugin binary.
	unknown := len(args) > 0 && args[0] != "" && args[0][0] != '-' && !isBuiltinCommand(rootCmd, args[0])
	if unknown {
		if pluginPath, err := plugins.FindPlugin(args[0]); err == nil {
			return plugins.Execute(ctx, pluginPath, args[1:])
		}
	}

	rootCmd.SetArgs(args)
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		if unknown {
			_, _ = fmt.Fprintln(stderr, plugins.FormatNotFoundError(args[0]))
			return 2
		}
		// SilenceErrors prevents Cobra from printing this itself.
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}
	return commands.ExitCode
}

// isBuiltinCommand checks if a command name is a built-in cobra command.
func isBuiltinCommand(rootCmd *cobra.Command, name string) bool {
	for _, cmd := range rootCmd.Commands() {
		if cmd.Name() == name || cmd.HasAlias(name) {
			return true
		}
	}
	return name == "help" || name == "completion"
}

// NewRootCommand creates the root cobra command.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "deckport",
		Short: "Import and export trading-card deck lists",
		Long: `deckport imports plain-text deck lists against a card catalog and exports
decks back to text that imports cleanly.

Accepted line formats:
  3 x 1-001L             count, x, card id, optional name
  3 Auron (1-001L)       count, name, card id in parentheses

Untrusted input is sanitized, card ids are matched against the catalog
tolerating case and separator differences, and bad lines are reported
without failing the whole import.

PLUGINS:
  Unknown commands run a deckport-<command> binary when one is installed.
  Plugin locations (searched in order):
    1. Same directory as the deckport binary
    2. $DECKPORT_PLUGIN_DIR, or ~/.deckport/plugins/
    3. Anywhere in PATH`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(commands.NewImportCommand())
	rootCmd.AddCommand(commands.NewExportCommand())
	rootCmd.AddCommand(commands.NewDetectCommand())
	rootCmd.AddCommand(commands.NewValidateCommand())
	rootCmd.AddCommand(commands.NewServeCommand())
	rootCmd.AddCommand(commands.NewMCPCommand())
	rootCmd.AddCommand(commands.NewPluginsCommand())
	rootCmd.AddCommand(commands.NewVersionCommand())

	return rootCmd
}

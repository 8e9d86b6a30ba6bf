package commands

import (
	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	"github.com/ccollicutt/deckport/internal/mcp"
)

// MCPOptions holds command-line options for the mcp command.
type MCPOptions struct {
	ConfigOptions
}

// NewMCPCommand creates the mcp command.
func NewMCPCommand() *cobra.Command {
	opts := &MCPOptions{}

	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Serve deck tools over MCP on stdio",
		Long: `Run an MCP server on stdin/stdout exposing deck tools:

  import_deck   import deck text, optionally saving it
  export_deck   export a stored deck or a list of card ids
  lookup_card   look up a card by id
  list_decks    list stored decks

Logs are written to stderr.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMCP(cmd, opts)
		},
	}

	addConfigFlags(cmd, &opts.ConfigOptions)

	return cmd
}

func runMCP(cmd *cobra.Command, opts *MCPOptions) error {
	env, err := setup(cmd, &opts.ConfigOptions)
	if err != nil {
		return err
	}
	defer func() { _ = env.logger.Sync() }()

	st, err := env.openStore(commandContext(cmd))
	if err != nil {
		return err
	}
	defer st.Close()

	tools := mcp.NewTools(env.parser, env.catalog, st, env.logger.Named("mcp"))
	return server.ServeStdio(mcp.NewServer(Version, tools))
}

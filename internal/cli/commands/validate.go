package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/deckport/pkg/catalog"
	"github.com/ccollicutt/deckport/pkg/config"
)

// NewValidateCommand creates the validate command.
func NewValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <config-file>",
		Short: "Validate a configuration file and its catalog",
		Long: `Validate a deckport configuration file without importing anything.

Checks:
  - YAML syntax
  - Limits (deck size, copies, input caps)
  - Log, server and store settings
  - Webhook URLs and triggers
  - The card catalog loads without duplicate or empty ids`,
		Args: cobra.ExactArgs(1),
		RunE: runValidate,
	}
}

func runValidate(cmd *cobra.Command, args []string) error {
	configPath := args[0]
	ctx := commandContext(cmd)
	w := cmd.OutOrStdout()

	fmt.Fprintf(w, "Validating %s...\n", configPath)

	cfg, err := config.Load(ctx, configPath)
	if err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}
	if cfg.Catalog == "" {
		return fmt.Errorf("validation failed: %w", errNoCatalog)
	}

	cat, err := catalog.LoadFile(ctx, cfg.Catalog)
	if err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	printConfigSummary(w, cfg, cat.Len())
	return nil
}

func printConfigSummary(w io.Writer, cfg *config.Config, cards int) {
	l := cfg.Limits
	fmt.Fprintf(w, "\nConfiguration valid!\n")
	fmt.Fprintf(w, "  Catalog:  %s (%d cards)\n", cfg.Catalog, cards)
	fmt.Fprintf(w, "  Limits:   %d cards per deck, %d copies per card\n", l.MaxDeckSize, l.MaxCopies)
	fmt.Fprintf(w, "  Input:    %d characters, %d lines\n", l.MaxInputChars, l.MaxInputLines)

	switch cfg.Store.Driver {
	case config.StoreDriverPostgres:
		fmt.Fprintf(w, "  Store:    postgres\n")
	default:
		fmt.Fprintf(w, "  Store:    file %s\n", cfg.Store.Path)
	}
	fmt.Fprintf(w, "  Server:   %s\n", cfg.Server.Addr)

	if len(cfg.Webhooks) == 0 {
		return
	}
	fmt.Fprintf(w, "\nWebhooks:\n")
	for i, wh := range cfg.Webhooks {
		name := wh.Name
		if name == "" {
			name = wh.URL
		}
		fmt.Fprintf(w, "  %d. %s [%s]\n", i+1, name, wh.Trigger)
	}
}

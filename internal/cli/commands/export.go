package commands

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/deckport/pkg/decklist"
	"github.com/ccollicutt/deckport/pkg/store"
)

// ExportOptions holds command-line options for the export command.
type ExportOptions struct {
	ConfigOptions

	Cards []string
	File  string
}

// NewExportCommand creates the export command.
func NewExportCommand() *cobra.Command {
	opts := &ExportOptions{}

	cmd := &cobra.Command{
		Use:   "export [deck-name]",
		Short: "Print a deck as deck-list text",
		Long: `Export a deck as deck-list text that "deckport import" reads back.

With a deck name, the deck is loaded from the deck store. With --cards, the
given card ids are resolved against the catalog and exported under the
optional deck name.`,
		Example: `  deckport export -c deckport.yaml "Fire Rush"
  deckport export --catalog cards.yaml --cards 1-001L,1-001L,21-002R "Fire Rush"`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(cmd, args, opts)
		},
	}

	addConfigFlags(cmd, &opts.ConfigOptions)
	cmd.Flags().StringSliceVar(&opts.Cards, "cards", nil, "Card ids to export instead of a stored deck (can be repeated)")
	cmd.Flags().StringVarP(&opts.File, "file", "f", "", "Write the deck to a file instead of stdout")

	return cmd
}

func runExport(cmd *cobra.Command, args []string, opts *ExportOptions) error {
	ctx := commandContext(cmd)

	var name string
	if len(args) == 1 {
		name = args[0]
	}
	if name == "" && len(opts.Cards) == 0 {
		return errors.New("a deck name or --cards is required")
	}

	env, err := setup(cmd, &opts.ConfigOptions)
	if err != nil {
		return err
	}
	defer func() { _ = env.logger.Sync() }()

	var ids []string
	if len(opts.Cards) > 0 {
		resolved, unresolved := env.parser.ResolveIDs(opts.Cards)
		if len(unresolved) > 0 {
			return fmt.Errorf("unknown card ids: %s", strings.Join(unresolved, ", "))
		}
		ids = resolved
	} else {
		st, err := env.openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		deck, err := st.Load(ctx, name)
		if errors.Is(err, store.ErrDeckNotFound) {
			return fmt.Errorf("deck %q not found", name)
		}
		if err != nil {
			return fmt.Errorf("loading deck: %w", err)
		}
		name, ids = deck.Name, deck.CardIDs
	}

	serializer := decklist.NewSerializer()
	serializer.MaxCopies = env.parser.Limits().MaxCopies
	text := serializer.Serialize(name, ids)

	if opts.File != "" {
		// #nosec G306 - deck lists are not sensitive
		if err := os.WriteFile(opts.File, []byte(text), 0644); err != nil {
			return fmt.Errorf("writing deck file: %w", err)
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %d cards to %s\n", len(ids), opts.File)
		return nil
	}

	_, err = fmt.Fprint(cmd.OutOrStdout(), text)
	return err
}

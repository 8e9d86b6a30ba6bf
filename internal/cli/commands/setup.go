package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ccollicutt/deckport/internal/logging"
	"github.com/ccollicutt/deckport/pkg/catalog"
	"github.com/ccollicutt/deckport/pkg/config"
	"github.com/ccollicutt/deckport/pkg/decklist"
	"github.com/ccollicutt/deckport/pkg/store"
)

// ExitCode is set by commands to indicate the result
var ExitCode = 0

// errNoCatalog is returned when neither config, flag nor environment names a catalog.
var errNoCatalog = errors.New("no catalog configured (set catalog in the config file, --catalog, or " + config.EnvCatalog + ")")

// ConfigOptions are the flags shared by every command that needs a catalog.
type ConfigOptions struct {
	ConfigPath string
	Catalog    string
}

func addConfigFlags(cmd *cobra.Command, opts *ConfigOptions) {
	cmd.Flags().StringVarP(&opts.ConfigPath, "config", "c", "", "Configuration file (defaults apply when omitted)")
	cmd.Flags().StringVar(&opts.Catalog, "catalog", "", "Card catalog YAML file (overrides config)")
}

// runtimeEnv holds what a command needs to import and export decks.
type runtimeEnv struct {
	cfg     *config.Config
	logger  *zap.Logger
	catalog *catalog.MemoryCatalog
	parser  *decklist.Parser
}

// setup loads configuration, builds the logger on the command's stderr,
// loads the catalog and creates the parser.
func setup(cmd *cobra.Command, opts *ConfigOptions) (*runtimeEnv, error) {
	ctx := commandContext(cmd)

	cfg, err := config.LoadOrDefault(ctx, opts.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if opts.Catalog != "" {
		cfg.Catalog = opts.Catalog
	}
	if cfg.Catalog == "" {
		return nil, errNoCatalog
	}

	logger, err := logging.New(cfg.Log.Level, cfg.Log.Format, cmd.ErrOrStderr())
	if err != nil {
		return nil, fmt.Errorf("creating logger: %w", err)
	}

	cat, err := catalog.LoadFile(ctx, cfg.Catalog)
	if err != nil {
		return nil, fmt.Errorf("loading catalog: %w", err)
	}
	logger.Debug("catalog loaded", zap.String("path", cfg.Catalog), zap.Int("cards", cat.Len()))

	parser := decklist.NewParser(cat.LookupFunc(),
		decklist.WithLimits(cfg.Limits.Limits()),
		decklist.WithLogger(logger.Named("decklist")),
	)

	return &runtimeEnv{cfg: cfg, logger: logger, catalog: cat, parser: parser}, nil
}

// openStore opens the configured deck store.
func (e *runtimeEnv) openStore(ctx context.Context) (store.Store, error) {
	st, err := store.Open(ctx, e.cfg.Store)
	if err != nil {
		return nil, fmt.Errorf("opening deck store: %w", err)
	}
	return st, nil
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ccollicutt/deckport/internal/web"
	"github.com/ccollicutt/deckport/pkg/webhook"
)

// shutdownTimeout bounds how long in-flight requests get after a signal.
const shutdownTimeout = 10 * time.Second

// ServeOptions holds command-line options for the serve command.
type ServeOptions struct {
	ConfigOptions

	Addr string
}

// NewServeCommand creates the serve command.
func NewServeCommand() *cobra.Command {
	opts := &ServeOptions{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the deck import/export HTTP API",
		Long: `Serve the deck import/export HTTP API until interrupted.

Routes:
  GET    /healthz
  POST   /api/import          import deck text, optionally saving it
  POST   /api/export          export card ids as deck text
  GET    /api/cards[/{id}]    browse the catalog
  GET    /api/decks           list stored decks
  GET    /api/decks/{name}    export a stored deck (?format=json for ids)
  PUT    /api/decks/{name}    import deck text and store it
  DELETE /api/decks/{name}    delete a stored deck`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, opts)
		},
	}

	addConfigFlags(cmd, &opts.ConfigOptions)
	cmd.Flags().StringVar(&opts.Addr, "addr", "", "Listen address (overrides config)")

	return cmd
}

func runServe(cmd *cobra.Command, opts *ServeOptions) error {
	ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt, syscall.SIGTERM)
	defer stop()

	env, err := setup(cmd, &opts.ConfigOptions)
	if err != nil {
		return err
	}
	defer func() { _ = env.logger.Sync() }()

	if opts.Addr != "" {
		env.cfg.Server.Addr = opts.Addr
	}

	st, err := env.openStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close()

	srv := web.NewServer(env.cfg.Server, web.Deps{
		Parser:   env.parser,
		Catalog:  env.catalog,
		Store:    st,
		Notifier: webhook.NewNotifier(env.cfg.Webhooks, env.logger.Named("webhook")),
		Logger:   env.logger.Named("http"),
	})

	errCh := make(chan error, 1)
	go func() {
		env.logger.Info("serving decks",
			zap.Int("catalog_cards", env.catalog.Len()),
			zap.String("store", string(env.cfg.Store.Driver)))
		errCh <- srv.Start()
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	env.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("shutdown: %w", err)
	}
	return <-errCh
}

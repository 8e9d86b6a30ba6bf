package commands

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ccollicutt/deckport/pkg/config"
	"github.com/ccollicutt/deckport/pkg/output"
	"github.com/ccollicutt/deckport/pkg/source"
	"github.com/ccollicutt/deckport/pkg/store"
	"github.com/ccollicutt/deckport/pkg/webhook"
)

// ImportOptions holds command-line options for the import command.
type ImportOptions struct {
	ConfigOptions

	Output  string
	Verbose bool
	Quiet   bool
	Name    string
	Save    bool

	// Webhook options
	WebhookURL     string
	WebhookToken   string
	WebhookTrigger string
}

// NewImportCommand creates the import command.
func NewImportCommand() *cobra.Command {
	opts := &ImportOptions{}

	cmd := &cobra.Command{
		Use:   "import <deck-file|-> [deck-file...]",
		Short: "Import deck lists and report the result",
		Long: `Import one or more deck-list files against the card catalog.

Each line is either "<count> x <card-id> [name]" or "<count> <name> (<card-id>)".
Blank lines and lines starting with // or # are ignored. Use - to read stdin.
Deck-file arguments may be glob patterns.

Exit codes:
  0 - Every deck imported cleanly
  1 - Some lines were skipped, or an import failed
  2 - Configuration or runtime error`,
		Example: `  deckport import --catalog cards.yaml deck.txt
  deckport import -c deckport.yaml 'decks/*.txt'
  cat deck.txt | deckport import -c deckport.yaml --save --name "Fire Rush" -`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(cmd, args, opts)
		},
	}

	addConfigFlags(cmd, &opts.ConfigOptions)
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "text", "Output format (text|json)")
	cmd.Flags().BoolVarP(&opts.Verbose, "verbose", "v", false, "Show every warning and import metadata")
	cmd.Flags().BoolVarP(&opts.Quiet, "quiet", "q", false, "Summary only, no details")
	cmd.Flags().StringVar(&opts.Name, "name", "", "Deck name (defaults to the file name)")
	cmd.Flags().BoolVar(&opts.Save, "save", false, "Save successfully imported decks to the deck store")

	// Webhook flags
	cmd.Flags().StringVar(&opts.WebhookURL, "webhook-url", "", "Webhook endpoint URL")
	cmd.Flags().StringVar(&opts.WebhookToken, "webhook-token", "", "Bearer token for webhook auth")
	cmd.Flags().StringVar(&opts.WebhookTrigger, "webhook-trigger", "on_issues", "When to fire webhook (on_issues|always|never)")

	return cmd
}

func runImport(cmd *cobra.Command, args []string, opts *ImportOptions) error {
	ctx := commandContext(cmd)

	files, err := source.ExpandGlobs(args)
	if err != nil {
		return fmt.Errorf("expanding deck files: %w", err)
	}
	switch config.WebhookTrigger(opts.WebhookTrigger) {
	case config.WebhookTriggerOnIssues, config.WebhookTriggerAlways, config.WebhookTriggerNever, "":
	default:
		return fmt.Errorf("invalid --webhook-trigger %q (must be on_issues, always, or never)", opts.WebhookTrigger)
	}
	if opts.Name != "" && len(files) > 1 {
		return fmt.Errorf("--name requires a single deck file, got %d", len(files))
	}

	formatter, err := output.NewFormatter(opts.Output, output.FormatOptions{
		Verbose: opts.Verbose,
		Quiet:   opts.Quiet,
	})
	if err != nil {
		return err
	}

	env, err := setup(cmd, &opts.ConfigOptions)
	if err != nil {
		return err
	}
	defer func() { _ = env.logger.Sync() }()

	var st store.Store
	if opts.Save {
		if st, err = env.openStore(ctx); err != nil {
			return err
		}
		defer st.Close()
	}

	notifier := webhook.NewNotifier(collectWebhooks(env.cfg, opts), env.logger.Named("webhook"))
	limits := env.parser.Limits()

	for _, file := range files {
		text, err := source.Read(file, cmd.InOrStdin(), limits.MaxInputChars)
		if err != nil {
			return err
		}

		name := deckName(file, opts.Name)
		start := time.Now()
		result, _ := env.parser.Parse(text)
		report := output.NewReport(result, source.DisplayName(file), name, start, time.Now())

		if err := formatter.Format(ctx, report, cmd.OutOrStdout()); err != nil {
			return fmt.Errorf("formatting output: %w", err)
		}

		if st != nil && !result.Fatal {
			if err := st.Save(ctx, name, result.CardIDs); err != nil {
				return fmt.Errorf("saving deck %q: %w", name, err)
			}
			env.logger.Info("deck saved", zap.String("deck", name), zap.Int("cards", len(result.CardIDs)))
		}

		// Webhook failures are logged and never fail the import.
		notifier.Notify(ctx, report)

		if report.HasIssues() {
			ExitCode = 1
		}
	}

	return nil
}

// deckName returns the explicit name, or the file name without extension.
func deckName(file, explicit string) string {
	if explicit != "" {
		return explicit
	}
	if file == source.Stdin {
		return "stdin"
	}
	base := filepath.Base(file)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// collectWebhooks merges config file webhooks with the CLI webhook.
func collectWebhooks(cfg *config.Config, opts *ImportOptions) []config.WebhookConfig {
	webhooks := make([]config.WebhookConfig, 0, len(cfg.Webhooks)+1)
	webhooks = append(webhooks, cfg.Webhooks...)

	if opts.WebhookURL != "" {
		trigger := config.WebhookTrigger(opts.WebhookTrigger)
		if trigger == "" {
			trigger = config.WebhookTriggerOnIssues
		}
		webhooks = append(webhooks, config.WebhookConfig{
			Name:    "cli",
			URL:     opts.WebhookURL,
			Token:   opts.WebhookToken,
			Trigger: trigger,
			Timeout: config.DefaultWebhookTimeout,
		})
	}

	return webhooks
}

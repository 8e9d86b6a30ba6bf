// Package mcp exposes deck import and export as MCP tools.
package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/ccollicutt/deckport/pkg/catalog"
	"github.com/ccollicutt/deckport/pkg/decklist"
	"github.com/ccollicutt/deckport/pkg/output"
	"github.com/ccollicutt/deckport/pkg/store"
)

// ServerName is the MCP server name reported to clients.
const ServerName = "deckport"

// Tools holds the state shared by every tool handler.
type Tools struct {
	parser     *decklist.Parser
	catalog    catalog.Catalog
	store      store.Store
	serializer *decklist.Serializer
	logger     *zap.Logger
}

// NewTools creates the tool set. st may be nil, in which case deck
// storage tools report an error.
func NewTools(parser *decklist.Parser, cat catalog.Catalog, st store.Store, logger *zap.Logger) *Tools {
	if logger == nil {
		logger = zap.NewNop()
	}
	serializer := decklist.NewSerializer()
	if parser != nil {
		serializer.MaxCopies = parser.Limits().MaxCopies
	}
	return &Tools{
		parser:     parser,
		catalog:    cat,
		store:      st,
		serializer: serializer,
		logger:     logger,
	}
}

// NewServer creates an MCP server with every tool registered.
func NewServer(version string, t *Tools) *server.MCPServer {
	s := server.NewMCPServer(ServerName, version)
	t.Register(s)
	return s
}

// Register adds all deck tools to the MCP server.
func (t *Tools) Register(s *server.MCPServer) {
	s.AddTool(importDeckTool(), t.handleImportDeck)
	s.AddTool(exportDeckTool(), t.handleExportDeck)
	s.AddTool(lookupCardTool(), t.handleLookupCard)
	s.AddTool(listDecksTool(), t.handleListDecks)
}

// --- Tool definitions ---

func importDeckTool() mcp.Tool {
	return mcp.NewTool("import_deck",
		mcp.WithDescription("Import deck-list text such as '3 x 1-001L' or '2 Edgar (21-002R)', one card per line. "+
			"Returns the resolved card ids and any skipped lines. Fails when no card resolves or the deck is too large."),
		mcp.WithString("text", mcp.Required(), mcp.Description("Deck-list text, one card line per line")),
		mcp.WithString("name", mcp.Description("Optional deck name")),
		mcp.WithBoolean("save", mcp.Description("Store the deck under name when the import succeeds")),
	)
}

func exportDeckTool() mcp.Tool {
	return mcp.NewTool("export_deck",
		mcp.WithDescription("Render a deck as canonical deck-list text. Pass card ids, or only a name to export a stored deck."),
		mcp.WithString("name", mcp.Description("Deck name for the export header, or the stored deck to export")),
		mcp.WithString("cards", mcp.Description("Comma or space separated card ids, one entry per copy (e.g. '1-001L 1-001L 21-002R')")),
	)
}

func lookupCardTool() mcp.Tool {
	return mcp.NewTool("lookup_card",
		mcp.WithDescription("Look up a card by id. Case and '-'/'_' differences are tolerated."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Card id, e.g. 1-001L")),
	)
}

func listDecksTool() mcp.Tool {
	return mcp.NewTool("list_decks",
		mcp.WithDescription("List stored decks with their card counts. Read-only."),
	)
}

// --- Tool handlers ---

func (t *Tools) handleImportDeck(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text := request.GetString("text", "")
	name := request.GetString("name", "")
	save := request.GetBool("save", false)

	if save && t.store == nil {
		return mcp.NewToolResultError("No deck store is configured."), nil
	}
	if save && strings.TrimSpace(name) == "" {
		return mcp.NewToolResultError("name is required when save is true"), nil
	}

	start := time.Now()
	result, _ := t.parser.Parse(text)
	report := output.NewReport(result, "mcp", name, start, time.Now())

	t.logger.Info("import",
		zap.Stringer("import_id", report.Metadata.ImportID),
		zap.Int("cards", report.Summary.CardsResolved),
		zap.Bool("fatal", report.Summary.Fatal))

	if result.Fatal {
		return mcp.NewToolResultError(result.Message()), nil
	}

	if save {
		if err := t.store.Save(ctx, name, result.CardIDs); err != nil {
			return mcp.NewToolResultErrorf("Failed to save deck: %v", err), nil
		}
	}

	return mcp.NewToolResultText(respondJSON(report)), nil
}

func (t *Tools) handleExportDeck(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name := request.GetString("name", "")
	cards := splitIDs(request.GetString("cards", ""))

	if len(cards) == 0 && name != "" {
		if t.store == nil {
			return mcp.NewToolResultError("No deck store is configured; pass cards instead."), nil
		}
		deck, err := t.store.Load(ctx, name)
		if errors.Is(err, store.ErrDeckNotFound) {
			return mcp.NewToolResultErrorf("Deck %q not found.", decklist.DeckName(name)), nil
		}
		if err != nil {
			return mcp.NewToolResultErrorf("Failed to load deck: %v", err), nil
		}
		return mcp.NewToolResultText(t.serializer.Serialize(deck.Name, deck.CardIDs)), nil
	}

	ids, unresolved := t.parser.ResolveIDs(cards)
	if len(unresolved) > 0 {
		return mcp.NewToolResultErrorf("Unknown card ids: %s", strings.Join(unresolved, ", ")), nil
	}

	return mcp.NewToolResultText(t.serializer.Serialize(name, ids)), nil
}

func (t *Tools) handleLookupCard(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, ok := t.parser.ResolveID(request.GetString("id", ""))
	if !ok {
		return mcp.NewToolResultError("Card not found."), nil
	}
	card, ok := t.catalog.Lookup(id)
	if !ok {
		return mcp.NewToolResultErrorf("Card %q not found.", id), nil
	}

	return mcp.NewToolResultText(respondJSON(card)), nil
}

func (t *Tools) handleListDecks(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if t.store == nil {
		return mcp.NewToolResultError("No deck store is configured."), nil
	}

	decks, err := t.store.List(ctx)
	if err != nil {
		return mcp.NewToolResultErrorf("Failed to list decks: %v", err), nil
	}
	return mcp.NewToolResultText(respondJSON(decks)), nil
}

// splitIDs splits a comma or whitespace separated id list.
func splitIDs(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n' || r == '\r'
	})
}

func respondJSON(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf(`{"error": "marshal error: %v"}`, err)
	}
	return string(data)
}

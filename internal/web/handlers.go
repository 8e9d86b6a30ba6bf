package web

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/ccollicutt/deckport/pkg/output"
	"github.com/ccollicutt/deckport/pkg/store"
)

// importRequest is the body of POST /api/import.
type importRequest struct {
	Name string `json:"name"`
	Text string `json:"text"`

	// Save stores the deck under Name when the import succeeds.
	Save bool `json:"save"`
}

// exportRequest is the body of POST /api/export.
type exportRequest struct {
	Name  string   `json:"name"`
	Cards []string `json:"cards"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	cards := 0
	if s.deps.Catalog != nil {
		cards = s.deps.Catalog.Len()
	}
	s.writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"cards":  cards,
		"store":  s.deps.Store != nil,
	})
}

func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	var req importRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}
	if req.Save && s.deps.Store == nil {
		s.respondError(w, r, http.StatusServiceUnavailable, "deck store not configured", nil)
		return
	}

	report := s.runImport(r.Context(), "api", req.Name, req.Text)
	if report.Summary.Fatal {
		s.writeJSON(w, http.StatusUnprocessableEntity, report)
		return
	}

	if req.Save {
		if err := s.deps.Store.Save(r.Context(), req.Name, report.Result.CardIDs); err != nil {
			s.storeError(w, r, err)
			return
		}
	}

	s.writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	var req exportRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}

	ids, unresolved := s.deps.Parser.ResolveIDs(req.Cards)
	if len(unresolved) > 0 {
		s.writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   fmt.Sprintf("%d unknown card(s)", len(unresolved)),
			Details: unresolved,
		})
		return
	}

	s.writeText(w, http.StatusOK, s.serializer.Serialize(req.Name, ids))
}

func (s *Server) handleListCards(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.deps.Catalog.Cards())
}

func (s *Server) handleGetCard(w http.ResponseWriter, r *http.Request) {
	id, ok := s.deps.Parser.ResolveID(pathParam(r, "id"))
	if !ok {
		s.respondError(w, r, http.StatusNotFound, "card not found", nil)
		return
	}

	card, ok := s.deps.Catalog.Lookup(id)
	if !ok {
		s.respondError(w, r, http.StatusNotFound, "card not found", nil)
		return
	}
	s.writeJSON(w, http.StatusOK, card)
}

func (s *Server) handleListDecks(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w, r) {
		return
	}

	decks, err := s.deps.Store.List(r.Context())
	if err != nil {
		s.storeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, decks)
}

// handleGetDeck exports a stored deck as text, or as JSON with ?format=json.
func (s *Server) handleGetDeck(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w, r) {
		return
	}

	deck, err := s.deps.Store.Load(r.Context(), pathParam(r, "name"))
	if err != nil {
		s.storeError(w, r, err)
		return
	}

	if r.URL.Query().Get("format") == "json" {
		s.writeJSON(w, http.StatusOK, deck)
		return
	}
	s.writeText(w, http.StatusOK, s.serializer.Serialize(deck.Name, deck.CardIDs))
}

// handlePutDeck imports the deck text in the request body and stores it.
func (s *Server) handlePutDeck(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w, r) {
		return
	}

	name := pathParam(r, "name")
	if strings.TrimSpace(name) == "" {
		s.respondError(w, r, http.StatusBadRequest, "deck name is required", nil)
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		s.bodyError(w, r, err)
		return
	}

	report := s.runImport(r.Context(), "api", name, string(body))
	if report.Summary.Fatal {
		s.writeJSON(w, http.StatusUnprocessableEntity, report)
		return
	}

	if err := s.deps.Store.Save(r.Context(), name, report.Result.CardIDs); err != nil {
		s.storeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleDeleteDeck(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w, r) {
		return
	}

	if err := s.deps.Store.Delete(r.Context(), pathParam(r, "name")); err != nil {
		s.storeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// runImport parses text and reports the result to the notifier.
func (s *Server) runImport(ctx context.Context, source, name, text string) *output.Report {
	start := time.Now()
	result, _ := s.deps.Parser.Parse(text)
	report := output.NewReport(result, source, name, start, time.Now())

	s.logger.Info("import",
		zap.Stringer("import_id", report.Metadata.ImportID),
		zap.Int("cards", report.Summary.CardsResolved),
		zap.Int("warnings", report.Summary.Warnings),
		zap.Bool("fatal", report.Summary.Fatal))

	if s.deps.Notifier != nil {
		go s.deps.Notifier.Notify(context.WithoutCancel(ctx), report)
	}
	return report
}

func (s *Server) decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		s.bodyError(w, r, err)
		return false
	}
	return true
}

func (s *Server) bodyError(w http.ResponseWriter, r *http.Request, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		s.respondError(w, r, http.StatusRequestEntityTooLarge, "request body too large", err)
		return
	}
	s.respondError(w, r, http.StatusBadRequest, "invalid request body", err)
}

func (s *Server) requireStore(w http.ResponseWriter, r *http.Request) bool {
	if s.deps.Store == nil {
		s.respondError(w, r, http.StatusServiceUnavailable, "deck store not configured", nil)
		return false
	}
	return true
}

func (s *Server) storeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, store.ErrDeckNotFound):
		s.respondError(w, r, http.StatusNotFound, "deck not found", err)
	case errors.Is(err, store.ErrInvalidName):
		s.respondError(w, r, http.StatusBadRequest, "deck name is required", err)
	default:
		s.respondError(w, r, http.StatusInternalServerError, "deck store error", err)
	}
}

// pathParam returns a decoded URL parameter.
func pathParam(r *http.Request, key string) string {
	raw := chi.URLParam(r, key)
	if v, err := url.PathUnescape(raw); err == nil {
		return v
	}
	return raw
}


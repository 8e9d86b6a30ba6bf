package webhook

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/ccollicutt/deckport/pkg/config"
	"github.com/ccollicutt/deckport/pkg/decklist"
	"github.com/ccollicutt/deckport/pkg/output"
)

func newTestReport() *output.Report {
	result := &decklist.Result{
		CardIDs: []string{"1-001L", "1-001L"},
		Errors: []decklist.ParseError{
			{LineNumber: 2, Text: "1 x ZZZ-999", Reason: decklist.ReasonCardNotFound},
		},
		LinesScanned: 2,
	}
	now := time.Now()
	return output.NewReport(result, "deck.txt", "test deck", now.Add(-time.Second), now)
}

func TestClient_Send_Success(t *testing.T) {
	var receivedBody []byte
	var receivedContentType string
	var receivedAuth string
	var receivedAgent string
	var receivedImportID string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		receivedContentType = r.Header.Get("Content-Type")
		receivedAuth = r.Header.Get("Authorization")
		receivedAgent = r.Header.Get("User-Agent")
		receivedImportID = r.Header.Get("X-Deckport-Import-ID")
		receivedBody, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	}))
	defer server.Close()

	client := NewClient()
	report := newTestReport()

	resp := client.Send(context.Background(), report, SendOptions{
		URL: server.URL,
	})

	if !resp.Success() {
		t.Errorf("expected success, got error: %v", resp.Error)
	}

	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected status 200, got %d", resp.StatusCode)
	}

	if resp.Body != `{"status":"ok"}` {
		t.Errorf("unexpected body: %s", resp.Body)
	}

	if receivedContentType != "application/json" {
		t.Errorf("expected Content-Type application/json, got %s", receivedContentType)
	}

	if receivedAuth != "" {
		t.Errorf("expected no auth header, got %s", receivedAuth)
	}

	// Verify payload is valid JSON containing expected fields
	var payload map[string]interface{}
	if err := json.Unmarshal(receivedBody, &payload); err != nil {
		t.Errorf("failed to parse received payload: %v", err)
	}

	if _, ok := payload["summary"]; !ok {
		t.Error("payload missing summary field")
	}
	if _, ok := payload["result"]; !ok {
		t.Error("payload missing result field")
	}

	if receivedAgent != UserAgent {
		t.Errorf("expected User-Agent %s, got %s", UserAgent, receivedAgent)
	}
	if receivedImportID != report.Metadata.ImportID.String() {
		t.Errorf("expected import id header %s, got %s", report.Metadata.ImportID, receivedImportID)
	}
}

func TestClient_Send_WithBearerToken(t *testing.T) {
	var receivedAuth string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		receivedAuth = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewClient()
	report := newTestReport()

	resp := client.Send(context.Background(), report, SendOptions{
		URL:   server.URL,
		Token: "secret-token-123",
	})

	if !resp.Success() {
		t.Errorf("expected success, got error: %v", resp.Error)
	}

	if receivedAuth != "Bearer secret-token-123" {
		t.Errorf("expected Bearer token, got %s", receivedAuth)
	}
}

func TestClient_Send_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"internal error"}`))
	}))
	defer server.Close()

	client := NewClient()
	report := newTestReport()

	resp := client.Send(context.Background(), report, SendOptions{
		URL: server.URL,
	})

	if resp.Success() {
		t.Error("expected failure, got success")
	}

	if resp.StatusCode != http.StatusInternalServerError {
		t.Errorf("expected status 500, got %d", resp.StatusCode)
	}

	if resp.Error == nil {
		t.Error("expected error to be set")
	}
}

func TestClient_Send_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewClient()
	report := newTestReport()

	resp := client.Send(context.Background(), report, SendOptions{
		URL:     server.URL,
		Timeout: 50 * time.Millisecond,
	})

	if resp.Success() {
		t.Error("expected failure due to timeout")
	}

	if resp.Error == nil {
		t.Error("expected error to be set")
	}
}

func TestClient_Send_InvalidURL(t *testing.T) {
	client := NewClient()
	report := newTestReport()

	resp := client.Send(context.Background(), report, SendOptions{
		URL: "://invalid-url",
	})

	if resp.Success() {
		t.Error("expected failure for invalid URL")
	}

	if resp.Error == nil {
		t.Error("expected error to be set")
	}
}

func TestClient_Send_ConnectionRefused(t *testing.T) {
	client := NewClient()
	report := newTestReport()

	resp := client.Send(context.Background(), report, SendOptions{
		URL:     "http://127.0.0.1:59999", // Unlikely to be listening
		Timeout: 100 * time.Millisecond,
	})

	if resp.Success() {
		t.Error("expected failure for connection refused")
	}

	if resp.Error == nil {
		t.Error("expected error to be set")
	}
}

func TestResponse_Success(t *testing.T) {
	tests := []struct {
		name        string
		resp        Response
		wantSuccess bool
	}{
		{"200 OK", Response{StatusCode: 200}, true},
		{"201 Created", Response{StatusCode: 201}, true},
		{"204 No Content", Response{StatusCode: 204}, true},
		{"400 Bad Request", Response{StatusCode: 400}, false},
		{"500 Server Error", Response{StatusCode: 500}, false},
		{"With Error", Response{StatusCode: 200, Error: io.EOF}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.resp.Success(); got != tt.wantSuccess {
				t.Errorf("Success() = %v, want %v", got, tt.wantSuccess)
			}
		})
	}
}

func TestShouldFire(t *testing.T) {
	issues := newTestReport()
	now := time.Now()
	clean := output.NewReport(&decklist.Result{CardIDs: []string{"1-001L"}}, "deck.txt", "", now, now)

	tests := []struct {
		trigger config.WebhookTrigger
		report  *output.Report
		want    bool
	}{
		{config.WebhookTriggerAlways, clean, true},
		{config.WebhookTriggerAlways, issues, true},
		{config.WebhookTriggerNever, issues, false},
		{config.WebhookTriggerOnIssues, issues, true},
		{config.WebhookTriggerOnIssues, clean, false},
		{"", issues, true},
		{"bogus", issues, false},
	}

	for _, tt := range tests {
		if got := ShouldFire(tt.trigger, tt.report); got != tt.want {
			t.Errorf("ShouldFire(%q, issues=%v) = %v, want %v", tt.trigger, tt.report.HasIssues(), got, tt.want)
		}
	}
}

func TestNotifier_Notify(t *testing.T) {
	var hits atomic.Int32
	ok := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer ok.Close()

	broken := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer broken.Close()

	core, logs := observer.New(zap.InfoLevel)
	n := NewNotifier([]config.WebhookConfig{
		{Name: "primary", URL: ok.URL, Trigger: config.WebhookTriggerOnIssues},
		{Name: "muted", URL: ok.URL, Trigger: config.WebhookTriggerNever},
		{Name: "broken", URL: broken.URL, Trigger: config.WebhookTriggerAlways},
	}, zap.New(core))

	if n.Len() != 3 {
		t.Errorf("Len() = %d, want 3", n.Len())
	}

	failed := n.Notify(context.Background(), newTestReport())
	if failed != 1 {
		t.Errorf("Notify() failed = %d, want 1", failed)
	}
	if got := hits.Load(); got != 1 {
		t.Errorf("primary webhook hit %d times, want 1", got)
	}
	if got := logs.FilterMessage("webhook failed").Len(); got != 1 {
		t.Errorf("logged %d failures, want 1", got)
	}
	if got := logs.FilterMessage("webhook sent").Len(); got != 1 {
		t.Errorf("logged %d successes, want 1", got)
	}
}

func TestNotifier_NilLogger(t *testing.T) {
	n := NewNotifier(nil, nil)
	if failed := n.Notify(context.Background(), newTestReport()); failed != 0 {
		t.Errorf("Notify() failed = %d, want 0", failed)
	}
}

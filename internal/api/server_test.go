package api

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/veritas-agent/veritas/internal/analyzer"
	"github.com/veritas-agent/veritas/internal/batch"
	"github.com/veritas-agent/veritas/internal/chat"
	"github.com/veritas-agent/veritas/internal/gemini"
	"github.com/veritas-agent/veritas/internal/intent"
	"github.com/veritas-agent/veritas/internal/processor"
	"github.com/veritas-agent/veritas/internal/report"
)

type fakeGenerator struct{}

func (fakeGenerator) Generate(context.Context, string) gemini.Result {
	return gemini.Result{Text: "synthesized report"}
}

// newTestServer wires a server with a fake generator, an unavailable intent
// model, and no archive, unless overridden.
func newTestServer(t *testing.T, token string) *Server {
	t.Helper()
	logger := slog.New(slog.DiscardHandler)
	classifier := intent.New(filepath.Join(t.TempDir(), "missing.json"), intent.DefaultThreshold, logger)
	synth := report.New(fakeGenerator{}, logger)
	chatRouter := chat.NewRouter(synth, logger)
	pipe := batch.New(analyzer.Stub{}, synth, logger)
	proc := processor.New(pipe, nil, nil, logger)
	return NewServer(8790, token, classifier, chatRouter, proc, nil, logger)
}

func doJSON(t *testing.T, srv *Server, method, path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	srv.router.ServeHTTP(w, req)
	return w
}

func TestHealthEndpoint(t *testing.T) {
	srv := newTestServer(t, "")

	w := doJSON(t, srv, "GET", "/health", nil, nil)
	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}

	var body map[string]string
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("expected status ok, got %q", body["status"])
	}
}

func TestStatusEndpoint(t *testing.T) {
	srv := newTestServer(t, "")

	w := doJSON(t, srv, "GET", "/api/v1/veritas/status", nil, nil)
	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}

	var body map[string]any
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if body["agent"] != "veritas" {
		t.Errorf("expected agent veritas, got %q", body["agent"])
	}
	if body["intent_model"] != false {
		t.Errorf("expected intent_model false with missing artifact, got %v", body["intent_model"])
	}
}

func TestChatEndpoint_UnavailableModelStillReplies(t *testing.T) {
	srv := newTestServer(t, "")

	w := doJSON(t, srv, "POST", "/api/v1/chat", chatRequest{Message: "hello there"}, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var resp chatResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Intent != intent.LabelError {
		t.Errorf("expected error intent with missing model, got %q", resp.Intent)
	}
	if resp.Confidence != 0 {
		t.Errorf("expected zero confidence, got %f", resp.Confidence)
	}
	if resp.Reply != chat.ReplyFallback {
		t.Errorf("expected generic fallback reply, got %q", resp.Reply)
	}
}

func TestChatEndpoint_EmptyMessage(t *testing.T) {
	srv := newTestServer(t, "")

	for _, msg := range []string{"", "   ", "\n\t"} {
		w := doJSON(t, srv, "POST", "/api/v1/chat", chatRequest{Message: msg}, nil)
		if w.Code != http.StatusBadRequest {
			t.Errorf("message %q: expected 400, got %d", msg, w.Code)
		}
	}
}

func TestAnalyzeEndpoint(t *testing.T) {
	srv := newTestServer(t, "")

	w := doJSON(t, srv, "POST", "/api/v1/analyze", analyzeRequest{
		Filename:  "video.mp4",
		SizeBytes: 2 << 20,
		Question:  "Is the lip movement natural?",
	}, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var resp analyzeResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Score != 88.5 {
		t.Errorf("expected simulated score 88.5, got %f", resp.Score)
	}
	if resp.Status != "CRITICAL" {
		t.Errorf("expected CRITICAL above threshold, got %q", resp.Status)
	}
	if len(resp.Anomalies) != 3 {
		t.Errorf("expected 3 anomalies, got %d", len(resp.Anomalies))
	}
	if resp.Report != "synthesized report" {
		t.Errorf("expected synthesized report, got %q", resp.Report)
	}
}

func TestAnalyzeEndpoint_MissingFilename(t *testing.T) {
	srv := newTestServer(t, "")

	w := doJSON(t, srv, "POST", "/api/v1/analyze", analyzeRequest{}, nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestBatchEndpoint(t *testing.T) {
	srv := newTestServer(t, "")

	w := doJSON(t, srv, "POST", "/api/v1/batch", batchRequest{
		Paths: []string{"clip.mp4", "notes.txt"},
	}, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var resp batchResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.JobID == "" {
		t.Error("expected a job id")
	}
	if len(resp.Reports) != 2 {
		t.Errorf("expected 2 reports, got %d", len(resp.Reports))
	}
	for path, text := range resp.Reports {
		if text != "synthesized report" {
			t.Errorf("unexpected report for %q: %q", path, text)
		}
	}
}

func TestBatchEndpoint_NoPaths(t *testing.T) {
	srv := newTestServer(t, "")

	w := doJSON(t, srv, "POST", "/api/v1/batch", batchRequest{}, nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestReportsEndpoint_NoArchive(t *testing.T) {
	srv := newTestServer(t, "")

	w := doJSON(t, srv, "GET", "/api/v1/reports", nil, nil)
	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("expected 503 without archive, got %d", w.Code)
	}
}

func TestTokenMiddleware(t *testing.T) {
	srv := newTestServer(t, "secret-token")

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"missing token", "", http.StatusUnauthorized},
		{"wrong token", "Bearer wrong", http.StatusUnauthorized},
		{"wrong scheme", "Basic secret-token", http.StatusUnauthorized},
		{"valid token", "Bearer secret-token", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			headers := map[string]string{}
			if tt.header != "" {
				headers["Authorization"] = tt.header
			}
			w := doJSON(t, srv, "POST", "/api/v1/chat", chatRequest{Message: "hello"}, headers)
			if w.Code != tt.want {
				t.Errorf("expected %d, got %d", tt.want, w.Code)
			}
		})
	}
}

func TestTokenMiddleware_HealthStaysOpen(t *testing.T) {
	srv := newTestServer(t, "secret-token")

	w := doJSON(t, srv, "GET", "/health", nil, nil)
	if w.Code != http.StatusOK {
		t.Errorf("health must not require auth, got %d", w.Code)
	}
}

func TestNotFoundEndpoint(t *testing.T) {
	srv := newTestServer(t, "")

	w := doJSON(t, srv, "GET", "/nonexistent", nil, nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
	if strings.Contains(w.Body.String(), "panic") {
		t.Errorf("unexpected panic output: %s", w.Body.String())
	}
}

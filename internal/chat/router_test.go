package chat

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/veritas-agent/veritas/internal/gemini"
	"github.com/veritas-agent/veritas/internal/report"
)

type fakeGenerator struct {
	result gemini.Result
	prompt string
	calls  int
}

func (f *fakeGenerator) Generate(_ context.Context, prompt string) gemini.Result {
	f.calls++
	f.prompt = prompt
	return f.result
}

func newTestRouter(fake *fakeGenerator) *Router {
	logger := slog.New(slog.DiscardHandler)
	return NewRouter(report.New(fake, logger), logger)
}

func TestRouteIntent_CannedReplies(t *testing.T) {
	tests := []struct {
		name   string
		intent string
		want   string
	}{
		{"greeting", "greeting", ReplyGreeting},
		{"analyze_video", "analyze_video", ReplyAnalyzeVideo},
		{"goodbye", "goodbye", ReplyGoodbye},
		{"help", "help", ReplyHelp},
		{"fallback", "fallback", ReplyFallback},
		{"error", "error", ReplyFallback},
		{"unrecognized label", "summon_lawyer", ReplyFallback},
		{"empty label", "", ReplyFallback},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeGenerator{result: gemini.Result{Text: "should not be called"}}
			r := newTestRouter(fake)

			got := r.RouteIntent(context.Background(), tt.intent, "some text", nil, nil)
			if got != tt.want {
				t.Errorf("RouteIntent(%q) = %q, want %q", tt.intent, got, tt.want)
			}
			if fake.calls != 0 {
				t.Errorf("canned path must not call the generator, got %d calls", fake.calls)
			}
		})
	}
}

func TestRouteIntent_EvidenceOverridesIntent(t *testing.T) {
	evidence := &Evidence{
		Score:     88.5,
		Anomalies: []string{"Lip Sync Failure", "Unnatural Blinking Patterns"},
		Metadata:  "Filename: video.mp4",
	}

	for _, intentLabel := range []string{"report", "greeting", "goodbye", "fallback", "error", "whatever"} {
		t.Run(intentLabel, func(t *testing.T) {
			fake := &fakeGenerator{result: gemini.Result{Text: "forensic verdict"}}
			r := newTestRouter(fake)

			got := r.RouteIntent(context.Background(), intentLabel, "Generate Forensic Report", nil, evidence)
			if got != "forensic verdict" {
				t.Errorf("expected synthesized report, got %q", got)
			}
			if fake.calls != 1 {
				t.Errorf("expected exactly one generation call, got %d", fake.calls)
			}
		})
	}
}

func TestRouteIntent_EvidencePromptContents(t *testing.T) {
	fake := &fakeGenerator{result: gemini.Result{Text: "ok"}}
	r := newTestRouter(fake)

	evidence := &Evidence{
		Score:     88.5,
		Anomalies: []string{"Lip Sync Failure", "Mouth Artifacts"},
		Metadata:  "Filename: video.mp4 | Size: 2048.0KB",
	}
	history := []Turn{
		{Role: RoleOperator, Content: "hello"},
		{Role: RoleAssistant, Content: ReplyGreeting},
	}

	r.RouteIntent(context.Background(), "report", "Is the lip movement natural?", history, evidence)

	for _, want := range []string{
		"File Type: report",
		"score: 88.5",
		"Lip Sync Failure, Mouth Artifacts",
		"Filename: video.mp4",
		"Is the lip movement natural?",
		"operator: hello",
	} {
		if !strings.Contains(fake.prompt, want) {
			t.Errorf("prompt missing %q:\n%s", want, fake.prompt)
		}
	}
}

func TestRouteIntent_HistoryNotMutated(t *testing.T) {
	fake := &fakeGenerator{result: gemini.Result{Text: "ok"}}
	r := newTestRouter(fake)

	history := []Turn{
		{Role: RoleOperator, Content: "analyze this"},
	}
	r.RouteIntent(context.Background(), "report", "go", history, &Evidence{Score: 10})

	if len(history) != 1 || history[0].Content != "analyze this" {
		t.Errorf("history was mutated: %+v", history)
	}
}

func TestRouteIntent_GenerationFailureStillReplies(t *testing.T) {
	fake := &fakeGenerator{result: gemini.Result{Err: errors.New("service unavailable")}}
	r := newTestRouter(fake)

	got := r.RouteIntent(context.Background(), "report", "go", nil, &Evidence{Score: 50})
	if !strings.Contains(got, "Error") {
		t.Errorf("degraded reply must carry the error marker, got %q", got)
	}
}

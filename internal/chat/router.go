// Package chat routes classified operator input to either canned replies or
// LLM report synthesis. The router itself is stateless; all conversation
// state arrives through the history argument.
package chat

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/veritas-agent/veritas/internal/intent"
	"github.com/veritas-agent/veritas/internal/report"
)

// Canned replies for the trivial exchanges. Deterministic so the console
// stays responsive even when the generative service is flaky.
const (
	ReplyGreeting     = "Greetings. I am Veritas. Ready to analyze video evidence."
	ReplyAnalyzeVideo = "Please use the 'Upload Module' on the left sidebar to submit evidence."
	ReplyGoodbye      = "Session ending. Stay vigilant."
	ReplyHelp         = "GUIDE: 1. Upload Video. 2. Click Analyze. 3. Read Report."
	ReplyFallback     = "I received your query but require more context."
)

// historyContextTurns caps how much conversation history is rendered into a
// report prompt.
const historyContextTurns = 6

type Router struct {
	synth  *report.Synthesizer
	logger *slog.Logger
}

func NewRouter(synth *report.Synthesizer, logger *slog.Logger) *Router {
	return &Router{synth: synth, logger: logger}
}

// RouteIntent produces the assistant's reply for one exchange. Evidence
// presence wins over the intent label: any caller holding fresh analysis
// results gets a synthesized report, with the user text carried along as an
// extra instruction. Without evidence the intent dispatches to a canned
// reply; unrecognized labels (including fallback and error) get the generic
// one.
func (r *Router) RouteIntent(ctx context.Context, intentLabel, userText string, history []Turn, evidence *Evidence) string {
	if evidence != nil {
		return r.synthesizeFromEvidence(ctx, userText, history, evidence)
	}

	r.logger.Debug("canned dispatch", "intent", intentLabel)

	switch intentLabel {
	case intent.LabelGreeting:
		return ReplyGreeting
	case intent.LabelAnalyzeVideo:
		return ReplyAnalyzeVideo
	case intent.LabelGoodbye:
		return ReplyGoodbye
	case intent.LabelHelp:
		return ReplyHelp
	default:
		return ReplyFallback
	}
}

func (r *Router) synthesizeFromEvidence(ctx context.Context, userText string, history []Turn, evidence *Evidence) string {
	r.logger.Info("evidence attached, routing to report synthesis",
		"score", evidence.Score,
		"anomalies", len(evidence.Anomalies),
	)

	analysis := map[string]any{
		"score":     evidence.Score,
		"anomalies": strings.Join(evidence.Anomalies, ", "),
	}
	metadata := map[string]any{
		"details":              evidence.Metadata,
		"operator_instruction": userText,
	}
	if len(history) > 0 {
		metadata["conversation_context"] = renderHistory(history)
	}

	return r.synth.Synthesize(ctx, "report", analysis, metadata)
}

func renderHistory(history []Turn) string {
	start := 0
	if len(history) > historyContextTurns {
		start = len(history) - historyContextTurns
	}
	lines := make([]string, 0, len(history)-start)
	for _, turn := range history[start:] {
		lines = append(lines, fmt.Sprintf("%s: %s", turn.Role, turn.Content))
	}
	return strings.Join(lines, " | ")
}

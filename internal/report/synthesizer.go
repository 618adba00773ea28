// Package report turns analysis output into natural-language reports via the
// generative-text service.
package report

import (
	"context"
	"log/slog"

	"github.com/veritas-agent/veritas/internal/gemini"
)

type Synthesizer struct {
	llm    gemini.Generator
	logger *slog.Logger
}

func New(llm gemini.Generator, logger *slog.Logger) *Synthesizer {
	return &Synthesizer{llm: llm, logger: logger}
}

// Synthesize builds the report prompt from (kind, analysis, metadata) and
// returns the generated text. A failed generation surfaces as the client's
// degraded display string, not an error: the console always has something to
// show. Every call hits the service; nothing is cached.
func (s *Synthesizer) Synthesize(ctx context.Context, kind string, analysis, metadata map[string]any) string {
	return s.SynthesizeResult(ctx, kind, analysis, metadata).Display()
}

// SynthesizeResult is Synthesize with the success/failure tag preserved, for
// callers that track degradation without sniffing the text.
func (s *Synthesizer) SynthesizeResult(ctx context.Context, kind string, analysis, metadata map[string]any) gemini.Result {
	prompt := buildPrompt(kind, analysis, metadata)

	s.logger.Debug("synthesizing report",
		"kind", kind,
		"prompt_len", len(prompt),
	)

	res := s.llm.Generate(ctx, prompt)
	if res.Failed() {
		s.logger.Warn("report generation degraded", "kind", kind, "error", res.Err)
	}
	return res
}

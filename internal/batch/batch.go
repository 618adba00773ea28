// Package batch runs evidence files through kind detection, analysis, and
// report synthesis.
package batch

import (
	"context"
	"log/slog"
	"sync"

	"github.com/veritas-agent/veritas/internal/analyzer"
	"github.com/veritas-agent/veritas/internal/report"
)

// workers bounds concurrent report synthesis; each file is an independent
// round trip to the generative service.
const workers = 4

// Item is one file's outcome. Report is either generated text or the
// client's degraded error string; Degraded says which, and a failed file
// never aborts the rest.
type Item struct {
	Path     string        `json:"path"`
	Kind     analyzer.Kind `json:"kind"`
	Report   string        `json:"report"`
	Degraded bool          `json:"degraded"`
}

type Pipeline struct {
	analyzer analyzer.Analyzer
	synth    *report.Synthesizer
	logger   *slog.Logger
}

func New(an analyzer.Analyzer, synth *report.Synthesizer, logger *slog.Logger) *Pipeline {
	return &Pipeline{analyzer: an, synth: synth, logger: logger}
}

// Process analyzes each path independently and returns one item per unique
// input path. Item order is not defined.
func (p *Pipeline) Process(ctx context.Context, paths []string) []Item {
	unique := make([]string, 0, len(paths))
	seen := make(map[string]struct{}, len(paths))
	for _, path := range paths {
		if _, ok := seen[path]; ok {
			continue
		}
		seen[path] = struct{}{}
		unique = append(unique, path)
	}

	jobs := make(chan string)
	items := make([]Item, 0, len(unique))

	var mu sync.Mutex
	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for path := range jobs {
				item := p.processOne(ctx, path)
				mu.Lock()
				items = append(items, item)
				mu.Unlock()
			}
		}()
	}

	for _, path := range unique {
		jobs <- path
	}
	close(jobs)
	wg.Wait()

	return items
}

// ProcessFiles is the mapping form of Process: one report string per unique
// input path.
func (p *Pipeline) ProcessFiles(ctx context.Context, paths []string) map[string]string {
	reports := make(map[string]string, len(paths))
	for _, item := range p.Process(ctx, paths) {
		reports[item.Path] = item.Report
	}
	return reports
}

func (p *Pipeline) processOne(ctx context.Context, path string) Item {
	kind := analyzer.DetectKind(path)
	rec := p.analyzer.Analyze(path, kind)

	p.logger.Debug("processing evidence file", "path", path, "kind", kind)

	res := p.synth.SynthesizeResult(ctx, string(rec.Kind), rec.Analysis, rec.Metadata)
	return Item{Path: path, Kind: kind, Report: res.Display(), Degraded: res.Failed()}
}

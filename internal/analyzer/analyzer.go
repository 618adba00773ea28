// Package analyzer classifies files by media kind and produces analysis
// records for report synthesis. The shipped analyzers are placeholders with
// fixed metrics; a real forensic model slots in behind the Analyzer
// interface without touching the pipelines above it.
package analyzer

// Record is one file's analysis: the detected kind, per-kind metrics, and
// metadata. The metric shape depends on the kind and is treated as opaque by
// report synthesis.
type Record struct {
	FilePath string         `json:"file_path"`
	Kind     Kind           `json:"kind"`
	Analysis map[string]any `json:"analysis"`
	Metadata map[string]any `json:"metadata"`
}

// Analyzer produces an analysis record for a file of an already-detected
// kind.
type Analyzer interface {
	Analyze(path string, kind Kind) Record
}

// Stub is the placeholder analyzer: fixed metrics per kind, standing in for
// the real deepfake/toxicity models.
type Stub struct{}

func (Stub) Analyze(path string, kind Kind) Record {
	rec := Record{
		FilePath: path,
		Kind:     kind,
		Metadata: map[string]any{"file": path},
	}
	switch kind {
	case KindVideo:
		rec.Analysis = map[string]any{
			"deepfake_score":  68.2,
			"faces_detected":  1,
			"frames_analyzed": 120,
		}
	case KindText:
		rec.Analysis = map[string]any{
			"toxicity":  0.18,
			"sentiment": "slightly negative",
		}
		rec.Metadata["words"] = 150
	default:
		rec.Analysis = map[string]any{}
	}
	return rec
}

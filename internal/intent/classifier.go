// Package intent classifies operator chat input into a closed label set
// using a pre-trained logistic regression artifact. A missing or corrupt
// artifact degrades every classification to the error label instead of
// failing startup.
package intent

import "log/slog"

// Labels the model is trained on, plus the two synthetic outcomes.
const (
	LabelGreeting     = "greeting"
	LabelGoodbye      = "goodbye"
	LabelHelp         = "help"
	LabelAnalyzeVideo = "analyze_video"
	LabelReport       = "report"

	// LabelFallback is returned when the winning probability is below the
	// confidence threshold.
	LabelFallback = "fallback"
	// LabelError is returned when the model is unavailable or prediction
	// fails internally.
	LabelError = "error"
)

// DefaultThreshold is the confidence floor below which the winning label is
// overridden to fallback. Tunable via config.
const DefaultThreshold = 0.4

type Result struct {
	Label      string  `json:"label"`
	Confidence float64 `json:"confidence"`
}

// Classifier holds the once-loaded model. Construct one at startup and share
// it; Classify is a pure function of its input given the loaded model.
type Classifier struct {
	model     *Model
	threshold float64
}

// New loads the artifact at modelPath. Load failure is non-fatal: the
// classifier comes up unavailable and answers every call with the error
// label.
func New(modelPath string, threshold float64, logger *slog.Logger) *Classifier {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	model, err := LoadModel(modelPath)
	if err != nil {
		logger.Warn("intent model unavailable, degrading to error label",
			"path", modelPath,
			"error", err,
		)
		return &Classifier{threshold: threshold}
	}
	logger.Info("intent model loaded",
		"path", modelPath,
		"labels", len(model.Labels),
		"vocabulary", len(model.Vocabulary),
	)
	return &Classifier{model: model, threshold: threshold}
}

func (c *Classifier) Available() bool {
	return c.model != nil
}

// Classify maps text to the arg-max label of the model's distribution.
// Callers are expected to pass trimmed, non-empty text. Never panics: any
// internal prediction failure yields (error, 0).
func (c *Classifier) Classify(text string) (res Result) {
	defer func() {
		if r := recover(); r != nil {
			res = Result{Label: LabelError, Confidence: 0}
		}
	}()

	if c.model == nil {
		return Result{Label: LabelError, Confidence: 0}
	}

	probs := c.model.Probabilities(text)
	best := 0
	for i, p := range probs {
		if p > probs[best] {
			best = i
		}
	}

	confidence := probs[best]
	if confidence < c.threshold {
		return Result{Label: LabelFallback, Confidence: confidence}
	}
	return Result{Label: c.model.Labels[best], Confidence: confidence}
}

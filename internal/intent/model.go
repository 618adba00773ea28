package intent

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"strings"
	"unicode"
)

// Model is a multi-class logistic regression over a bag-of-words, exported
// from the training run as a JSON artifact. It is loaded once at process
// start and read-only thereafter.
type Model struct {
	Labels     []string       `json:"labels"`
	Vocabulary map[string]int `json:"vocabulary"`
	Weights    [][]float64    `json:"weights"`
	Bias       []float64      `json:"bias"`
}

// LoadModel reads and validates a model artifact.
func LoadModel(path string) (*Model, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read model artifact: %w", err)
	}
	var m Model
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse model artifact: %w", err)
	}
	if err := m.validate(); err != nil {
		return nil, fmt.Errorf("invalid model artifact: %w", err)
	}
	return &m, nil
}

func (m *Model) validate() error {
	if len(m.Labels) == 0 {
		return fmt.Errorf("no labels")
	}
	if len(m.Weights) != len(m.Labels) {
		return fmt.Errorf("weight rows %d != labels %d", len(m.Weights), len(m.Labels))
	}
	if len(m.Bias) != len(m.Labels) {
		return fmt.Errorf("bias entries %d != labels %d", len(m.Bias), len(m.Labels))
	}
	for i, row := range m.Weights {
		if len(row) != len(m.Vocabulary) {
			return fmt.Errorf("weight row %d has %d features, vocabulary has %d", i, len(row), len(m.Vocabulary))
		}
	}
	return nil
}

// Probabilities returns the softmax distribution over Labels for the input
// text. Out-of-vocabulary tokens contribute nothing, so any text yields a
// valid distribution.
func (m *Model) Probabilities(text string) []float64 {
	scores := make([]float64, len(m.Labels))
	copy(scores, m.Bias)

	for _, tok := range tokenize(text) {
		idx, ok := m.Vocabulary[tok]
		if !ok {
			continue
		}
		for c := range scores {
			scores[c] += m.Weights[c][idx]
		}
	}

	return softmax(scores)
}

func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

func softmax(scores []float64) []float64 {
	max := scores[0]
	for _, s := range scores[1:] {
		if s > max {
			max = s
		}
	}
	var sum float64
	out := make([]float64, len(scores))
	for i, s := range scores {
		out[i] = math.Exp(s - max)
		sum += out[i]
	}
	for i := range out {
		out[i] /= sum
	}
	return out
}

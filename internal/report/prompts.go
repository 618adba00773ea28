package report

import (
	"fmt"
	"sort"
	"strings"
)

const promptTemplate = `You are an AI analysis agent. Based on the following data,
generate a clear, simple, human-friendly report.

File Type: %s
Analysis Output: %s
Metadata: %s

Requirements:
- Keep the report simple
- Explain what the analysis means
- Mention if the content is suspicious, harmful, fake, or normal
- Add small recommendations`

// buildPrompt renders the synthesis instruction with the inputs embedded
// verbatim. Analysis and metadata are opaque; they are flattened textually,
// keys sorted so the same inputs always produce the same prompt.
func buildPrompt(kind string, analysis, metadata map[string]any) string {
	return fmt.Sprintf(promptTemplate, kind, renderMap(analysis), renderMap(metadata))
}

func renderMap(m map[string]any) string {
	if len(m) == 0 {
		return "{}"
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s: %v", k, m[k])
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

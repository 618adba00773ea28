package gemini

// Result is the tagged outcome of a generation call: either Text is set or
// Err explains the failure. Display folds both into operator-presentable
// text, so consumers that only render never have to branch on failure.
type Result struct {
	Text string
	Err  error
}

func (r Result) Failed() bool {
	return r.Err != nil
}

// Display renders the result for the console. Failures keep the "LLM Error:"
// marker so a degraded reply is still recognisable downstream.
func (r Result) Display() string {
	if r.Err != nil {
		return "LLM Error: " + r.Err.Error()
	}
	return r.Text
}

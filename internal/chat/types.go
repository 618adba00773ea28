package chat

// Role identifies who produced a conversation turn.
type Role string

const (
	RoleOperator  Role = "operator"
	RoleAssistant Role = "assistant"
)

// Turn is one entry in a session's conversation history. The history is
// owned by the caller, appended to in chronological order, and passed in
// read-only; the router never mutates it.
type Turn struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Evidence is a fresh analysis result attached to a chat turn. Its presence
// forces the report path regardless of the classified intent.
type Evidence struct {
	Score     float64  `json:"score"`
	Anomalies []string `json:"anomalies"`
	Metadata  string   `json:"metadata"`
}

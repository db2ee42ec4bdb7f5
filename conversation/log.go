// Package conversation tracks the per-task exchange between the user and
// the entity. Each task gets a fresh log whose conversation ID is carried
// into the task result.
package conversation

// Role identifies the author of a log entry.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Content is a single entry in a chat log. AgentID identifies the entity
// that produced assistant content.
type Content struct {
	Role    Role   `json:"role"`
	AgentID string `json:"agent_id,omitempty"`
	Text    string `json:"text"`
}

// Log holds the ordered content of one task conversation. Implementations
// must be safe for concurrent use.
type Log interface {
	// ConversationID returns the unique conversation identifier.
	ConversationID() string
	// AddUserContent appends a user entry.
	AddUserContent(text string)
	// AddAssistantContent appends an assistant entry attributed to an agent.
	AddAssistantContent(agentID, text string)
	// Contents returns a copy of the log entries.
	Contents() []Content
	// UserContent returns the first user entry's text, or "" when none exists.
	UserContent() string
}

package conversation

import (
	"sync"

	"github.com/google/uuid"
)

type memoryLog struct {
	id       string
	contents []Content
	mu       sync.RWMutex
}

// NewLog creates a Log backed by an in-memory slice. The conversation is
// assigned a unique UUIDv7 identifier.
func NewLog() Log {
	return &memoryLog{
		id: uuid.Must(uuid.NewV7()).String(),
	}
}

func (l *memoryLog) ConversationID() string {
	return l.id
}

func (l *memoryLog) AddUserContent(text string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.contents = append(l.contents, Content{Role: RoleUser, Text: text})
}

func (l *memoryLog) AddAssistantContent(agentID, text string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.contents = append(l.contents, Content{Role: RoleAssistant, AgentID: agentID, Text: text})
}

func (l *memoryLog) Contents() []Content {
	l.mu.RLock()
	defer l.mu.RUnlock()

	copied := make([]Content, len(l.contents))
	copy(copied, l.contents)
	return copied
}

func (l *memoryLog) UserContent() string {
	l.mu.RLock()
	defer l.mu.RUnlock()

	for _, c := range l.contents {
		if c.Role == RoleUser {
			return c.Text
		}
	}
	return ""
}

package store

import (
	"time"
)

// Bundle holds the stores backing chat persistence and local memories.
// A bundle is opened once at startup from the storage config and shared
// by the CLI commands and the agent runtime.
type Bundle struct {
	Sessions SessionStore
	Memories MemoryStore
	closer   func() error
}

// Close cleans up the bundle resources
func (b *Bundle) Close() error {
	if b.closer != nil {
		return b.closer()
	}
	return nil
}

// SessionStore tracks chat sessions and their message history so a
// conversation can be resumed in a later process.
type SessionStore interface {
	CreateSession(agentName, model string) (id string, err error)
	CompleteSession(id string, err error)
	AppendMessage(sessionID, role, content string) error
	GetMessages(sessionID string) ([]SessionMessage, error)
	ListSessions(agentName string) ([]SessionInfo, error)
	// LatestSession returns the most recently started session for the
	// agent, or nil when none exists.
	LatestSession(agentName string) (*SessionInfo, error)
}

// SessionInfo describes a session
type SessionInfo struct {
	ID        string    `json:"id"`
	AgentName string    `json:"agentName"`
	Model     string    `json:"model,omitempty"`
	Status    string    `json:"status"`
	StartedAt time.Time `json:"startedAt"`
}

// SessionMessage represents a single message in a session
type SessionMessage struct {
	ID        int       `json:"id"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

// MemoryRow is a stored user memory
type MemoryRow struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

// MemoryStore persists free-text memories keyed by user id. Relevance
// scoring lives in the memory package; stores only hold rows.
type MemoryStore interface {
	AddMemory(userID, content string) (MemoryRow, error)
	// ListMemories returns all memories for the user, newest first.
	ListMemories(userID string) ([]MemoryRow, error)
	DeleteMemory(id string) error
}

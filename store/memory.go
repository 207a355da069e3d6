package store

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// NewMemoryBundle creates a Bundle backed entirely by in-memory stores
func NewMemoryBundle() *Bundle {
	return &Bundle{
		Sessions: &MemorySessionStore{sessions: make(map[string]*memSession)},
		Memories: &MemoryMemoryStore{rows: make(map[string]MemoryRow)},
	}
}

// =============================================================================
// MemorySessionStore
// =============================================================================

type memSession struct {
	info     SessionInfo
	messages []SessionMessage
	nextID   int
}

type MemorySessionStore struct {
	mu       sync.Mutex
	sessions map[string]*memSession
}

func (s *MemorySessionStore) CreateSession(agentName, model string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := uuid.New().String()
	s.sessions[id] = &memSession{
		info: SessionInfo{
			ID:        id,
			AgentName: agentName,
			Model:     model,
			Status:    "running",
			StartedAt: time.Now(),
		},
		nextID: 1,
	}
	return id, nil
}

func (s *MemorySessionStore) CompleteSession(id string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return
	}
	if err != nil {
		sess.info.Status = "failed"
	} else {
		sess.info.Status = "completed"
	}
}

func (s *MemorySessionStore) AppendMessage(sessionID, role, content string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[sessionID]
	if !ok {
		return fmt.Errorf("session '%s' not found", sessionID)
	}
	sess.messages = append(sess.messages, SessionMessage{
		ID:        sess.nextID,
		Role:      role,
		Content:   content,
		CreatedAt: time.Now(),
	})
	sess.nextID++
	return nil
}

func (s *MemorySessionStore) GetMessages(sessionID string) ([]SessionMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[sessionID]
	if !ok {
		return nil, fmt.Errorf("session '%s' not found", sessionID)
	}
	out := make([]SessionMessage, len(sess.messages))
	copy(out, sess.messages)
	return out, nil
}

func (s *MemorySessionStore) ListSessions(agentName string) ([]SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var infos []SessionInfo
	for _, sess := range s.sessions {
		if agentName == "" || sess.info.AgentName == agentName {
			infos = append(infos, sess.info)
		}
	}
	sort.Slice(infos, func(i, j int) bool {
		return infos[i].StartedAt.After(infos[j].StartedAt)
	})
	return infos, nil
}

func (s *MemorySessionStore) LatestSession(agentName string) (*SessionInfo, error) {
	infos, err := s.ListSessions(agentName)
	if err != nil || len(infos) == 0 {
		return nil, err
	}
	return &infos[0], nil
}

// =============================================================================
// MemoryMemoryStore
// =============================================================================

type MemoryMemoryStore struct {
	mu   sync.Mutex
	rows map[string]MemoryRow
}

func (s *MemoryMemoryStore) AddMemory(userID, content string) (MemoryRow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	row := MemoryRow{
		ID:        uuid.New().String(),
		UserID:    userID,
		Content:   content,
		CreatedAt: time.Now(),
	}
	s.rows[row.ID] = row
	return row, nil
}

func (s *MemoryMemoryStore) ListMemories(userID string) ([]MemoryRow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var rows []MemoryRow
	for _, row := range s.rows {
		if row.UserID == userID {
			rows = append(rows, row)
		}
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].CreatedAt.Equal(rows[j].CreatedAt) {
			return rows[i].ID > rows[j].ID
		}
		return rows[i].CreatedAt.After(rows[j].CreatedAt)
	})
	return rows, nil
}

func (s *MemoryMemoryStore) DeleteMemory(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.rows[id]; !ok {
		return fmt.Errorf("memory '%s' not found", id)
	}
	delete(s.rows, id)
	return nil
}

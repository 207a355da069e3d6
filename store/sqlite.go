package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS sessions (
    id TEXT PRIMARY KEY,
    agent_name TEXT NOT NULL,
    model TEXT,
    status TEXT DEFAULT 'running',
    started_at DATETIME DEFAULT CURRENT_TIMESTAMP,
    finished_at DATETIME
);

CREATE TABLE IF NOT EXISTS session_messages (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    session_id TEXT NOT NULL REFERENCES sessions(id),
    role TEXT NOT NULL,
    content TEXT NOT NULL,
    created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_session_messages_session ON session_messages(session_id);

CREATE TABLE IF NOT EXISTS memories (
    id TEXT PRIMARY KEY,
    user_id TEXT NOT NULL,
    content TEXT NOT NULL,
    created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_memories_user ON memories(user_id);
`

// NewSQLiteBundle creates a Bundle backed by SQLite at the given path
func NewSQLiteBundle(dbPath string) (*Bundle, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=1")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}

	return &Bundle{
		Sessions: &SQLiteSessionStore{db: db},
		Memories: &SQLiteMemoryStore{db: db},
		closer:   db.Close,
	}, nil
}

// =============================================================================
// SQLiteSessionStore
// =============================================================================

type SQLiteSessionStore struct {
	db *sql.DB
}

func (s *SQLiteSessionStore) CreateSession(agentName, model string) (string, error) {
	id := uuid.New().String()
	_, err := s.db.Exec(
		`INSERT INTO sessions (id, agent_name, model, status) VALUES (?, ?, ?, 'running')`,
		id, agentName, model,
	)
	if err != nil {
		return "", fmt.Errorf("create session: %w", err)
	}
	return id, nil
}

func (s *SQLiteSessionStore) CompleteSession(id string, err error) {
	status := "completed"
	if err != nil {
		status = "failed"
	}
	s.db.Exec(
		`UPDATE sessions SET status = ?, finished_at = CURRENT_TIMESTAMP WHERE id = ?`,
		status, id,
	)
}

func (s *SQLiteSessionStore) AppendMessage(sessionID, role, content string) error {
	_, err := s.db.Exec(
		`INSERT INTO session_messages (session_id, role, content) VALUES (?, ?, ?)`,
		sessionID, role, content,
	)
	if err != nil {
		return fmt.Errorf("append message: %w", err)
	}
	return nil
}

func (s *SQLiteSessionStore) GetMessages(sessionID string) ([]SessionMessage, error) {
	rows, err := s.db.Query(
		`SELECT id, role, content, created_at FROM session_messages WHERE session_id = ? ORDER BY id`,
		sessionID,
	)
	if err != nil {
		return nil, fmt.Errorf("get messages: %w", err)
	}
	defer rows.Close()

	var messages []SessionMessage
	for rows.Next() {
		var m SessionMessage
		var createdAt sql.NullTime
		if err := rows.Scan(&m.ID, &m.Role, &m.Content, &createdAt); err != nil {
			return nil, err
		}
		m.CreatedAt = createdAt.Time
		messages = append(messages, m)
	}
	return messages, rows.Err()
}

func (s *SQLiteSessionStore) ListSessions(agentName string) ([]SessionInfo, error) {
	query := `SELECT id, agent_name, COALESCE(model, ''), status, started_at FROM sessions`
	args := []any{}
	if agentName != "" {
		query += ` WHERE agent_name = ?`
		args = append(args, agentName)
	}
	query += ` ORDER BY started_at DESC, id DESC`

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	var infos []SessionInfo
	for rows.Next() {
		var info SessionInfo
		var startedAt sql.NullTime
		if err := rows.Scan(&info.ID, &info.AgentName, &info.Model, &info.Status, &startedAt); err != nil {
			return nil, err
		}
		info.StartedAt = startedAt.Time
		infos = append(infos, info)
	}
	return infos, rows.Err()
}

func (s *SQLiteSessionStore) LatestSession(agentName string) (*SessionInfo, error) {
	infos, err := s.ListSessions(agentName)
	if err != nil || len(infos) == 0 {
		return nil, err
	}
	return &infos[0], nil
}

// =============================================================================
// SQLiteMemoryStore
// =============================================================================

type SQLiteMemoryStore struct {
	db *sql.DB
}

func (s *SQLiteMemoryStore) AddMemory(userID, content string) (MemoryRow, error) {
	row := MemoryRow{
		ID:        uuid.New().String(),
		UserID:    userID,
		Content:   content,
		CreatedAt: time.Now(),
	}
	_, err := s.db.Exec(
		`INSERT INTO memories (id, user_id, content, created_at) VALUES (?, ?, ?, ?)`,
		row.ID, row.UserID, row.Content, row.CreatedAt,
	)
	if err != nil {
		return MemoryRow{}, fmt.Errorf("add memory: %w", err)
	}
	return row, nil
}

func (s *SQLiteMemoryStore) ListMemories(userID string) ([]MemoryRow, error) {
	rows, err := s.db.Query(
		`SELECT id, user_id, content, created_at FROM memories WHERE user_id = ? ORDER BY created_at DESC, id DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list memories: %w", err)
	}
	defer rows.Close()

	var out []MemoryRow
	for rows.Next() {
		var row MemoryRow
		var createdAt sql.NullTime
		if err := rows.Scan(&row.ID, &row.UserID, &row.Content, &createdAt); err != nil {
			return nil, err
		}
		row.CreatedAt = createdAt.Time
		out = append(out, row)
	}
	return out, rows.Err()
}

func (s *SQLiteMemoryStore) DeleteMemory(id string) error {
	res, err := s.db.Exec(`DELETE FROM memories WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete memory: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("memory '%s' not found", id)
	}
	return nil
}

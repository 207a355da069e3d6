package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
)

const postgresSchema = `
CREATE TABLE IF NOT EXISTS sessions (
    id TEXT PRIMARY KEY,
    agent_name TEXT NOT NULL,
    model TEXT,
    status TEXT DEFAULT 'running',
    started_at TIMESTAMPTZ DEFAULT now(),
    finished_at TIMESTAMPTZ
);

CREATE TABLE IF NOT EXISTS session_messages (
    id BIGSERIAL PRIMARY KEY,
    session_id TEXT NOT NULL REFERENCES sessions(id),
    role TEXT NOT NULL,
    content TEXT NOT NULL,
    created_at TIMESTAMPTZ DEFAULT now()
);
CREATE INDEX IF NOT EXISTS idx_session_messages_session ON session_messages(session_id);

CREATE TABLE IF NOT EXISTS memories (
    id TEXT PRIMARY KEY,
    user_id TEXT NOT NULL,
    content TEXT NOT NULL,
    created_at TIMESTAMPTZ DEFAULT now()
);
CREATE INDEX IF NOT EXISTS idx_memories_user ON memories(user_id);
`

// NewPostgresBundle creates a Bundle backed by Postgres at the given DSN
func NewPostgresBundle(dsn string) (*Bundle, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	if _, err := db.Exec(postgresSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}

	return &Bundle{
		Sessions: &PostgresSessionStore{db: db},
		Memories: &PostgresMemoryStore{db: db},
		closer:   db.Close,
	}, nil
}

// =============================================================================
// PostgresSessionStore
// =============================================================================

type PostgresSessionStore struct {
	db *sql.DB
}

func (s *PostgresSessionStore) CreateSession(agentName, model string) (string, error) {
	id := uuid.New().String()
	_, err := s.db.Exec(
		`INSERT INTO sessions (id, agent_name, model, status) VALUES ($1, $2, $3, 'running')`,
		id, agentName, model,
	)
	if err != nil {
		return "", fmt.Errorf("create session: %w", err)
	}
	return id, nil
}

func (s *PostgresSessionStore) CompleteSession(id string, err error) {
	status := "completed"
	if err != nil {
		status = "failed"
	}
	s.db.Exec(
		`UPDATE sessions SET status = $1, finished_at = now() WHERE id = $2`,
		status, id,
	)
}

func (s *PostgresSessionStore) AppendMessage(sessionID, role, content string) error {
	_, err := s.db.Exec(
		`INSERT INTO session_messages (session_id, role, content) VALUES ($1, $2, $3)`,
		sessionID, role, content,
	)
	if err != nil {
		return fmt.Errorf("append message: %w", err)
	}
	return nil
}

func (s *PostgresSessionStore) GetMessages(sessionID string) ([]SessionMessage, error) {
	rows, err := s.db.Query(
		`SELECT id, role, content, created_at FROM session_messages WHERE session_id = $1 ORDER BY id`,
		sessionID,
	)
	if err != nil {
		return nil, fmt.Errorf("get messages: %w", err)
	}
	defer rows.Close()

	var messages []SessionMessage
	for rows.Next() {
		var m SessionMessage
		if err := rows.Scan(&m.ID, &m.Role, &m.Content, &m.CreatedAt); err != nil {
			return nil, err
		}
		messages = append(messages, m)
	}
	return messages, rows.Err()
}

func (s *PostgresSessionStore) ListSessions(agentName string) ([]SessionInfo, error) {
	query := `SELECT id, agent_name, COALESCE(model, ''), status, started_at FROM sessions`
	args := []any{}
	if agentName != "" {
		query += ` WHERE agent_name = $1`
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
		if err := rows.Scan(&info.ID, &info.AgentName, &info.Model, &info.Status, &info.StartedAt); err != nil {
			return nil, err
		}
		infos = append(infos, info)
	}
	return infos, rows.Err()
}

func (s *PostgresSessionStore) LatestSession(agentName string) (*SessionInfo, error) {
	infos, err := s.ListSessions(agentName)
	if err != nil || len(infos) == 0 {
		return nil, err
	}
	return &infos[0], nil
}

// =============================================================================
// PostgresMemoryStore
// =============================================================================

type PostgresMemoryStore struct {
	db *sql.DB
}

func (s *PostgresMemoryStore) AddMemory(userID, content string) (MemoryRow, error) {
	row := MemoryRow{
		ID:        uuid.New().String(),
		UserID:    userID,
		Content:   content,
		CreatedAt: time.Now(),
	}
	_, err := s.db.Exec(
		`INSERT INTO memories (id, user_id, content, created_at) VALUES ($1, $2, $3, $4)`,
		row.ID, row.UserID, row.Content, row.CreatedAt,
	)
	if err != nil {
		return MemoryRow{}, fmt.Errorf("add memory: %w", err)
	}
	return row, nil
}

func (s *PostgresMemoryStore) ListMemories(userID string) ([]MemoryRow, error) {
	rows, err := s.db.Query(
		`SELECT id, user_id, content, created_at FROM memories WHERE user_id = $1 ORDER BY created_at DESC, id DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list memories: %w", err)
	}
	defer rows.Close()

	var out []MemoryRow
	for rows.Next() {
		var row MemoryRow
		if err := rows.Scan(&row.ID, &row.UserID, &row.Content, &row.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

func (s *PostgresMemoryStore) DeleteMemory(id string) error {
	res, err := s.db.Exec(`DELETE FROM memories WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete memory: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("memory '%s' not found", id)
	}
	return nil
}

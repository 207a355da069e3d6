package store

import (
	"fmt"
	"os"
	"path/filepath"
)

// Options selects and configures a persistence backend.
type Options struct {
	Backend string // "memory", "sqlite", or "postgres"
	Path    string // SQLite file path
	DSN     string // Postgres connection string
}

// NewBundle creates a store Bundle for the selected backend. A nil
// options value yields the in-memory backend.
func NewBundle(opts *Options) (*Bundle, error) {
	if opts == nil {
		return NewMemoryBundle(), nil
	}

	switch opts.Backend {
	case "sqlite":
		// Ensure directory exists
		dir := filepath.Dir(opts.Path)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create storage directory %s: %w", dir, err)
		}
		return NewSQLiteBundle(opts.Path)

	case "postgres":
		if opts.DSN == "" {
			return nil, fmt.Errorf("postgres backend requires a dsn")
		}
		return NewPostgresBundle(opts.DSN)

	case "", "memory":
		return NewMemoryBundle(), nil

	default:
		return nil, fmt.Errorf("unknown storage backend: %s (expected 'memory', 'sqlite' or 'postgres')", opts.Backend)
	}
}

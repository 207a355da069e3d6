package config

import (
	"fmt"

	"scout/store"
)

// StorageConfig defines the backend for session and memory persistence
type StorageConfig struct {
	Backend string `hcl:"backend,optional"` // "memory", "sqlite", or "postgres"
	Path    string `hcl:"path,optional"`    // SQLite file path (default: ".scout/store.db")
	DSN     string `hcl:"dsn,optional"`     // Postgres connection string
}

// StoreOptions converts the block into store backend options. A nil
// receiver maps to nil, which the store treats as in-memory.
func (s *StorageConfig) StoreOptions() *store.Options {
	if s == nil {
		return nil
	}
	return &store.Options{Backend: s.Backend, Path: s.Path, DSN: s.DSN}
}

// Defaults fills in default values for unset fields
func (s *StorageConfig) Defaults() {
	if s.Backend == "" {
		s.Backend = "memory"
	}
	if s.Backend == "sqlite" && s.Path == "" {
		s.Path = ".scout/store.db"
	}
}

func (s *StorageConfig) Validate() error {
	switch s.Backend {
	case "", "memory", "sqlite":
	case "postgres":
		if s.DSN == "" {
			return fmt.Errorf("storage: postgres backend requires dsn")
		}
	default:
		return fmt.Errorf("storage: unknown backend '%s' (expected memory, sqlite, or postgres)", s.Backend)
	}
	return nil
}

// Package memory provides clients for persisting and recalling free-text
// user memories across sessions. The actual storage semantics belong to
// the backend: either a local store bundle or a hosted memory platform.
package memory

import (
	"context"
	"time"
)

// Record is a stored memory as seen by callers. Score is only meaningful
// on Recall results.
type Record struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	Score     float64   `json:"score,omitempty"`
	CreatedAt time.Time `json:"createdAt,omitempty"`
}

// Client stores and retrieves memories for a single user. The user id is
// fixed at construction; tools and CLI commands never pass it per call.
type Client interface {
	Store(ctx context.Context, content string) (Record, error)
	// Recall returns up to limit memories relevant to query, best match first.
	Recall(ctx context.Context, query string, limit int) ([]Record, error)
	// List returns every memory for the user, newest first.
	List(ctx context.Context) ([]Record, error)
}

package memory

import (
	"context"
	"sort"
	"strings"

	"scout/store"
)

// LocalClient persists memories in the process's store bundle. Recall is
// term-overlap scoring over the stored rows; ties break newest first.
type LocalClient struct {
	memories store.MemoryStore
	userID   string
}

// NewLocal creates a store-backed memory client for the given user
func NewLocal(memories store.MemoryStore, userID string) *LocalClient {
	return &LocalClient{memories: memories, userID: userID}
}

func (c *LocalClient) Store(ctx context.Context, content string) (Record, error) {
	row, err := c.memories.AddMemory(c.userID, content)
	if err != nil {
		return Record{}, err
	}
	return Record{ID: row.ID, Content: row.Content, CreatedAt: row.CreatedAt}, nil
}

func (c *LocalClient) Recall(ctx context.Context, query string, limit int) ([]Record, error) {
	rows, err := c.memories.ListMemories(c.userID)
	if err != nil {
		return nil, err
	}

	terms := tokenize(query)
	var scored []Record
	for _, row := range rows {
		score := overlapScore(terms, tokenize(row.Content))
		if score > 0 {
			scored = append(scored, Record{
				ID:        row.ID,
				Content:   row.Content,
				Score:     score,
				CreatedAt: row.CreatedAt,
			})
		}
	}

	// Rows arrive newest first, so a stable sort keeps recency as the
	// tie-break within equal scores.
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	if limit > 0 && len(scored) > limit {
		scored = scored[:limit]
	}
	return scored, nil
}

func (c *LocalClient) List(ctx context.Context) ([]Record, error) {
	rows, err := c.memories.ListMemories(c.userID)
	if err != nil {
		return nil, err
	}
	records := make([]Record, 0, len(rows))
	for _, row := range rows {
		records = append(records, Record{ID: row.ID, Content: row.Content, CreatedAt: row.CreatedAt})
	}
	return records, nil
}

// tokenize lowercases and splits text into terms, dropping punctuation
func tokenize(text string) map[string]bool {
	terms := make(map[string]bool)
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !('a' <= r && r <= 'z') && !('0' <= r && r <= '9')
	})
	for _, f := range fields {
		if len(f) > 1 {
			terms[f] = true
		}
	}
	return terms
}

// overlapScore is the fraction of query terms present in the content
func overlapScore(query, content map[string]bool) float64 {
	if len(query) == 0 {
		return 0
	}
	matched := 0
	for term := range query {
		if content[term] {
			matched++
		}
	}
	return float64(matched) / float64(len(query))
}

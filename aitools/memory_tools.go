package aitools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"scout/memory"
)

// StoreMemoryTool persists a free-text memory for the agent's user
type StoreMemoryTool struct {
	Client memory.Client
}

func (t *StoreMemoryTool) ToolName() string {
	return "store_memory"
}

func (t *StoreMemoryTool) ToolDescription() string {
	return "Stores a piece of information about the user so it can be recalled in later sessions. Use for preferences, facts, and context worth remembering."
}

func (t *StoreMemoryTool) ToolPayloadSchema() Schema {
	return Schema{
		Type: TypeObject,
		Properties: PropertyMap{
			"content": {
				Type:        TypeString,
				Description: "The information to remember",
			},
		},
		Required: []string{"content"},
	}
}

type storeMemoryParams struct {
	Content string `json:"content"`
}

func (t *StoreMemoryTool) Call(params string) string {
	var p storeMemoryParams
	if err := json.Unmarshal([]byte(params), &p); err != nil {
		return Unclassified("invalid parameters - " + err.Error()).Render()
	}
	if strings.TrimSpace(p.Content) == "" {
		return Unclassified("content is required").Render()
	}

	rec, err := t.Client.Store(context.Background(), p.Content)
	if err != nil {
		return FromError(err).Render()
	}
	return Ok(fmt.Sprintf("Memory stored (id: %s)", rec.ID)).Render()
}

// RecallMemoriesTool searches stored memories by relevance to a query
type RecallMemoriesTool struct {
	Client memory.Client
}

func (t *RecallMemoriesTool) ToolName() string {
	return "recall_memories"
}

func (t *RecallMemoriesTool) ToolDescription() string {
	return "Recalls previously stored memories relevant to a query, best match first."
}

func (t *RecallMemoriesTool) ToolPayloadSchema() Schema {
	return Schema{
		Type: TypeObject,
		Properties: PropertyMap{
			"query": {
				Type:        TypeString,
				Description: "What to search the memories for",
			},
			"limit": {
				Type:        TypeInteger,
				Description: "Maximum number of memories to return",
				Default:     5,
			},
		},
		Required: []string{"query"},
	}
}

type recallMemoriesParams struct {
	Query string `json:"query"`
	Limit int    `json:"limit"`
}

func (t *RecallMemoriesTool) Call(params string) string {
	var p recallMemoriesParams
	if err := json.Unmarshal([]byte(params), &p); err != nil {
		return Unclassified("invalid parameters - " + err.Error()).Render()
	}
	if strings.TrimSpace(p.Query) == "" {
		return Unclassified("query is required").Render()
	}
	if p.Limit <= 0 {
		p.Limit = 5
	}

	records, err := t.Client.Recall(context.Background(), p.Query, p.Limit)
	if err != nil {
		return FromError(err).Render()
	}
	if len(records) == 0 {
		return Ok("No memories found.").Render()
	}
	return renderMemories(records)
}

// ListMemoriesTool lists everything stored for the agent's user
type ListMemoriesTool struct {
	Client memory.Client
}

func (t *ListMemoriesTool) ToolName() string {
	return "list_memories"
}

func (t *ListMemoriesTool) ToolDescription() string {
	return "Lists every memory stored for the current user, newest first."
}

func (t *ListMemoriesTool) ToolPayloadSchema() Schema {
	return Schema{
		Type:       TypeObject,
		Properties: PropertyMap{},
	}
}

func (t *ListMemoriesTool) Call(params string) string {
	records, err := t.Client.List(context.Background())
	if err != nil {
		return FromError(err).Render()
	}
	if len(records) == 0 {
		return Ok("No memories found.").Render()
	}
	return renderMemories(records)
}

func renderMemories(records []memory.Record) string {
	out, err := json.Marshal(records)
	if err != nil {
		return Unclassified("failed to encode memories - " + err.Error()).Render()
	}
	return Ok(string(out)).Render()
}

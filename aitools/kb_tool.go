package aitools

import (
	"context"
	"encoding/json"
	"strings"

	"scout/knowledge"
)

// KBQueryTool retrieves passages from a managed knowledge base
type KBQueryTool struct {
	Client *knowledge.Client
	TopK   int
}

func (t *KBQueryTool) ToolName() string {
	return "kb_query"
}

func (t *KBQueryTool) ToolDescription() string {
	return "Retrieves the most relevant passages from the configured knowledge base for a query. Use when the user asks about indexed documents."
}

func (t *KBQueryTool) ToolPayloadSchema() Schema {
	return Schema{
		Type: TypeObject,
		Properties: PropertyMap{
			"query": {
				Type:        TypeString,
				Description: "The question or keywords to retrieve passages for",
			},
			"top_k": {
				Type:        TypeInteger,
				Description: "Number of passages to retrieve",
			},
		},
		Required: []string{"query"},
	}
}

type kbQueryParams struct {
	Query string `json:"query"`
	TopK  int    `json:"top_k"`
}

func (t *KBQueryTool) Call(params string) string {
	var p kbQueryParams
	if err := json.Unmarshal([]byte(params), &p); err != nil {
		return Unclassified("invalid parameters - " + err.Error()).Render()
	}
	if strings.TrimSpace(p.Query) == "" {
		return Unclassified("query is required").Render()
	}

	topK := p.TopK
	if topK <= 0 {
		topK = t.TopK
	}

	passages, err := t.Client.Retrieve(context.Background(), p.Query, topK)
	if err != nil {
		return FromError(err).Render()
	}
	if len(passages) == 0 {
		return Ok("No passages found.").Render()
	}

	out, err := json.Marshal(passages)
	if err != nil {
		return Unclassified("failed to encode passages - " + err.Error()).Render()
	}
	return Ok(string(out)).Render()
}

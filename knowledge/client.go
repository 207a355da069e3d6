// Package knowledge queries an externally provisioned retrieval-augmented
// knowledge base. Ingestion, chunking and vector indexing happen on the
// managed service; only the query path lives here.
package knowledge

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Passage is a retrieved chunk with its relevance score and source location
type Passage struct {
	Text   string  `json:"text"`
	Score  float64 `json:"score"`
	Source string  `json:"source,omitempty"`
}

// GeneratedAnswer is the output of a retrieve-and-generate call
type GeneratedAnswer struct {
	Answer    string    `json:"answer"`
	Citations []Passage `json:"citations,omitempty"`
}

// APIError is a failure reported by the knowledge base service
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("knowledge base HTTP %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("knowledge base HTTP %d", e.Status)
}

// RateLimited reports whether the service signaled throttling
func (e *APIError) RateLimited() bool {
	return e.Status == http.StatusTooManyRequests
}

// ProviderLabel tags the error for tool result rendering
func (e *APIError) ProviderLabel() string {
	return "KnowledgeBaseException"
}

// Client talks to a managed knowledge base's retrieve APIs
type Client struct {
	baseURL string
	apiKey  string
	kbID    string
	topK    int
	client  *http.Client
}

// Options configures a knowledge base client
type Options struct {
	BaseURL string
	APIKey  string
	KBID    string
	// TopK is the default passage count for Retrieve when the caller
	// passes 0; the service default applies when this is also 0.
	TopK int
}

// New creates a client for one knowledge base
func New(opts Options) *Client {
	return &Client{
		baseURL: strings.TrimRight(opts.BaseURL, "/"),
		apiKey:  opts.APIKey,
		kbID:    opts.KBID,
		topK:    opts.TopK,
		client:  &http.Client{Timeout: 60 * time.Second},
	}
}

// KBID returns the knowledge base identifier this client queries
func (c *Client) KBID() string {
	return c.kbID
}

// DefaultTopK returns the configured default passage count
func (c *Client) DefaultTopK() int {
	return c.topK
}

// wire formats for the managed retrieve APIs

type retrieveRequest struct {
	Query string `json:"query"`
	TopK  int    `json:"top_k,omitempty"`
}

type retrieveResponse struct {
	Results []struct {
		Content struct {
			Text string `json:"text"`
		} `json:"content"`
		Score    float64 `json:"score"`
		Location struct {
			URI string `json:"uri"`
		} `json:"location"`
	} `json:"results"`
}

type generateResponse struct {
	Output struct {
		Text string `json:"text"`
	} `json:"output"`
	Citations []struct {
		Text   string  `json:"text"`
		Score  float64 `json:"score"`
		Source string  `json:"source"`
	} `json:"citations"`
}

// Retrieve returns up to topK passages relevant to the query
func (c *Client) Retrieve(ctx context.Context, query string, topK int) ([]Passage, error) {
	if topK <= 0 {
		topK = c.topK
	}

	var out retrieveResponse
	path := fmt.Sprintf("/knowledgebases/%s/retrieve", c.kbID)
	if err := c.post(ctx, path, retrieveRequest{Query: query, TopK: topK}, &out); err != nil {
		return nil, err
	}

	passages := make([]Passage, 0, len(out.Results))
	for _, r := range out.Results {
		passages = append(passages, Passage{
			Text:   r.Content.Text,
			Score:  r.Score,
			Source: r.Location.URI,
		})
	}
	return passages, nil
}

// RetrieveAndGenerate asks the managed service to answer the query from
// the knowledge base, returning the generated answer with citations.
func (c *Client) RetrieveAndGenerate(ctx context.Context, query string) (*GeneratedAnswer, error) {
	var out generateResponse
	path := fmt.Sprintf("/knowledgebases/%s/retrieve-and-generate", c.kbID)
	if err := c.post(ctx, path, retrieveRequest{Query: query}, &out); err != nil {
		return nil, err
	}

	answer := &GeneratedAnswer{Answer: out.Output.Text}
	for _, cit := range out.Citations {
		answer.Citations = append(answer.Citations, Passage{
			Text:   cit.Text,
			Score:  cit.Score,
			Source: cit.Source,
		})
	}
	return answer, nil
}

func (c *Client) post(ctx context.Context, path string, payload, out any) error {
	b, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(b))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &APIError{Status: resp.StatusCode, Message: strings.TrimSpace(string(msg))}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

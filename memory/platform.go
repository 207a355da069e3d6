package memory

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// APIError is a failure reported by the hosted memory platform
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("memory service HTTP %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("memory service HTTP %d", e.Status)
}

// RateLimited reports whether the platform signaled throttling
func (e *APIError) RateLimited() bool {
	return e.Status == http.StatusTooManyRequests
}

// ProviderLabel tags the error for tool result rendering
func (e *APIError) ProviderLabel() string {
	return "MemoryServiceException"
}

// PlatformClient talks to a hosted memory platform's REST API.
type PlatformClient struct {
	baseURL string
	apiKey  string
	userID  string
	client  *http.Client
}

// NewPlatform creates a hosted memory client for the given user
func NewPlatform(baseURL, apiKey, userID string) *PlatformClient {
	return &PlatformClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		userID:  userID,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

// platformRecord mirrors the platform's wire format
type platformRecord struct {
	ID        string    `json:"id"`
	Memory    string    `json:"memory"`
	Score     float64   `json:"score,omitempty"`
	CreatedAt time.Time `json:"created_at,omitempty"`
}

func (c *PlatformClient) Store(ctx context.Context, content string) (Record, error) {
	payload := map[string]any{
		"user_id": c.userID,
		"messages": []map[string]string{
			{"role": "user", "content": content},
		},
	}

	var out struct {
		Results []platformRecord `json:"results"`
	}
	if err := c.do(ctx, http.MethodPost, "/v1/memories/", payload, &out); err != nil {
		return Record{}, err
	}
	if len(out.Results) == 0 {
		return Record{Content: content}, nil
	}
	r := out.Results[0]
	return Record{ID: r.ID, Content: r.Memory, CreatedAt: r.CreatedAt}, nil
}

func (c *PlatformClient) Recall(ctx context.Context, query string, limit int) ([]Record, error) {
	payload := map[string]any{
		"user_id": c.userID,
		"query":   query,
	}
	if limit > 0 {
		payload["top_k"] = limit
	}

	var out struct {
		Results []platformRecord `json:"results"`
	}
	if err := c.do(ctx, http.MethodPost, "/v1/memories/search/", payload, &out); err != nil {
		return nil, err
	}
	return convertRecords(out.Results), nil
}

func (c *PlatformClient) List(ctx context.Context) ([]Record, error) {
	path := "/v1/memories/?" + url.Values{"user_id": []string{c.userID}}.Encode()

	var out struct {
		Results []platformRecord `json:"results"`
	}
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return convertRecords(out.Results), nil
}

func convertRecords(in []platformRecord) []Record {
	records := make([]Record, 0, len(in))
	for _, r := range in {
		records = append(records, Record{
			ID:        r.ID,
			Content:   r.Memory,
			Score:     r.Score,
			CreatedAt: r.CreatedAt,
		})
	}
	return records
}

// do executes one API call, decoding a JSON response into out when non-nil
func (c *PlatformClient) do(ctx context.Context, method, path string, payload, out any) error {
	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Token "+c.apiKey)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &APIError{Status: resp.StatusCode, Message: strings.TrimSpace(string(msg))}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

package aitools

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const userAgent = "scout-cli"

var httpClient = &http.Client{
	Timeout: 30 * time.Second,
}

// HTTPGetTool performs HTTP GET requests
type HTTPGetTool struct{}

func (t *HTTPGetTool) ToolName() string {
	return "http_get"
}

func (t *HTTPGetTool) ToolDescription() string {
	return "Performs an HTTP GET request to the specified URL and returns the response body."
}

func (t *HTTPGetTool) ToolPayloadSchema() Schema {
	return Schema{
		Type: TypeObject,
		Properties: PropertyMap{
			"url": {
				Type:        TypeString,
				Description: "The URL to send the GET request to",
			},
			"headers": {
				Type:        TypeObject,
				Description: "Optional headers to include in the request (key-value pairs)",
			},
		},
		Required: []string{"url"},
	}
}

type httpGetParams struct {
	URL     string            `json:"url"`
	Headers map[string]string `json:"headers"`
}

func (t *HTTPGetTool) Call(params string) string {
	var p httpGetParams
	if err := json.Unmarshal([]byte(params), &p); err != nil {
		return Unclassified("invalid parameters - " + err.Error()).Render()
	}

	if p.URL == "" {
		return Unclassified("url is required").Render()
	}

	req, err := http.NewRequest(http.MethodGet, p.URL, nil)
	if err != nil {
		return Unclassified("failed to create request - " + err.Error()).Render()
	}

	for k, v := range p.Headers {
		req.Header.Set(k, v)
	}

	return executeRequest(req).Render()
}

// HTTPPostTool performs HTTP POST requests
type HTTPPostTool struct{}

func (t *HTTPPostTool) ToolName() string {
	return "http_post"
}

func (t *HTTPPostTool) ToolDescription() string {
	return "Performs an HTTP POST request to the specified URL with a body and returns the response. Supports JSON, form data, and plain text content types."
}

func (t *HTTPPostTool) ToolPayloadSchema() Schema {
	return Schema{
		Type: TypeObject,
		Properties: PropertyMap{
			"url": {
				Type:        TypeString,
				Description: "The URL to send the POST request to",
			},
			"body": {
				Type:        TypeObject,
				Description: "The body to send (object for JSON/form, string for text)",
			},
			"content_type": {
				Type:        TypeString,
				Description: "Content type: 'json' (default), 'form', or 'text'",
			},
			"headers": {
				Type:        TypeObject,
				Description: "Optional headers to include in the request (key-value pairs)",
			},
		},
		Required: []string{"url"},
	}
}

type httpBodyParams struct {
	URL         string            `json:"url"`
	Body        any               `json:"body"`
	ContentType string            `json:"content_type"`
	Headers     map[string]string `json:"headers"`
}

func (t *HTTPPostTool) Call(params string) string {
	var p httpBodyParams
	if err := json.Unmarshal([]byte(params), &p); err != nil {
		return Unclassified("invalid parameters - " + err.Error()).Render()
	}

	if p.URL == "" {
		return Unclassified("url is required").Render()
	}

	body, contentType, err := encodeBody(p.Body, p.ContentType)
	if err != nil {
		return Unclassified(err.Error()).Render()
	}

	req, err := http.NewRequest(http.MethodPost, p.URL, body)
	if err != nil {
		return Unclassified("failed to create request - " + err.Error()).Render()
	}
	req.Header.Set("Content-Type", contentType)

	for k, v := range p.Headers {
		req.Header.Set(k, v)
	}

	return executeRequest(req).Render()
}

// encodeBody encodes the body for the given content_type option
func encodeBody(body any, contentType string) (io.Reader, string, error) {
	switch contentType {
	case "", "json":
		b, err := json.Marshal(body)
		if err != nil {
			return nil, "", fmt.Errorf("failed to encode JSON body - %s", err.Error())
		}
		return bytes.NewReader(b), "application/json", nil

	case "form":
		m, ok := body.(map[string]any)
		if !ok {
			return nil, "", fmt.Errorf("form body must be an object of key-value pairs")
		}
		values := url.Values{}
		for k, v := range m {
			values.Set(k, fmt.Sprintf("%v", v))
		}
		return strings.NewReader(values.Encode()), "application/x-www-form-urlencoded", nil

	case "text":
		s, ok := body.(string)
		if !ok {
			return nil, "", fmt.Errorf("text body must be a string")
		}
		return strings.NewReader(s), "text/plain", nil

	default:
		return nil, "", fmt.Errorf("unknown content_type '%s' (expected json, form, or text)", contentType)
	}
}

// executeRequest runs the request and classifies the outcome. Response
// bodies are capped to keep tool observations small.
func executeRequest(req *http.Request) Result {
	req.Header.Set("User-Agent", userAgent)

	resp, err := httpClient.Do(req)
	if err != nil {
		return Unclassified("request failed - " + err.Error())
	}
	defer resp.Body.Close()

	const maxBody = 64 * 1024
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return Unclassified("failed to read response - " + err.Error())
	}

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return RateLimited(fmt.Sprintf("HTTP %d from %s", resp.StatusCode, req.URL.Host))
	case resp.StatusCode >= 400:
		return ProviderFailure("HTTPException", fmt.Sprintf("HTTP %d from %s: %s", resp.StatusCode, req.URL.Host, strings.TrimSpace(string(body))))
	}

	return Ok(string(body))
}

package aitools

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const defaultSearchEndpoint = "https://api.duckduckgo.com/"

// searchProviderLabel tags provider-specific search failures, matching the
// exception name the DuckDuckGo client libraries raise.
const searchProviderLabel = "DuckDuckGoSearchException"

// WebSearchTool searches the web through the DuckDuckGo answer API.
type WebSearchTool struct {
	// Endpoint overrides the DuckDuckGo API URL (tests point it at a fixture server)
	Endpoint string
	// Client overrides the HTTP client
	Client *http.Client
}

var searchClient = &http.Client{Timeout: 30 * time.Second}

func (t *WebSearchTool) ToolName() string {
	return "web_search"
}

func (t *WebSearchTool) ToolDescription() string {
	return "Searches the web for the given keywords and returns a list of results with title, href and body. Region and result count are configurable."
}

func (t *WebSearchTool) ToolPayloadSchema() Schema {
	return Schema{
		Type: TypeObject,
		Properties: PropertyMap{
			"keywords": {
				Type:        TypeString,
				Description: "The search query keywords",
			},
			"region": {
				Type:        TypeString,
				Description: "Search region code, e.g. us-en, uk-en, ru-ru",
				Default:     "us-en",
			},
			"max_results": {
				Type:        TypeInteger,
				Description: "Maximum number of results to return",
			},
		},
		Required: []string{"keywords"},
	}
}

type webSearchParams struct {
	Keywords   string `json:"keywords"`
	Region     string `json:"region"`
	MaxResults int    `json:"max_results"`
}

// SearchRecord is a single web search hit
type SearchRecord struct {
	Title string `json:"title"`
	Href  string `json:"href"`
	Body  string `json:"body"`
}

// ddgResponse mirrors the fields of the DuckDuckGo answer API we consume
type ddgResponse struct {
	Heading       string     `json:"Heading"`
	AbstractText  string     `json:"AbstractText"`
	AbstractURL   string     `json:"AbstractURL"`
	RelatedTopics []ddgTopic `json:"RelatedTopics"`
}

type ddgTopic struct {
	FirstURL string     `json:"FirstURL"`
	Text     string     `json:"Text"`
	Topics   []ddgTopic `json:"Topics"`
}

func (t *WebSearchTool) Call(params string) string {
	var p webSearchParams
	if err := json.Unmarshal([]byte(params), &p); err != nil {
		return Unclassified("invalid parameters - " + err.Error()).Render()
	}
	if p.Keywords == "" {
		return Unclassified("keywords is required").Render()
	}
	if p.Region == "" {
		p.Region = "us-en"
	}

	return t.search(p).Render()
}

func (t *WebSearchTool) search(p webSearchParams) Result {
	endpoint := t.Endpoint
	if endpoint == "" {
		endpoint = defaultSearchEndpoint
	}
	client := t.Client
	if client == nil {
		client = searchClient
	}

	q := url.Values{}
	q.Set("q", p.Keywords)
	q.Set("format", "json")
	q.Set("no_html", "1")
	q.Set("kl", p.Region)

	resp, err := client.Get(endpoint + "?" + q.Encode())
	if err != nil {
		return Unclassified(err.Error())
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return RateLimited(fmt.Sprintf("search provider throttled the request (HTTP %d)", resp.StatusCode))
	case resp.StatusCode != http.StatusOK:
		return ProviderFailure(searchProviderLabel, fmt.Sprintf("search provider returned HTTP %d", resp.StatusCode))
	}

	var body ddgResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return ProviderFailure(searchProviderLabel, "malformed search response - "+err.Error())
	}

	records := collectRecords(body, p.MaxResults)
	if len(records) == 0 {
		return Ok("No results found.")
	}

	out, err := json.Marshal(records)
	if err != nil {
		return Unclassified("failed to encode results - " + err.Error())
	}
	return Ok(string(out))
}

// collectRecords flattens the answer abstract and related topics into
// search records, capped at max when max > 0.
func collectRecords(body ddgResponse, max int) []SearchRecord {
	var records []SearchRecord

	add := func(rec SearchRecord) bool {
		if rec.Href == "" && rec.Body == "" {
			return true
		}
		records = append(records, rec)
		return max <= 0 || len(records) < max
	}

	if body.AbstractText != "" {
		if !add(SearchRecord{Title: body.Heading, Href: body.AbstractURL, Body: body.AbstractText}) {
			return records
		}
	}

	var walk func(topics []ddgTopic) bool
	walk = func(topics []ddgTopic) bool {
		for _, topic := range topics {
			if len(topic.Topics) > 0 {
				if !walk(topic.Topics) {
					return false
				}
				continue
			}
			title, snippet := splitTopicText(topic.Text)
			if !add(SearchRecord{Title: title, Href: topic.FirstURL, Body: snippet}) {
				return false
			}
		}
		return true
	}
	walk(body.RelatedTopics)

	return records
}

// splitTopicText splits a related-topic line of the form "Title - snippet"
func splitTopicText(text string) (string, string) {
	parts := strings.SplitN(text, " - ", 2)
	if len(parts) == 2 {
		return parts[0], parts[1]
	}
	return text, text
}

package llm

import (
	"context"

	"github.com/openai/openai-go/option"
)

const openRouterBaseURL = "https://openrouter.ai/api/v1"

// OpenRouterProvider routes chat requests through OpenRouter, which fronts
// many upstream model providers behind one OpenAI-compatible API. Model
// names are routing slugs like "meta-llama/llama-4-maverick".
type OpenRouterProvider struct {
	inner *OpenAIProvider
}

// NewOpenRouterProvider creates a provider against the public OpenRouter API.
// baseURL overrides the endpoint when non-empty (gateways, test servers).
func NewOpenRouterProvider(apiKey, baseURL string) *OpenRouterProvider {
	if baseURL == "" {
		baseURL = openRouterBaseURL
	}
	inner := newOpenAIProviderWithOptions(
		option.WithAPIKey(apiKey),
		option.WithBaseURL(baseURL),
		// OpenRouter attribution headers, used for app ranking on their side
		option.WithHeader("HTTP-Referer", "https://github.com/scout-cli/scout"),
		option.WithHeader("X-Title", "scout"),
	)
	return &OpenRouterProvider{inner: inner}
}

func (p *OpenRouterProvider) Chat(ctx context.Context, req *ChatRequest) (*ChatResponse, error) {
	return p.inner.Chat(ctx, req)
}

func (p *OpenRouterProvider) ChatStream(ctx context.Context, req *ChatRequest) (<-chan StreamChunk, error) {
	return p.inner.ChatStream(ctx, req)
}

package agent

import (
	"context"
	"fmt"

	"scout/agent/internal/prompts"
	"scout/aitools"
	"scout/config"
	"scout/knowledge"
	"scout/llm"
	"scout/memory"
	"scout/store"
	"scout/streamers"
)

// ChatResult represents the outcome of a chat interaction
type ChatResult struct {
	Answer   string // Final answer (if complete)
	Complete bool   // True if an answer was produced
}

// Agent represents a fully initialized agent ready to chat
type Agent struct {
	Name      string
	ModelName string

	session      *llm.Session
	tools        map[string]aitools.Tool
	provider     llm.Provider
	ownsProvider bool // true if we created the provider and should close it
	bundle       *store.Bundle
	ownsBundle   bool // true if we opened the bundle and should close it
	memoryClient memory.Client
	kbClient     *knowledge.Client
}

// Options for creating an agent
type Options struct {
	// ConfigPath is the path to the config file or directory
	ConfigPath string
	// Config is the pre-loaded configuration (optional, avoids reloading)
	Config *config.Config
	// AgentName is the name of the agent to load
	AgentName string
	// DebugFile enables debug logging to the specified file (optional)
	DebugFile string
	// Store is a shared storage bundle (optional; one is opened from the
	// storage block when the agent needs local memory and none is given)
	Store *store.Bundle
}

// New creates a new agent from config
func New(ctx context.Context, opts Options) (*Agent, error) {
	var cfg *config.Config
	var err error
	if opts.Config != nil {
		cfg = opts.Config
	} else {
		cfg, err = config.LoadAndValidate(opts.ConfigPath)
		if err != nil {
			return nil, fmt.Errorf("loading config: %w", err)
		}
	}

	agentCfg := cfg.GetAgent(opts.AgentName)
	if agentCfg == nil {
		return nil, fmt.Errorf("agent '%s' not found", opts.AgentName)
	}

	// Resolve model from config
	modelConfig, actualModelName, err := agentCfg.ResolveModel(cfg.Models)
	if err != nil {
		return nil, fmt.Errorf("resolving model: %w", err)
	}

	if modelConfig.APIKey == "" {
		return nil, fmt.Errorf("API key not set for model '%s'", modelConfig.Name)
	}

	// Create provider
	provider, ownsProvider, err := createProvider(ctx, modelConfig)
	if err != nil {
		return nil, fmt.Errorf("creating provider: %w", err)
	}

	// Wire the memory client if the agent has a memory attachment
	var memClient memory.Client
	var bundle *store.Bundle
	ownsBundle := false
	if agentCfg.Memory != "" {
		memCfg := cfg.GetMemory(agentCfg.Memory)
		memClient, bundle, ownsBundle, err = buildMemoryClient(memCfg, cfg.Storage, opts.Store)
		if err != nil {
			return nil, fmt.Errorf("wiring memory '%s': %w", agentCfg.Memory, err)
		}
	}

	// Wire the knowledge base client if the agent has one attached
	var kbClient *knowledge.Client
	kbTopK := 0
	if agentCfg.KnowledgeBase != "" {
		kbCfg := cfg.GetKnowledgeBase(agentCfg.KnowledgeBase)
		kbClient = knowledge.New(knowledge.Options{
			BaseURL: kbCfg.BaseURL,
			APIKey:  kbCfg.APIKey,
			KBID:    kbCfg.ID,
			TopK:    kbCfg.TopK,
		})
		kbTopK = kbCfg.TopK
	}

	// Build the tool registry
	registry, err := config.BuildRegistry(agentCfg.Tools, cfg.CustomTools, config.ToolDeps{
		Memory:    memClient,
		Knowledge: kbClient,
		KBTopK:    kbTopK,
	})
	if err != nil {
		return nil, fmt.Errorf("building tools: %w", err)
	}
	tools := registry.Tools()

	// Build system prompts
	systemPrompts := []string{
		prompts.GetAgentPrompt(tools),
		fmt.Sprintf("Personality: %s", agentCfg.Personality),
		fmt.Sprintf("Role: %s", agentCfg.Role),
	}

	// Create session
	session := llm.NewSession(provider, actualModelName, systemPrompts...)

	// Stop sequence prevents the LLM from hallucinating observations
	session.SetStopSequences([]string{"___STOP___"})

	if opts.DebugFile != "" {
		if err := session.EnableDebug(opts.DebugFile); err != nil {
			fmt.Printf("Warning: could not enable debug logging: %v\n", err)
		}
	}

	return &Agent{
		Name:         agentCfg.Name,
		ModelName:    actualModelName,
		session:      session,
		tools:        tools,
		provider:     provider,
		ownsProvider: ownsProvider,
		bundle:       bundle,
		ownsBundle:   ownsBundle,
		memoryClient: memClient,
		kbClient:     kbClient,
	}, nil
}

// Close releases resources held by the agent
func (a *Agent) Close() {
	if a.session != nil {
		a.session.Close()
	}
	if a.ownsBundle && a.bundle != nil {
		a.bundle.Close()
	}
	if a.ownsProvider {
		if closer, ok := a.provider.(interface{ Close() error }); ok {
			closer.Close()
		}
	}
}

// Chat processes a single message and returns a ChatResult
// The streamer receives real-time updates during processing
func (a *Agent) Chat(ctx context.Context, input string, streamer streamers.ChatHandler) (ChatResult, error) {
	sessionAdapter := llm.NewSessionAdapter(a.session)
	orchestrator := newOrchestrator(sessionAdapter, streamer, a.tools)
	return orchestrator.processTurn(ctx, input)
}

// GetTools returns the agent's available tools
func (a *Agent) GetTools() map[string]aitools.Tool {
	return a.tools
}

// Memory returns the agent's memory client (nil when no memory is attached)
func (a *Agent) Memory() memory.Client {
	return a.memoryClient
}

// KnowledgeBase returns the agent's knowledge base client (nil when none is attached)
func (a *Agent) KnowledgeBase() *knowledge.Client {
	return a.kbClient
}

// History returns the session's conversation history
func (a *Agent) History() []llm.Message {
	return a.session.GetHistory()
}

// RestoreHistory replaces the session history, used when resuming a
// persisted chat session.
func (a *Agent) RestoreHistory(messages []llm.Message) {
	a.session.RestoreHistory(messages)
}

// buildMemoryClient wires a memory.Client for the given memory block.
// The store backend persists through a storage bundle; the platform
// backend talks to a hosted memory service.
func buildMemoryClient(memCfg *config.Memory, storageCfg *config.StorageConfig, shared *store.Bundle) (memory.Client, *store.Bundle, bool, error) {
	if memCfg == nil {
		return nil, nil, false, fmt.Errorf("memory block not found")
	}

	switch memCfg.Backend {
	case "", "store":
		bundle := shared
		owns := false
		if bundle == nil {
			var err error
			bundle, err = store.NewBundle(storageCfg.StoreOptions())
			if err != nil {
				return nil, nil, false, err
			}
			owns = true
		}
		return memory.NewLocal(bundle.Memories, memCfg.UserID), bundle, owns, nil

	case "platform":
		client := memory.NewPlatform(memCfg.BaseURL, memCfg.APIKey, memCfg.UserID)
		return client, nil, false, nil

	default:
		return nil, nil, false, fmt.Errorf("unknown memory backend '%s'", memCfg.Backend)
	}
}

// createProvider creates the appropriate LLM provider based on config
func createProvider(ctx context.Context, modelConfig *config.Model) (llm.Provider, bool, error) {
	switch modelConfig.Provider {
	case config.ProviderOpenAI:
		return llm.NewOpenAIProvider(modelConfig.APIKey), false, nil
	case config.ProviderAnthropic:
		return llm.NewAnthropicProvider(modelConfig.APIKey), false, nil
	case config.ProviderOpenRouter:
		return llm.NewOpenRouterProvider(modelConfig.APIKey, modelConfig.BaseURL), false, nil
	case config.ProviderGemini:
		provider, err := llm.NewGeminiProvider(ctx, modelConfig.APIKey)
		if err != nil {
			return nil, false, err
		}
		return provider, true, nil // Gemini provider needs to be closed
	default:
		return nil, false, fmt.Errorf("unknown provider: %s", modelConfig.Provider)
	}
}

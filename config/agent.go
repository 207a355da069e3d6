package config

import (
	"fmt"
	"strings"
)

// BuiltinTools maps builtin namespaces to their tools. These are
// referenced in HCL as builtin.time.current_time, builtin.http.get, etc.
var BuiltinTools = map[string][]string{
	"time":    {"current_time"},
	"weather": {"current_weather"},
	"search":  {"web_search"},
	"http":    {"get", "post"},
	"memory":  {"store", "recall", "list"},
	"kb":      {"query"},
}

// ReservedNamespaces are names that custom tools may not shadow
var ReservedNamespaces = []string{"builtin", "tools", "models", "vars", "agents"}

// IsBuiltinTool checks if a tool reference (e.g., "builtin.http.get") names a builtin
func IsBuiltinTool(ref string) bool {
	parts := strings.Split(ref, ".")
	if len(parts) != 3 || parts[0] != "builtin" {
		return false
	}
	tools, ok := BuiltinTools[parts[1]]
	if !ok {
		return false
	}
	for _, t := range tools {
		if t == parts[2] {
			return true
		}
	}
	return false
}

// IsReservedNamespace checks if a name collides with a config namespace
func IsReservedNamespace(name string) bool {
	for _, n := range ReservedNamespaces {
		if n == name {
			return true
		}
	}
	return false
}

// Agent represents an AI agent configuration
type Agent struct {
	Name        string   `hcl:"name,label"`
	Model       string   `hcl:"model"`
	Personality string   `hcl:"personality"`
	Role        string   `hcl:"role"`
	Tools       []string `hcl:"tools,optional"`

	// Memory names a memory block this agent stores and recalls from
	Memory string `hcl:"memory,optional"`
	// KnowledgeBase names a knowledge_base block this agent retrieves from
	KnowledgeBase string `hcl:"knowledge_base,optional"`
}

// Validate checks agent constraints that don't need the full config.
// Tool references are validated in Config.Validate() since they need
// the custom tool definitions.
func (a *Agent) Validate() error {
	if a.Model == "" {
		return fmt.Errorf("agent '%s': model is required", a.Name)
	}
	return nil
}

// UsesMemoryTools reports whether any of the agent's tools need a memory client
func (a *Agent) UsesMemoryTools() bool {
	for _, ref := range a.Tools {
		if strings.HasPrefix(ref, "builtin.memory.") {
			return true
		}
	}
	return false
}

// UsesKBTools reports whether any of the agent's tools need a knowledge base client
func (a *Agent) UsesKBTools() bool {
	for _, ref := range a.Tools {
		if strings.HasPrefix(ref, "builtin.kb.") {
			return true
		}
	}
	return false
}

// ResolveModel finds the Model config that matches this agent's model key
func (a *Agent) ResolveModel(models []Model) (*Model, string, error) {
	// a.Model is the model key (e.g., "llama_4_maverick")
	// Find which provider supports this model and get the actual model name
	for i := range models {
		m := &models[i]
		supportedModels, ok := SupportedModels[m.Provider]
		if !ok {
			continue
		}

		for _, allowedKey := range m.AllowedModels {
			if allowedKey == a.Model {
				actualModel, ok := supportedModels[a.Model]
				if !ok {
					return nil, "", fmt.Errorf("model key '%s' not found in supported models for provider '%s'", a.Model, m.Provider)
				}
				return m, actualModel, nil
			}
		}
	}

	return nil, "", fmt.Errorf("no model config found for model '%s'", a.Model)
}

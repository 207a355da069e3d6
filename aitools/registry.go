package aitools

import (
	"fmt"
	"sort"
)

// Registry maps tool names to implementations. It is populated once at
// startup and consumed read-only by the agent runtime; there is no
// concurrent registration.
type Registry struct {
	tools map[string]Tool
}

// NewRegistry creates an empty tool registry
func NewRegistry() *Registry {
	return &Registry{tools: make(map[string]Tool)}
}

// Register adds a tool under name. Registering a second tool under an
// existing name is rejected rather than silently shadowing the first.
func (r *Registry) Register(name string, tool Tool) error {
	if name == "" {
		return fmt.Errorf("tool name must not be empty")
	}
	if _, exists := r.tools[name]; exists {
		return fmt.Errorf("tool '%s' already registered", name)
	}
	r.tools[name] = tool
	return nil
}

// Get retrieves a tool by name
func (r *Registry) Get(name string) (Tool, bool) {
	tool, ok := r.tools[name]
	return tool, ok
}

// Names returns all registered tool names in sorted order
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.tools))
	for name := range r.tools {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Tools returns the name -> Tool map consumed by the orchestrator.
// Callers must treat it as read-only.
func (r *Registry) Tools() map[string]Tool {
	return r.tools
}

// Len returns the number of registered tools
func (r *Registry) Len() int {
	return len(r.tools)
}

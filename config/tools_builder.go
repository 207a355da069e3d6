package config

import (
	"fmt"
	"strings"

	"scout/aitools"
	"scout/knowledge"
	"scout/memory"
)

// ToolDeps carries the wired service clients builtin tools need.
// Memory is required for builtin.memory.* references and Knowledge
// for builtin.kb.* references; everything else works unwired.
type ToolDeps struct {
	Memory    memory.Client
	Knowledge *knowledge.Client
	KBTopK    int
}

// BuildRegistry creates a tool registry from the agent's tools list.
// Tools can be:
//   - Builtin tools: builtin.search.web_search, builtin.http.get
//   - Namespace markers: builtin.http.all
//   - Custom tools: tools.weather, tools.shout (defined in HCL)
func BuildRegistry(agentTools []string, customTools []CustomTool, deps ToolDeps) (*aitools.Registry, error) {
	registry := aitools.NewRegistry()

	customToolMap := make(map[string]*CustomTool)
	for i := range customTools {
		customToolMap[customTools[i].Name] = &customTools[i]
	}

	register := func(tool aitools.Tool) error {
		if tool == nil {
			return nil
		}
		name := tool.ToolName()
		// The same builtin can be reachable through several references
		// (explicit plus an .all marker); the first one wins.
		if _, ok := registry.Get(name); ok {
			return nil
		}
		return registry.Register(name, tool)
	}

	for _, toolRef := range agentTools {
		// "builtin.{namespace}.all" expands to every tool in the namespace
		if strings.HasPrefix(toolRef, "builtin.") && strings.HasSuffix(toolRef, ".all") {
			parts := strings.Split(toolRef, ".")
			if len(parts) != 3 {
				return nil, fmt.Errorf("invalid tool reference '%s'", toolRef)
			}
			namespace := parts[1]
			builtins, ok := BuiltinTools[namespace]
			if !ok {
				return nil, fmt.Errorf("unknown builtin namespace '%s'", namespace)
			}
			for _, toolName := range builtins {
				tool, err := buildBuiltinTool("builtin."+namespace+"."+toolName, deps)
				if err != nil {
					return nil, err
				}
				if err := register(tool); err != nil {
					return nil, err
				}
			}
			continue
		}

		switch {
		case IsBuiltinTool(toolRef):
			tool, err := buildBuiltinTool(toolRef, deps)
			if err != nil {
				return nil, err
			}
			if err := register(tool); err != nil {
				return nil, err
			}

		case strings.HasPrefix(toolRef, "tools."):
			customToolName := strings.TrimPrefix(toolRef, "tools.")
			ct, ok := customToolMap[customToolName]
			if !ok {
				return nil, fmt.Errorf("unknown custom tool '%s'", toolRef)
			}
			base, err := buildBuiltinTool(ct.Implements, deps)
			if err != nil {
				return nil, err
			}
			if err := register(ct.ToTool(base)); err != nil {
				return nil, err
			}

		default:
			// Legacy: bare custom tool name
			ct, ok := customToolMap[toolRef]
			if !ok {
				return nil, fmt.Errorf("unknown tool '%s'", toolRef)
			}
			base, err := buildBuiltinTool(ct.Implements, deps)
			if err != nil {
				return nil, err
			}
			if err := register(ct.ToTool(base)); err != nil {
				return nil, err
			}
		}
	}

	return registry, nil
}

// buildBuiltinTool returns the wired aitools.Tool for a builtin reference
func buildBuiltinTool(ref string, deps ToolDeps) (aitools.Tool, error) {
	switch ref {
	case "builtin.time.current_time":
		return &aitools.CurrentTimeTool{}, nil
	case "builtin.weather.current_weather":
		return &aitools.WeatherTool{}, nil
	case "builtin.search.web_search":
		return &aitools.WebSearchTool{}, nil
	case "builtin.http.get":
		return &aitools.HTTPGetTool{}, nil
	case "builtin.http.post":
		return &aitools.HTTPPostTool{}, nil
	case "builtin.memory.store":
		if deps.Memory == nil {
			return nil, fmt.Errorf("tool '%s' requires a memory attachment", ref)
		}
		return &aitools.StoreMemoryTool{Client: deps.Memory}, nil
	case "builtin.memory.recall":
		if deps.Memory == nil {
			return nil, fmt.Errorf("tool '%s' requires a memory attachment", ref)
		}
		return &aitools.RecallMemoriesTool{Client: deps.Memory}, nil
	case "builtin.memory.list":
		if deps.Memory == nil {
			return nil, fmt.Errorf("tool '%s' requires a memory attachment", ref)
		}
		return &aitools.ListMemoriesTool{Client: deps.Memory}, nil
	case "builtin.kb.query":
		if deps.Knowledge == nil {
			return nil, fmt.Errorf("tool '%s' requires a knowledge_base attachment", ref)
		}
		return &aitools.KBQueryTool{Client: deps.Knowledge, TopK: deps.KBTopK}, nil
	default:
		return nil, fmt.Errorf("unknown builtin tool '%s'", ref)
	}
}

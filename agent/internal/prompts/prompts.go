package prompts

import (
	_ "embed"
	"fmt"
	"sort"
	"strings"

	"scout/aitools"
)

//go:embed agent.md
var agentPromptTemplate string

// GetAgentPrompt returns the agent system prompt with tools injected
func GetAgentPrompt(tools map[string]aitools.Tool) string {
	return strings.Replace(agentPromptTemplate, "{{TOOLS}}", formatTools(tools), 1)
}

// formatTools formats the tools map into a readable string for the prompt
func formatTools(tools map[string]aitools.Tool) string {
	if len(tools) == 0 {
		return "NO TOOLS AVAILABLE"
	}

	names := make([]string, 0, len(tools))
	for name := range tools {
		names = append(names, name)
	}
	sort.Strings(names)

	var sb strings.Builder
	for _, toolName := range names {
		tool := tools[toolName]
		sb.WriteString(fmt.Sprintf("### %s\n\n", toolName))
		sb.WriteString(fmt.Sprintf("%s\n\n", tool.ToolDescription()))
		sb.WriteString(fmt.Sprintf("**Input Schema:**\n```json\n%s\n```\n\n", tool.ToolPayloadSchema().String()))
	}
	return sb.String()
}

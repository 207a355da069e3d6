package aitools

// Tool defines the interface for AI agent tools.
//
// Call is total: for every input in its declared domain it returns a
// string result. Failures of an underlying dependency are converted into
// labeled, human-readable strings (see Result) so the calling model can
// reason about or relay them. A tool never propagates a raw error to the
// agent runtime.
type Tool interface {
	// ToolName returns the name of the tool
	ToolName() string

	// ToolDescription returns a description of what the tool does
	ToolDescription() string

	// ToolPayloadSchema returns the JSON schema for the tool's input parameters
	ToolPayloadSchema() Schema

	// Call executes the tool with the given parameters and returns a stringified response
	Call(params string) string
}

package wsbridge

// Message types sent by the server over the WebSocket.
const (
	EventWelcome        = "welcome"
	EventThinking       = "thinking"
	EventReasoningChunk = "reasoning_chunk"
	EventReasoningDone  = "reasoning_done"
	EventToolCall       = "tool_call"
	EventToolDone       = "tool_done"
	EventAnswerChunk    = "answer_chunk"
	EventAnswerDone     = "answer_done"
	EventError          = "error"
	EventGoodbye        = "goodbye"
)

// Event is the envelope for every server-to-client message.
type Event struct {
	Type      string `json:"type"`
	AgentName string `json:"agent_name,omitempty"`
	ModelName string `json:"model_name,omitempty"`
	Content   string `json:"content,omitempty"`
	ToolName  string `json:"tool_name,omitempty"`
	Payload   string `json:"payload,omitempty"`
	Error     string `json:"error,omitempty"`
}

// Command types accepted from the client.
const (
	CommandChat  = "chat"
	CommandClose = "close"
)

// Command is the envelope for every client-to-server message.
type Command struct {
	Type    string `json:"type"`
	Content string `json:"content,omitempty"`
}

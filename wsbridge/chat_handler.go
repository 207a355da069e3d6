package wsbridge

import (
	"sync"

	"github.com/gorilla/websocket"
	"github.com/hashicorp/go-hclog"
)

// wsChatHandler implements streamers.ChatHandler by sending events over
// the WebSocket connection. Writes are serialized through a mutex since
// gorilla/websocket allows only one concurrent writer.
type wsChatHandler struct {
	conn   *websocket.Conn
	logger hclog.Logger

	mu sync.Mutex
}

func newWSChatHandler(conn *websocket.Conn, logger hclog.Logger) *wsChatHandler {
	return &wsChatHandler{conn: conn, logger: logger}
}

func (h *wsChatHandler) sendEvent(ev Event) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if err := h.conn.WriteJSON(ev); err != nil {
		h.logger.Warn("failed to write event", "type", ev.Type, "error", err)
	}
}

func (h *wsChatHandler) Welcome(agentName string, modelName string) {
	h.sendEvent(Event{Type: EventWelcome, AgentName: agentName, ModelName: modelName})
}

// AwaitClientAnswer is unused on the server side; the read loop in
// Server.handleConn feeds user input instead.
func (h *wsChatHandler) AwaitClientAnswer() (string, error) {
	return "", nil
}

func (h *wsChatHandler) Goodbye() {
	h.sendEvent(Event{Type: EventGoodbye})
}

func (h *wsChatHandler) Error(err error) {
	h.sendEvent(Event{Type: EventError, Error: err.Error()})
}

func (h *wsChatHandler) Thinking() {
	h.sendEvent(Event{Type: EventThinking})
}

func (h *wsChatHandler) CallingTool(toolName string, payload string) {
	h.sendEvent(Event{Type: EventToolCall, ToolName: toolName, Payload: payload})
}

func (h *wsChatHandler) ToolComplete(toolName string) {
	h.sendEvent(Event{Type: EventToolDone, ToolName: toolName})
}

func (h *wsChatHandler) PublishReasoningChunk(chunk string) {
	h.sendEvent(Event{Type: EventReasoningChunk, Content: chunk})
}

func (h *wsChatHandler) FinishReasoning() {
	h.sendEvent(Event{Type: EventReasoningDone})
}

func (h *wsChatHandler) PublishAnswerChunk(chunk string) {
	h.sendEvent(Event{Type: EventAnswerChunk, Content: chunk})
}

func (h *wsChatHandler) FinishAnswer() {
	h.sendEvent(Event{Type: EventAnswerDone})
}

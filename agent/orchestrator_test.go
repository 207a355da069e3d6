package agent

import (
	"context"
	"errors"

	"scout/aitools"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

// scriptedSession replays canned model responses, one per SendStream call
type scriptedSession struct {
	responses []string
	inputs    []string
	err       error
}

func (s *scriptedSession) SendStream(ctx context.Context, userMessage string, onChunk func(content string)) error {
	s.inputs = append(s.inputs, userMessage)
	if s.err != nil {
		return s.err
	}
	if len(s.responses) == 0 {
		return errors.New("scripted session exhausted")
	}
	response := s.responses[0]
	s.responses = s.responses[1:]
	// stream in small chunks to exercise the parser's buffering
	for len(response) > 0 {
		n := 7
		if n > len(response) {
			n = len(response)
		}
		onChunk(response[:n])
		response = response[n:]
	}
	return nil
}

// nullHandler discards all chat output
type nullHandler struct {
	toolCalls []string
}

func (h *nullHandler) Welcome(agentName string, modelName string) {}
func (h *nullHandler) AwaitClientAnswer() (string, error)         { return "", nil }
func (h *nullHandler) Goodbye()                                   {}
func (h *nullHandler) Error(err error)                            {}
func (h *nullHandler) Thinking()                                  {}
func (h *nullHandler) CallingTool(toolName string, payload string) {
	h.toolCalls = append(h.toolCalls, toolName)
}
func (h *nullHandler) ToolComplete(toolName string)       {}
func (h *nullHandler) PublishReasoningChunk(chunk string) {}
func (h *nullHandler) FinishReasoning()                   {}
func (h *nullHandler) PublishAnswerChunk(chunk string)    {}
func (h *nullHandler) FinishAnswer()                      {}

// echoTool returns its input verbatim
type echoTool struct{}

func (echoTool) ToolName() string                  { return "echo" }
func (echoTool) ToolDescription() string           { return "echoes input" }
func (echoTool) ToolPayloadSchema() aitools.Schema { return aitools.Schema{} }
func (echoTool) Call(params string) string         { return "echo: " + params }

// failingTool degrades to a labeled failure string, as all tools do
type failingTool struct{}

func (failingTool) ToolName() string                  { return "flaky" }
func (failingTool) ToolDescription() string           { return "always throttled" }
func (failingTool) ToolPayloadSchema() aitools.Schema { return aitools.Schema{} }
func (failingTool) Call(params string) string {
	return aitools.RateLimited("try later").Render()
}

var _ = Describe("orchestrator", func() {
	ctx := context.Background()

	It("returns the answer from a direct response", func() {
		session := &scriptedSession{responses: []string{
			"<ANSWER>Hello there.</ANSWER>",
		}}
		o := newOrchestrator(session, &nullHandler{}, nil)

		result, err := o.processTurn(ctx, "hi")
		Expect(err).NotTo(HaveOccurred())
		Expect(result.Answer).To(Equal("Hello there."))
		Expect(result.Complete).To(BeTrue())
	})

	It("runs a tool call and feeds the result back as an observation", func() {
		session := &scriptedSession{responses: []string{
			"<REASONING>need the tool</REASONING><ACTION>echo</ACTION><ACTION_INPUT>{\"x\":1}</ACTION_INPUT>",
			"<ANSWER>The tool said it.</ANSWER>",
		}}
		handler := &nullHandler{}
		o := newOrchestrator(session, handler, map[string]aitools.Tool{"echo": echoTool{}})

		result, err := o.processTurn(ctx, "use the tool")
		Expect(err).NotTo(HaveOccurred())
		Expect(result.Answer).To(Equal("The tool said it."))

		Expect(handler.toolCalls).To(ConsistOf("echo"))
		Expect(session.inputs).To(HaveLen(2))
		Expect(session.inputs[1]).To(Equal("<OBSERVATION>\necho: {\"x\":1}\n</OBSERVATION>"))
	})

	It("reports tool failure strings as observations without aborting", func() {
		session := &scriptedSession{responses: []string{
			"<ACTION>flaky</ACTION><ACTION_INPUT>{}</ACTION_INPUT>",
			"<ANSWER>The service is throttled right now.</ANSWER>",
		}}
		o := newOrchestrator(session, &nullHandler{}, map[string]aitools.Tool{"flaky": failingTool{}})

		result, err := o.processTurn(ctx, "try it")
		Expect(err).NotTo(HaveOccurred())
		Expect(result.Complete).To(BeTrue())
		Expect(session.inputs[1]).To(Equal("<OBSERVATION>\nRatelimitException: try later\n</OBSERVATION>"))
	})

	It("tells the model when a tool does not exist", func() {
		session := &scriptedSession{responses: []string{
			"<ACTION>ghost</ACTION><ACTION_INPUT>{}</ACTION_INPUT>",
			"<ANSWER>I cannot do that.</ANSWER>",
		}}
		o := newOrchestrator(session, &nullHandler{}, map[string]aitools.Tool{})

		result, err := o.processTurn(ctx, "try it")
		Expect(err).NotTo(HaveOccurred())
		Expect(result.Complete).To(BeTrue())
		Expect(session.inputs[1]).To(ContainSubstring("Tool 'ghost' not found"))
	})

	It("propagates stream errors", func() {
		session := &scriptedSession{err: errors.New("connection reset")}
		o := newOrchestrator(session, &nullHandler{}, nil)

		_, err := o.processTurn(ctx, "hi")
		Expect(err).To(MatchError("connection reset"))
	})

	It("reports an incomplete turn when no answer was produced", func() {
		session := &scriptedSession{responses: []string{
			"<REASONING>hmm</REASONING>",
		}}
		o := newOrchestrator(session, &nullHandler{}, nil)

		result, err := o.processTurn(ctx, "hi")
		Expect(err).NotTo(HaveOccurred())
		Expect(result.Complete).To(BeFalse())
		Expect(result.Answer).To(BeEmpty())
	})
})

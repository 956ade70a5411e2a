package agent

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/Raj7122/agentchat/message"
	"github.com/Raj7122/agentchat/tool"
)

// scriptedLLM returns canned responses in order and records the transcripts
// it was called with.
type scriptedLLM struct {
	responses   []*message.Message
	calls       int
	transcripts [][]*message.Message
}

func (s *scriptedLLM) Generate(ctx context.Context, messages []*message.Message, tools []map[string]any) (*message.Message, error) {
	s.transcripts = append(s.transcripts, message.CloneAll(messages))
	if s.calls >= len(s.responses) {
		return message.New(message.RoleAssistant, "out of script"), nil
	}
	resp := s.responses[s.calls]
	s.calls++
	return resp, nil
}

func toolCallResponse(name string, args map[string]any) *message.Message {
	msg := message.New(message.RoleAssistant, "")
	msg.ToolCalls = []message.ToolCall{{ID: "call_1", Name: name, Args: args}}
	return msg
}

func TestRunWithoutTools(t *testing.T) {
	llm := &scriptedLLM{responses: []*message.Message{
		message.New(message.RoleAssistant, "42"),
	}}

	ag := New(WithLLM(llm), WithName("test"))

	got, err := ag.Run(context.Background(), "meaning of life?")
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if got != "42" {
		t.Fatalf("expected '42', got %q", got)
	}
	if llm.calls != 1 {
		t.Fatalf("expected 1 LLM call, got %d", llm.calls)
	}
}

func TestRunExecutesToolCalls(t *testing.T) {
	executed := false
	factorize := &tool.Tool{
		Name: "factorize",
		Parameters: []tool.Parameter{
			{Name: "n", Type: "number", Required: true},
		},
		Handler: func(ctx context.Context, args map[string]any) (string, error) {
			executed = true
			return "2^2 * 17", nil
		},
	}

	llm := &scriptedLLM{responses: []*message.Message{
		toolCallResponse("factorize", map[string]any{"n": 68}),
		message.New(message.RoleAssistant, "The prime factorization of 68 is 2^2 * 17."),
	}}

	ag := New(WithLLM(llm), WithTool(factorize))

	got, err := ag.Run(context.Background(), "Prime factorization of 68")
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if !executed {
		t.Fatal("expected tool to be executed")
	}
	if !strings.Contains(got, "2^2 * 17") {
		t.Fatalf("expected factorization in answer, got %q", got)
	}

	// The second LLM call must see the tool result in the transcript.
	second := llm.transcripts[1]
	found := false
	for _, msg := range second {
		if msg.Role == message.RoleTool && msg.Content == "2^2 * 17" {
			found = true
		}
	}
	if !found {
		t.Fatal("tool result missing from follow-up transcript")
	}
}

func TestToolErrorIsFedBackToModel(t *testing.T) {
	failing := &tool.Tool{
		Name: "flaky",
		Handler: func(ctx context.Context, args map[string]any) (string, error) {
			return "", context.DeadlineExceeded
		},
	}

	llm := &scriptedLLM{responses: []*message.Message{
		toolCallResponse("flaky", nil),
		message.New(message.RoleAssistant, "done"),
	}}

	ag := New(WithLLM(llm), WithTool(failing))

	if _, err := ag.Run(context.Background(), "try the flaky tool"); err != nil {
		t.Fatalf("run should not fail on tool errors: %v", err)
	}

	second := llm.transcripts[1]
	last := second[len(second)-1]
	if last.Role != message.RoleTool || !strings.Contains(last.Content, "Error executing tool flaky") {
		t.Fatalf("expected tool error message in transcript, got %+v", last)
	}
}

func TestRunsAreStateless(t *testing.T) {
	llm := &scriptedLLM{responses: []*message.Message{
		message.New(message.RoleAssistant, "first"),
		message.New(message.RoleAssistant, "second"),
	}}

	ag := New(WithLLM(llm))

	if _, err := ag.Run(context.Background(), "same question"); err != nil {
		t.Fatal(err)
	}
	if _, err := ag.Run(context.Background(), "same question"); err != nil {
		t.Fatal(err)
	}

	// Both runs must present identical transcript shapes: prior exchanges
	// never leak into a later run.
	if len(llm.transcripts[0]) != len(llm.transcripts[1]) {
		t.Fatalf("transcript lengths differ: %d vs %d",
			len(llm.transcripts[0]), len(llm.transcripts[1]))
	}
	for i := range llm.transcripts[0] {
		a, b := llm.transcripts[0][i], llm.transcripts[1][i]
		if a.Role != b.Role || a.Content != b.Content {
			t.Fatalf("transcripts diverge at %d: %+v vs %+v", i, a, b)
		}
	}
}

func TestMaxIterations(t *testing.T) {
	looping := &tool.Tool{
		Name: "loop",
		Handler: func(ctx context.Context, args map[string]any) (string, error) {
			return "again", nil
		},
	}

	llm := &scriptedLLM{responses: []*message.Message{
		toolCallResponse("loop", nil),
		toolCallResponse("loop", nil),
		toolCallResponse("loop", nil),
	}}

	ag := New(WithLLM(llm), WithTool(looping), WithMaxIterations(2))

	_, err := ag.Run(context.Background(), "loop forever")
	if err == nil || !strings.Contains(err.Error(), "max iterations") {
		t.Fatalf("expected max iterations error, got %v", err)
	}
	if llm.calls != 2 {
		t.Fatalf("expected 2 LLM calls, got %d", llm.calls)
	}
}

func TestRunRequiresLLM(t *testing.T) {
	ag := New()
	if _, err := ag.Run(context.Background(), "anything"); err == nil {
		t.Fatal("expected error when no LLM client configured")
	}
}

type staticProvider struct {
	tools []*tool.Tool
}

func (p *staticProvider) Tools(ctx context.Context) ([]*tool.Tool, error) { return p.tools, nil }
func (p *staticProvider) Close() error                                   { return nil }
func (p *staticProvider) ToolsChanged() <-chan struct{}                  { return nil }
func (p *staticProvider) Done() <-chan struct{}                          { return nil }

func TestToolProviderLoadedOnce(t *testing.T) {
	provider := &staticProvider{tools: []*tool.Tool{
		{Name: "remote", Handler: func(ctx context.Context, args map[string]any) (string, error) {
			return "ok", nil
		}},
	}}

	llm := &scriptedLLM{responses: []*message.Message{
		message.New(message.RoleAssistant, "a"),
		message.New(message.RoleAssistant, "b"),
	}}

	ag := New(WithLLM(llm), WithToolProvider(provider))

	if _, err := ag.Run(context.Background(), "one"); err != nil {
		t.Fatal(err)
	}
	if _, err := ag.Run(context.Background(), "two"); err != nil {
		t.Fatal(err)
	}

	if ag.Tools().Len() != 1 {
		t.Fatalf("expected 1 registered tool, got %d", ag.Tools().Len())
	}
}

// notifyingProvider supports live tool updates and a shutdown signal.
type notifyingProvider struct {
	tools   []*tool.Tool
	changed chan struct{}
	done    chan struct{}
}

func (p *notifyingProvider) Tools(ctx context.Context) ([]*tool.Tool, error) { return p.tools, nil }
func (p *notifyingProvider) Close() error                                    { return nil }
func (p *notifyingProvider) ToolsChanged() <-chan struct{}                   { return p.changed }
func (p *notifyingProvider) Done() <-chan struct{}                           { return p.done }

func (a *Agent) watcherCount() int {
	a.providerMu.Lock()
	defer a.providerMu.Unlock()
	return len(a.providerWatch)
}

func TestProviderWatcherStopsOnShutdown(t *testing.T) {
	provider := &notifyingProvider{
		changed: make(chan struct{}, 1),
		done:    make(chan struct{}),
	}

	llm := &scriptedLLM{responses: []*message.Message{
		message.New(message.RoleAssistant, "a"),
	}}

	ag := New(WithLLM(llm), WithToolProvider(provider))

	if _, err := ag.Run(context.Background(), "start"); err != nil {
		t.Fatal(err)
	}
	if got := ag.watcherCount(); got != 1 {
		t.Fatalf("expected 1 provider watcher, got %d", got)
	}

	close(provider.done)

	deadline := time.After(2 * time.Second)
	for ag.watcherCount() != 0 {
		select {
		case <-deadline:
			t.Fatal("watcher did not stop after provider shutdown")
		case <-time.After(10 * time.Millisecond):
		}
	}
}

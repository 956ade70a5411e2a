package agent

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/Raj7122/agentchat/message"
	"github.com/Raj7122/agentchat/pkg/logging"
	"github.com/Raj7122/agentchat/pkg/telemetry"
	"github.com/Raj7122/agentchat/tool"
)

// LLMClient defines the interface for LLM providers.
type LLMClient interface {
	// Generate produces the next assistant message for the given transcript.
	// Tool schemas, when present, allow the model to request tool calls.
	Generate(ctx context.Context, messages []*message.Message, tools []map[string]any) (*message.Message, error)
}

// TokenCounter estimates token counts for prompt size logging.
type TokenCounter interface {
	Count(text string) int
}

// Agent binds a tool set and an LLM client. Run executes a plan of zero or
// more tool invocations and returns the final answer text. Each run builds
// its own transcript; the agent keeps no conversation state between runs.
type Agent struct {
	name          string
	systemPrompt  string
	maxIterations int
	llm           LLMClient
	tools         *tool.Registry
	logger        *slog.Logger
	tracer        trace.Tracer
	counter       TokenCounter

	providerMu     sync.Mutex
	providers      []tool.Provider
	providerLoaded map[tool.Provider]bool
	providerWatch  map[tool.Provider]context.CancelFunc
}

// Option configures an Agent.
type Option func(*Agent)

// WithName sets the agent name.
func WithName(name string) Option {
	return func(a *Agent) {
		a.name = name
	}
}

// WithSystemPrompt sets the system prompt.
func WithSystemPrompt(prompt string) Option {
	return func(a *Agent) {
		a.systemPrompt = prompt
	}
}

// WithMaxIterations bounds the tool-calling loop.
func WithMaxIterations(n int) Option {
	return func(a *Agent) {
		if n > 0 {
			a.maxIterations = n
		}
	}
}

// WithLLM sets the inference client.
func WithLLM(llm LLMClient) Option {
	return func(a *Agent) {
		a.llm = llm
	}
}

// WithTool registers a local tool.
func WithTool(t *tool.Tool) Option {
	return func(a *Agent) {
		if t != nil {
			_ = a.tools.Upsert(t)
		}
	}
}

// WithToolProvider registers a tool provider that supplies tools on demand.
func WithToolProvider(provider tool.Provider) Option {
	return func(a *Agent) {
		if provider == nil {
			return
		}
		a.providerMu.Lock()
		defer a.providerMu.Unlock()
		a.providers = append(a.providers, provider)
	}
}

// WithLogger sets the agent logger.
func WithLogger(logger *slog.Logger) Option {
	return func(a *Agent) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// WithTokenCounter enables prompt token estimation logging.
func WithTokenCounter(counter TokenCounter) Option {
	return func(a *Agent) {
		a.counter = counter
	}
}

// New creates an agent with the given options.
func New(opts ...Option) *Agent {
	a := &Agent{
		name:           "agent",
		systemPrompt:   "You are a helpful assistant that can call tools when needed.",
		maxIterations:  10,
		tools:          tool.NewRegistry(),
		logger:         logging.WithComponent("agent"),
		tracer:         otel.Tracer("agentchat/agent"),
		providerLoaded: make(map[tool.Provider]bool),
		providerWatch:  make(map[tool.Provider]context.CancelFunc),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Tools returns the agent's tool registry.
func (a *Agent) Tools() *tool.Registry {
	return a.tools
}

// Run answers a single request, invoking tools as the model asks for them.
// Any error from the inference client or the tool-source session propagates
// to the caller unchanged; individual tool execution failures are reported
// back to the model as tool results instead.
func (a *Agent) Run(ctx context.Context, input string) (result string, err error) {
	if a.llm == nil {
		return "", fmt.Errorf("agent %s: no LLM client configured", a.name)
	}

	if err := a.loadToolProviders(ctx); err != nil {
		return "", err
	}

	ctx, span := a.tracer.Start(ctx, "agent.run",
		trace.WithAttributes(attribute.String("agent.name", a.name)))
	defer func() { telemetry.End(span, err) }()

	transcript := make([]*message.Message, 0, 4)
	if a.systemPrompt != "" {
		transcript = append(transcript, message.New(message.RoleSystem, a.systemPrompt))
	}
	transcript = append(transcript, message.New(message.RoleUser, input))

	for i := 0; i < a.maxIterations; i++ {
		a.logPromptSize(transcript)

		response, err := a.llm.Generate(ctx, transcript, a.tools.Schemas())
		if err != nil {
			return "", fmt.Errorf("llm generation failed: %w", err)
		}
		transcript = append(transcript, response)

		if len(response.ToolCalls) == 0 {
			span.SetAttributes(attribute.Int("agent.iterations", i+1))
			return response.Content, nil
		}

		for _, call := range response.ToolCalls {
			transcript = append(transcript, a.executeToolCall(ctx, call))
		}
	}

	return "", fmt.Errorf("agent %s: max iterations (%d) reached", a.name, a.maxIterations)
}

func (a *Agent) executeToolCall(ctx context.Context, call message.ToolCall) *message.Message {
	ctx, span := a.tracer.Start(ctx, "agent.tool",
		trace.WithAttributes(attribute.String("tool.name", call.Name)))

	result, err := a.tools.Execute(ctx, call.Name, call.Args)
	telemetry.End(span, err)

	if err != nil {
		a.logger.Warn("tool execution failed", "tool", call.Name, "error", err)
		result = fmt.Sprintf("Error executing tool %s: %v", call.Name, err)
	} else {
		a.logger.Debug("tool executed", "tool", call.Name)
	}

	return message.NewToolResponse(call.ID, result)
}

func (a *Agent) logPromptSize(transcript []*message.Message) {
	if a.counter == nil {
		return
	}
	total := 0
	for _, msg := range transcript {
		total += a.counter.Count(msg.Content)
	}
	a.logger.Debug("prompt size estimate", "tokens", total, "messages", len(transcript))
}

func (a *Agent) loadToolProviders(ctx context.Context) error {
	for _, provider := range a.getToolProviders() {
		if provider == nil || a.isProviderLoaded(provider) {
			continue
		}

		if err := a.updateProviderTools(ctx, provider); err != nil {
			return err
		}

		a.markProviderLoaded(provider)
		a.startProviderWatcher(provider)
	}
	return nil
}

func (a *Agent) getToolProviders() []tool.Provider {
	a.providerMu.Lock()
	defer a.providerMu.Unlock()
	return append([]tool.Provider(nil), a.providers...)
}

func (a *Agent) isProviderLoaded(provider tool.Provider) bool {
	a.providerMu.Lock()
	defer a.providerMu.Unlock()
	return a.providerLoaded[provider]
}

func (a *Agent) markProviderLoaded(provider tool.Provider) {
	a.providerMu.Lock()
	defer a.providerMu.Unlock()
	a.providerLoaded[provider] = true
}

func (a *Agent) updateProviderTools(ctx context.Context, provider tool.Provider) error {
	tools, err := provider.Tools(ctx)
	if err != nil {
		return fmt.Errorf("load tools from provider: %w", err)
	}

	for _, t := range tools {
		if t == nil || t.Name == "" {
			continue
		}
		if err := a.tools.Upsert(t); err != nil {
			return err
		}
	}
	return nil
}

func (a *Agent) startProviderWatcher(provider tool.Provider) {
	ch := provider.ToolsChanged()
	if ch == nil {
		return
	}

	a.providerMu.Lock()
	if _, exists := a.providerWatch[provider]; exists {
		a.providerMu.Unlock()
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	a.providerWatch[provider] = cancel
	a.providerMu.Unlock()

	go a.watchProvider(ctx, provider, ch)
}

func (a *Agent) watchProvider(ctx context.Context, provider tool.Provider, ch <-chan struct{}) {
	defer a.removeProviderWatcher(provider)

	// A nil shutdown channel never fires; such providers rely on ch closing.
	shutdown := provider.Done()

	for {
		select {
		case <-ctx.Done():
			return
		case <-shutdown:
			return
		case _, ok := <-ch:
			if !ok {
				return
			}
			if err := a.updateProviderTools(ctx, provider); err != nil {
				a.logger.Warn("failed to refresh tools", "error", err)
			}
		}
	}
}

func (a *Agent) removeProviderWatcher(provider tool.Provider) {
	a.providerMu.Lock()
	defer a.providerMu.Unlock()
	if cancel, ok := a.providerWatch[provider]; ok {
		cancel()
		delete(a.providerWatch, provider)
	}
}

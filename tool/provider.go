package tool

import "context"

// Provider supplies tools that can be registered with an agent.
type Provider interface {
	// Tools returns the provider's current tool definitions.
	Tools(ctx context.Context) ([]*Tool, error)
	// Close releases resources owned by the provider. It must be safe to call
	// more than once and on a provider that never fully initialised.
	Close() error
	// ToolsChanged returns a channel that fires when the tool set is updated.
	// Providers that do not support live updates should return nil.
	ToolsChanged() <-chan struct{}
	// Done returns a channel that is closed when the provider shuts down, so
	// watchers can stop. Providers with no shutdown signal may return nil.
	Done() <-chan struct{}
}

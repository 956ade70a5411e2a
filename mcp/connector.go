package mcp

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Raj7122/agentchat/tool"
)

// Connector exposes a remote tool source through the generic tool.Provider
// interface. It owns the underlying client session.
type Connector interface {
	tool.Provider
	// Client returns the underlying MCP client for advanced use cases.
	Client() *Client
}

// Transport enumerates the supported MCP transport types.
type Transport string

const (
	// TransportStreamable indicates the streamable HTTP (SSE) transport.
	TransportStreamable Transport = "streamable"
	// TransportCommand indicates the stdio/command transport.
	TransportCommand Transport = "command"
)

// Config describes how to connect to an MCP tool server.
type Config struct {
	// Transport selects how to connect. If empty, defaults to streamable HTTP
	// when Endpoint is set, otherwise command transport.
	Transport Transport
	// Endpoint is required for streamable HTTP connections.
	Endpoint string
	// Command is required for command transport connections.
	Command string
}

type connector struct {
	client *Client
}

// Connect opens a session to the tool source described by cfg and verifies
// that tools can be listed before returning. On listing failure the session
// is released.
func Connect(ctx context.Context, cfg Config, opts ...Option) (Connector, error) {
	transport := cfg.Transport
	if transport == "" {
		if cfg.Command != "" && cfg.Endpoint == "" {
			transport = TransportCommand
		} else {
			transport = TransportStreamable
		}
	}

	var (
		client *Client
		err    error
	)

	switch transport {
	case TransportStreamable:
		if strings.TrimSpace(cfg.Endpoint) == "" {
			return nil, errors.New("mcp: endpoint is required for streamable transport")
		}
		client, err = NewStreamableClient(ctx, cfg.Endpoint, opts...)
	case TransportCommand:
		if strings.TrimSpace(cfg.Command) == "" {
			return nil, errors.New("mcp: command is required for command transport")
		}
		client, err = NewStdioClient(ctx, cfg.Command, opts...)
	default:
		return nil, fmt.Errorf("mcp: unsupported transport %q", transport)
	}
	if err != nil {
		return nil, err
	}

	c := &connector{client: client}
	// Fail fast if the server cannot list tools.
	if _, err := c.Tools(ctx); err != nil {
		_ = client.Close()
		return nil, err
	}

	return c, nil
}

func (c *connector) Tools(ctx context.Context) ([]*tool.Tool, error) {
	if c == nil || c.client == nil {
		return nil, errors.New("mcp: connector is not initialized")
	}
	return c.client.BuildTools(ctx)
}

func (c *connector) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}

func (c *connector) ToolsChanged() <-chan struct{} {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.ToolsChanged()
}

func (c *connector) Done() <-chan struct{} {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Done()
}

func (c *connector) Client() *Client {
	if c == nil {
		return nil
	}
	return c.client
}

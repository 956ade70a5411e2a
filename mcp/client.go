package mcp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/exec"
	"strings"
	"sync"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	agenterrors "github.com/Raj7122/agentchat/errors"
	"github.com/Raj7122/agentchat/pkg/logging"
)

// ErrClientClosed is returned when the MCP client has been closed.
var ErrClientClosed = fmt.Errorf("mcp client closed: %w", agenterrors.ErrClosed)

// Option configures optional MCP client behaviour.
type Option func(*clientConfig)

type clientConfig struct {
	implementation    sdkmcp.Implementation
	logger            *slog.Logger
	args              []string
	env               []string
	dir               string
	keepAlive         time.Duration
	terminateTimeout  time.Duration
	httpClient        *http.Client
	streamableRetries *int
}

// ClientInfo describes the client metadata sent to the MCP server.
type ClientInfo struct {
	Name    string `json:"name"`
	Title   string `json:"title,omitempty"`
	Version string `json:"version"`
}

// WithClientInfo sets the client metadata advertised to the MCP server.
func WithClientInfo(info ClientInfo) Option {
	return func(cfg *clientConfig) {
		if info.Name != "" {
			cfg.implementation.Name = info.Name
		}
		if info.Title != "" {
			cfg.implementation.Title = info.Title
		}
		if info.Version != "" {
			cfg.implementation.Version = info.Version
		}
	}
}

// WithLogger configures logging for the MCP client.
func WithLogger(logger *slog.Logger) Option {
	return func(cfg *clientConfig) {
		if logger != nil {
			cfg.logger = logger
		}
	}
}

// WithCommandArgs configures additional arguments when launching a stdio MCP server.
func WithCommandArgs(args ...string) Option {
	return func(cfg *clientConfig) {
		cfg.args = append(cfg.args, args...)
	}
}

// WithCommandEnv appends environment variables when launching a stdio MCP server.
func WithCommandEnv(env ...string) Option {
	return func(cfg *clientConfig) {
		cfg.env = append(cfg.env, env...)
	}
}

// WithCommandDir sets the working directory for the stdio MCP server process.
func WithCommandDir(dir string) Option {
	return func(cfg *clientConfig) {
		cfg.dir = dir
	}
}

// WithKeepAlive configures periodic ping requests to keep the session healthy.
func WithKeepAlive(interval time.Duration) Option {
	return func(cfg *clientConfig) {
		cfg.keepAlive = interval
	}
}

// WithTerminateTimeout sets how long to wait for graceful server shutdown.
func WithTerminateTimeout(d time.Duration) Option {
	return func(cfg *clientConfig) {
		cfg.terminateTimeout = d
	}
}

// WithHTTPClient supplies a custom HTTP client for the streamable transport.
func WithHTTPClient(client *http.Client) Option {
	return func(cfg *clientConfig) {
		cfg.httpClient = client
	}
}

// WithStreamableMaxRetries overrides the reconnect retry count for the
// streamable HTTP transport.
func WithStreamableMaxRetries(retries int) Option {
	return func(cfg *clientConfig) {
		cfg.streamableRetries = &retries
	}
}

// Client wraps the official MCP Go SDK client and session. It represents the
// live link to a tool-source server; once closed it must not be reused.
type Client struct {
	sdkClient *sdkmcp.Client
	session   *sdkmcp.ClientSession

	logger *slog.Logger

	toolsChanged chan struct{}
	done         chan struct{}

	closeOnce sync.Once
	closeErr  error
}

// NewStreamableClient connects to an MCP server over the streamable HTTP
// transport (SSE + HTTP POST) and performs the initialization handshake.
func NewStreamableClient(ctx context.Context, endpoint string, opts ...Option) (*Client, error) {
	if strings.TrimSpace(endpoint) == "" {
		return nil, errors.New("mcp: endpoint cannot be empty")
	}

	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	client := newClient(cfg)

	transport := &sdkmcp.StreamableClientTransport{
		Endpoint: endpoint,
	}
	if cfg.httpClient != nil {
		transport.HTTPClient = cfg.httpClient
	}
	if cfg.streamableRetries != nil {
		transport.MaxRetries = *cfg.streamableRetries
	}

	session, err := client.sdkClient.Connect(ctx, transport, nil)
	if err != nil {
		return nil, fmt.Errorf("mcp: connect %s failed: %w", endpoint, err)
	}
	client.session = session

	go client.monitorSession()

	return client, nil
}

// NewStdioClient launches an MCP server command using the stdio transport and
// performs the initialization handshake.
func NewStdioClient(ctx context.Context, command string, opts ...Option) (*Client, error) {
	if command == "" {
		return nil, errors.New("mcp: command cannot be empty")
	}

	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	cmd := exec.Command(command, cfg.args...)
	if cfg.dir != "" {
		cmd.Dir = cfg.dir
	}
	if len(cfg.env) > 0 {
		cmd.Env = append(os.Environ(), cfg.env...)
	}
	cmd.Stderr = logWriter{logger: cfg.logger}

	client := newClient(cfg)

	transport := &sdkmcp.CommandTransport{
		Command:           cmd,
		TerminateDuration: cfg.terminateTimeout,
	}

	session, err := client.sdkClient.Connect(ctx, transport, nil)
	if err != nil {
		return nil, fmt.Errorf("mcp: connect failed: %w", err)
	}
	client.session = session

	go client.monitorSession()

	return client, nil
}

func newClient(cfg clientConfig) *Client {
	client := &Client{
		logger:       cfg.logger,
		toolsChanged: make(chan struct{}, 1),
		done:         make(chan struct{}),
	}

	clientOpts := &sdkmcp.ClientOptions{
		ToolListChangedHandler: func(context.Context, *sdkmcp.ToolListChangedRequest) {
			select {
			case client.toolsChanged <- struct{}{}:
			default:
			}
		},
		LoggingMessageHandler: func(_ context.Context, req *sdkmcp.LoggingMessageRequest) {
			if req != nil && req.Params != nil {
				client.logger.Debug("mcp server log", "level", req.Params.Level, "data", req.Params.Data)
			}
		},
		KeepAlive: cfg.keepAlive,
	}

	client.sdkClient = sdkmcp.NewClient(&cfg.implementation, clientOpts)
	return client
}

// Close terminates the MCP client and the underlying transport. It is
// idempotent and safe to call on a client whose connect never completed.
func (c *Client) Close() error {
	if c == nil {
		return nil
	}
	c.closeOnce.Do(func() {
		if c.session != nil {
			c.closeErr = c.session.Close()
		}
		if c.done != nil {
			close(c.done)
		}
	})
	return c.closeErr
}

// isClosed reports whether the client cannot serve operations: it was never
// connected, or Close has run. Checked before every session call so a closed
// handle yields ErrClientClosed rather than a raw transport error.
func (c *Client) isClosed() bool {
	if c == nil || c.session == nil {
		return true
	}
	select {
	case <-c.done:
		return true
	default:
		return false
	}
}

// CloseClient releases the client if it exists. It tolerates a handle that
// was never acquired, so callers can defer it before connecting.
func CloseClient(c *Client) {
	if c == nil {
		return
	}
	if err := c.Close(); err != nil {
		logging.WithComponent("mcp").Warn("close failed", "error", err)
	}
}

// Done returns a channel that is closed when the client shuts down.
func (c *Client) Done() <-chan struct{} {
	return c.done
}

// ToolsChanged reports when the server indicates that the tool list has changed.
func (c *Client) ToolsChanged() <-chan struct{} {
	return c.toolsChanged
}

func (c *Client) monitorSession() {
	if c.session == nil {
		_ = c.Close()
		return
	}
	if err := c.session.Wait(); err != nil && !errors.Is(err, sdkmcp.ErrConnectionClosed) {
		c.logger.Warn("mcp session ended with error", "error", err)
	}
	_ = c.Close()
}

func defaultConfig() clientConfig {
	return clientConfig{
		implementation: sdkmcp.Implementation{
			Name:    "agentchat",
			Version: "0.1.0",
		},
		logger: logging.WithComponent("mcp"),
	}
}

type logWriter struct {
	logger *slog.Logger
}

func (w logWriter) Write(p []byte) (int, error) {
	if w.logger != nil {
		msg := strings.TrimSpace(string(p))
		if msg != "" {
			w.logger.Debug("mcp server stderr", "message", msg)
		}
	}
	return len(p), nil
}

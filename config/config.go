package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config is the full service configuration, populated from the environment
// (optionally seeded from a .env file).
type Config struct {
	App       AppConfig
	MCP       MCPConfig
	Inference InferenceConfig
	Chat      ChatConfig
	Redis     RedisConfig
	Telemetry TelemetryConfig
}

type AppConfig struct {
	Name     string `envconfig:"APP_NAME" default:"agentchat"`
	Env      string `envconfig:"APP_ENV" default:"development"`
	LogLevel string `envconfig:"AGENTCHAT_LOG_LEVEL" default:"info"`
}

// MCPConfig describes the remote tool source.
type MCPConfig struct {
	Endpoint  string        `envconfig:"MCP_ENDPOINT" default:"https://huggingface.co/spaces/Raj718/mcp-client"`
	Command   string        `envconfig:"MCP_COMMAND"`
	Transport string        `envconfig:"MCP_TRANSPORT"` // streamable | command; inferred when empty
	KeepAlive time.Duration `envconfig:"MCP_KEEPALIVE" default:"0s"`
}

// InferenceConfig parameterises the hosted model. Model and BaseURL are
// optional; when empty the provider resolves its hosted default from ambient
// credentials.
type InferenceConfig struct {
	Provider      string `envconfig:"INFERENCE_PROVIDER" default:"openai"`
	Model         string `envconfig:"INFERENCE_MODEL"`
	BaseURL       string `envconfig:"INFERENCE_BASE_URL"`
	OpenAIKey     string `envconfig:"OPENAI_API_KEY"`
	ClaudeKey     string `envconfig:"CLAUDE_API_KEY"`
	GeminiKey     string `envconfig:"GEMINI_API_KEY"`
	MaxIterations int    `envconfig:"AGENT_MAX_ITERATIONS" default:"10"`
	SystemPrompt  string `envconfig:"AGENT_SYSTEM_PROMPT" default:"You are a helpful assistant that can call tools when needed."`
	TokenEncoding string `envconfig:"AGENT_TOKEN_ENCODING" default:"cl100k_base"`
}

// APIKey returns the credential for the selected provider.
func (c InferenceConfig) APIKey() string {
	switch c.Provider {
	case "claude", "anthropic":
		return c.ClaudeKey
	case "gemini", "google":
		return c.GeminiKey
	default:
		return c.OpenAIKey
	}
}

// ChatConfig configures the chat interface.
type ChatConfig struct {
	Addr           string        `envconfig:"CHAT_ADDR" default:":7860"`
	Title          string        `envconfig:"CHAT_TITLE" default:"Agent with MCP Tools"`
	Description    string        `envconfig:"CHAT_DESCRIPTION" default:"This is a simple agent that uses MCP tools to answer questions."`
	Examples       []string      `envconfig:"CHAT_EXAMPLES" default:"Prime factorization of 68"`
	SessionBackend string        `envconfig:"CHAT_SESSION_BACKEND" default:"memory"` // memory | redis
	SessionTTL     time.Duration `envconfig:"CHAT_SESSION_TTL" default:"24h"`
}

type RedisConfig struct {
	Host     string `envconfig:"REDIS_HOST" default:"localhost"`
	Port     int    `envconfig:"REDIS_PORT" default:"6379"`
	Password string `envconfig:"REDIS_PASSWORD"`
	DB       int    `envconfig:"REDIS_DB" default:"0"`
}

func (c RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

type TelemetryConfig struct {
	Enabled bool `envconfig:"TELEMETRY_ENABLED" default:"false"`
}

// Load reads configuration from the environment. A .env file in the working
// directory is applied first when present; a missing file is not an error.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("config: process environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks cross-field constraints that envconfig tags cannot express.
func (c *Config) Validate() error {
	v := NewValidator()

	if c.MCP.Endpoint == "" && c.MCP.Command == "" {
		v.AddError("MCP_ENDPOINT", "either an endpoint or a command is required")
	}
	v.RequireNonEmpty("INFERENCE_PROVIDER", c.Inference.Provider)
	v.RequirePositive("AGENT_MAX_ITERATIONS", c.Inference.MaxIterations)
	v.RequireNonEmpty("CHAT_ADDR", c.Chat.Addr)
	if c.Chat.SessionBackend != "memory" && c.Chat.SessionBackend != "redis" {
		v.AddError("CHAT_SESSION_BACKEND", fmt.Sprintf("must be memory or redis, got %q", c.Chat.SessionBackend))
	}
	if c.Chat.SessionBackend == "redis" {
		v.RequireNonEmpty("REDIS_HOST", c.Redis.Host)
		v.ValidatePort("REDIS_PORT", c.Redis.Port)
		v.ValidateDBNumber("REDIS_DB", c.Redis.DB)
	}

	return v.Error()
}

// Package provider constructs inference clients for hosted language models.
package provider

import (
	"fmt"
	"strings"

	"github.com/Raj7122/agentchat/agent"
	"github.com/Raj7122/agentchat/provider/claude"
	"github.com/Raj7122/agentchat/provider/gemini"
	"github.com/Raj7122/agentchat/provider/openai"
)

// Settings selects and parameterises an inference backend. Model and BaseURL
// are optional; empty values resolve to the backend's hosted default.
type Settings struct {
	// Name selects the backend: openai (default), claude, or gemini.
	Name string
	// APIKey overrides ambient credential resolution when set.
	APIKey string
	// Model is the optional model identifier.
	Model string
	// BaseURL is the optional API endpoint.
	BaseURL string
}

// New builds an inference client from the given settings. Construction never
// performs network I/O; authentication failures surface at first use.
func New(settings Settings) (agent.LLMClient, error) {
	name := strings.ToLower(strings.TrimSpace(settings.Name))
	if name == "" {
		name = "openai"
	}

	switch name {
	case "openai":
		cfg := openai.DefaultConfig()
		cfg.APIKey = settings.APIKey
		cfg.BaseURL = settings.BaseURL
		if settings.Model != "" {
			cfg.Model = settings.Model
		}
		return openai.New(cfg), nil
	case "claude", "anthropic":
		cfg := claude.DefaultConfig()
		cfg.APIKey = settings.APIKey
		cfg.BaseURL = settings.BaseURL
		if settings.Model != "" {
			cfg.Model = settings.Model
		}
		return claude.New(cfg), nil
	case "gemini", "google":
		cfg := gemini.DefaultConfig()
		cfg.APIKey = settings.APIKey
		if settings.Model != "" {
			cfg.Model = settings.Model
		}
		return gemini.New(cfg), nil
	default:
		return nil, fmt.Errorf("unknown inference provider %q", settings.Name)
	}
}

package config

import (
	"strings"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load with defaults: %v", err)
	}

	if cfg.Chat.Title != "Agent with MCP Tools" {
		t.Errorf("unexpected default title: %q", cfg.Chat.Title)
	}
	if len(cfg.Chat.Examples) != 1 || cfg.Chat.Examples[0] != "Prime factorization of 68" {
		t.Errorf("unexpected default examples: %v", cfg.Chat.Examples)
	}
	if cfg.Inference.Provider != "openai" {
		t.Errorf("unexpected default provider: %q", cfg.Inference.Provider)
	}
	if cfg.Chat.SessionBackend != "memory" {
		t.Errorf("unexpected default session backend: %q", cfg.Chat.SessionBackend)
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("MCP_ENDPOINT", "http://localhost:8080/mcp")
	t.Setenv("INFERENCE_PROVIDER", "claude")
	t.Setenv("CLAUDE_API_KEY", "key-123")
	t.Setenv("CHAT_EXAMPLES", "one,two")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.MCP.Endpoint != "http://localhost:8080/mcp" {
		t.Errorf("endpoint not applied: %q", cfg.MCP.Endpoint)
	}
	if cfg.Inference.APIKey() != "key-123" {
		t.Errorf("expected claude key, got %q", cfg.Inference.APIKey())
	}
	if len(cfg.Chat.Examples) != 2 {
		t.Errorf("expected 2 examples, got %v", cfg.Chat.Examples)
	}
}

func TestValidateRejectsBadBackend(t *testing.T) {
	t.Setenv("CHAT_SESSION_BACKEND", "postgres")

	_, err := Load()
	if err == nil || !strings.Contains(err.Error(), "CHAT_SESSION_BACKEND") {
		t.Fatalf("expected session backend validation error, got %v", err)
	}
}

func TestValidateRedisSettings(t *testing.T) {
	t.Setenv("CHAT_SESSION_BACKEND", "redis")
	t.Setenv("REDIS_PORT", "70000")

	_, err := Load()
	if err == nil || !strings.Contains(err.Error(), "REDIS_PORT") {
		t.Fatalf("expected redis port validation error, got %v", err)
	}
}

func TestValidatorAccumulates(t *testing.T) {
	v := NewValidator()
	v.RequireNonEmpty("A", "").RequirePositive("B", -1).ValidatePort("C", 99999)

	if v.Valid() {
		t.Fatal("expected validator to be invalid")
	}
	err := v.Error()
	for _, field := range []string{"A", "B", "C"} {
		if !strings.Contains(err.Error(), field) {
			t.Errorf("expected error to mention field %s: %v", field, err)
		}
	}
}

func TestAPIKeySelection(t *testing.T) {
	cfg := InferenceConfig{
		OpenAIKey: "oa",
		ClaudeKey: "cl",
		GeminiKey: "gm",
	}

	cases := map[string]string{
		"openai":    "oa",
		"claude":    "cl",
		"anthropic": "cl",
		"gemini":    "gm",
		"google":    "gm",
		"":          "oa",
	}
	for provider, want := range cases {
		cfg.Provider = provider
		if got := cfg.APIKey(); got != want {
			t.Errorf("provider %q: expected key %q, got %q", provider, want, got)
		}
	}
}

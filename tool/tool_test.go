package tool

import (
	"context"
	"errors"
	"testing"

	agenterrors "github.com/Raj7122/agentchat/errors"
)

func TestToolExecution(t *testing.T) {
	ctx := context.Background()

	tl := &Tool{
		Name:        "echo",
		Description: "Echoes input",
		Parameters: []Parameter{
			{Name: "input", Type: "string", Description: "Text to echo", Required: true},
		},
		Handler: func(ctx context.Context, args map[string]any) (string, error) {
			return args["input"].(string) + "_processed", nil
		},
	}

	result, err := tl.Execute(ctx, map[string]any{"input": "test"})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if result != "test_processed" {
		t.Errorf("Expected 'test_processed', got '%s'", result)
	}
}

func TestToolValidation(t *testing.T) {
	ctx := context.Background()

	tl := &Tool{
		Name: "strict",
		Parameters: []Parameter{
			{Name: "required_param", Type: "string", Required: true},
		},
		Handler: func(ctx context.Context, args map[string]any) (string, error) {
			return "ok", nil
		},
	}

	_, err := tl.Execute(ctx, map[string]any{})
	if !errors.Is(err, agenterrors.ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput for missing required parameter, got %v", err)
	}

	if _, err := tl.Execute(ctx, map[string]any{"required_param": "value"}); err != nil {
		t.Errorf("Expected no error, got %v", err)
	}
}

func TestToolWithoutHandler(t *testing.T) {
	tl := &Tool{Name: "broken"}
	if _, err := tl.Execute(context.Background(), nil); err == nil {
		t.Fatal("Expected error for tool without handler")
	}
}

func TestRegistryUniqueNames(t *testing.T) {
	registry := NewRegistry()

	tool1 := &Tool{Name: "tool1", Description: "First tool"}
	tool2 := &Tool{Name: "tool2", Description: "Second tool"}

	if err := registry.Register(tool1); err != nil {
		t.Fatalf("Failed to register tool1: %v", err)
	}
	if err := registry.Register(tool2); err != nil {
		t.Fatalf("Failed to register tool2: %v", err)
	}

	if err := registry.Register(tool1); !errors.Is(err, agenterrors.ErrAlreadyExists) {
		t.Errorf("Expected ErrAlreadyExists for duplicate registration, got %v", err)
	}

	retrieved, err := registry.Get("tool1")
	if err != nil {
		t.Fatalf("Failed to get tool1: %v", err)
	}
	if retrieved.Name != "tool1" {
		t.Errorf("Expected tool name 'tool1', got '%s'", retrieved.Name)
	}

	if _, err := registry.Get("missing"); !errors.Is(err, agenterrors.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestRegistryListSorted(t *testing.T) {
	registry := NewRegistry()
	for _, name := range []string{"zeta", "alpha", "mid"} {
		if err := registry.Register(&Tool{Name: name}); err != nil {
			t.Fatalf("register %s: %v", name, err)
		}
	}

	tools := registry.List()
	if len(tools) != 3 {
		t.Fatalf("Expected 3 tools, got %d", len(tools))
	}
	want := []string{"alpha", "mid", "zeta"}
	for i, tl := range tools {
		if tl.Name != want[i] {
			t.Errorf("position %d: expected %q, got %q", i, want[i], tl.Name)
		}
	}
}

func TestToolSchema(t *testing.T) {
	tl := &Tool{
		Name:        "factorize",
		Description: "Prime factorization",
		Parameters: []Parameter{
			{Name: "n", Type: "number", Description: "Number to factor", Required: true},
			{Name: "format", Type: "string", Enum: []string{"plain", "latex"}},
		},
	}

	schema := tl.Schema()
	if schema["type"] != "function" {
		t.Fatalf("expected function schema, got %v", schema["type"])
	}

	fn, ok := schema["function"].(map[string]any)
	if !ok || fn["name"] != "factorize" {
		t.Fatalf("unexpected function block: %v", schema["function"])
	}

	params := fn["parameters"].(map[string]any)
	props := params["properties"].(map[string]any)
	if len(props) != 2 {
		t.Fatalf("expected 2 properties, got %d", len(props))
	}
	required := params["required"].([]string)
	if len(required) != 1 || required[0] != "n" {
		t.Fatalf("expected required [n], got %v", required)
	}
}

func TestRegistryUpsert(t *testing.T) {
	registry := NewRegistry()
	if err := registry.Register(&Tool{Name: "t", Description: "v1"}); err != nil {
		t.Fatal(err)
	}
	if err := registry.Upsert(&Tool{Name: "t", Description: "v2"}); err != nil {
		t.Fatal(err)
	}
	got, err := registry.Get("t")
	if err != nil {
		t.Fatal(err)
	}
	if got.Description != "v2" {
		t.Errorf("expected replacement to win, got %q", got.Description)
	}
	if registry.Len() != 1 {
		t.Errorf("expected 1 tool, got %d", registry.Len())
	}
}

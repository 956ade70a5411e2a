package mcp

import (
	"strings"
	"testing"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

func TestNormalizeContent(t *testing.T) {
	content := []sdkmcp.Content{
		&sdkmcp.TextContent{Text: "hello"},
		&sdkmcp.ResourceLink{URI: "file://foo", Name: "foo.txt"},
	}

	got := normalizeContent(content)
	lines := strings.Split(got, "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d: %q", len(lines), got)
	}
	if lines[0] != "hello" {
		t.Fatalf("expected first line to be 'hello', got %q", lines[0])
	}
	if !strings.Contains(lines[1], "\"resource_link\"") {
		t.Fatalf("expected JSON output to include resource link type: %q", lines[1])
	}
}

func TestNormalizeContentEmpty(t *testing.T) {
	if got := normalizeContent(nil); got != "" {
		t.Fatalf("expected empty string, got %q", got)
	}
}

func TestParametersFromSchema(t *testing.T) {
	schema := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"number": map[string]any{
				"type":        "integer",
				"description": "number to factorize",
			},
			"notation": map[string]any{
				"type":        "string",
				"description": "output notation",
				"enum":        []any{"plain", "exponent"},
				"default":     "exponent",
			},
		},
		"required": []any{"number"},
	}

	params := parametersFromSchema(schema)
	if len(params) != 2 {
		t.Fatalf("expected 2 parameters, got %d", len(params))
	}

	// Sorted alphabetically.
	if params[0].Name != "notation" || params[1].Name != "number" {
		t.Fatalf("unexpected order: %v", []string{params[0].Name, params[1].Name})
	}
	if !params[1].Required {
		t.Fatal("expected 'number' to be required")
	}
	if params[0].Required {
		t.Fatal("expected 'notation' to be optional")
	}
	if len(params[0].Enum) != 2 {
		t.Fatalf("expected enum values, got %v", params[0].Enum)
	}
	if params[0].Default != "exponent" {
		t.Fatalf("expected default 'exponent', got %v", params[0].Default)
	}
}

func TestParametersFromSchemaRawJSON(t *testing.T) {
	raw := []byte(`{"type":"object","properties":{"q":{"description":"query"}}}`)

	params := parametersFromSchema(raw)
	if len(params) != 1 {
		t.Fatalf("expected 1 parameter, got %d", len(params))
	}
	// Untyped properties fall back to string.
	if params[0].Type != "string" {
		t.Fatalf("expected inferred string type, got %q", params[0].Type)
	}
}

func TestParametersFromSchemaNonObject(t *testing.T) {
	if params := parametersFromSchema(map[string]any{"type": "string"}); params != nil {
		t.Fatalf("expected nil for non-object schema, got %v", params)
	}
	if params := parametersFromSchema(42); params != nil {
		t.Fatalf("expected nil for non-map schema, got %v", params)
	}
}

func TestInferType(t *testing.T) {
	cases := []struct {
		prop map[string]any
		want string
	}{
		{map[string]any{"items": map[string]any{}}, "array"},
		{map[string]any{"properties": map[string]any{}}, "object"},
		{map[string]any{}, "string"},
	}
	for _, tc := range cases {
		if got := inferType(tc.prop); got != tc.want {
			t.Errorf("inferType(%v) = %q, want %q", tc.prop, got, tc.want)
		}
	}
}

func TestToolErrorMessage(t *testing.T) {
	err := &ToolError{Name: "factorize", Message: "bad input"}
	if !strings.Contains(err.Error(), "factorize") || !strings.Contains(err.Error(), "bad input") {
		t.Fatalf("unexpected error text: %q", err.Error())
	}
}

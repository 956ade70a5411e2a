package tool

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/Raj7122/agentchat/errors"
)

// Parameter defines a single tool input parameter
type Parameter struct {
	Name        string   `json:"name"`
	Type        string   `json:"type"` // string, number, boolean, object, array
	Description string   `json:"description"`
	Required    bool     `json:"required"`
	Enum        []string `json:"enum,omitempty"`
	Default     any      `json:"default,omitempty"`
}

// Tool represents a callable tool. Descriptors retrieved from a remote source
// are treated as immutable for the lifetime of the session.
type Tool struct {
	Name        string                                              `json:"name"`
	Description string                                              `json:"description"`
	Parameters  []Parameter                                         `json:"parameters"`
	Handler     func(context.Context, map[string]any) (string, error) `json:"-"`
}

// Execute runs the tool with the given arguments
func (t *Tool) Execute(ctx context.Context, args map[string]any) (string, error) {
	if t.Handler == nil {
		return "", fmt.Errorf("tool %s has no handler", t.Name)
	}
	if err := t.ValidateArgs(args); err != nil {
		return "", fmt.Errorf("invalid arguments: %w", err)
	}
	return t.Handler(ctx, args)
}

// ValidateArgs checks that all required parameters are present
func (t *Tool) ValidateArgs(args map[string]any) error {
	for _, param := range t.Parameters {
		if !param.Required {
			continue
		}
		if _, ok := args[param.Name]; !ok {
			return fmt.Errorf("missing required parameter %q: %w", param.Name, errors.ErrInvalidInput)
		}
	}
	return nil
}

// Schema returns the tool definition in the JSON schema shape expected by
// chat-completion style LLM APIs.
func (t *Tool) Schema() map[string]any {
	properties := make(map[string]any, len(t.Parameters))
	required := make([]string, 0)

	for _, param := range t.Parameters {
		prop := map[string]any{
			"type":        param.Type,
			"description": param.Description,
		}
		if len(param.Enum) > 0 {
			prop["enum"] = param.Enum
		}
		if param.Default != nil {
			prop["default"] = param.Default
		}
		properties[param.Name] = prop

		if param.Required {
			required = append(required, param.Name)
		}
	}

	return map[string]any{
		"type": "function",
		"function": map[string]any{
			"name":        t.Name,
			"description": t.Description,
			"parameters": map[string]any{
				"type":       "object",
				"properties": properties,
				"required":   required,
			},
		},
	}
}

// Registry manages a collection of tools. All operations are safe for
// concurrent use.
type Registry struct {
	mu    sync.RWMutex
	tools map[string]*Tool
}

// NewRegistry creates an empty tool registry
func NewRegistry() *Registry {
	return &Registry{
		tools: make(map[string]*Tool),
	}
}

// Register adds a tool to the registry; names must be unique.
func (r *Registry) Register(t *Tool) error {
	if t == nil || t.Name == "" {
		return fmt.Errorf("tool name cannot be empty: %w", errors.ErrInvalidInput)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.tools[t.Name]; exists {
		return fmt.Errorf("tool %s: %w", t.Name, errors.ErrAlreadyExists)
	}
	r.tools[t.Name] = t
	return nil
}

// Upsert adds or replaces a tool definition.
func (r *Registry) Upsert(t *Tool) error {
	if t == nil || t.Name == "" {
		return fmt.Errorf("tool name cannot be empty: %w", errors.ErrInvalidInput)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.tools == nil {
		r.tools = make(map[string]*Tool)
	}
	r.tools[t.Name] = t
	return nil
}

// Get retrieves a tool by name
func (r *Registry) Get(name string) (*Tool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.tools[name]
	if !ok {
		return nil, fmt.Errorf("tool %s: %w", name, errors.ErrNotFound)
	}
	return t, nil
}

// List returns all registered tools sorted by name
func (r *Registry) List() []*Tool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tools := make([]*Tool, 0, len(r.tools))
	for _, t := range r.tools {
		tools = append(tools, t)
	}
	sort.Slice(tools, func(i, j int) bool { return tools[i].Name < tools[j].Name })
	return tools
}

// Len reports the number of registered tools
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.tools)
}

// Schemas returns all tools in JSON schema form, sorted by name
func (r *Registry) Schemas() []map[string]any {
	tools := r.List()
	schemas := make([]map[string]any, 0, len(tools))
	for _, t := range tools {
		schemas = append(schemas, t.Schema())
	}
	return schemas
}

// Execute runs a tool by name with the given arguments
func (r *Registry) Execute(ctx context.Context, name string, args map[string]any) (string, error) {
	t, err := r.Get(name)
	if err != nil {
		return "", err
	}
	return t.Execute(ctx, args)
}

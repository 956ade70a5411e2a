// Package gemini implements the agent.LLMClient interface on top of the
// official Google Generative AI Go SDK.
package gemini

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/Raj7122/agentchat/message"
)

// Config holds Gemini provider configuration.
type Config struct {
	APIKey      string
	Model       string
	MaxTokens   int32
	Temperature float32
}

// DefaultConfig returns the default Gemini configuration.
func DefaultConfig() *Config {
	return &Config{
		Model:       "gemini-1.5-flash",
		MaxTokens:   2048,
		Temperature: 0.7,
	}
}

// Provider implements the LLMClient interface for Google Gemini. The API
// client is created lazily so that credential problems surface on the first
// Generate call, not at construction.
type Provider struct {
	config *Config

	initOnce sync.Once
	client   *genai.Client
	initErr  error
}

// New creates a Gemini provider.
func New(config *Config) *Provider {
	if config == nil {
		config = DefaultConfig()
	}
	if config.Model == "" {
		config.Model = "gemini-1.5-flash"
	}
	return &Provider{config: config}
}

func (p *Provider) init(ctx context.Context) error {
	p.initOnce.Do(func() {
		var opts []option.ClientOption
		if p.config.APIKey != "" {
			opts = append(opts, option.WithAPIKey(p.config.APIKey))
		}
		p.client, p.initErr = genai.NewClient(ctx, opts...)
	})
	return p.initErr
}

// Close releases the underlying API client if it was created.
func (p *Provider) Close() error {
	if p.client != nil {
		return p.client.Close()
	}
	return nil
}

// Generate implements agent.LLMClient.
func (p *Provider) Generate(ctx context.Context, messages []*message.Message, tools []map[string]any) (*message.Message, error) {
	if err := p.init(ctx); err != nil {
		return nil, fmt.Errorf("gemini client init: %w", err)
	}

	model := p.client.GenerativeModel(p.config.Model)
	if p.config.Temperature > 0 {
		model.SetTemperature(p.config.Temperature)
	}
	if p.config.MaxTokens > 0 {
		model.SetMaxOutputTokens(p.config.MaxTokens)
	}

	if len(tools) > 0 {
		declarations := make([]*genai.FunctionDeclaration, 0, len(tools))
		for _, t := range tools {
			decl, err := convertTool(t)
			if err != nil {
				return nil, err
			}
			declarations = append(declarations, decl)
		}
		model.Tools = []*genai.Tool{{FunctionDeclarations: declarations}}
	}

	var systemPrompts []string
	contents := make([]*genai.Content, 0, len(messages))
	for _, msg := range messages {
		switch msg.Role {
		case message.RoleSystem:
			systemPrompts = append(systemPrompts, msg.Content)
		case message.RoleUser:
			contents = append(contents, &genai.Content{
				Role:  "user",
				Parts: []genai.Part{genai.Text(msg.Content)},
			})
		case message.RoleAssistant:
			parts := make([]genai.Part, 0, 1+len(msg.ToolCalls))
			if msg.Content != "" {
				parts = append(parts, genai.Text(msg.Content))
			}
			for _, tc := range msg.ToolCalls {
				parts = append(parts, genai.FunctionCall{Name: tc.Name, Args: tc.Args})
			}
			contents = append(contents, &genai.Content{Role: "model", Parts: parts})
		case message.RoleTool:
			// Gemini identifies tool calls by function name, not call ID; the
			// agent stores the name in ToolID for responses we produced.
			contents = append(contents, &genai.Content{
				Role: "user",
				Parts: []genai.Part{genai.FunctionResponse{
					Name:     msg.ToolID,
					Response: map[string]any{"result": msg.Content},
				}},
			})
		}
	}

	if len(systemPrompts) > 0 {
		model.SystemInstruction = &genai.Content{
			Parts: []genai.Part{genai.Text(strings.Join(systemPrompts, "\n"))},
		}
	}

	if len(contents) == 0 {
		return nil, fmt.Errorf("gemini: no conversation messages to send")
	}

	session := model.StartChat()
	last := contents[len(contents)-1]
	session.History = contents[:len(contents)-1]

	resp, err := session.SendMessage(ctx, last.Parts...)
	if err != nil {
		return nil, fmt.Errorf("gemini api error: %w", err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil, fmt.Errorf("no candidates returned from gemini")
	}

	var responseText string
	toolCalls := make([]message.ToolCall, 0)
	for _, part := range resp.Candidates[0].Content.Parts {
		switch v := part.(type) {
		case genai.Text:
			responseText += string(v)
		case genai.FunctionCall:
			toolCalls = append(toolCalls, message.ToolCall{
				ID:   v.Name,
				Name: v.Name,
				Args: v.Args,
			})
		}
	}

	responseMsg := message.New(message.RoleAssistant, responseText)
	if len(toolCalls) > 0 {
		responseMsg.ToolCalls = toolCalls
	}

	return responseMsg, nil
}

// convertTool maps the generic chat-completion tool schema onto a Gemini
// function declaration.
func convertTool(t map[string]any) (*genai.FunctionDeclaration, error) {
	fn, ok := t["function"].(map[string]any)
	if !ok {
		return nil, fmt.Errorf("tool schema missing function block")
	}

	name, _ := fn["name"].(string)
	if name == "" {
		return nil, fmt.Errorf("tool schema missing name")
	}
	description, _ := fn["description"].(string)

	decl := &genai.FunctionDeclaration{
		Name:        name,
		Description: description,
	}

	if parameters, ok := fn["parameters"].(map[string]any); ok {
		if schema := convertSchema(parameters); schema != nil && len(schema.Properties) > 0 {
			decl.Parameters = schema
		}
	}

	return decl, nil
}

func convertSchema(parameters map[string]any) *genai.Schema {
	schema := &genai.Schema{Type: genai.TypeObject}

	if required, ok := parameters["required"].([]string); ok {
		schema.Required = required
	} else if raw, ok := parameters["required"].([]any); ok {
		for _, item := range raw {
			if s, ok := item.(string); ok {
				schema.Required = append(schema.Required, s)
			}
		}
	}

	props, ok := parameters["properties"].(map[string]any)
	if !ok {
		return schema
	}

	schema.Properties = make(map[string]*genai.Schema, len(props))
	for name, raw := range props {
		prop, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		propSchema := &genai.Schema{Type: convertType(prop["type"])}
		if desc, ok := prop["description"].(string); ok {
			propSchema.Description = desc
		}
		if enums, ok := prop["enum"].([]string); ok {
			propSchema.Enum = enums
		}
		if propSchema.Type == genai.TypeArray {
			propSchema.Items = &genai.Schema{Type: genai.TypeString}
		}
		schema.Properties[name] = propSchema
	}

	return schema
}

func convertType(v any) genai.Type {
	typeName, _ := v.(string)
	switch strings.ToLower(typeName) {
	case "number":
		return genai.TypeNumber
	case "integer":
		return genai.TypeInteger
	case "boolean":
		return genai.TypeBoolean
	case "array":
		return genai.TypeArray
	case "object":
		return genai.TypeObject
	default:
		return genai.TypeString
	}
}

// Package claude implements the agent.LLMClient interface on top of the
// official Anthropic Go SDK.
package claude

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/anthropics/anthropic-sdk-go/packages/param"

	"github.com/Raj7122/agentchat/message"
)

// Config holds Claude provider configuration.
type Config struct {
	APIKey      string
	BaseURL     string
	Model       string
	MaxTokens   int64
	Temperature float64
}

// DefaultConfig returns the default Claude configuration.
func DefaultConfig() *Config {
	return &Config{
		Model:       "claude-sonnet-4-5-20250929",
		MaxTokens:   4096,
		Temperature: 0.7,
	}
}

// Provider implements the LLMClient interface for Claude.
type Provider struct {
	config *Config
	client anthropic.Client
}

// New creates a Claude provider. Credential problems surface on the first
// Generate call, not here.
func New(config *Config) *Provider {
	if config == nil {
		config = DefaultConfig()
	}
	if config.Model == "" {
		config.Model = "claude-sonnet-4-5-20250929"
	}

	var options []option.RequestOption
	if config.APIKey != "" {
		options = append(options, option.WithAPIKey(config.APIKey))
	}
	if config.BaseURL != "" {
		options = append(options, option.WithBaseURL(config.BaseURL))
	}

	return &Provider{
		config: config,
		client: anthropic.NewClient(options...),
	}
}

// Generate implements agent.LLMClient.
func (p *Provider) Generate(ctx context.Context, messages []*message.Message, tools []map[string]any) (*message.Message, error) {
	// System messages become the top-level system prompt; the rest map to
	// alternating user/assistant turns with tool blocks where needed.
	var systemPrompts []string
	conversation := make([]anthropic.MessageParam, 0, len(messages))

	for _, msg := range messages {
		switch msg.Role {
		case message.RoleSystem:
			systemPrompts = append(systemPrompts, msg.Content)
		case message.RoleUser:
			conversation = append(conversation,
				anthropic.NewUserMessage(anthropic.NewTextBlock(msg.Content)))
		case message.RoleAssistant:
			blocks := make([]anthropic.ContentBlockParamUnion, 0, 1+len(msg.ToolCalls))
			if msg.Content != "" {
				blocks = append(blocks, anthropic.NewTextBlock(msg.Content))
			}
			for _, tc := range msg.ToolCalls {
				args := tc.Args
				if args == nil {
					args = make(map[string]any)
				}
				blocks = append(blocks, anthropic.ContentBlockParamUnion{
					OfToolUse: &anthropic.ToolUseBlockParam{
						ID:    tc.ID,
						Name:  tc.Name,
						Input: args,
					},
				})
			}
			conversation = append(conversation, anthropic.NewAssistantMessage(blocks...))
		case message.RoleTool:
			conversation = append(conversation, anthropic.NewUserMessage(
				anthropic.ContentBlockParamUnion{
					OfToolResult: &anthropic.ToolResultBlockParam{
						ToolUseID: msg.ToolID,
						Content: []anthropic.ToolResultBlockParamContentUnion{
							{OfText: &anthropic.TextBlockParam{Text: msg.Content}},
						},
					},
				}))
		}
	}

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(p.config.Model),
		Messages:  conversation,
		MaxTokens: p.config.MaxTokens,
	}

	if len(systemPrompts) > 0 {
		params.System = []anthropic.TextBlockParam{
			{Text: strings.Join(systemPrompts, "\n")},
		}
	}

	if p.config.Temperature > 0 {
		params.Temperature = param.NewOpt(p.config.Temperature)
	}

	if len(tools) > 0 {
		claudeTools := make([]anthropic.ToolUnionParam, 0, len(tools))
		for _, t := range tools {
			toolParam, err := convertTool(t)
			if err != nil {
				return nil, err
			}
			claudeTools = append(claudeTools, anthropic.ToolUnionParam{OfTool: toolParam})
		}
		params.Tools = claudeTools
	}

	apiMessage, err := p.client.Messages.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("claude api error: %w", err)
	}

	var responseText string
	toolCalls := make([]message.ToolCall, 0)

	for _, content := range apiMessage.Content {
		switch content.Type {
		case "text":
			responseText = content.Text
		case "tool_use":
			var args map[string]any
			if err := json.Unmarshal(content.Input, &args); err != nil {
				return nil, fmt.Errorf("failed to parse tool input: %w", err)
			}
			toolCalls = append(toolCalls, message.ToolCall{
				ID:   content.ID,
				Name: content.Name,
				Args: args,
			})
		}
	}

	responseMsg := message.New(message.RoleAssistant, responseText)
	if len(toolCalls) > 0 {
		responseMsg.ToolCalls = toolCalls
	}

	return responseMsg, nil
}

// convertTool maps the generic chat-completion tool schema
// ({"type":"function","function":{name,description,parameters}}) onto the
// Anthropic tool shape.
func convertTool(t map[string]any) (*anthropic.ToolParam, error) {
	fn, ok := t["function"].(map[string]any)
	if !ok {
		return nil, fmt.Errorf("tool schema missing function block")
	}

	name, _ := fn["name"].(string)
	if name == "" {
		return nil, fmt.Errorf("tool schema missing name")
	}
	description, _ := fn["description"].(string)

	toolParam := &anthropic.ToolParam{
		Name: name,
	}
	if description != "" {
		toolParam.Description = param.NewOpt(description)
	}

	if parameters, ok := fn["parameters"].(map[string]any); ok {
		schemaJSON, err := json.Marshal(parameters)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal tool parameters: %w", err)
		}
		var inputSchema anthropic.ToolInputSchemaParam
		if err := json.Unmarshal(schemaJSON, &inputSchema); err != nil {
			return nil, fmt.Errorf("failed to build tool input schema: %w", err)
		}
		toolParam.InputSchema = inputSchema
	}

	return toolParam, nil
}

// Command agentchat connects to a remote MCP tool server, binds the
// discovered tools to a hosted-model agent, and serves a web chat interface.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/Raj7122/agentchat/agent"
	"github.com/Raj7122/agentchat/chat"
	"github.com/Raj7122/agentchat/chat/store"
	"github.com/Raj7122/agentchat/config"
	"github.com/Raj7122/agentchat/mcp"
	"github.com/Raj7122/agentchat/pkg/logging"
	"github.com/Raj7122/agentchat/pkg/telemetry"
	"github.com/Raj7122/agentchat/provider"
	"github.com/Raj7122/agentchat/tokenizer"
)

func main() {
	if err := run(context.Background()); err != nil {
		logging.WithComponent("main").Error("agentchat failed", "error", err)
		os.Exit(1)
	}
}

// run wires the components together. Setup failures are fatal; the deferred
// connector close still runs on every exit path.
func run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger := logging.WithComponent("main")

	shutdownTelemetry, err := telemetry.Init(ctx, telemetry.Config{
		ServiceName: cfg.App.Name,
		Environment: cfg.App.Env,
		Disable:     !cfg.Telemetry.Enabled,
	})
	if err != nil {
		return fmt.Errorf("init telemetry: %w", err)
	}
	defer func() {
		_ = shutdownTelemetry(context.Background())
	}()

	// The tool-source session is released on every exit path, including when
	// a later setup step fails.
	var connector mcp.Connector
	defer func() {
		if connector != nil {
			if err := connector.Close(); err != nil {
				logger.Warn("tool source close failed", "error", err)
			}
		}
	}()

	connector, err = mcp.Connect(ctx, mcp.Config{
		Transport: mcp.Transport(cfg.MCP.Transport),
		Endpoint:  cfg.MCP.Endpoint,
		Command:   cfg.MCP.Command,
	}, mcp.WithKeepAlive(cfg.MCP.KeepAlive))
	if err != nil {
		return fmt.Errorf("connect tool source: %w", err)
	}

	tools, err := connector.Tools(ctx)
	if err != nil {
		return fmt.Errorf("list tools: %w", err)
	}
	for _, t := range tools {
		logger.Info("discovered tool", "name", t.Name, "description", t.Description)
	}

	llm, err := provider.New(provider.Settings{
		Name:    cfg.Inference.Provider,
		APIKey:  cfg.Inference.APIKey(),
		Model:   cfg.Inference.Model,
		BaseURL: cfg.Inference.BaseURL,
	})
	if err != nil {
		return fmt.Errorf("build inference client: %w", err)
	}

	agentOpts := []agent.Option{
		agent.WithName(cfg.App.Name),
		agent.WithLLM(llm),
		agent.WithSystemPrompt(cfg.Inference.SystemPrompt),
		agent.WithMaxIterations(cfg.Inference.MaxIterations),
		agent.WithToolProvider(connector),
	}
	if counter, err := tokenizer.New(cfg.Inference.TokenEncoding); err != nil {
		logger.Warn("token counter unavailable", "encoding", cfg.Inference.TokenEncoding, "error", err)
	} else {
		agentOpts = append(agentOpts, agent.WithTokenCounter(counter))
	}
	ag := agent.New(agentOpts...)

	var transcripts store.Store = store.NewMemoryStore()
	if cfg.Chat.SessionBackend == "redis" {
		redisStore := store.NewRedisStore(&store.RedisConfig{
			Addr:     cfg.Redis.Addr(),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			TTL:      cfg.Chat.SessionTTL,
		})
		defer redisStore.Close()
		transcripts = redisStore
		logger.Info("using redis transcript store", "addr", cfg.Redis.Addr())
	}

	server := chat.New(chat.Config{
		Addr:        cfg.Chat.Addr,
		Title:       cfg.Chat.Title,
		Description: cfg.Chat.Description,
		Examples:    cfg.Chat.Examples,
		ToolCount:   ag.Tools().Len,
	}, ag, transcripts)

	return server.Launch()
}

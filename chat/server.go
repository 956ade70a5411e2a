// Package chat serves the request/response chat interface. Each incoming
// message is forwarded to the agent; conversation history is retained for
// display only and never threaded back into the agent.
package chat

import (
	"context"
	"encoding/json"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/Raj7122/agentchat/chat/store"
	"github.com/Raj7122/agentchat/message"
	"github.com/Raj7122/agentchat/pkg/logging"
)

// Runner answers a single chat message. *agent.Agent satisfies this.
type Runner interface {
	Run(ctx context.Context, input string) (string, error)
}

// Config holds the cosmetic and network settings of the chat interface.
// Title, Description and Examples affect only what the widget displays.
type Config struct {
	Addr        string
	Title       string
	Description string
	Examples    []string
	// ToolCount reports how many tools are bound, for the health endpoint.
	// Optional.
	ToolCount func() int
}

// Server is the chat interface. Dependencies are passed in explicitly; the
// server holds no process-global state.
type Server struct {
	cfg      Config
	runner   Runner
	store    store.Store
	logger   *slog.Logger
	page     *template.Template
	upgrader websocket.Upgrader
}

// New creates a chat server around the given agent runner and transcript
// store.
func New(cfg Config, runner Runner, st store.Store) *Server {
	if cfg.Addr == "" {
		cfg.Addr = ":7860"
	}
	if st == nil {
		st = store.NewMemoryStore()
	}
	return &Server{
		cfg:    cfg,
		runner: runner,
		store:  st,
		logger: logging.WithComponent("chat"),
		page:   template.Must(template.New("index").Parse(indexHTML)),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// Handler returns the HTTP handler tree; exposed separately for tests.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("GET /api/config", s.handleConfig)
	mux.HandleFunc("POST /api/chat", s.handleChat)
	mux.HandleFunc("GET /api/history", s.handleHistory)
	mux.HandleFunc("GET /api/ws", s.handleWS)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	return mux
}

// Launch starts the blocking HTTP server loop.
func (s *Server) Launch() error {
	s.logger.Info("chat interface listening", "addr", s.cfg.Addr, "title", s.cfg.Title)
	srv := &http.Server{
		Addr:    s.cfg.Addr,
		Handler: s.Handler(),
	}
	return srv.ListenAndServe()
}

type pageData struct {
	Title       string
	Description string
	Examples    []string
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	data := pageData{
		Title:       s.cfg.Title,
		Description: s.cfg.Description,
		Examples:    s.cfg.Examples,
	}
	if err := s.page.Execute(w, data); err != nil {
		s.logger.Error("render page failed", "error", err)
	}
}

type configResponse struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Examples    []string `json:"examples"`
	Type        string   `json:"type"`
}

func (s *Server) handleConfig(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, configResponse{
		Title:       s.cfg.Title,
		Description: s.cfg.Description,
		Examples:    s.cfg.Examples,
		Type:        "messages",
	})
}

type chatRequest struct {
	SessionID string `json:"session_id,omitempty"`
	Message   string `json:"message"`
	// History is accepted for wire compatibility with chat widgets but has
	// no effect on the agent's answer.
	History []json.RawMessage `json:"history,omitempty"`
}

type chatResponse struct {
	SessionID string `json:"session_id"`
	Reply     string `json:"reply"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	if req.Message == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "message cannot be empty"})
		return
	}

	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	reply, err := s.respond(r.Context(), sessionID, req.Message)
	if err != nil {
		// Per-message failures are rendered inline by the widget.
		writeJSON(w, http.StatusBadGateway, errorResponse{Error: err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, chatResponse{SessionID: sessionID, Reply: reply})
}

// respond forwards one message to the agent and records the exchange.
func (s *Server) respond(ctx context.Context, sessionID, input string) (string, error) {
	reply, err := s.runner.Run(ctx, input)
	if err != nil {
		s.logger.Error("agent run failed", "session", sessionID, "error", err)
		return "", fmt.Errorf("agent failed: %w", err)
	}

	if err := s.store.Append(ctx, sessionID,
		message.New(message.RoleUser, input),
		message.New(message.RoleAssistant, reply),
	); err != nil {
		// Transcript storage is display state only; losing it does not fail
		// the exchange.
		s.logger.Warn("failed to store transcript", "session", sessionID, "error", err)
	}

	return reply, nil
}

type historyResponse struct {
	SessionID string             `json:"session_id"`
	Messages  []*message.Message `json:"messages"`
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	sessionID := r.URL.Query().Get("session")
	if sessionID == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "session query parameter is required"})
		return
	}

	msgs, err := s.store.History(r.Context(), sessionID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}
	if msgs == nil {
		msgs = []*message.Message{}
	}
	writeJSON(w, http.StatusOK, historyResponse{SessionID: sessionID, Messages: msgs})
}

type wsRequest struct {
	SessionID string `json:"session_id,omitempty"`
	Message   string `json:"message"`
}

type wsResponse struct {
	SessionID string `json:"session_id,omitempty"`
	Reply     string `json:"reply,omitempty"`
	Error     string `json:"error,omitempty"`
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	for {
		var req wsRequest
		if err := conn.ReadJSON(&req); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.logger.Warn("websocket read failed", "error", err)
			}
			return
		}
		if req.Message == "" {
			if err := conn.WriteJSON(wsResponse{Error: "message cannot be empty"}); err != nil {
				return
			}
			continue
		}

		sessionID := req.SessionID
		if sessionID == "" {
			sessionID = uuid.NewString()
		}

		reply, err := s.respond(r.Context(), sessionID, req.Message)
		resp := wsResponse{SessionID: sessionID, Reply: reply}
		if err != nil {
			resp = wsResponse{SessionID: sessionID, Error: err.Error()}
		}
		if err := conn.WriteJSON(resp); err != nil {
			return
		}
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	health := map[string]any{"status": "ok"}
	if s.cfg.ToolCount != nil {
		health["tools"] = s.cfg.ToolCount()
	}
	writeJSON(w, http.StatusOK, health)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/Raj7122/agentchat/message"
)

// MemoryStore implements Store using process memory. It is the default
// backend; transcripts vanish on restart.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string][]*message.Message
}

// NewMemoryStore creates an empty in-memory transcript store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string][]*message.Message),
	}
}

// Append adds messages to a session transcript.
func (s *MemoryStore) Append(ctx context.Context, sessionID string, msgs ...*message.Message) error {
	if sessionID == "" {
		return fmt.Errorf("session id cannot be empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sessionID] = append(s.sessions[sessionID], message.CloneAll(msgs)...)
	return nil
}

// History returns a copy of the session transcript.
func (s *MemoryStore) History(ctx context.Context, sessionID string) ([]*message.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return message.CloneAll(s.sessions[sessionID]), nil
}

// Clear removes a session transcript.
func (s *MemoryStore) Clear(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionID)
	return nil
}

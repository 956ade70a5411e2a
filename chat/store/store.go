// Package store persists chat transcripts for the UI layer. History kept
// here is display state only; it is never threaded back into the agent.
package store

import (
	"context"

	"github.com/Raj7122/agentchat/message"
)

// Store keeps per-session conversation transcripts.
type Store interface {
	// Append adds messages to the end of a session transcript.
	Append(ctx context.Context, sessionID string, msgs ...*message.Message) error
	// History returns the full transcript for a session, oldest first.
	// An unknown session yields an empty transcript, not an error.
	History(ctx context.Context, sessionID string) ([]*message.Message, error)
	// Clear removes a session transcript.
	Clear(ctx context.Context, sessionID string) error
}

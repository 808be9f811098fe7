// Package session provides session-ID correlation and conversation history
// storage. The platform has no durable memory: the default store is
// in-memory and history disappears on restart. That is a known limitation
// carried over from the current deployment, not a design goal; the Store
// interface exists so a durable backend can be swapped in.
package session

import (
	"context"

	"github.com/cognitive-core/agent-gateway/internal/types"
	"github.com/cognitive-core/agent-gateway/internal/utils"
)

// Store keeps per-session conversation history
type Store interface {
	// GetOrCreate returns the given session ID, creating the session if
	// needed. An empty ID yields a freshly generated one.
	GetOrCreate(ctx context.Context, sessionID string) (string, error)
	// AppendExchange records one user/assistant round trip
	AppendExchange(ctx context.Context, sessionID, userText, assistantText string) error
	// History returns the recorded messages in conversation order
	History(ctx context.Context, sessionID string) ([]types.Message, error)
	// Ping reports whether the backing store is reachable
	Ping(ctx context.Context) error
	// Close releases store resources
	Close() error
}

// newSessionID generates a fresh session identifier
func newSessionID() string {
	return utils.GenerateSessionID()
}

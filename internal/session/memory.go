package session

import (
	"context"
	"sync"
	"time"

	"github.com/cognitive-core/agent-gateway/internal/types"
)

// MemoryStore is the default, non-durable session store. Entries expire
// after a TTL; a background sweeper reclaims them.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]*memoryEntry
	ttl     time.Duration
	done    chan struct{}
	once    sync.Once
}

type memoryEntry struct {
	messages []types.Message
	lastSeen time.Time
}

// NewMemoryStore creates an in-memory store with the given entry TTL
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	s := &MemoryStore{
		entries: make(map[string]*memoryEntry),
		ttl:     ttl,
		done:    make(chan struct{}),
	}
	go s.sweep()
	return s
}

// GetOrCreate returns the session ID, generating one when empty
func (s *MemoryStore) GetOrCreate(ctx context.Context, sessionID string) (string, error) {
	if sessionID == "" {
		sessionID = newSessionID()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[sessionID]
	if !ok {
		entry = &memoryEntry{}
		s.entries[sessionID] = entry
	}
	entry.lastSeen = time.Now()
	return sessionID, nil
}

// AppendExchange records one user/assistant round trip
func (s *MemoryStore) AppendExchange(ctx context.Context, sessionID, userText, assistantText string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[sessionID]
	if !ok {
		entry = &memoryEntry{}
		s.entries[sessionID] = entry
	}
	entry.messages = append(entry.messages,
		types.Message{Role: types.RoleUser, Content: userText},
		types.Message{Role: types.RoleAssistant, Content: assistantText},
	)
	entry.lastSeen = time.Now()
	return nil
}

// History returns the recorded messages in conversation order
func (s *MemoryStore) History(ctx context.Context, sessionID string) ([]types.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.entries[sessionID]
	if !ok {
		return nil, nil
	}
	history := make([]types.Message, len(entry.messages))
	copy(history, entry.messages)
	return history, nil
}

// Ping always succeeds for the in-memory store
func (s *MemoryStore) Ping(ctx context.Context) error {
	return nil
}

// Close stops the background sweeper
func (s *MemoryStore) Close() error {
	s.once.Do(func() { close(s.done) })
	return nil
}

// Len returns the number of live sessions
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

func (s *MemoryStore) sweep() {
	ticker := time.NewTicker(s.ttl / 2)
	defer ticker.Stop()

	for {
		select {
		case <-s.done:
			return
		case now := <-ticker.C:
			s.mu.Lock()
			for id, entry := range s.entries {
				if now.Sub(entry.lastSeen) > s.ttl {
					delete(s.entries, id)
				}
			}
			s.mu.Unlock()
		}
	}
}

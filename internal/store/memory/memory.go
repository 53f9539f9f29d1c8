package memory

import (
	"context"
	"sync"

	"github.com/vovakirdan/messageboard/internal/store"
)

// MemoryStore implements store.Store on a slice guarded by a RWMutex.
type MemoryStore struct {
	mu       sync.RWMutex
	messages []store.Message
}

// New creates an empty memory store.
func New() *MemoryStore {
	return &MemoryStore{}
}

// AppendMessage adds msg at the end of the sequence.
func (s *MemoryStore) AppendMessage(ctx context.Context, msg store.Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	s.messages = append(s.messages, msg)
	s.mu.Unlock()
	return nil
}

// ListMessages returns a copy of the sequence.
func (s *MemoryStore) ListMessages(ctx context.Context) ([]store.Message, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]store.Message, len(s.messages))
	copy(out, s.messages)
	return out, nil
}

// Close is a no-op; the sequence lives as long as the store value.
func (s *MemoryStore) Close() error {
	return nil
}

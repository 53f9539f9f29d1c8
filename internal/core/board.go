package core

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/vovakirdan/messageboard/internal/store"
)

// Board owns the message sequence of one process and publishes new messages to the feed.
type Board struct {
	store store.MessageStore
	feed  *Feed
	now   func() time.Time

	// mu orders append+publish so the feed sees the store's order.
	mu sync.Mutex
}

// Option configures a Board.
type Option func(*Board)

// WithClock overrides the clock used to stamp new messages.
func WithClock(now func() time.Time) Option {
	return func(b *Board) {
		b.now = now
	}
}

// WithFeed makes the board publish every appended message to f.
// The feed must be running (see Feed.Run) for Post to return.
func WithFeed(f *Feed) Option {
	return func(b *Board) {
		b.feed = f
	}
}

// NewBoard creates a board backed by st.
func NewBoard(st store.MessageStore, opts ...Option) *Board {
	b := &Board{
		store: st,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Post validates and appends a message, returning the stored record.
func (b *Board) Post(ctx context.Context, name, text string) (Message, error) {
	if err := validateMessage(name, text); err != nil {
		return Message{}, err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	msg := Message{
		Name:      name,
		Text:      text,
		CreatedAt: b.now().UTC(),
	}
	if err := b.store.AppendMessage(ctx, toStoreMessage(msg)); err != nil {
		return Message{}, fmt.Errorf("append message: %w", err)
	}

	if b.feed != nil {
		b.feed.Publish(msg)
	}
	return msg, nil
}

// List returns every message in insertion order.
// The returned slice is a snapshot and is never modified by later posts.
func (b *Board) List(ctx context.Context) ([]Message, error) {
	stored, err := b.store.ListMessages(ctx)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}

	messages := make([]Message, 0, len(stored))
	for _, m := range stored {
		messages = append(messages, fromStoreMessage(m))
	}
	return messages, nil
}

func toStoreMessage(m Message) store.Message {
	return store.Message{
		Name:      m.Name,
		Body:      m.Text,
		CreatedAt: m.CreatedAt,
	}
}

func fromStoreMessage(m store.Message) Message {
	return Message{
		Name:      m.Name,
		Text:      m.Body,
		CreatedAt: m.CreatedAt,
	}
}

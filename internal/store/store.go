package store

import (
	"context"
	"time"
)

// Message represents a stored board message.
// Stores keep no identifier; position in the sequence is the identity.
type Message struct {
	Name      string
	Body      string
	CreatedAt time.Time
}

// Driver names a store backend.
type Driver string

const (
	DriverMemory Driver = "memory"
	DriverSQLite Driver = "sqlite"
)

// MessageStore handles the append-only message sequence.
type MessageStore interface {
	// AppendMessage adds msg at the end of the sequence.
	AppendMessage(ctx context.Context, msg Message) error

	// ListMessages returns all messages in insertion order.
	// The result is owned by the caller.
	ListMessages(ctx context.Context) ([]Message, error)
}

// Store aggregates storage interfaces.
type Store interface {
	MessageStore
	Close() error
}

package utils

import "github.com/google/uuid"

// NewID returns a random identifier for requests and stream subscribers.
func NewID() string {
	return uuid.NewString()
}

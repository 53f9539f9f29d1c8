package core

import "time"

// Message is the domain model for a board message.
type Message struct {
	Name      string
	Text      string
	CreatedAt time.Time
}

// validateMessage reports a validation error when name or text is empty.
func validateMessage(name, text string) error {
	switch {
	case name == "":
		return validationError("name is required")
	case text == "":
		return validationError("message is required")
	}
	return nil
}

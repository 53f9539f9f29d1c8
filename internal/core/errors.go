package core

import "errors"

// ErrCodeValidation marks a message rejected for missing fields.
const ErrCodeValidation = "validation_error"

// ErrValidation is matched by every error produced for a message with missing fields.
var ErrValidation = errors.New("all fields required")

// CoreError wraps a code and human-readable message.
type CoreError struct {
	Code    string
	Message string
	Err     error
}

func (e *CoreError) Error() string {
	return e.Message
}

func (e *CoreError) Unwrap() error {
	return e.Err
}

func validationError(msg string) *CoreError {
	return &CoreError{Code: ErrCodeValidation, Message: msg, Err: ErrValidation}
}

package proto

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// PostMessageRequest is the body of POST /api/message.
type PostMessageRequest struct {
	Name    Text `json:"name" binding:"required"`
	Message Text `json:"message" binding:"required"`
}

// Text is a request string field. The falsy literals null, false and zero
// decode to the empty string so presence checks reject them like a missing
// field; any other non-string value is a decode error.
type Text string

// UnmarshalJSON implements json.Unmarshaler.
func (t *Text) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*t = Text(s)
		return nil
	}
	if isFalsy(data) {
		*t = ""
		return nil
	}
	return fmt.Errorf("proto: expected string, got %s", data)
}

func isFalsy(data []byte) bool {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) || bytes.Equal(data, []byte("false")) {
		return true
	}
	var n float64
	return json.Unmarshal(data, &n) == nil && n == 0
}

// MessageData is the created record echoed back by POST /api/message.
type MessageData struct {
	Name    string `json:"name"`
	Message string `json:"message"`
}

// PostMessageResponse wraps a successfully created record.
type PostMessageResponse struct {
	Success bool        `json:"success"`
	Data    MessageData `json:"data"`
}

// MessageRecord is one element of GET /api/messages and of the live stream.
type MessageRecord struct {
	Name      string     `json:"name"`
	Message   string     `json:"message"`
	Timestamp *time.Time `json:"timestamp,omitempty"`
}

// ErrorResponse represents an error response body.
type ErrorResponse struct {
	Error string `json:"error"`
}

// Error strings returned by the HTTP API.
const (
	ErrMsgFieldsRequired = "All fields required"
	ErrMsgInvalidBody    = "invalid request body"
	ErrMsgBodyTooLarge   = "request body too large"
	ErrMsgInternal       = "internal server error"
)

// Readiness is the plain-text body of GET /.
const Readiness = "Backend is running"

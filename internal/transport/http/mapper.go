package http

import (
	"github.com/vovakirdan/messageboard/internal/core"
	"github.com/vovakirdan/messageboard/internal/proto"
)

func messageData(msg core.Message) proto.MessageData {
	return proto.MessageData{
		Name:    msg.Name,
		Message: msg.Text,
	}
}

func messageRecord(msg core.Message) proto.MessageRecord {
	record := proto.MessageRecord{
		Name:    msg.Name,
		Message: msg.Text,
	}
	if !msg.CreatedAt.IsZero() {
		ts := msg.CreatedAt
		record.Timestamp = &ts
	}
	return record
}

package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"github.com/samber/lo"

	"github.com/vovakirdan/messageboard/internal/core"
	"github.com/vovakirdan/messageboard/internal/metrics"
	"github.com/vovakirdan/messageboard/internal/proto"
)

// MessageHandlers provides HTTP handlers for the message endpoints.
type MessageHandlers struct {
	board   *core.Board
	metrics *metrics.Metrics
	log     *zerolog.Logger
}

// NewMessageHandlers creates a new message handlers instance.
func NewMessageHandlers(board *core.Board, m *metrics.Metrics, logger *zerolog.Logger) *MessageHandlers {
	return &MessageHandlers{
		board:   board,
		metrics: m,
		log:     logger,
	}
}

// PostMessage appends a message to the board.
// POST /api/message
func (h *MessageHandlers) PostMessage(c *gin.Context) {
	var req proto.PostMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		status, msg := bindErrorResponse(err)
		if msg == proto.ErrMsgFieldsRequired {
			h.metrics.MessageRejected()
		}
		h.log.Debug().Err(err).Int("status", status).Msg("invalid post message request")
		c.JSON(status, proto.ErrorResponse{Error: msg})
		return
	}

	msg, err := h.board.Post(c.Request.Context(), string(req.Name), string(req.Message))
	if err != nil {
		if errors.Is(err, core.ErrValidation) {
			h.metrics.MessageRejected()
			c.JSON(http.StatusBadRequest, proto.ErrorResponse{Error: proto.ErrMsgFieldsRequired})
			return
		}
		h.log.Error().Err(err).Str("name", string(req.Name)).Msg("failed to post message")
		c.JSON(http.StatusInternalServerError, proto.ErrorResponse{Error: proto.ErrMsgInternal})
		return
	}

	h.metrics.MessagePosted()
	h.log.Debug().Str("name", msg.Name).Msg("message posted")
	c.JSON(http.StatusCreated, proto.PostMessageResponse{
		Success: true,
		Data:    messageData(msg),
	})
}

// ListMessages returns every message in insertion order.
// GET /api/messages
func (h *MessageHandlers) ListMessages(c *gin.Context) {
	messages, err := h.board.List(c.Request.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("failed to list messages")
		c.JSON(http.StatusInternalServerError, proto.ErrorResponse{Error: proto.ErrMsgInternal})
		return
	}

	c.JSON(http.StatusOK, lo.Map(messages, func(m core.Message, _ int) proto.MessageRecord {
		return messageRecord(m)
	}))
}

// bindErrorResponse maps a binding failure to a status and error string.
// A missing body or a top-level array carries no fields, so both count as
// missing fields.
func bindErrorResponse(err error) (int, string) {
	var validationErrs validator.ValidationErrors
	var typeErr *json.UnmarshalTypeError
	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &validationErrs), errors.Is(err, io.EOF):
		return http.StatusBadRequest, proto.ErrMsgFieldsRequired
	case errors.As(err, &typeErr) && typeErr.Value == "array" && typeErr.Field == "":
		return http.StatusBadRequest, proto.ErrMsgFieldsRequired
	case errors.As(err, &tooLarge):
		return http.StatusRequestEntityTooLarge, proto.ErrMsgBodyTooLarge
	default:
		return http.StatusBadRequest, proto.ErrMsgInvalidBody
	}
}

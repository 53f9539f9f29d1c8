package http

import (
	"context"
	"errors"
	stdhttp "net/http"
	"net/url"
	"strings"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/rs/zerolog"

	"github.com/vovakirdan/messageboard/internal/core"
	"github.com/vovakirdan/messageboard/internal/metrics"
	"github.com/vovakirdan/messageboard/internal/utils"
)

// StreamHandler upgrades HTTP connections and pushes every new message to them.
type StreamHandler struct {
	feed           *core.Feed
	metrics        *metrics.Metrics
	originPatterns []string
	anyOrigin      bool
	log            *zerolog.Logger
}

// NewStreamHandler builds a new WebSocket handler.
func NewStreamHandler(feed *core.Feed, m *metrics.Metrics, allowedOrigins []string, logger *zerolog.Logger) stdhttp.Handler {
	return &StreamHandler{
		feed:           feed,
		metrics:        m,
		originPatterns: originPatterns(allowedOrigins),
		anyOrigin:      allowsAnyOrigin(allowedOrigins),
		log:            logger,
	}
}

func (h *StreamHandler) ServeHTTP(w stdhttp.ResponseWriter, r *stdhttp.Request) {
	// Subscribe before the handshake completes so the client sees every
	// message posted after its dial returns.
	sub := h.feed.Subscribe(utils.NewID())
	defer h.feed.Unsubscribe(sub)

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		InsecureSkipVerify: h.anyOrigin,
		OriginPatterns:     h.originPatterns,
	})
	if err != nil {
		h.log.Error().Err(err).Msg("ws accept error")
		return
	}
	defer conn.CloseNow()

	h.metrics.StreamOpened()
	defer h.metrics.StreamClosed()

	// The stream is one-way; CloseRead handles control frames and cancels
	// ctx once the peer goes away.
	ctx := conn.CloseRead(r.Context())

	err = h.writeLoop(ctx, conn, sub)
	switch {
	case err == nil:
		conn.Close(websocket.StatusGoingAway, "server shutting down")
	case errors.Is(err, context.Canceled):
		conn.Close(websocket.StatusNormalClosure, "closing")
	default:
		h.log.Warn().Err(err).Str("subscriber_id", sub.ID).Msg("ws stream closed with error")
		conn.Close(websocket.StatusInternalError, "write failed")
	}
}

func (h *StreamHandler) writeLoop(ctx context.Context, conn *websocket.Conn, sub *core.Subscriber) error {
	for {
		select {
		case msg, ok := <-sub.Messages:
			if !ok {
				return nil
			}
			if err := wsjson.Write(ctx, conn, messageRecord(msg)); err != nil {
				return err
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// originPatterns converts CORS origins to the host patterns websocket.Accept expects.
func originPatterns(origins []string) []string {
	patterns := make([]string, 0, len(origins))
	for _, o := range origins {
		o = strings.TrimSpace(o)
		if o == "" || o == "*" {
			continue
		}
		if u, err := url.Parse(o); err == nil && u.Host != "" {
			o = u.Host
		}
		patterns = append(patterns, o)
	}
	return patterns
}

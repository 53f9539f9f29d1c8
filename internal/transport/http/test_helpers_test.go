package http

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/vovakirdan/messageboard/internal/config"
	"github.com/vovakirdan/messageboard/internal/core"
	"github.com/vovakirdan/messageboard/internal/metrics"
	"github.com/vovakirdan/messageboard/internal/store/memory"
)

type testEnv struct {
	server  *http.Server
	metrics *metrics.Metrics
	feed    *core.Feed
}

// newTestEnv wires a fresh board, running feed, and metrics into a server.
func newTestEnv(t *testing.T, mutate func(*config.Config)) *testEnv {
	t.Helper()

	cfg := config.Default()
	cfg.Port = 0
	cfg.ReadHeaderTimeout = time.Second
	cfg.ShutdownTimeout = time.Second
	if mutate != nil {
		mutate(&cfg)
	}

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	feed := core.NewFeed(cfg.FeedBuffer)
	go feed.Run(ctx)

	m := metrics.New()
	board := core.NewBoard(memory.New(), core.WithFeed(feed))
	disabledLogger := zerolog.New(nil)

	return &testEnv{
		server:  NewServer(board, feed, m, &cfg, &disabledLogger),
		metrics: m,
		feed:    feed,
	}
}

func (e *testEnv) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
	}

	resp := httptest.NewRecorder()
	e.server.Handler.ServeHTTP(resp, req)
	return resp
}

package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/vovakirdan/messageboard/internal/proto"
)

func TestStreamDeliversPostedMessages(t *testing.T) {
	env := newTestEnv(t, nil)
	ts := httptest.NewServer(env.server.Handler)
	t.Cleanup(ts.Close)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	wsURL := strings.Replace(ts.URL, "http", "ws", 1) + "/api/messages/stream"
	conn, _, err := websocket.Dial(ctx, wsURL, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close(websocket.StatusNormalClosure, "done")

	for _, body := range []string{`{"name":"Alice","message":"hi"}`, `{"name":"","message":"dropped"}`, `{"name":"Bob","message":"hey"}`} {
		resp, err := ts.Client().Post(ts.URL+"/api/message", "application/json", strings.NewReader(body))
		if err != nil {
			t.Fatalf("post: %v", err)
		}
		resp.Body.Close()
	}

	var first, second proto.MessageRecord
	if err := wsjson.Read(ctx, conn, &first); err != nil {
		t.Fatalf("read first: %v", err)
	}
	if err := wsjson.Read(ctx, conn, &second); err != nil {
		t.Fatalf("read second: %v", err)
	}
	if first.Name != "Alice" || first.Message != "hi" || first.Timestamp == nil {
		t.Fatalf("unexpected first record: %+v", first)
	}
	if second.Name != "Bob" || second.Message != "hey" {
		t.Fatalf("unexpected second record: %+v", second)
	}

	if got := testutil.ToFloat64(env.metrics.StreamSubscribers); got != 1 {
		t.Fatalf("expected one open stream, got %v", got)
	}
}

func TestStreamRejectsPlainHTTP(t *testing.T) {
	env := newTestEnv(t, nil)

	resp := env.do(t, http.MethodGet, "/api/messages/stream", "")
	if resp.Code == http.StatusSwitchingProtocols || resp.Code == http.StatusOK {
		t.Fatalf("expected upgrade failure, got %d", resp.Code)
	}
}

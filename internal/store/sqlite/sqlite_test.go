package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/vovakirdan/messageboard/internal/store"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()

	s, err := New()
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestAppendAndList(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	seed := []store.Message{
		{Name: "alice", Body: "hi", CreatedAt: base},
		{Name: "bob", Body: "hello", CreatedAt: base.Add(time.Second)},
		{Name: "alice", Body: "hi", CreatedAt: base.Add(2 * time.Second)},
	}
	for _, m := range seed {
		if err := s.AppendMessage(ctx, m); err != nil {
			t.Fatalf("failed to append %+v: %v", m, err)
		}
	}

	got, err := s.ListMessages(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != len(seed) {
		t.Fatalf("expected %d messages, got %d", len(seed), len(got))
	}
	for i := range seed {
		if got[i].Name != seed[i].Name || got[i].Body != seed[i].Body {
			t.Errorf("message %d: expected %+v, got %+v", i, seed[i], got[i])
		}
		if !got[i].CreatedAt.Equal(seed[i].CreatedAt) {
			t.Errorf("message %d: expected created_at %v, got %v", i, seed[i].CreatedAt, got[i].CreatedAt)
		}
	}
}

func TestListEmpty(t *testing.T) {
	s := newTestStore(t)

	got, err := s.ListMessages(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", got)
	}
}

func TestStoresAreIsolated(t *testing.T) {
	a := newTestStore(t)
	b := newTestStore(t)
	ctx := context.Background()

	if err := a.AppendMessage(ctx, store.Message{Name: "alice", Body: "hi", CreatedAt: time.Now()}); err != nil {
		t.Fatalf("append: %v", err)
	}

	got, err := b.ListMessages(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected second store to be empty, got %d messages", len(got))
	}
}

func TestReplacedConnectionKeepsRows(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.AppendMessage(ctx, store.Message{Name: "alice", Body: "hi", CreatedAt: time.Now()}); err != nil {
		t.Fatalf("append: %v", err)
	}

	// Dropping the idle pool forces the next query onto a fresh connection.
	s.db.SetMaxIdleConns(0)
	s.db.SetMaxIdleConns(1)

	got, err := s.ListMessages(ctx)
	if err != nil {
		t.Fatalf("list on new connection: %v", err)
	}
	if len(got) != 1 || got[0].Name != "alice" {
		t.Fatalf("expected the appended row on a new connection, got %+v", got)
	}
}

func TestNewWithSetupPropagatesError(t *testing.T) {
	boom := errors.New("boom")
	_, err := NewWithSetup(":memory:", func(*sql.DB) error { return boom })
	if !errors.Is(err, boom) {
		t.Fatalf("expected setup error, got %v", err)
	}
}

func TestAppendWithoutSchemaFails(t *testing.T) {
	s, err := NewWithSetup(":memory:", nil)
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	defer s.Close()

	if err := s.AppendMessage(context.Background(), store.Message{Name: "a", Body: "b", CreatedAt: time.Now()}); err == nil {
		t.Fatal("expected insert to fail without schema")
	}
}

package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
	"github.com/vovakirdan/messageboard/internal/store"
	"github.com/vovakirdan/messageboard/internal/utils"
)

// Schema creates the messages table. Rows are ordered by the autoincrement id,
// which never leaves this package.
const Schema = `
	CREATE TABLE IF NOT EXISTS messages (
		id         INTEGER PRIMARY KEY AUTOINCREMENT,
		name       TEXT NOT NULL,
		body       TEXT NOT NULL,
		created_at DATETIME NOT NULL
	);
`

// memoryDSN names a shared-cache in-memory database private to one store.
// Every connection opened with the same name sees the same database.
func memoryDSN() string {
	return fmt.Sprintf("file:board-%s?mode=memory&cache=shared", utils.NewID())
}

// SQLiteStore implements store.Store on an in-memory SQLite database.
type SQLiteStore struct {
	db *sql.DB
	// anchor stays open for the store's lifetime; a shared-cache memory
	// database is dropped when its last connection closes.
	anchor *sql.Conn
}

// New creates a volatile SQLite store with the schema applied.
func New() (*SQLiteStore, error) {
	return NewWithSetup(memoryDSN(), func(db *sql.DB) error {
		_, err := db.Exec(Schema)
		return err
	})
}

// NewWithSetup creates a new SQLite store and runs a setup function.
// Useful for tests to apply a custom schema.
func NewWithSetup(dbPath string, setup func(*sql.DB) error) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// One connection is pinned by the anchor and one serves queries, so
	// statements never interleave.
	db.SetMaxOpenConns(2)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	anchor, err := db.Conn(context.Background())
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("connect sqlite: %w", err)
	}

	if setup != nil {
		if err := setup(db); err != nil {
			anchor.Close()
			db.Close()
			return nil, fmt.Errorf("setup: %w", err)
		}
	}

	if err := db.Ping(); err != nil {
		anchor.Close()
		db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	return &SQLiteStore{db: db, anchor: anchor}, nil
}

// Close closes the database connections, discarding all messages.
func (s *SQLiteStore) Close() error {
	_ = s.anchor.Close()
	return s.db.Close()
}

// AppendMessage inserts msg after every existing row.
func (s *SQLiteStore) AppendMessage(ctx context.Context, msg store.Message) error {
	query := `
		INSERT INTO messages (name, body, created_at)
		VALUES (?, ?, ?)
	`
	if _, err := s.db.ExecContext(ctx, query, msg.Name, msg.Body, msg.CreatedAt); err != nil {
		return fmt.Errorf("insert message: %w", err)
	}
	return nil
}

// ListMessages returns all rows in insertion order.
func (s *SQLiteStore) ListMessages(ctx context.Context) ([]store.Message, error) {
	query := `
		SELECT name, body, created_at
		FROM messages
		ORDER BY id ASC
	`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query messages: %w", err)
	}
	defer rows.Close()

	messages := make([]store.Message, 0)
	for rows.Next() {
		var msg store.Message
		if err := rows.Scan(&msg.Name, &msg.Body, &msg.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		messages = append(messages, msg)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate messages: %w", err)
	}

	return messages, nil
}

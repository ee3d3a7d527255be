package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// Snapshot keys. One whole JSON document per key, rewritten in full on every
// mutation, mirroring the web client's localStorage slots.
const (
	KeyUsers    = "jinxiu_users"
	KeyProducts = "jinxiu_products"
	KeyCarts    = "jinxiu_carts"
	KeyOrders   = "jinxiu_orders"
	KeyChats    = "jinxiu_chats"
)

// SnapshotStore persists named JSON documents and notifies subscribers when
// a document is replaced. Subscribers don't care whether the write came from
// this process or was pushed in from outside; they just see the new snapshot.
type SnapshotStore struct {
	db *sql.DB

	mu          sync.Mutex
	subscribers map[string][]func(raw json.RawMessage)
}

func NewSnapshotStore(dataSourceName string) (*SnapshotStore, error) {
	db, err := sql.Open("sqlite3", dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err = db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	store := &SnapshotStore{
		db:          db,
		subscribers: make(map[string][]func(raw json.RawMessage)),
	}
	if err = store.initSchema(); err != nil {
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return store, nil
}

func (s *SnapshotStore) Close() error {
	return s.db.Close()
}

func (s *SnapshotStore) initSchema() error {
	schema := `
    CREATE TABLE IF NOT EXISTS snapshots (
        key TEXT PRIMARY KEY,
        value TEXT NOT NULL,
        updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
    );
    `
	_, err := s.db.Exec(schema)
	return err
}

// Load reads the document stored under key into v. A missing or corrupt
// document reports ok=false so the caller falls back to its built-in
// defaults; nothing is surfaced to the user in either case.
func (s *SnapshotStore) Load(key string, v interface{}) (bool, error) {
	var value string
	err := s.db.QueryRow("SELECT value FROM snapshots WHERE key = ?", key).Scan(&value)
	if err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("failed to query snapshot %s: %w", key, err)
	}

	if err := json.Unmarshal([]byte(value), v); err != nil {
		log.Printf("Snapshot %s is corrupt, falling back to defaults: %v", key, err)
		return false, nil
	}
	return true, nil
}

// Save replaces the whole document under key and notifies subscribers.
func (s *SnapshotStore) Save(key string, v interface{}) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot %s: %w", key, err)
	}
	return s.saveRaw(key, raw)
}

// ReplaceRaw stores an externally produced snapshot verbatim. This is the
// inbound half of the sync contract: whichever write lands last wins, at
// whole-document granularity.
func (s *SnapshotStore) ReplaceRaw(key string, raw json.RawMessage) error {
	if !json.Valid(raw) {
		return fmt.Errorf("refusing to store invalid JSON under %s", key)
	}
	return s.saveRaw(key, raw)
}

func (s *SnapshotStore) saveRaw(key string, raw json.RawMessage) error {
	_, err := s.db.Exec(
		"INSERT INTO snapshots (key, value, updated_at) VALUES (?, ?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at",
		key, string(raw), time.Now(),
	)
	if err != nil {
		return fmt.Errorf("failed to write snapshot %s: %w", key, err)
	}
	s.notify(key, raw)
	return nil
}

// Subscribe registers a callback invoked with the new document every time
// the snapshot under key is replaced. Callbacks run synchronously on the
// writing goroutine, in registration order.
func (s *SnapshotStore) Subscribe(key string, fn func(raw json.RawMessage)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subscribers[key] = append(s.subscribers[key], fn)
}

func (s *SnapshotStore) notify(key string, raw json.RawMessage) {
	s.mu.Lock()
	subs := append([]func(raw json.RawMessage){}, s.subscribers[key]...)
	s.mu.Unlock()

	for _, fn := range subs {
		fn(raw)
	}
}

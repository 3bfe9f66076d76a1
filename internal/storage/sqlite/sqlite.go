// Package sqlite provides a SQLite-backed implementation of the storage.Store
// interface.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGO)

	"github.com/levant12/shawarma-club/internal/models"
	"github.com/levant12/shawarma-club/internal/storage"
)

// Ensure Store implements storage.Store
var _ storage.Store = (*Store)(nil)

// Store implements storage.Store using SQLite. Subscriptions are served by
// an in-process notifier fed after every successful mutation; a hosted
// document store would push these itself.
type Store struct {
	db       *sql.DB
	notifier *storage.Notifier
}

// New creates a new Store with the given database path.
// It creates the parent directories and runs migrations automatically.
func New(dbPath string) (*Store, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	// WAL keeps readers unblocked while a write is in flight, and the busy
	// timeout makes concurrent writers queue instead of failing. Both go in
	// the DSN so every pooled connection gets them.
	dsn := fmt.Sprintf("%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)", dbPath)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &Store{db: db, notifier: storage.NewNotifier()}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Get fetches the day document.
func (s *Store) Get(ctx context.Context, day string) (storage.Document, error) {
	return s.getDocument(ctx, day)
}

func (s *Store) getDocument(ctx context.Context, day string) (storage.Document, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT creator_id, orders FROM day_orders WHERE day = ?",
		day,
	)
	if err != nil {
		return nil, storage.Unavailable("query day document", err)
	}
	defer rows.Close()

	doc := storage.Document{}
	for rows.Next() {
		var creatorID, rawOrders string
		if err := rows.Scan(&creatorID, &rawOrders); err != nil {
			return nil, storage.Unavailable("scan day document", err)
		}
		orders, err := decodeOrders(rawOrders)
		if err != nil {
			return nil, err
		}
		doc[creatorID] = orders
	}
	if err := rows.Err(); err != nil {
		return nil, storage.Unavailable("iterate day document", err)
	}

	if len(doc) == 0 {
		return nil, storage.ErrNotFound
	}
	return doc, nil
}

// Set replaces the day document wholesale.
func (s *Store) Set(ctx context.Context, day string, doc storage.Document) error {
	now := time.Now().Unix()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return storage.Unavailable("begin set", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM day_orders WHERE day = ?", day); err != nil {
		return storage.Unavailable("clear day document", err)
	}
	for creatorID, orders := range doc {
		raw, err := encodeOrders(orders)
		if err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx,
			"INSERT INTO day_orders (day, creator_id, orders, created_at, updated_at) VALUES (?, ?, ?, ?, ?)",
			day, creatorID, raw, now, now,
		)
		if err != nil {
			return storage.Unavailable("insert group", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return storage.Unavailable("commit set", err)
	}

	s.publish(day)
	return nil
}

// UpdateFields merges fields into an existing day document.
func (s *Store) UpdateFields(ctx context.Context, day string, fields storage.Document) error {
	now := time.Now().Unix()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return storage.Unavailable("begin update", err)
	}
	defer tx.Rollback()

	var exists bool
	err = tx.QueryRowContext(ctx,
		"SELECT EXISTS(SELECT 1 FROM day_orders WHERE day = ?)", day,
	).Scan(&exists)
	if err != nil {
		return storage.Unavailable("check day document", err)
	}
	if !exists {
		return storage.ErrNotFound
	}

	for creatorID, orders := range fields {
		raw, err := encodeOrders(orders)
		if err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx,
			`INSERT INTO day_orders (day, creator_id, orders, created_at, updated_at) VALUES (?, ?, ?, ?, ?)
			 ON CONFLICT(day, creator_id) DO UPDATE SET orders = excluded.orders, updated_at = excluded.updated_at`,
			day, creatorID, raw, now, now,
		)
		if err != nil {
			return storage.Unavailable("upsert group", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return storage.Unavailable("commit update", err)
	}

	s.publish(day)
	return nil
}

// AppendToArrayField atomically appends order to the creator's list. The
// whole append is one upsert statement, so concurrent submitters cannot lose
// each other's orders.
func (s *Store) AppendToArrayField(ctx context.Context, day, creatorID string, order models.Order) error {
	raw, err := json.Marshal(order)
	if err != nil {
		return fmt.Errorf("failed to encode order: %w", err)
	}
	now := time.Now().Unix()

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO day_orders (day, creator_id, orders, created_at, updated_at) VALUES (?, ?, json_array(json(?)), ?, ?)
		 ON CONFLICT(day, creator_id) DO UPDATE SET orders = json_insert(day_orders.orders, '$[#]', json(?)), updated_at = ?`,
		day, creatorID, string(raw), now, now, string(raw), now,
	)
	if err != nil {
		return storage.Unavailable("append order", err)
	}

	s.publish(day)
	return nil
}

// CreateFieldIfAbsent conditionally creates the creator's field with an
// empty order list in one statement.
func (s *Store) CreateFieldIfAbsent(ctx context.Context, day, creatorID string) error {
	now := time.Now().Unix()

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO day_orders (day, creator_id, orders, created_at, updated_at) VALUES (?, ?, '[]', ?, ?)
		 ON CONFLICT(day, creator_id) DO NOTHING`,
		day, creatorID, now, now,
	)
	if err != nil {
		return storage.Unavailable("create group", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return storage.Unavailable("create group", err)
	}
	if affected == 0 {
		return storage.ErrAlreadyExists
	}

	s.publish(day)
	return nil
}

// UpdateArrayField rewrites the creator's order list through fn inside one
// transaction, so a concurrent append lands either before the read or after
// the commit, never in between.
func (s *Store) UpdateArrayField(ctx context.Context, day, creatorID string, fn func([]models.Order) []models.Order) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return storage.Unavailable("begin rewrite", err)
	}
	defer tx.Rollback()

	var rawOrders string
	err = tx.QueryRowContext(ctx,
		"SELECT orders FROM day_orders WHERE day = ? AND creator_id = ?",
		day, creatorID,
	).Scan(&rawOrders)
	if errors.Is(err, sql.ErrNoRows) {
		return storage.ErrNotFound
	}
	if err != nil {
		return storage.Unavailable("read group", err)
	}

	orders, err := decodeOrders(rawOrders)
	if err != nil {
		return err
	}
	updated := fn(orders)
	raw, err := encodeOrders(updated)
	if err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx,
		"UPDATE day_orders SET orders = ?, updated_at = ? WHERE day = ? AND creator_id = ?",
		raw, time.Now().Unix(), day, creatorID,
	)
	if err != nil {
		return storage.Unavailable("rewrite group", err)
	}

	if err := tx.Commit(); err != nil {
		return storage.Unavailable("commit rewrite", err)
	}

	s.publish(day)
	return nil
}

// Subscribe registers fn for snapshots of the day document.
func (s *Store) Subscribe(day string, fn func(storage.Document)) storage.CancelFunc {
	return s.notifier.Subscribe(day, fn)
}

// publish reads the freshest snapshot and fans it out. The read races later
// writers at worst into delivering a newer snapshot than the triggering
// change, which subscribers must tolerate anyway.
func (s *Store) publish(day string) {
	doc, err := s.getDocument(context.Background(), day)
	if err != nil {
		return
	}
	s.notifier.Publish(day, doc)
}

func encodeOrders(orders []models.Order) (string, error) {
	if orders == nil {
		orders = []models.Order{}
	}
	raw, err := json.Marshal(orders)
	if err != nil {
		return "", fmt.Errorf("failed to encode orders: %w", err)
	}
	return string(raw), nil
}

func decodeOrders(raw string) ([]models.Order, error) {
	var orders []models.Order
	if err := json.Unmarshal([]byte(raw), &orders); err != nil {
		return nil, fmt.Errorf("failed to decode orders: %w", err)
	}
	if orders == nil {
		orders = []models.Order{}
	}
	return orders, nil
}

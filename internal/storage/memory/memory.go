// Package memory provides an in-memory implementation of the storage.Store
// interface, used by tests and as the no-persistence dev backend.
package memory

import (
	"context"
	"sync"

	"github.com/levant12/shawarma-club/internal/models"
	"github.com/levant12/shawarma-club/internal/storage"
)

// Ensure Store implements storage.Store
var _ storage.Store = (*Store)(nil)

// Store keeps day documents in a map guarded by one mutex. Every mutating
// method publishes the fresh snapshot to subscribers before returning.
type Store struct {
	mu       sync.Mutex
	days     map[string]storage.Document
	notifier *storage.Notifier
}

// New creates an empty in-memory store.
func New() *Store {
	return &Store{
		days:     make(map[string]storage.Document),
		notifier: storage.NewNotifier(),
	}
}

// Close is a no-op; it exists to satisfy storage.Store.
func (s *Store) Close() error {
	return nil
}

// Get fetches a snapshot of the day document.
func (s *Store) Get(ctx context.Context, day string) (storage.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, ok := s.days[day]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return doc.Clone(), nil
}

// Set replaces the day document wholesale. Setting an empty document removes
// the day, so a later Get reports ErrNotFound just like the SQLite backend.
func (s *Store) Set(ctx context.Context, day string, doc storage.Document) error {
	s.mu.Lock()
	if len(doc) == 0 {
		delete(s.days, day)
		s.mu.Unlock()
		return nil
	}
	s.days[day] = doc.Clone()
	snapshot := s.days[day].Clone()
	s.mu.Unlock()

	s.notifier.Publish(day, snapshot)
	return nil
}

// UpdateFields merges fields into an existing day document.
func (s *Store) UpdateFields(ctx context.Context, day string, fields storage.Document) error {
	s.mu.Lock()
	doc, ok := s.days[day]
	if !ok {
		s.mu.Unlock()
		return storage.ErrNotFound
	}
	for creator, orders := range fields.Clone() {
		doc[creator] = orders
	}
	snapshot := doc.Clone()
	s.mu.Unlock()

	s.notifier.Publish(day, snapshot)
	return nil
}

// AppendToArrayField atomically appends order to the creator's list,
// creating the document and list as needed.
func (s *Store) AppendToArrayField(ctx context.Context, day, creatorID string, order models.Order) error {
	s.mu.Lock()
	doc, ok := s.days[day]
	if !ok {
		doc = storage.Document{}
		s.days[day] = doc
	}
	doc[creatorID] = append(doc[creatorID], order)
	snapshot := doc.Clone()
	s.mu.Unlock()

	s.notifier.Publish(day, snapshot)
	return nil
}

// CreateFieldIfAbsent conditionally creates the creator's field with an
// empty order list.
func (s *Store) CreateFieldIfAbsent(ctx context.Context, day, creatorID string) error {
	s.mu.Lock()
	doc, ok := s.days[day]
	if !ok {
		doc = storage.Document{}
		s.days[day] = doc
	}
	if _, exists := doc[creatorID]; exists {
		s.mu.Unlock()
		return storage.ErrAlreadyExists
	}
	doc[creatorID] = []models.Order{}
	snapshot := doc.Clone()
	s.mu.Unlock()

	s.notifier.Publish(day, snapshot)
	return nil
}

// UpdateArrayField rewrites the creator's order list through fn while
// holding the store lock, so no append can interleave.
func (s *Store) UpdateArrayField(ctx context.Context, day, creatorID string, fn func([]models.Order) []models.Order) error {
	s.mu.Lock()
	doc, ok := s.days[day]
	if !ok {
		s.mu.Unlock()
		return storage.ErrNotFound
	}
	orders, exists := doc[creatorID]
	if !exists {
		s.mu.Unlock()
		return storage.ErrNotFound
	}

	current := make([]models.Order, len(orders))
	copy(current, orders)
	updated := fn(current)
	if updated == nil {
		updated = []models.Order{}
	}
	doc[creatorID] = updated
	snapshot := doc.Clone()
	s.mu.Unlock()

	s.notifier.Publish(day, snapshot)
	return nil
}

// Subscribe registers fn for snapshots of the day document.
func (s *Store) Subscribe(day string, fn func(storage.Document)) storage.CancelFunc {
	return s.notifier.Subscribe(day, fn)
}

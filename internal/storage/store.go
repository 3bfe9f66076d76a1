// Package storage defines the document-store contract the order engine
// persists through.
package storage

import (
	"context"
	"errors"

	"github.com/levant12/shawarma-club/internal/models"
)

var (
	// ErrNotFound is returned when an operation assumes a document (or a
	// field within it) that was never written.
	ErrNotFound = errors.New("document not found")

	// ErrAlreadyExists is returned by CreateFieldIfAbsent when the field is
	// already present, empty or not.
	ErrAlreadyExists = errors.New("field already exists")

	// ErrUnavailable wraps transport/backend failures. Callers get it
	// unmodified; retry policy belongs to the surrounding application.
	ErrUnavailable = errors.New("storage unavailable")
)

// Document is one day's worth of groups: creator id to that creator's
// ordered list of submitted orders.
type Document map[string][]models.Order

// Clone returns a deep copy of d. Snapshots handed to subscribers and
// callers are always clones so no two goroutines share backing arrays.
func (d Document) Clone() Document {
	if d == nil {
		return nil
	}
	out := make(Document, len(d))
	for creator, orders := range d {
		cp := make([]models.Order, len(orders))
		copy(cp, orders)
		out[creator] = cp
	}
	return out
}

// CancelFunc detaches a subscription. Safe to call more than once.
type CancelFunc func()

// Store is the durability boundary for day documents.
// This abstraction allows swapping storage backends (SQLite, in-memory, a
// hosted document store) without changing the service layer.
//
// The day document is the only shared mutable resource in the system, and it
// has no application-level lock: all concurrency safety callers get comes
// from AppendToArrayField, CreateFieldIfAbsent and UpdateArrayField being
// single indivisible operations at the store.
type Store interface {
	// Get fetches the day document. Returns ErrNotFound if no group was
	// ever opened that day.
	Get(ctx context.Context, day string) (Document, error)

	// Set replaces the day document wholesale, creating it if absent.
	// Setting an empty document removes the day; a later Get reports
	// ErrNotFound.
	Set(ctx context.Context, day string, doc Document) error

	// UpdateFields merges the given top-level fields into an existing day
	// document without touching other fields. Returns ErrNotFound if the
	// document does not exist.
	UpdateFields(ctx context.Context, day string, fields Document) error

	// AppendToArrayField atomically appends order to the creator's list,
	// creating the document and the list as needed. Concurrent appends from
	// uncoordinated writers all land exactly once, in whatever order the
	// store serializes them.
	AppendToArrayField(ctx context.Context, day, creatorID string, order models.Order) error

	// CreateFieldIfAbsent creates the creator's field with an empty order
	// list, as a single conditional write. Returns ErrAlreadyExists if the
	// field is present, so concurrent creators cannot clobber each other.
	CreateFieldIfAbsent(ctx context.Context, day, creatorID string) error

	// UpdateArrayField rewrites the creator's order list through fn as a
	// store-side transaction: no append can interleave between the read and
	// the write. Returns ErrNotFound if the field does not exist.
	UpdateArrayField(ctx context.Context, day, creatorID string, fn func([]models.Order) []models.Order) error

	// Subscribe registers fn to receive a snapshot of the day document
	// after every change, until the returned CancelFunc is called.
	// Delivery is asynchronous with respect to the mutating call; snapshots
	// for one subscriber arrive in change order.
	Subscribe(day string, fn func(Document)) CancelFunc

	// Close releases any resources held by the store.
	Close() error
}

// Package service implements the group registry and the order submission
// pipeline on top of a storage.Store.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/levant12/shawarma-club/internal/metrics"
	"github.com/levant12/shawarma-club/internal/models"
	"github.com/levant12/shawarma-club/internal/storage"
)

// ErrInvalidOrder is returned when a submitted order is missing required
// product details. The order form is expected to catch this first; the
// pipeline re-checks as a last-resort guard.
var ErrInvalidOrder = errors.New("order is missing required product details")

// OrderService appends submitted orders into groups.
type OrderService struct {
	store storage.Store
}

// NewOrderService creates an OrderService with the given storage backend.
func NewOrderService(store storage.Store) *OrderService {
	return &OrderService{store: store}
}

// Submit appends order to the creator's group for the given day. The append
// is atomic at the store and creates the group's list if it does not exist
// yet, so uncoordinated submitters all land exactly once; arrival order
// across submitters is whatever the store serializes.
//
// Storage failures propagate unmodified; there is no local retry. Retry and
// backoff policy belongs to the caller.
func (s *OrderService) Submit(ctx context.Context, day, creatorID string, order models.Order) error {
	slog.Info("Submit request received",
		"day", day,
		"creator_id", creatorID,
		"ordered_by", order.OrderedBy,
		"size", order.ProductDetails.Size,
	)

	if order.ProductDetails.Size == "" || order.ProductDetails.Price == 0 {
		return fmt.Errorf("%w: price and size are required", ErrInvalidOrder)
	}

	if err := s.store.AppendToArrayField(ctx, day, creatorID, order); err != nil {
		metrics.StoreErrors.Inc()
		slog.Error("Submit failed", "day", day, "creator_id", creatorID, "error", err)
		return err
	}

	metrics.OrdersSubmitted.Inc()
	slog.Info("Order submitted", "day", day, "creator_id", creatorID, "ordered_by", order.OrderedBy)
	return nil
}

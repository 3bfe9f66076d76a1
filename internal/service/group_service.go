package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/levant12/shawarma-club/internal/metrics"
	"github.com/levant12/shawarma-club/internal/models"
	"github.com/levant12/shawarma-club/internal/storage"
)

// ErrDuplicateGroup is returned when a creator already has a group for the
// requested day. It is an expected, recoverable outcome: the caller should
// offer reusing the existing group, not show a generic failure.
var ErrDuplicateGroup = errors.New("creator already has a group for this day")

// GroupService locates, creates and observes the day's order groups.
type GroupService struct {
	store storage.Store
}

// NewGroupService creates a GroupService with the given storage backend.
func NewGroupService(store storage.Store) *GroupService {
	return &GroupService{store: store}
}

// LocateOrCreateGroup opens an empty group for (day, creatorID). A creator
// has at most one group per day; if one exists already, even empty, the call
// fails with ErrDuplicateGroup. The create is a single conditional write at
// the store, so two clients racing on the same key cannot overwrite each
// other's group.
func (s *GroupService) LocateOrCreateGroup(ctx context.Context, day, creatorID string) error {
	slog.Info("LocateOrCreateGroup request received", "day", day, "creator_id", creatorID)

	err := s.store.CreateFieldIfAbsent(ctx, day, creatorID)
	if errors.Is(err, storage.ErrAlreadyExists) {
		metrics.DuplicateGroups.Inc()
		slog.Info("Group already exists", "day", day, "creator_id", creatorID)
		return fmt.Errorf("%w: %s on %s", ErrDuplicateGroup, creatorID, day)
	}
	if err != nil {
		metrics.StoreErrors.Inc()
		slog.Error("LocateOrCreateGroup failed", "day", day, "creator_id", creatorID, "error", err)
		return err
	}

	metrics.GroupsCreated.Inc()
	slog.Info("Group created", "day", day, "creator_id", creatorID)
	return nil
}

// DayOrders returns the full day document. A day with no groups yields an
// empty document, not an error.
func (s *GroupService) DayOrders(ctx context.Context, day string) (storage.Document, error) {
	doc, err := s.store.Get(ctx, day)
	if errors.Is(err, storage.ErrNotFound) {
		return storage.Document{}, nil
	}
	if err != nil {
		metrics.StoreErrors.Inc()
		slog.Error("DayOrders failed", "day", day, "error", err)
		return nil, err
	}
	return doc, nil
}

// Creators lists the ids of everyone with a group on the given day, sorted
// for deterministic output.
func (s *GroupService) Creators(ctx context.Context, day string) ([]string, error) {
	doc, err := s.DayOrders(ctx, day)
	if err != nil {
		return nil, err
	}

	creators := make([]string, 0, len(doc))
	for creatorID := range doc {
		creators = append(creators, creatorID)
	}
	sort.Strings(creators)
	return creators, nil
}

// GroupOrders returns one group's order list. An absent group yields an
// empty list.
func (s *GroupService) GroupOrders(ctx context.Context, day, creatorID string) ([]models.Order, error) {
	doc, err := s.DayOrders(ctx, day)
	if err != nil {
		return nil, err
	}
	return doc[creatorID], nil
}

// LeaveGroup removes every order userName submitted into the group and
// rewrites the list wholesale. The rewrite runs as a store-side transaction,
// so an order submitted concurrently with the leave is not lost.
func (s *GroupService) LeaveGroup(ctx context.Context, day, creatorID, userName string) error {
	slog.Info("LeaveGroup request received", "day", day, "creator_id", creatorID, "user", userName)

	err := s.store.UpdateArrayField(ctx, day, creatorID, func(orders []models.Order) []models.Order {
		kept := orders[:0]
		for _, order := range orders {
			if order.OrderedBy != userName {
				kept = append(kept, order)
			}
		}
		return kept
	})
	if errors.Is(err, storage.ErrNotFound) {
		return err
	}
	if err != nil {
		metrics.StoreErrors.Inc()
		slog.Error("LeaveGroup failed", "day", day, "creator_id", creatorID, "error", err)
		return err
	}

	metrics.GroupsLeft.Inc()
	slog.Info("Left group", "day", day, "creator_id", creatorID, "user", userName)
	return nil
}

// WatchGroup delivers the group's order list to fn after every change to the
// day document, until the returned cancel function is called. Callbacks
// arrive on the store's dispatch goroutine, asynchronously with respect to
// the mutating call; a change that leaves the group's field absent delivers
// nothing.
func (s *GroupService) WatchGroup(day, creatorID string, fn func([]models.Order)) storage.CancelFunc {
	return s.store.Subscribe(day, func(doc storage.Document) {
		orders, ok := doc[creatorID]
		if !ok {
			return
		}
		fn(orders)
	})
}

package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/levant12/shawarma-club/internal/models"
	"github.com/levant12/shawarma-club/internal/storage"
	"github.com/levant12/shawarma-club/internal/storage/memory"
)

const day = "3-9-2025"

func orderBy(name string) models.Order {
	return models.Order{
		OrderedBy:      name,
		PhotoURL:       name + ".png",
		ProductDetails: models.ProductDetails{Price: 7, Size: "Large", WithEverything: true},
	}
}

func TestLocateOrCreateGroup(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	svc := NewGroupService(store)

	if err := svc.LocateOrCreateGroup(ctx, day, "creatorA"); err != nil {
		t.Fatalf("first create failed: %v", err)
	}

	doc, err := store.Get(ctx, day)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if orders, ok := doc["creatorA"]; !ok || len(orders) != 0 {
		t.Errorf("doc = %v, want creatorA with empty orders", doc)
	}

	err = svc.LocateOrCreateGroup(ctx, day, "creatorA")
	if !errors.Is(err, ErrDuplicateGroup) {
		t.Errorf("second create = %v, want ErrDuplicateGroup", err)
	}

	t.Run("another creator can open a group the same day", func(t *testing.T) {
		if err := svc.LocateOrCreateGroup(ctx, day, "creatorB"); err != nil {
			t.Errorf("creatorB create failed: %v", err)
		}
	})
}

func TestCreatorsAndGroupOrders(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	svc := NewGroupService(store)

	t.Run("empty day yields empty results, not errors", func(t *testing.T) {
		creators, err := svc.Creators(ctx, day)
		if err != nil {
			t.Fatalf("Creators failed: %v", err)
		}
		if len(creators) != 0 {
			t.Errorf("creators = %v, want none", creators)
		}

		orders, err := svc.GroupOrders(ctx, day, "creatorA")
		if err != nil {
			t.Fatalf("GroupOrders failed: %v", err)
		}
		if len(orders) != 0 {
			t.Errorf("orders = %v, want none", orders)
		}
	})

	if err := store.Set(ctx, day, storage.Document{
		"creatorB": {orderBy("Bob")},
		"creatorA": {orderBy("Alice")},
	}); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	creators, err := svc.Creators(ctx, day)
	if err != nil {
		t.Fatalf("Creators failed: %v", err)
	}
	if len(creators) != 2 || creators[0] != "creatorA" || creators[1] != "creatorB" {
		t.Errorf("creators = %v, want [creatorA creatorB]", creators)
	}

	orders, err := svc.GroupOrders(ctx, day, "creatorA")
	if err != nil {
		t.Fatalf("GroupOrders failed: %v", err)
	}
	if len(orders) != 1 || orders[0].OrderedBy != "Alice" {
		t.Errorf("orders = %v, want Alice's order", orders)
	}
}

func TestLeaveGroup(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	svc := NewGroupService(store)

	if err := store.Set(ctx, day, storage.Document{
		"creatorA": {orderBy("Alice"), orderBy("Bob"), orderBy("Alice")},
	}); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	if err := svc.LeaveGroup(ctx, day, "creatorA", "Alice"); err != nil {
		t.Fatalf("LeaveGroup failed: %v", err)
	}

	orders, err := svc.GroupOrders(ctx, day, "creatorA")
	if err != nil {
		t.Fatalf("GroupOrders failed: %v", err)
	}
	if len(orders) != 1 || orders[0].OrderedBy != "Bob" {
		t.Errorf("orders = %v, want only Bob", orders)
	}

	t.Run("leaving an absent group reports not found", func(t *testing.T) {
		err := svc.LeaveGroup(ctx, day, "creatorX", "Alice")
		if !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("LeaveGroup = %v, want ErrNotFound", err)
		}
	})
}

func TestWatchGroup(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	groups := NewGroupService(store)
	orders := NewOrderService(store)

	var mu sync.Mutex
	var got [][]models.Order
	cancel := groups.WatchGroup(day, "creatorA", func(list []models.Order) {
		mu.Lock()
		got = append(got, list)
		mu.Unlock()
	})
	defer cancel()

	if err := orders.Submit(ctx, day, "creatorA", orderBy("Alice")); err != nil {
		t.Fatalf("Submit failed: %v", err)
	}

	deadline := time.After(2 * time.Second)
	for {
		mu.Lock()
		n := len(got)
		mu.Unlock()
		if n >= 1 {
			break
		}
		select {
		case <-deadline:
			t.Fatal("timed out waiting for watch callback")
		case <-time.After(10 * time.Millisecond):
		}
	}

	mu.Lock()
	if len(got[0]) != 1 || got[0][0].OrderedBy != "Alice" {
		t.Errorf("snapshot = %v, want Alice's order", got[0])
	}
	mu.Unlock()

	t.Run("other group changes deliver the watched list unchanged", func(t *testing.T) {
		mu.Lock()
		before := len(got)
		mu.Unlock()

		// creatorB's field is new, so the watched field is unchanged but the
		// document still changes; the watcher fires with creatorA's list.
		if err := orders.Submit(ctx, day, "creatorB", orderBy("Bob")); err != nil {
			t.Fatalf("Submit failed: %v", err)
		}

		deadline := time.After(2 * time.Second)
		for {
			mu.Lock()
			n := len(got)
			mu.Unlock()
			if n > before {
				break
			}
			select {
			case <-deadline:
				t.Fatal("timed out waiting for watch callback")
			case <-time.After(10 * time.Millisecond):
			}
		}

		mu.Lock()
		defer mu.Unlock()
		last := got[len(got)-1]
		if len(last) != 1 || last[0].OrderedBy != "Alice" {
			t.Errorf("snapshot = %v, want creatorA's unchanged list", last)
		}
	})
}

func TestSubmit(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	svc := NewOrderService(store)

	t.Run("valid order appends", func(t *testing.T) {
		if err := svc.Submit(ctx, day, "creatorA", orderBy("Alice")); err != nil {
			t.Fatalf("Submit failed: %v", err)
		}
		if err := svc.Submit(ctx, day, "creatorA", orderBy("Bob")); err != nil {
			t.Fatalf("Submit failed: %v", err)
		}

		doc, err := store.Get(ctx, day)
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if len(doc["creatorA"]) != 2 {
			t.Errorf("orders = %d, want 2", len(doc["creatorA"]))
		}
	})

	tests := []struct {
		name  string
		order models.Order
	}{
		{
			name:  "missing size rejected",
			order: models.Order{OrderedBy: "Alice", PhotoURL: "a.png", ProductDetails: models.ProductDetails{Price: 7}},
		},
		{
			name:  "missing price rejected",
			order: models.Order{OrderedBy: "Alice", PhotoURL: "a.png", ProductDetails: models.ProductDetails{Size: "Large"}},
		},
		{
			name:  "empty product details rejected",
			order: models.Order{OrderedBy: "Alice", PhotoURL: "a.png"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := svc.Submit(ctx, day, "creatorA", tt.order); !errors.Is(err, ErrInvalidOrder) {
				t.Errorf("Submit = %v, want ErrInvalidOrder", err)
			}
		})
	}
}

// Package metrics exposes the engine's Prometheus counters.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// GroupsCreated counts successfully opened groups.
	GroupsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "shawarma_groups_created_total",
		Help: "Number of order groups successfully created.",
	})

	// DuplicateGroups counts rejected attempts to open a second group for
	// the same creator and day.
	DuplicateGroups = promauto.NewCounter(prometheus.CounterOpts{
		Name: "shawarma_duplicate_groups_total",
		Help: "Number of group creations rejected because the creator already had one.",
	})

	// OrdersSubmitted counts orders appended to a group.
	OrdersSubmitted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "shawarma_orders_submitted_total",
		Help: "Number of orders submitted into groups.",
	})

	// GroupsLeft counts completed leave-group operations.
	GroupsLeft = promauto.NewCounter(prometheus.CounterOpts{
		Name: "shawarma_groups_left_total",
		Help: "Number of times a participant left a group.",
	})

	// StoreErrors counts storage-layer failures surfaced to callers.
	StoreErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "shawarma_store_errors_total",
		Help: "Number of document store operations that failed.",
	})
)

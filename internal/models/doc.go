// Package models defines the core domain models for the group order service.
//
// # Storage layout
//
// All orders for one calendar day live in a single day document, keyed by the
// day string (see DayKey). Inside the document, each group creator owns one
// field whose value is the ordered list of submitted orders:
//
//	{ "<creatorID>": [Order, Order, ...], ... }
//
// A creator therefore has at most one group per day. Orders carry no id of
// their own; they are anonymous values identified by position in their
// group's list.
//
// # Derived data
//
// GroupedOrders is never persisted. It is recomputed from a group's order
// list on every read (see the aggregate package).
package models

// Package aggregate derives the read-side view of a group: structurally
// identical orders bucketed together, plus the group's total price.
// Everything here is a pure function over the order list; nothing is cached
// or persisted.
package aggregate

import "github.com/levant12/shawarma-club/internal/models"

// GroupOrders buckets orders by structural equality of their product
// details. Restrictions and adjustments compare as multisets, so two orders
// with the same ingredients listed in different order share a bucket.
//
// Orders missing either OrderedBy or PhotoURL are skipped; they cannot be
// shown in a participant list. Bucket order preserves the first occurrence
// of each distinct product detail, and the input is never mutated.
func GroupOrders(orders []models.Order) []models.GroupedOrders {
	var grouped []models.GroupedOrders

	for _, order := range orders {
		if order.OrderedBy == "" || order.PhotoURL == "" {
			continue
		}

		user := models.OrderUser{OrderedBy: order.OrderedBy, PhotoURL: order.PhotoURL}

		idx := -1
		for i := range grouped {
			if DetailsEqual(grouped[i].ProductDetails, order.ProductDetails) {
				idx = i
				break
			}
		}

		if idx >= 0 {
			grouped[idx].Count++
			grouped[idx].Users = append(grouped[idx].Users, user)
			continue
		}

		grouped = append(grouped, models.GroupedOrders{
			ProductDetails: order.ProductDetails,
			Count:          1,
			Users:          []models.OrderUser{user},
		})
	}

	return grouped
}

// TotalPrice sums the orders' prices (a missing price counts as zero) and
// adds one flat delivery fee for the whole group.
func TotalPrice(orders []models.Order, deliveryFee float64) float64 {
	total := deliveryFee
	for _, order := range orders {
		total += order.ProductDetails.Price
	}
	return total
}

// DetailsEqual reports whether two product details are structurally equal:
// same price, size and withEverything flag, with restriction and adjustment
// lists equal as multisets.
func DetailsEqual(a, b models.ProductDetails) bool {
	return a.Price == b.Price &&
		a.Size == b.Size &&
		a.WithEverything == b.WithEverything &&
		sameMultiset(a.Restrictions, b.Restrictions) &&
		sameMultiset(a.Adjustment, b.Adjustment)
}

func sameMultiset(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	if len(a) == 0 {
		return true
	}

	counts := make(map[string]int, len(a))
	for _, v := range a {
		counts[v]++
	}
	for _, v := range b {
		counts[v]--
		if counts[v] < 0 {
			return false
		}
	}
	return true
}

package models

// ProductDetails describes what exactly one participant ordered.
// All fields besides Size and Price are optional; absent slices are kept nil
// so the stored JSON matches documents written by older clients.
type ProductDetails struct {
	// Price is the catalog price for the chosen size.
	Price float64 `json:"price,omitempty"`

	// Size is the chosen product size (e.g. "Large").
	Size string `json:"size,omitempty"`

	// Restrictions lists ingredient removals, e.g. "No Lettuce".
	Restrictions []string `json:"restrictions,omitempty"`

	// WithEverything means no restrictions at all; mutually exclusive with
	// a non-empty Restrictions list.
	WithEverything bool `json:"withEverything,omitempty"`

	// Adjustment lists ingredient amount tweaks, e.g. "Extra Cheese".
	// At most one adjustment per ingredient.
	Adjustment []string `json:"adjustment,omitempty"`
}

// Order is one participant's submission into a group.
type Order struct {
	// OrderedBy is the participant's display name.
	OrderedBy string `json:"orderedBy,omitempty"`

	// PhotoURL is the participant's avatar, shown next to the order.
	PhotoURL string `json:"photoUrl,omitempty"`

	// ProductDetails is the actual selection. Required on submit.
	ProductDetails ProductDetails `json:"productDetails"`
}

// OrderUser identifies one participant inside a grouped bucket.
type OrderUser struct {
	OrderedBy string `json:"orderedBy"`
	PhotoURL  string `json:"photoUrl"`
}

// GroupedOrders is a derived bucket of structurally identical orders.
// Two orders land in the same bucket when their ProductDetails match with
// Restrictions/Adjustment compared irrespective of element order.
type GroupedOrders struct {
	ProductDetails ProductDetails `json:"productDetails"`
	Count          int            `json:"count"`
	Users          []OrderUser    `json:"users"`
}

// User is the current-user identity supplied by the external auth provider.
type User struct {
	// UID is the provider-assigned stable id; also the creator id of any
	// group this user opens.
	UID string `json:"uid"`

	// DisplayName is shown on submitted orders.
	DisplayName string `json:"displayName"`

	// PhotoURL is the avatar attached to submitted orders.
	PhotoURL string `json:"photoURL"`
}

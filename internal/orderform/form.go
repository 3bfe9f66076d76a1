// Package orderform enforces the selection rules on an in-progress order
// before it is submitted: size is mandatory, "with everything" and explicit
// restrictions are mutually exclusive, and an ingredient cannot be both
// restricted and adjusted. The rules fire as the form is edited, not only at
// submit time, exactly as the order page applies them.
package orderform

import (
	"fmt"
	"strings"

	"github.com/levant12/shawarma-club/internal/catalog"
	"github.com/levant12/shawarma-club/internal/models"
)

// Form tracks one in-progress order against a catalog.
type Form struct {
	catalog *catalog.Catalog

	size           string
	withEverything bool
	restrictions   []string
	adjustments    []string
}

// New creates an empty form validating against c.
func New(c *catalog.Catalog) *Form {
	return &Form{catalog: c}
}

// Size returns the currently chosen size, empty if unset.
func (f *Form) Size() string { return f.size }

// WithEverything returns the current "with everything" flag.
func (f *Form) WithEverything() bool { return f.withEverything }

// Restrictions returns a copy of the chosen restrictions.
func (f *Form) Restrictions() []string {
	return append([]string(nil), f.restrictions...)
}

// Adjustments returns a copy of the chosen adjustments.
func (f *Form) Adjustments() []string {
	return append([]string(nil), f.adjustments...)
}

// SetSize chooses a size from the catalog.
func (f *Form) SetSize(size string) error {
	if _, ok := f.catalog.PriceFor(size); !ok {
		return fmt.Errorf("unknown size %q", size)
	}
	f.size = size
	return nil
}

// SetWithEverything toggles the "with everything" flag. Turning it on clears
// any chosen restrictions; turning it off has no side effect. The clearing
// is a one-way consequence of this edit and does not re-trigger the reverse
// rule.
func (f *Form) SetWithEverything(on bool) {
	f.withEverything = on
	if on {
		f.restrictions = nil
	}
}

// SetRestrictions replaces the restriction selection. A non-empty selection
// switches "with everything" off as a one-way side effect.
func (f *Form) SetRestrictions(labels []string) error {
	for _, label := range labels {
		if !f.catalog.HasRestriction(label) {
			return fmt.Errorf("unknown restriction %q", label)
		}
	}
	f.restrictions = append([]string(nil), labels...)
	if len(f.restrictions) > 0 {
		f.withEverything = false
	}
	return nil
}

// PickAdjustment adds an adjustment option. If another chosen option targets
// the same ingredient, the stale one is dropped: last chosen wins, at most
// one adjustment per ingredient.
func (f *Form) PickAdjustment(label string) error {
	if !f.catalog.HasAdjustment(label) {
		return fmt.Errorf("unknown adjustment %q", label)
	}

	product := ProductKey(label)
	kept := f.adjustments[:0]
	for _, existing := range f.adjustments {
		if existing != label && ProductKey(existing) != product {
			kept = append(kept, existing)
		}
	}
	f.adjustments = append(kept, label)
	return nil
}

// RemoveAdjustment drops a previously picked adjustment option.
func (f *Form) RemoveAdjustment(label string) {
	kept := f.adjustments[:0]
	for _, existing := range f.adjustments {
		if existing != label {
			kept = append(kept, existing)
		}
	}
	f.adjustments = kept
}

// LoadOrder fills the form from a previously submitted order, the way the
// order page restores a participant's last order. Selections no longer in
// the catalog are skipped. Values pass through the regular setters so the
// exclusion rules keep holding.
func (f *Form) LoadOrder(order models.Order) {
	details := order.ProductDetails
	if details.Size != "" {
		_ = f.SetSize(details.Size)
	}
	f.SetWithEverything(details.WithEverything)
	for _, label := range details.Adjustment {
		_ = f.PickAdjustment(label)
	}
	valid := details.Restrictions[:0:0]
	for _, label := range details.Restrictions {
		if f.catalog.HasRestriction(label) {
			valid = append(valid, label)
		}
	}
	_ = f.SetRestrictions(valid)
}

// ProductKey derives the ingredient a selection label targets: the token
// after the first space, so "No Lettuce" and "Extra Lettuce" both key on
// "Lettuce". Labels without a second token key on the empty string.
func ProductKey(label string) string {
	fields := strings.Fields(label)
	if len(fields) < 2 {
		return ""
	}
	return fields[1]
}

// CheckOverlap returns the ingredients targeted by both a restriction and an
// adjustment; an order cannot remove and adjust the same ingredient. The
// result keeps restriction order, deduplicated.
func CheckOverlap(restrictions, adjustments []string) []string {
	adjusted := make(map[string]bool, len(adjustments))
	for _, label := range adjustments {
		adjusted[ProductKey(label)] = true
	}

	var overlap []string
	seen := make(map[string]bool)
	for _, label := range restrictions {
		product := ProductKey(label)
		if adjusted[product] && !seen[product] {
			seen[product] = true
			overlap = append(overlap, product)
		}
	}
	return overlap
}

// Validate runs all form checks and reports every failed one; a missing size
// and an ingredient conflict surface together in a single pass.
// On failure the returned error is a *ValidationError.
func (f *Form) Validate() error {
	var reasons []string

	if f.size == "" {
		reasons = append(reasons, "size is required")
	}
	if !f.withEverything && len(f.restrictions) == 0 {
		reasons = append(reasons, "choose ingredients: either with everything or at least one restriction")
	}
	if overlap := CheckOverlap(f.restrictions, f.adjustments); len(overlap) > 0 {
		reasons = append(reasons, fmt.Sprintf("conflicting products in restrictions and adjustments: %s", strings.Join(overlap, ", ")))
	}

	if len(reasons) > 0 {
		return &ValidationError{Reasons: reasons}
	}
	return nil
}

// Order validates the form and builds the submit payload for user, with the
// price looked up from the size's catalog entry.
func (f *Form) Order(user models.User) (models.Order, error) {
	if err := f.Validate(); err != nil {
		return models.Order{}, err
	}

	price, _ := f.catalog.PriceFor(f.size)
	return models.Order{
		OrderedBy: user.DisplayName,
		PhotoURL:  user.PhotoURL,
		ProductDetails: models.ProductDetails{
			Price:          price,
			Size:           f.size,
			Restrictions:   f.Restrictions(),
			WithEverything: f.withEverything,
			Adjustment:     f.Adjustments(),
		},
	}, nil
}

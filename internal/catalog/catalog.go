// Package catalog holds the product lookup tables the order form validates
// against: sizes with prices, ingredient restrictions and ingredient
// adjustments. The tables are loaded once at startup and passed into the
// components that need them, never consulted as ambient state.
package catalog

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ProductSize is one orderable size with its price.
type ProductSize struct {
	Size  string  `yaml:"size" json:"size"`
	Price float64 `yaml:"price" json:"price"`
}

// IngredientAdjustment lists the adjustment options offered for one
// ingredient, e.g. "Extra Cheese" and "Light Cheese". An order may carry at
// most one option per ingredient.
type IngredientAdjustment struct {
	Ingredient string   `yaml:"ingredient" json:"ingredient"`
	Options    []string `yaml:"options" json:"options"`
}

// Catalog is the full set of lookup tables.
type Catalog struct {
	Sizes        []ProductSize          `yaml:"sizes" json:"sizes"`
	Restrictions []string               `yaml:"restrictions" json:"restrictions"`
	Adjustments  []IngredientAdjustment `yaml:"adjustments" json:"adjustments"`
}

// Load reads a catalog from a YAML file.
func Load(path string) (*Catalog, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}

	var c Catalog
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}
	if len(c.Sizes) == 0 {
		return nil, fmt.Errorf("catalog %s defines no product sizes", path)
	}
	return &c, nil
}

// Default returns the built-in catalog, used when no catalog file is
// configured.
func Default() *Catalog {
	return &Catalog{
		Sizes: []ProductSize{
			{Size: "Small", Price: 5},
			{Size: "Medium", Price: 6},
			{Size: "Large", Price: 7},
		},
		Restrictions: []string{
			"No Lettuce",
			"No Tomato",
			"No Onion",
			"No Pickles",
			"No Sauce",
		},
		Adjustments: []IngredientAdjustment{
			{Ingredient: "Cheese", Options: []string{"Extra Cheese", "Light Cheese"}},
			{Ingredient: "Sauce", Options: []string{"Extra Sauce", "Light Sauce"}},
			{Ingredient: "Meat", Options: []string{"Extra Meat"}},
		},
	}
}

// PriceFor returns the price of the named size.
func (c *Catalog) PriceFor(size string) (float64, bool) {
	for _, s := range c.Sizes {
		if s.Size == size {
			return s.Price, true
		}
	}
	return 0, false
}

// HasRestriction reports whether label is an offered restriction.
func (c *Catalog) HasRestriction(label string) bool {
	for _, r := range c.Restrictions {
		if r == label {
			return true
		}
	}
	return false
}

// HasAdjustment reports whether label is an offered adjustment option.
func (c *Catalog) HasAdjustment(label string) bool {
	for _, adj := range c.Adjustments {
		for _, opt := range adj.Options {
			if opt == label {
				return true
			}
		}
	}
	return false
}

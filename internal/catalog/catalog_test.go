package catalog

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad(t *testing.T) {
	const yamlCatalog = `
sizes:
  - size: Small
    price: 5
  - size: Large
    price: 7.5
restrictions:
  - No Lettuce
  - No Tomato
adjustments:
  - ingredient: Cheese
    options:
      - Extra Cheese
      - Light Cheese
`

	path := filepath.Join(t.TempDir(), "catalog.yaml")
	if err := os.WriteFile(path, []byte(yamlCatalog), 0644); err != nil {
		t.Fatalf("failed to write catalog file: %v", err)
	}

	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if price, ok := c.PriceFor("Large"); !ok || price != 7.5 {
		t.Errorf("PriceFor(Large) = %v,%v, want 7.5,true", price, ok)
	}
	if !c.HasRestriction("No Tomato") {
		t.Error("HasRestriction(No Tomato) = false, want true")
	}
	if !c.HasAdjustment("Light Cheese") {
		t.Error("HasAdjustment(Light Cheese) = false, want true")
	}

	t.Run("missing file", func(t *testing.T) {
		if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
			t.Error("expected error for missing file")
		}
	})

	t.Run("catalog without sizes rejected", func(t *testing.T) {
		empty := filepath.Join(t.TempDir(), "empty.yaml")
		if err := os.WriteFile(empty, []byte("restrictions: [No Lettuce]"), 0644); err != nil {
			t.Fatalf("failed to write catalog file: %v", err)
		}
		if _, err := Load(empty); err == nil {
			t.Error("expected error for catalog without sizes")
		}
	})
}

func TestDefault(t *testing.T) {
	c := Default()

	if len(c.Sizes) == 0 {
		t.Fatal("default catalog has no sizes")
	}
	if price, ok := c.PriceFor("Large"); !ok || price != 7 {
		t.Errorf("PriceFor(Large) = %v,%v, want 7,true", price, ok)
	}
	if c.HasRestriction("No Anchovies") {
		t.Error("unexpected restriction in default catalog")
	}
	if _, ok := c.PriceFor("Gigantic"); ok {
		t.Error("PriceFor(Gigantic) = ok, want missing")
	}
}

package orderform

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/levant12/shawarma-club/internal/catalog"
	"github.com/levant12/shawarma-club/internal/models"
)

func newForm(t *testing.T) *Form {
	t.Helper()
	return New(catalog.Default())
}

func TestMutualExclusion(t *testing.T) {
	f := newForm(t)

	if err := f.SetRestrictions([]string{"No Onion"}); err != nil {
		t.Fatalf("SetRestrictions failed: %v", err)
	}

	f.SetWithEverything(true)
	if got := f.Restrictions(); len(got) != 0 {
		t.Errorf("restrictions after withEverything = %v, want empty", got)
	}

	if err := f.SetRestrictions([]string{"No Onion"}); err != nil {
		t.Fatalf("SetRestrictions failed: %v", err)
	}
	if f.WithEverything() {
		t.Error("withEverything still true after choosing restrictions")
	}

	t.Run("turning withEverything off keeps restrictions", func(t *testing.T) {
		f := newForm(t)
		if err := f.SetRestrictions([]string{"No Tomato"}); err != nil {
			t.Fatalf("SetRestrictions failed: %v", err)
		}
		f.SetWithEverything(false)
		if got := f.Restrictions(); len(got) != 1 {
			t.Errorf("restrictions = %v, want [No Tomato]", got)
		}
	})
}

func TestPickAdjustmentDedup(t *testing.T) {
	f := newForm(t)

	if err := f.PickAdjustment("Extra Cheese"); err != nil {
		t.Fatalf("PickAdjustment failed: %v", err)
	}
	if err := f.PickAdjustment("Extra Sauce"); err != nil {
		t.Fatalf("PickAdjustment failed: %v", err)
	}
	if err := f.PickAdjustment("Light Cheese"); err != nil {
		t.Fatalf("PickAdjustment failed: %v", err)
	}

	want := []string{"Extra Sauce", "Light Cheese"}
	if got := f.Adjustments(); !reflect.DeepEqual(got, want) {
		t.Errorf("adjustments = %v, want %v", got, want)
	}

	t.Run("re-picking the same option does not duplicate", func(t *testing.T) {
		if err := f.PickAdjustment("Light Cheese"); err != nil {
			t.Fatalf("PickAdjustment failed: %v", err)
		}
		if got := f.Adjustments(); !reflect.DeepEqual(got, want) {
			t.Errorf("adjustments = %v, want %v", got, want)
		}
	})

	t.Run("unknown option is rejected", func(t *testing.T) {
		if err := f.PickAdjustment("Extra Pineapple"); err == nil {
			t.Error("expected error for unknown adjustment")
		}
	})
}

func TestRemoveAdjustment(t *testing.T) {
	f := newForm(t)
	if err := f.PickAdjustment("Extra Cheese"); err != nil {
		t.Fatalf("PickAdjustment failed: %v", err)
	}
	f.RemoveAdjustment("Extra Cheese")
	if got := f.Adjustments(); len(got) != 0 {
		t.Errorf("adjustments = %v, want empty", got)
	}
}

func TestProductKey(t *testing.T) {
	tests := []struct {
		label string
		want  string
	}{
		{"No Lettuce", "Lettuce"},
		{"Extra Cheese", "Cheese"},
		{"Light Sauce", "Sauce"},
		{"Plain", ""},
		{"", ""},
		// Known limitation: only the second token is the product key, so
		// multi-word products truncate.
		{"No Garlic Sauce", "Garlic"},
	}

	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			if got := ProductKey(tt.label); got != tt.want {
				t.Errorf("ProductKey(%q) = %q, want %q", tt.label, got, tt.want)
			}
		})
	}
}

func TestCheckOverlap(t *testing.T) {
	tests := []struct {
		name         string
		restrictions []string
		adjustments  []string
		want         []string
	}{
		{
			name:         "same product in both",
			restrictions: []string{"No Lettuce"},
			adjustments:  []string{"Extra Lettuce"},
			want:         []string{"Lettuce"},
		},
		{
			name:         "different products",
			restrictions: []string{"No Lettuce"},
			adjustments:  []string{"Extra Tomato"},
			want:         nil,
		},
		{
			name:         "multiple overlaps keep restriction order",
			restrictions: []string{"No Sauce", "No Cheese"},
			adjustments:  []string{"Extra Cheese", "Light Sauce"},
			want:         []string{"Sauce", "Cheese"},
		},
		{
			name: "empty selections",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CheckOverlap(tt.restrictions, tt.adjustments); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("CheckOverlap = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name        string
		setup       func(f *Form)
		wantReasons int
		wantSubstr  []string
	}{
		{
			name:        "empty form fails both basic checks",
			setup:       func(f *Form) {},
			wantReasons: 2,
			wantSubstr:  []string{"size", "ingredients"},
		},
		{
			name: "size plus withEverything is valid",
			setup: func(f *Form) {
				f.SetSize("Large")
				f.SetWithEverything(true)
			},
		},
		{
			name: "size plus restrictions is valid",
			setup: func(f *Form) {
				f.SetSize("Small")
				f.SetRestrictions([]string{"No Onion"})
			},
		},
		{
			name: "overlap and missing size reported together",
			setup: func(f *Form) {
				f.SetRestrictions([]string{"No Sauce"})
				f.PickAdjustment("Extra Sauce")
			},
			wantReasons: 2,
			wantSubstr:  []string{"size", "Sauce"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newForm(t)
			tt.setup(f)

			err := f.Validate()
			if tt.wantReasons == 0 {
				if err != nil {
					t.Fatalf("Validate failed: %v", err)
				}
				return
			}

			var ve *ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("expected *ValidationError, got %v", err)
			}
			if len(ve.Reasons) != tt.wantReasons {
				t.Errorf("reasons = %v, want %d entries", ve.Reasons, tt.wantReasons)
			}
			for _, substr := range tt.wantSubstr {
				if !strings.Contains(ve.Error(), substr) {
					t.Errorf("error %q does not mention %q", ve.Error(), substr)
				}
			}
		})
	}
}

func TestOrderBuildsPayload(t *testing.T) {
	f := newForm(t)
	if err := f.SetSize("Large"); err != nil {
		t.Fatalf("SetSize failed: %v", err)
	}
	if err := f.SetRestrictions([]string{"No Lettuce"}); err != nil {
		t.Fatalf("SetRestrictions failed: %v", err)
	}
	if err := f.PickAdjustment("Extra Cheese"); err != nil {
		t.Fatalf("PickAdjustment failed: %v", err)
	}

	user := models.User{UID: "u1", DisplayName: "Alice", PhotoURL: "a.png"}
	order, err := f.Order(user)
	if err != nil {
		t.Fatalf("Order failed: %v", err)
	}

	if order.OrderedBy != "Alice" || order.PhotoURL != "a.png" {
		t.Errorf("identity = %q/%q, want Alice/a.png", order.OrderedBy, order.PhotoURL)
	}
	if order.ProductDetails.Size != "Large" {
		t.Errorf("size = %q, want Large", order.ProductDetails.Size)
	}
	if order.ProductDetails.Price != 7 {
		t.Errorf("price = %v, want 7 (catalog price for Large)", order.ProductDetails.Price)
	}

	t.Run("invalid form does not build", func(t *testing.T) {
		empty := newForm(t)
		if _, err := empty.Order(user); !IsValidationError(err) {
			t.Errorf("expected validation error, got %v", err)
		}
	})
}

func TestLoadOrder(t *testing.T) {
	f := newForm(t)
	f.LoadOrder(models.Order{
		OrderedBy: "Alice",
		PhotoURL:  "a.png",
		ProductDetails: models.ProductDetails{
			Price:        7,
			Size:         "Large",
			Restrictions: []string{"No Lettuce", "No Kale"}, // No Kale not in catalog
			Adjustment:   []string{"Extra Cheese"},
		},
	})

	if f.Size() != "Large" {
		t.Errorf("size = %q, want Large", f.Size())
	}
	if got := f.Restrictions(); !reflect.DeepEqual(got, []string{"No Lettuce"}) {
		t.Errorf("restrictions = %v, want [No Lettuce]", got)
	}
	if got := f.Adjustments(); !reflect.DeepEqual(got, []string{"Extra Cheese"}) {
		t.Errorf("adjustments = %v, want [Extra Cheese]", got)
	}
	if err := f.Validate(); err != nil {
		t.Errorf("loaded order should validate, got %v", err)
	}
}

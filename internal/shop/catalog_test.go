package shop

import (
	"testing"

	"github.com/dukerupert/chorequest/internal/model"
)

func TestDefaultCatalog(t *testing.T) {
	c, err := DefaultCatalog()
	if err != nil {
		t.Fatalf("default catalog: %v", err)
	}

	tests := []struct {
		id       string
		category model.AccessoryCategory
		property string
		value    string
		cost     int
	}{
		{"curly", model.CategoryHair, "top", "curly", 300},
		{"hair-color-red", model.CategoryHair, "hairColor", "b55239", 150},
		{"sunglasses", model.CategoryEyewear, "accessories", "sunglasses", 200},
		{"hoodie", model.CategoryClothing, "clothing", "hoodie", 250},
		{"clothing-color-black", model.CategoryClothing, "clothingColor", "262e33", 100},
		{"earring", model.CategoryAccessories, "accessories", "earring", 150},
	}
	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			a, ok := c.Get(tt.id)
			if !ok {
				t.Fatalf("accessory %q missing", tt.id)
			}
			if a.Category != tt.category || a.AvatarProperty != tt.property || a.AvatarValue != tt.value || a.PointCost != tt.cost {
				t.Errorf("got %+v, want %s/%s/%s/%d", a, tt.category, tt.property, tt.value, tt.cost)
			}
			if !a.Available {
				t.Error("catalog items should default to available")
			}
		})
	}

	if len(c.All()) != 39 {
		t.Errorf("catalog size = %d, want 39", len(c.All()))
	}
}

func TestParseCatalogRejectsDuplicates(t *testing.T) {
	data := []byte(`
groups:
  - category: hair
    property: top
    cost: 10
    items:
      - { id: a, name: A, value: x }
      - { id: a, name: B, value: y }
`)
	if _, err := ParseCatalog(data); err == nil {
		t.Error("expected duplicate id error")
	}
}

func TestParseCatalogItemPriceOverride(t *testing.T) {
	data := []byte(`
groups:
  - category: eyewear
    property: accessories
    cost: 200
    items:
      - { id: monocle, name: Monocle, value: monocle, cost: 500 }
`)
	c, err := ParseCatalog(data)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	a, _ := c.Get("monocle")
	if a.PointCost != 500 {
		t.Errorf("cost = %d, want 500", a.PointCost)
	}
}

func TestApplyAccessoryReplacesProperty(t *testing.T) {
	cfg := model.AvatarConfig{"seed": "ava", "top": "bob"}
	got := ApplyAccessory(cfg, model.Accessory{AvatarProperty: "top", AvatarValue: "curly"})

	if got["top"] != "curly" || got["seed"] != "ava" {
		t.Errorf("config = %v, want top=curly seed=ava", got)
	}
	if cfg["top"] != "bob" {
		t.Error("ApplyAccessory mutated its input")
	}
}

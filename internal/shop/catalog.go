package shop

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/dukerupert/chorequest/internal/model"
)

//go:embed catalog.yaml
var catalogYAML []byte

type catalogFile struct {
	Groups []catalogGroup `yaml:"groups"`
}

type catalogGroup struct {
	Category model.AccessoryCategory `yaml:"category"`
	Property string                  `yaml:"property"`
	Cost     int                     `yaml:"cost"`
	Items    []model.Accessory       `yaml:"items"`
}

// Catalog is the fixed list of purchasable accessories with default prices.
type Catalog struct {
	items []model.Accessory
	byID  map[string]int
}

// DefaultCatalog parses the catalog compiled into the binary.
func DefaultCatalog() (*Catalog, error) {
	return ParseCatalog(catalogYAML)
}

func ParseCatalog(data []byte) (*Catalog, error) {
	var f catalogFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}

	c := &Catalog{byID: make(map[string]int)}
	for _, g := range f.Groups {
		if g.Property == "" {
			return nil, fmt.Errorf("catalog group %q: missing property", g.Category)
		}
		for _, item := range g.Items {
			if item.ID == "" || item.AvatarValue == "" {
				return nil, fmt.Errorf("catalog group %q: item needs id and value", g.Category)
			}
			if _, dup := c.byID[item.ID]; dup {
				return nil, fmt.Errorf("catalog: duplicate accessory id %q", item.ID)
			}
			item.Category = g.Category
			item.AvatarProperty = g.Property
			if item.PointCost == 0 {
				item.PointCost = g.Cost
			}
			item.Available = true
			c.byID[item.ID] = len(c.items)
			c.items = append(c.items, item)
		}
	}
	return c, nil
}

// All returns a copy of every accessory in catalog order.
func (c *Catalog) All() []model.Accessory {
	out := make([]model.Accessory, len(c.items))
	copy(out, c.items)
	return out
}

func (c *Catalog) Get(id string) (model.Accessory, bool) {
	i, ok := c.byID[id]
	if !ok {
		return model.Accessory{}, false
	}
	return c.items[i], true
}

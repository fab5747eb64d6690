package sorting

import (
	"errors"
	"fmt"
	"strings"
)

// ErrEmptyCatalog is returned when a catalog would contain no items.
var ErrEmptyCatalog = errors.New("sorting: catalog has no items")

// Catalog is the fixed, read-only list of items a round draws from.
// It is supplied from configuration and never mutated by the engine.
type Catalog struct {
	items  []WasteItem
	byName map[string]int
}

// NewCatalog validates items and builds a catalog.
// Names must be non-empty and unique (case-insensitive), categories must be real bins.
func NewCatalog(items []WasteItem) (*Catalog, error) {
	if len(items) == 0 {
		return nil, ErrEmptyCatalog
	}

	c := &Catalog{
		items:  make([]WasteItem, 0, len(items)),
		byName: make(map[string]int, len(items)),
	}
	for i, it := range items {
		k := key(it.Name)
		if k == "" {
			return nil, fmt.Errorf("sorting: item %d has no name", i)
		}
		if !it.Category.Valid() {
			return nil, fmt.Errorf("sorting: item %q has invalid category %q", it.Name, it.Category)
		}
		if _, dup := c.byName[k]; dup {
			return nil, fmt.Errorf("sorting: duplicate item %q", it.Name)
		}
		c.byName[k] = len(c.items)
		c.items = append(c.items, it)
	}
	return c, nil
}

// MustCatalog is like NewCatalog but panics on invalid input.
// Intended for package-level defaults.
func MustCatalog(items []WasteItem) *Catalog {
	c, err := NewCatalog(items)
	if err != nil {
		panic(err)
	}
	return c
}

// DefaultCatalog returns the eight items of the classic sorting game.
func DefaultCatalog() *Catalog {
	return MustCatalog(defaultItems)
}

var defaultItems = []WasteItem{
	{Name: "Banana Peel", Category: CategoryWet, Icon: "🍌", Points: 5,
		Tip: "Compost if possible. Great for making organic fertilizer."},
	{Name: "Plastic Bottle", Category: CategoryDry, Icon: "🧴", Points: 10,
		Tip:     "Rinse and recycle. Check local recycling guidelines for plastic type.",
		Warning: "Remove caps and labels first"},
	{Name: "Battery", Category: CategoryHazardous, Icon: "🔋", Points: 15,
		Tip:     "Take to authorized collection center. Never throw in regular trash.",
		Warning: "Contains toxic chemicals - handle with care"},
	{Name: "Mobile Phone", Category: CategoryEWaste, Icon: "📱", Points: 20,
		Tip:     "Take to e-waste recycling center. Consider donating if still working.",
		Warning: "Contains valuable and hazardous materials"},
	{Name: "Newspaper", Category: CategoryDry, Icon: "📰", Points: 5,
		Tip: "Recycle with paper products. Can also be used for composting or packing material."},
	{Name: "Egg Shells", Category: CategoryWet, Icon: "🥚", Points: 5,
		Tip: "Crush and add to compost. Rich in calcium for plants."},
	{Name: "Medicine", Category: CategoryHazardous, Icon: "💊", Points: 15,
		Tip:     "Return to pharmacy or designated collection point. Don't flush down toilet.",
		Warning: "Can contaminate water supply"},
	{Name: "Cardboard", Category: CategoryDry, Icon: "📦", Points: 5,
		Tip: "Flatten and recycle. Remove any tape or plastic wrapping."},
}

// Len returns the number of items.
func (c *Catalog) Len() int {
	return len(c.items)
}

// Items returns a copy of all items in catalog order.
func (c *Catalog) Items() []WasteItem {
	out := make([]WasteItem, len(c.items))
	copy(out, c.items)
	return out
}

// At returns the item at index i.
func (c *Catalog) At(i int) WasteItem {
	return c.items[i]
}

// Get returns the item with exactly the given name (case-insensitive).
func (c *Catalog) Get(name string) (WasteItem, bool) {
	i, ok := c.byName[key(name)]
	if !ok {
		return WasteItem{}, false
	}
	return c.items[i], true
}

// Lookup finds an item by exact name first, then by substring match
// in catalog order. An empty query never matches.
func (c *Catalog) Lookup(query string) (WasteItem, bool) {
	q := key(query)
	if q == "" {
		return WasteItem{}, false
	}
	if it, ok := c.Get(q); ok {
		return it, true
	}
	for _, it := range c.items {
		if strings.Contains(key(it.Name), q) {
			return it, true
		}
	}
	return WasteItem{}, false
}

// ByCategory returns the items that belong in the given bin.
func (c *Catalog) ByCategory(cat Category) []WasteItem {
	var out []WasteItem
	for _, it := range c.items {
		if it.Category == cat {
			out = append(out, it)
		}
	}
	return out
}

// Package sorting implements the timed waste-sorting round: item pools,
// bin classification, scoring, streaks and the countdown.
// It holds pure game logic with no terminal or storage dependencies;
// owners drive it from their own event loop.
package sorting

import "strings"

// Category is the bin a waste item belongs in.
type Category int

const (
	CategoryNone      Category = iota // No bin resolved (drop outside a bin)
	CategoryWet                       // Kitchen and garden waste
	CategoryDry                       // Paper, plastic, metal
	CategoryHazardous                 // Batteries, medicine, chemicals
	CategoryEWaste                    // Electronics
)

// Categories returns the four valid bins in display order.
func Categories() []Category {
	return []Category{CategoryWet, CategoryDry, CategoryHazardous, CategoryEWaste}
}

// String returns the wire name used in configs and storage.
func (c Category) String() string {
	switch c {
	case CategoryNone:
		return "none"
	case CategoryWet:
		return "wet"
	case CategoryDry:
		return "dry"
	case CategoryHazardous:
		return "hazardous"
	case CategoryEWaste:
		return "e-waste"
	default:
		return "unknown"
	}
}

// Label returns a human-readable bin name.
func (c Category) Label() string {
	switch c {
	case CategoryNone:
		return "No Bin"
	case CategoryWet:
		return "Wet Waste"
	case CategoryDry:
		return "Dry Waste"
	case CategoryHazardous:
		return "Hazardous"
	case CategoryEWaste:
		return "E-Waste"
	default:
		return "Unknown"
	}
}

// Valid reports whether c names a real bin.
func (c Category) Valid() bool {
	switch c {
	case CategoryWet, CategoryDry, CategoryHazardous, CategoryEWaste:
		return true
	case CategoryNone:
		return false
	default:
		return false
	}
}

// ParseCategory resolves a bin name. Unknown names yield CategoryNone.
func ParseCategory(s string) Category {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "wet":
		return CategoryWet
	case "dry":
		return CategoryDry
	case "hazardous":
		return CategoryHazardous
	case "e-waste", "ewaste", "e_waste":
		return CategoryEWaste
	default:
		return CategoryNone
	}
}

// WasteItem is one entry of the item catalog. Items are immutable values.
type WasteItem struct {
	Name     string
	Category Category
	Icon     string // Opaque glyph, rendered as-is by front ends
	Tip      string // Disposal advice shown by lookups
	Warning  string // Optional safety warning
	Points   int    // Green Points for looking the item up
}

// key normalizes an item name for case-insensitive matching.
func key(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

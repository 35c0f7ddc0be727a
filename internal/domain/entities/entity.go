// Package entities contains core domain data structures.
package entities

import "strings"

// Category classifies an entity.
type Category string

const (
	CategoryCharacter Category = "character"
	CategoryFaction   Category = "faction"
)

// Categories lists every valid category in display order.
var Categories = []Category{CategoryCharacter, CategoryFaction}

// IsValid reports whether c is a known category.
func (c Category) IsValid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// EntityStyle holds optional per-entity display hints. Zero values mean
// "use the configured default".
type EntityStyle struct {
	Color string `validate:"omitempty,hexcolor"`
	Shape string `validate:"omitempty,oneof=dot ellipse circle box text image circularImage diamond star triangle triangleDown hexagon square database"`
	Image string
	Size  int `validate:"gte=0"`
}

// Entity is a character or faction that becomes a graph node.
type Entity struct {
	ID          string   `validate:"required"`
	Label       string   `validate:"required"`
	Category    Category `validate:"required,oneof=character faction"`
	Group       string
	Description string
	URL         string
	Attributes  map[string]string
	Style       EntityStyle

	// Line is the 1-indexed line in the source file, 0 when unknown.
	Line int
}

// NormalizeID trims surrounding whitespace from an identifier.
func NormalizeID(id string) string {
	return strings.TrimSpace(id)
}

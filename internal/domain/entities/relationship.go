package entities

import "strings"

// RelationshipStyle holds optional per-relationship display hints.
type RelationshipStyle struct {
	Color  string `validate:"omitempty,hexcolor"`
	Width  int    `validate:"gte=0"`
	Dashes bool
}

// Relationship is a typed link between two entities. Type is free-form;
// common values are "Allied With", "Member Of", "Opposed To" and "Family".
type Relationship struct {
	Source      string `validate:"required"`
	Target      string `validate:"required"`
	Type        string `validate:"required"`
	Description string
	Style       RelationshipStyle

	// Directed overrides the configured default when non-nil.
	Directed *bool

	// Line is the 1-indexed line in the source file, 0 when unknown.
	Line int
}

// IsDirected resolves the directionality flag against a default.
func (r *Relationship) IsDirected(def bool) bool {
	if r.Directed == nil {
		return def
	}
	return *r.Directed
}

// NormalizeType trims surrounding whitespace from a relationship type.
// Case and underscores are kept: the legend lists types as written.
func NormalizeType(relType string) string {
	return strings.TrimSpace(relType)
}

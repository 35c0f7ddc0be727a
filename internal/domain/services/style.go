package services

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/ersonp/lore-graph/internal/domain/entities"
)

// NodeStyle is the default look of nodes in one category.
type NodeStyle struct {
	Color     string
	Shape     string
	Size      int
	ImageSize int // size used when the entity carries an image
}

// EdgeStyle is the default look of edges of one relationship type.
type EdgeStyle struct {
	Color string
	Width int
}

// BuilderConfig is the explicit display configuration the builder applies.
// A build is a pure function of (dataset, BuilderConfig).
type BuilderConfig struct {
	DefaultNode   NodeStyle
	Categories    map[entities.Category]NodeStyle
	DefaultEdge   EdgeStyle
	Relationships map[string]EdgeStyle

	// ImageShape replaces the category shape for entities with an image.
	ImageShape string

	// Directed is the default for relationships without a direction flag.
	Directed bool

	// HumanizeLabels turns snake_case types into title case edge labels.
	HumanizeLabels bool

	Layout entities.Layout
}

// DefaultBuilderConfig returns the stock palette.
func DefaultBuilderConfig() BuilderConfig {
	return BuilderConfig{
		DefaultNode: NodeStyle{Color: "#95A5A6", Shape: "dot", Size: 15, ImageSize: 40},
		Categories: map[entities.Category]NodeStyle{
			entities.CategoryCharacter: {Color: "#FF0000", Shape: "dot", Size: 25, ImageSize: 60},
			entities.CategoryFaction:   {Color: "#FFD700", Shape: "diamond", Size: 25, ImageSize: 40},
		},
		DefaultEdge: EdgeStyle{Color: "#999999", Width: 1},
		Relationships: map[string]EdgeStyle{
			"Family":           {Color: "#00BFFF", Width: 3},
			"Romantic Partner": {Color: "#FF1493", Width: 3},
			"Ally":             {Color: "#00FF00", Width: 2},
			"Allied With":      {Color: "#00FF00", Width: 2},
			"Enemy":            {Color: "#FF0000", Width: 2},
			"Opposed To":       {Color: "#FF0000", Width: 2},
			"Complicated":      {Color: "#8A2BE2", Width: 2},
			"Member Of":        {Color: "#FFD700", Width: 3},
			"Associated With":  {Color: "#999999", Width: 1},
		},
		ImageShape:     "circularImage",
		Directed:       true,
		HumanizeLabels: true,
		Layout: entities.Layout{
			Solver:         "barnesHut",
			Gravity:        -15000,
			CentralGravity: 0.5,
			SpringLength:   150,
			SpringStrength: 0.01,
			Damping:        0.09,
			Background:     "#1a1a1a",
			FontColor:      "#ffffff",
		},
	}
}

// nodeStyle resolves the effective style of an entity: the record's own
// hints win, then the category default, then the global default.
func (c *BuilderConfig) nodeStyle(e *entities.Entity) NodeStyle {
	cat := c.Categories[e.Category]
	s := NodeStyle{
		Color: firstNonEmpty(e.Style.Color, cat.Color, c.DefaultNode.Color),
		Shape: firstNonEmpty(e.Style.Shape, cat.Shape, c.DefaultNode.Shape),
		Size:  firstPositive(e.Style.Size, cat.Size, c.DefaultNode.Size),
	}
	if e.Style.Image != "" {
		if e.Style.Shape == "" && c.ImageShape != "" {
			s.Shape = c.ImageShape
		}
		if e.Style.Size == 0 {
			s.Size = firstPositive(cat.ImageSize, c.DefaultNode.ImageSize, s.Size)
		}
	}
	return s
}

// typeStyle resolves the configured style of a relationship type. Types
// are looked up as written, then by their humanized form.
func (c *BuilderConfig) typeStyle(relType string) EdgeStyle {
	t, ok := c.Relationships[relType]
	if !ok {
		t = c.Relationships[HumanizeType(relType)]
	}
	return EdgeStyle{
		Color: firstNonEmpty(t.Color, c.DefaultEdge.Color),
		Width: firstPositive(t.Width, c.DefaultEdge.Width),
	}
}

// edgeStyle applies the record's own hints on top of the type style.
func (c *BuilderConfig) edgeStyle(r *entities.Relationship) EdgeStyle {
	t := c.typeStyle(r.Type)
	return EdgeStyle{
		Color: firstNonEmpty(r.Style.Color, t.Color),
		Width: firstPositive(r.Style.Width, t.Width),
	}
}

// label returns the display label of a relationship type.
func (c *BuilderConfig) label(relType string) string {
	if !c.HumanizeLabels {
		return relType
	}
	return HumanizeType(relType)
}

// HumanizeType turns "member_of" into "Member Of". Types that already
// carry capitals are left as written, apart from underscores.
func HumanizeType(relType string) string {
	s := strings.TrimSpace(strings.ReplaceAll(relType, "_", " "))
	if s != strings.ToLower(s) {
		return s
	}
	return cases.Title(language.English).String(s)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func firstPositive(values ...int) int {
	for _, v := range values {
		if v > 0 {
			return v
		}
	}
	return 0
}

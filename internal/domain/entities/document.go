package entities

// GraphDocument is the serialized payload consumed by the rendering front
// end. Field names follow the vis-network DataSet schema. A document is
// never mutated after the builder returns it.
type GraphDocument struct {
	Title  string         `json:"title,omitempty"`
	Nodes  []Node         `json:"nodes"`
	Edges  []Edge         `json:"edges"`
	Config DocumentConfig `json:"config"`
}

// Node is the rendered form of an Entity.
type Node struct {
	ID       string   `json:"id"`
	Label    string   `json:"label"`
	Category Category `json:"category"`
	Group    string   `json:"group,omitempty"`
	Color    string   `json:"color"`
	Shape    string   `json:"shape"`
	Size     int      `json:"size"`
	Image    string   `json:"image,omitempty"`
	Title    string   `json:"title,omitempty"`
	URL      string   `json:"url,omitempty"`
}

// Edge is the rendered form of a Relationship.
type Edge struct {
	ID     string `json:"id"`
	Source string `json:"from"`
	Target string `json:"to"`
	Type   string `json:"type"`
	Label  string `json:"label"`
	Color  string `json:"color"`
	Width  int    `json:"width"`
	Dashes bool   `json:"dashes,omitempty"`
	Arrows string `json:"arrows,omitempty"`
	Title  string `json:"title,omitempty"`
}

// Directed reports whether the edge renders with an arrow head.
func (e *Edge) Directed() bool {
	return e.Arrows != ""
}

// DocumentConfig is the global display block of a document.
type DocumentConfig struct {
	// Legend is the distinct set of relationship types, in first-seen order.
	Legend       []string      `json:"legend"`
	LegendStyles []LegendEntry `json:"legend_styles"`
	Categories   []Category    `json:"categories"`
	Groups       []string      `json:"groups"`
	Directed     bool          `json:"directed"`
	Layout       Layout        `json:"layout"`
}

// LegendEntry pairs a relationship type with the style its edges use.
type LegendEntry struct {
	Type  string `json:"type"`
	Label string `json:"label"`
	Color string `json:"color"`
	Width int    `json:"width"`
}

// Layout carries physics and canvas hints for the front end. The server
// does no layout itself.
type Layout struct {
	Solver         string  `json:"solver"`
	Gravity        float64 `json:"gravity"`
	CentralGravity float64 `json:"central_gravity"`
	SpringLength   float64 `json:"spring_length"`
	SpringStrength float64 `json:"spring_strength"`
	Damping        float64 `json:"damping"`
	Background     string  `json:"background"`
	FontColor      string  `json:"font_color"`
}

package encoders

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/ersonp/lore-graph/internal/domain/entities"
)

// GMLEncoder writes the document as GML for desktop graph tools such as
// Gephi and yEd. Nodes get numeric ids in document order, starting at 1.
type GMLEncoder struct{}

var gmlReplacer = strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", " ", "\r", " ")

// Encode writes the document in GML.
func (e *GMLEncoder) Encode(w io.Writer, doc *entities.GraphDocument) error {
	ids := make(map[string]int, len(doc.Nodes))
	for i, n := range doc.Nodes {
		ids[n.ID] = i + 1
	}

	bw := bufio.NewWriter(w)
	g := gmlWriter{w: bw}

	g.line(0, "Creator %s", quote("loregraph"))
	g.line(0, "graph [")
	g.line(1, "directed %d", boolInt(doc.Config.Directed))
	if doc.Title != "" {
		g.line(1, "comment %s", quote(doc.Title))
	}
	g.blank()

	for i := range doc.Nodes {
		n := &doc.Nodes[i]
		g.line(1, "node [")
		g.line(2, "id %d", i+1)
		g.line(2, "label %s", quote(n.Label))
		g.line(2, "name %s", quote(n.ID))
		g.line(2, "type %s", quote(string(n.Category)))
		g.optional(2, "group", n.Group)
		g.line(2, "color %s", quote(n.Color))
		g.line(2, "shape %s", quote(n.Shape))
		g.line(2, "size %d", n.Size)
		g.optional(2, "image", n.Image)
		g.optional(2, "url", n.URL)
		g.line(1, "]")
	}
	g.blank()

	for i := range doc.Edges {
		edge := &doc.Edges[i]
		source, ok := ids[edge.Source]
		if !ok {
			return fmt.Errorf("encoding GML: edge %s references unknown node %q", edge.ID, edge.Source)
		}
		target, ok := ids[edge.Target]
		if !ok {
			return fmt.Errorf("encoding GML: edge %s references unknown node %q", edge.ID, edge.Target)
		}
		g.line(1, "edge [")
		g.line(2, "source %d", source)
		g.line(2, "target %d", target)
		g.line(2, "label %s", quote(edge.Label))
		g.line(2, "type %s", quote(edge.Type))
		g.line(2, "color %s", quote(edge.Color))
		g.line(2, "width %d", edge.Width)
		g.line(2, "directed %d", boolInt(edge.Directed()))
		if edge.Dashes {
			g.line(2, "dashes 1")
		}
		g.line(1, "]")
	}
	g.line(0, "]")

	if g.err != nil {
		return fmt.Errorf("encoding GML: %w", g.err)
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("encoding GML: %w", err)
	}
	return nil
}

// ContentType returns the MIME type of the encoding.
func (e *GMLEncoder) ContentType() string {
	return "text/plain; charset=utf-8"
}

// gmlWriter keeps the first write error so Encode can check once.
type gmlWriter struct {
	w   io.Writer
	err error
}

func (g *gmlWriter) line(depth int, format string, args ...any) {
	if g.err != nil {
		return
	}
	_, g.err = fmt.Fprintf(g.w, strings.Repeat("  ", depth)+format+"\n", args...)
}

func (g *gmlWriter) optional(depth int, key, value string) {
	if value != "" {
		g.line(depth, "%s %s", key, quote(value))
	}
}

func (g *gmlWriter) blank() {
	g.line(0, "")
}

func quote(s string) string {
	return `"` + gmlReplacer.Replace(s) + `"`
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

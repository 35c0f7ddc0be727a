package services

import (
	"sort"

	"github.com/ersonp/lore-graph/internal/domain/entities"
)

// Count is a named tally.
type Count struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// Summary describes the make-up of a graph document.
type Summary struct {
	Title             string  `json:"title,omitempty"`
	Nodes             int     `json:"nodes"`
	Edges             int     `json:"edges"`
	Categories        []Count `json:"categories"`
	Groups            []Count `json:"groups"`
	RelationshipTypes []Count `json:"relationship_types"`
}

// Summarize tallies a document. Categories and groups keep first-seen
// order; relationship types are ordered by frequency, ties broken by
// first-seen order.
func Summarize(doc *entities.GraphDocument) *Summary {
	s := &Summary{
		Title: doc.Title,
		Nodes: len(doc.Nodes),
		Edges: len(doc.Edges),
	}

	categories := newTally()
	groups := newTally()
	for i := range doc.Nodes {
		categories.add(string(doc.Nodes[i].Category))
		if doc.Nodes[i].Group != "" {
			groups.add(doc.Nodes[i].Group)
		}
	}

	types := newTally()
	for i := range doc.Edges {
		types.add(doc.Edges[i].Type)
	}

	s.Categories = categories.counts()
	s.Groups = groups.counts()
	s.RelationshipTypes = types.counts()
	sort.SliceStable(s.RelationshipTypes, func(i, j int) bool {
		return s.RelationshipTypes[i].Count > s.RelationshipTypes[j].Count
	})

	return s
}

// tally counts names while remembering first-seen order.
type tally struct {
	index map[string]int
	order []Count
}

func newTally() *tally {
	return &tally{index: make(map[string]int)}
}

func (t *tally) add(name string) {
	if i, ok := t.index[name]; ok {
		t.order[i].Count++
		return
	}
	t.index[name] = len(t.order)
	t.order = append(t.order, Count{Name: name, Count: 1})
}

func (t *tally) counts() []Count {
	if t.order == nil {
		return []Count{}
	}
	return t.order
}

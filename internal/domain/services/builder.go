package services

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/go-playground/validator"
	"github.com/google/uuid"

	"github.com/ersonp/lore-graph/internal/domain/entities"
)

// edgeNamespace seeds the name-based UUIDs given to edges, so that edge
// ids are stable across builds of the same input.
var edgeNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/ersonp/lore-graph/edge"))

// GraphBuilder validates a dataset and turns it into a graph document.
type GraphBuilder struct {
	cfg      BuilderConfig
	validate *validator.Validate
}

// NewGraphBuilder creates a GraphBuilder that applies cfg.
func NewGraphBuilder(cfg BuilderConfig) *GraphBuilder {
	return &GraphBuilder{
		cfg:      cfg,
		validate: validator.New(),
	}
}

// Config returns the configuration the builder applies.
func (b *GraphBuilder) Config() BuilderConfig {
	return b.cfg
}

// Build validates ds and produces its graph document. If any record is
// invalid no document is returned and the error is entities.ValidationErrors
// listing every problem found.
func (b *GraphBuilder) Build(ds *entities.Dataset) (*entities.GraphDocument, error) {
	if ds == nil {
		return nil, errors.New("dataset is nil")
	}

	if errs := b.Validate(ds); len(errs) > 0 {
		return nil, errs
	}

	return b.transform(ds), nil
}

// Validate checks every record and returns all problems found, or nil.
func (b *GraphBuilder) Validate(ds *entities.Dataset) entities.ValidationErrors {
	var errs entities.ValidationErrors

	firstSeen := make(map[string]int, len(ds.Entities))
	for i := range ds.Entities {
		e := &ds.Entities[i]
		errs = append(errs, b.validateEntity(i, e)...)

		if e.ID == "" {
			continue
		}
		if first, dup := firstSeen[e.ID]; dup {
			errs = append(errs, &entities.DataValidationError{
				Kind:    entities.RecordEntity,
				Index:   i,
				Line:    e.Line,
				Ref:     e.ID,
				Field:   "id",
				Message: fmt.Sprintf("duplicate id %q (first declared at entity[%d])", e.ID, first),
			})
			continue
		}
		firstSeen[e.ID] = i
	}

	for i := range ds.Relationships {
		r := &ds.Relationships[i]
		errs = append(errs, b.validateRelationship(i, r)...)

		for _, end := range []struct{ field, id string }{{"source", r.Source}, {"target", r.Target}} {
			if end.id == "" {
				continue
			}
			if _, ok := firstSeen[end.id]; !ok {
				errs = append(errs, &entities.DataValidationError{
					Kind:    entities.RecordRelationship,
					Index:   i,
					Line:    r.Line,
					Ref:     relationshipRef(r),
					Field:   end.field,
					Message: fmt.Sprintf("unknown entity %q", end.id),
				})
			}
		}
	}

	return errs
}

func (b *GraphBuilder) validateEntity(i int, e *entities.Entity) entities.ValidationErrors {
	errs := b.structErrors(entities.RecordEntity, i, e.Line, e.ID, e)
	if e.ID != "" && strings.TrimSpace(e.ID) == "" {
		errs = append(errs, &entities.DataValidationError{
			Kind: entities.RecordEntity, Index: i, Line: e.Line, Field: "id", Message: "must not be blank",
		})
	}
	return errs
}

func (b *GraphBuilder) validateRelationship(i int, r *entities.Relationship) entities.ValidationErrors {
	errs := b.structErrors(entities.RecordRelationship, i, r.Line, relationshipRef(r), r)
	if r.Type != "" && strings.TrimSpace(r.Type) == "" {
		errs = append(errs, &entities.DataValidationError{
			Kind: entities.RecordRelationship, Index: i, Line: r.Line, Ref: relationshipRef(r), Field: "type", Message: "must not be blank",
		})
	}
	return errs
}

// structErrors runs the struct tag rules and converts failures into
// validation errors naming the offending field.
func (b *GraphBuilder) structErrors(kind entities.RecordKind, index, line int, ref string, record any) entities.ValidationErrors {
	err := b.validate.Struct(record)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return entities.ValidationErrors{{Kind: kind, Index: index, Line: line, Ref: ref, Message: err.Error()}}
	}

	errs := make(entities.ValidationErrors, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		errs = append(errs, &entities.DataValidationError{
			Kind:    kind,
			Index:   index,
			Line:    line,
			Ref:     ref,
			Field:   fieldPath(fe.Namespace()),
			Message: ruleMessage(fe),
		})
	}
	return errs
}

// fieldPath turns "Entity.Style.Color" into "style.color".
func fieldPath(namespace string) string {
	if i := strings.IndexByte(namespace, '.'); i >= 0 {
		namespace = namespace[i+1:]
	}
	return strings.ToLower(namespace)
}

func ruleMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "oneof":
		return fmt.Sprintf("must be one of [%s], got %q", fe.Param(), fmt.Sprint(fe.Value()))
	case "hexcolor":
		return fmt.Sprintf("must be a hex color, got %q", fmt.Sprint(fe.Value()))
	case "gte":
		return fmt.Sprintf("must be at least %s", fe.Param())
	default:
		return fmt.Sprintf("failed %q rule", fe.Tag())
	}
}

func relationshipRef(r *entities.Relationship) string {
	return r.Source + " -> " + r.Target
}

// transform maps validated records onto the document schema, keeping
// source order throughout.
func (b *GraphBuilder) transform(ds *entities.Dataset) *entities.GraphDocument {
	doc := &entities.GraphDocument{
		Title: ds.Title,
		Nodes: make([]entities.Node, 0, len(ds.Entities)),
		Edges: make([]entities.Edge, 0, len(ds.Relationships)),
		Config: entities.DocumentConfig{
			Legend:       []string{},
			LegendStyles: []entities.LegendEntry{},
			Categories:   []entities.Category{},
			Groups:       []string{},
			Directed:     b.cfg.Directed,
			Layout:       b.cfg.Layout,
		},
	}

	seenCategory := make(map[entities.Category]bool)
	seenGroup := make(map[string]bool)
	for i := range ds.Entities {
		e := &ds.Entities[i]
		doc.Nodes = append(doc.Nodes, b.node(e))

		if !seenCategory[e.Category] {
			seenCategory[e.Category] = true
			doc.Config.Categories = append(doc.Config.Categories, e.Category)
		}
		if e.Group != "" && !seenGroup[e.Group] {
			seenGroup[e.Group] = true
			doc.Config.Groups = append(doc.Config.Groups, e.Group)
		}
	}

	seenType := make(map[string]bool)
	for i := range ds.Relationships {
		r := &ds.Relationships[i]
		doc.Edges = append(doc.Edges, b.edge(i, r))

		if !seenType[r.Type] {
			seenType[r.Type] = true
			style := b.cfg.typeStyle(r.Type)
			doc.Config.Legend = append(doc.Config.Legend, r.Type)
			doc.Config.LegendStyles = append(doc.Config.LegendStyles, entities.LegendEntry{
				Type:  r.Type,
				Label: b.cfg.label(r.Type),
				Color: style.Color,
				Width: style.Width,
			})
		}
	}

	return doc
}

func (b *GraphBuilder) node(e *entities.Entity) entities.Node {
	style := b.cfg.nodeStyle(e)
	return entities.Node{
		ID:       e.ID,
		Label:    e.Label,
		Category: e.Category,
		Group:    e.Group,
		Color:    style.Color,
		Shape:    style.Shape,
		Size:     style.Size,
		Image:    e.Style.Image,
		Title:    nodeTitle(e),
		URL:      e.URL,
	}
}

func (b *GraphBuilder) edge(i int, r *entities.Relationship) entities.Edge {
	style := b.cfg.edgeStyle(r)
	label := b.cfg.label(r.Type)

	edge := entities.Edge{
		ID:     edgeID(i, r),
		Source: r.Source,
		Target: r.Target,
		Type:   r.Type,
		Label:  label,
		Color:  style.Color,
		Width:  style.Width,
		Dashes: r.Style.Dashes,
		Title:  firstNonEmpty(r.Description, label),
	}
	if r.IsDirected(b.cfg.Directed) {
		edge.Arrows = "to"
	}
	return edge
}

// edgeID derives a stable id from the edge's position and endpoints.
// Position is part of the name so that parallel edges stay distinct.
func edgeID(i int, r *entities.Relationship) string {
	name := fmt.Sprintf("%d\x00%s\x00%s\x00%s", i, r.Source, r.Target, r.Type)
	return uuid.NewSHA1(edgeNamespace, []byte(name)).String()
}

// nodeTitle renders the tooltip text of an entity. Attributes are listed
// in key order so that the output does not depend on map iteration.
func nodeTitle(e *entities.Entity) string {
	lines := []string{e.Label, "Category: " + string(e.Category)}
	if e.Group != "" {
		lines = append(lines, "Group: "+e.Group)
	}

	keys := make([]string, 0, len(e.Attributes))
	for k := range e.Attributes {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		lines = append(lines, k+": "+e.Attributes[k])
	}

	if e.Description != "" {
		lines = append(lines, "", e.Description)
	}
	return strings.Join(lines, "\n")
}

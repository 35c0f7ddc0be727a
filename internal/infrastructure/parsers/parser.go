// Package parsers reads author-maintained entity and relationship records
// from YAML, JSON and CSV files.
package parsers

import (
	"io"
	"path/filepath"
	"strings"

	"github.com/ersonp/lore-graph/internal/domain/entities"
)

// SourceFile is the on-disk shape of a YAML or JSON input file.
type SourceFile struct {
	Title         string            `yaml:"title,omitempty" json:"title,omitempty"`
	Entities      []RawEntity       `yaml:"entities" json:"entities"`
	Relationships []RawRelationship `yaml:"relationships,omitempty" json:"relationships,omitempty"`
}

// RawEntity represents an entity record before validation.
type RawEntity struct {
	ID          string            `yaml:"id" json:"id"`
	Label       string            `yaml:"label" json:"label"`
	Category    string            `yaml:"category" json:"category" jsonschema:"enum=character,enum=faction"`
	Group       string            `yaml:"group,omitempty" json:"group,omitempty"`
	Description string            `yaml:"description,omitempty" json:"description,omitempty"`
	URL         string            `yaml:"url,omitempty" json:"url,omitempty"`
	Attributes  map[string]string `yaml:"attributes,omitempty" json:"attributes,omitempty"`
	Style       *RawEntityStyle   `yaml:"style,omitempty" json:"style,omitempty"`
	LineNum     int               `yaml:"-" json:"-"` // Line number in source file (set by parser)
}

// RawEntityStyle holds the optional display hints of an entity.
type RawEntityStyle struct {
	Color string `yaml:"color,omitempty" json:"color,omitempty" jsonschema:"pattern=^#([0-9a-fA-F]{3}|[0-9a-fA-F]{6})$"`
	Shape string `yaml:"shape,omitempty" json:"shape,omitempty"`
	Image string `yaml:"image,omitempty" json:"image,omitempty"`
	Size  int    `yaml:"size,omitempty" json:"size,omitempty" jsonschema:"minimum=0"`
}

// RawRelationship represents a relationship record before validation.
type RawRelationship struct {
	Source      string                `yaml:"source" json:"source"`
	Target      string                `yaml:"target" json:"target"`
	Type        string                `yaml:"type" json:"type"`
	Description string                `yaml:"description,omitempty" json:"description,omitempty"`
	Directed    *bool                 `yaml:"directed,omitempty" json:"directed,omitempty"`
	Style       *RawRelationshipStyle `yaml:"style,omitempty" json:"style,omitempty"`
	LineNum     int                   `yaml:"-" json:"-"`
}

// RawRelationshipStyle holds the optional display hints of a relationship.
type RawRelationshipStyle struct {
	Color  string `yaml:"color,omitempty" json:"color,omitempty" jsonschema:"pattern=^#([0-9a-fA-F]{3}|[0-9a-fA-F]{6})$"`
	Width  int    `yaml:"width,omitempty" json:"width,omitempty" jsonschema:"minimum=0"`
	Dashes bool   `yaml:"dashes,omitempty" json:"dashes,omitempty"`
}

// Parser defines the interface for parsing records from various formats.
type Parser interface {
	Parse(r io.Reader) (*SourceFile, error)
}

// ForFormat returns the appropriate parser for the given format.
// Supported formats: "yaml", "json", "csv".
func ForFormat(format string) Parser {
	switch strings.ToLower(format) {
	case "yaml", "yml":
		return &YAMLParser{}
	case "json":
		return &JSONParser{}
	case "csv":
		return &CSVParser{}
	default:
		return nil
	}
}

// ForFile returns the appropriate parser based on file extension.
func ForFile(filename string) Parser {
	return ForFormat(strings.TrimPrefix(filepath.Ext(filename), "."))
}

// Dataset converts the parsed records into domain records. Identifiers
// and relationship types are trimmed; everything else is carried over as
// written.
func (f *SourceFile) Dataset() *entities.Dataset {
	ds := &entities.Dataset{
		Title:         f.Title,
		Entities:      make([]entities.Entity, 0, len(f.Entities)),
		Relationships: make([]entities.Relationship, 0, len(f.Relationships)),
	}

	for i := range f.Entities {
		raw := &f.Entities[i]
		e := entities.Entity{
			ID:          entities.NormalizeID(raw.ID),
			Label:       raw.Label,
			Category:    entities.Category(raw.Category),
			Group:       raw.Group,
			Description: raw.Description,
			URL:         raw.URL,
			Attributes:  raw.Attributes,
			Line:        raw.LineNum,
		}
		if raw.Style != nil {
			e.Style = entities.EntityStyle{
				Color: raw.Style.Color,
				Shape: raw.Style.Shape,
				Image: raw.Style.Image,
				Size:  raw.Style.Size,
			}
		}
		ds.Entities = append(ds.Entities, e)
	}

	for i := range f.Relationships {
		raw := &f.Relationships[i]
		r := entities.Relationship{
			Source:      entities.NormalizeID(raw.Source),
			Target:      entities.NormalizeID(raw.Target),
			Type:        entities.NormalizeType(raw.Type),
			Description: raw.Description,
			Directed:    raw.Directed,
			Line:        raw.LineNum,
		}
		if raw.Style != nil {
			r.Style = entities.RelationshipStyle{
				Color:  raw.Style.Color,
				Width:  raw.Style.Width,
				Dashes: raw.Style.Dashes,
			}
		}
		ds.Relationships = append(ds.Relationships, r)
	}

	return ds
}

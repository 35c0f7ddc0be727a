package parsers

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// attributePrefix marks CSV columns that carry entity attributes, e.g.
// "attr.Race".
const attributePrefix = "attr."

// CSVParser parses records from CSV format. Entities and relationships
// share one table; the "record" column says which a row is.
// Entity columns: id, label, category, group, description, url, color,
// shape, image, size, attr.*
// Relationship columns: source, target, type, description, color, width,
// dashes, directed
type CSVParser struct{}

// Parse reads CSV from the reader and returns parsed records.
func (p *CSVParser) Parse(r io.Reader) (*SourceFile, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	colIndex, err := p.readHeader(reader)
	if err != nil {
		return nil, err
	}

	return p.readRecords(reader, colIndex)
}

// readHeader reads and validates the CSV header row.
func (p *CSVParser) readHeader(reader *csv.Reader) (map[string]int, error) {
	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("reading CSV header: %w", err)
	}

	colIndex := make(map[string]int)
	for i, col := range header {
		colIndex[strings.TrimSpace(col)] = i
	}

	if _, ok := colIndex["record"]; !ok {
		return nil, fmt.Errorf("missing required column: record")
	}

	return colIndex, nil
}

// readRecords reads all data rows and sorts them into entities and
// relationships, keeping row order within each.
func (p *CSVParser) readRecords(reader *csv.Reader, colIndex map[string]int) (*SourceFile, error) {
	file := &SourceFile{}
	lineNum := 1 // Header is line 1

	for {
		lineNum++
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNum, err)
		}

		switch kind := getColumn(record, colIndex, "record"); kind {
		case "entity":
			entity, err := p.parseEntity(record, colIndex, lineNum)
			if err != nil {
				return nil, err
			}
			file.Entities = append(file.Entities, entity)
		case "relationship":
			rel, err := p.parseRelationship(record, colIndex, lineNum)
			if err != nil {
				return nil, err
			}
			file.Relationships = append(file.Relationships, rel)
		default:
			return nil, fmt.Errorf("line %d: invalid record kind %q (valid: entity, relationship)", lineNum, kind)
		}
	}

	return file, nil
}

// parseEntity converts a CSV row to a RawEntity.
func (p *CSVParser) parseEntity(record []string, colIndex map[string]int, lineNum int) (RawEntity, error) {
	entity := RawEntity{
		ID:          getColumn(record, colIndex, "id"),
		Label:       getColumn(record, colIndex, "label"),
		Category:    getColumn(record, colIndex, "category"),
		Group:       getColumn(record, colIndex, "group"),
		Description: getColumn(record, colIndex, "description"),
		URL:         getColumn(record, colIndex, "url"),
		LineNum:     lineNum,
	}

	style := RawEntityStyle{
		Color: getColumn(record, colIndex, "color"),
		Shape: getColumn(record, colIndex, "shape"),
		Image: getColumn(record, colIndex, "image"),
	}
	size, err := getInt(record, colIndex, "size", lineNum)
	if err != nil {
		return RawEntity{}, err
	}
	style.Size = size
	if style != (RawEntityStyle{}) {
		entity.Style = &style
	}

	for col, idx := range colIndex {
		if !strings.HasPrefix(col, attributePrefix) || idx >= len(record) || record[idx] == "" {
			continue
		}
		if entity.Attributes == nil {
			entity.Attributes = make(map[string]string)
		}
		entity.Attributes[strings.TrimPrefix(col, attributePrefix)] = record[idx]
	}

	return entity, nil
}

// parseRelationship converts a CSV row to a RawRelationship.
func (p *CSVParser) parseRelationship(record []string, colIndex map[string]int, lineNum int) (RawRelationship, error) {
	rel := RawRelationship{
		Source:      getColumn(record, colIndex, "source"),
		Target:      getColumn(record, colIndex, "target"),
		Type:        getColumn(record, colIndex, "type"),
		Description: getColumn(record, colIndex, "description"),
		LineNum:     lineNum,
	}

	style := RawRelationshipStyle{Color: getColumn(record, colIndex, "color")}
	width, err := getInt(record, colIndex, "width", lineNum)
	if err != nil {
		return RawRelationship{}, err
	}
	style.Width = width
	if dashes := getColumn(record, colIndex, "dashes"); dashes != "" {
		b, err := strconv.ParseBool(dashes)
		if err != nil {
			return RawRelationship{}, fmt.Errorf("line %d: invalid dashes value %q: %w", lineNum, dashes, err)
		}
		style.Dashes = b
	}
	if style != (RawRelationshipStyle{}) {
		rel.Style = &style
	}

	if directed := getColumn(record, colIndex, "directed"); directed != "" {
		b, err := strconv.ParseBool(directed)
		if err != nil {
			return RawRelationship{}, fmt.Errorf("line %d: invalid directed value %q: %w", lineNum, directed, err)
		}
		rel.Directed = &b
	}

	return rel, nil
}

// getColumn safely retrieves a column value from a record.
func getColumn(record []string, colIndex map[string]int, col string) string {
	if idx, ok := colIndex[col]; ok && idx < len(record) {
		return strings.TrimSpace(record[idx])
	}
	return ""
}

// getInt reads an optional integer column.
func getInt(record []string, colIndex map[string]int, col string, lineNum int) (int, error) {
	s := getColumn(record, colIndex, col)
	if s == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("line %d: invalid %s value %q: %w", lineNum, col, s, err)
	}
	return n, nil
}

package parsers

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// YAMLParser parses records from YAML format. Unknown keys are rejected.
type YAMLParser struct{}

// yamlLines captures the position of each record for error messages.
type yamlLines struct {
	Entities      []yaml.Node `yaml:"entities"`
	Relationships []yaml.Node `yaml:"relationships"`
}

// Parse reads YAML from the reader and returns the parsed records with
// their source line numbers set.
func (p *YAMLParser) Parse(r io.Reader) (*SourceFile, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading YAML: %w", err)
	}

	file := &SourceFile{}
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(file); err != nil {
		if errors.Is(err, io.EOF) {
			return file, nil
		}
		return nil, fmt.Errorf("parsing YAML: %w", err)
	}
	if err := expectEnd(decoder); err != nil {
		return nil, err
	}

	var lines yamlLines
	if err := yaml.Unmarshal(data, &lines); err != nil {
		return nil, fmt.Errorf("parsing YAML: %w", err)
	}
	for i := range file.Entities {
		if i < len(lines.Entities) {
			file.Entities[i].LineNum = lines.Entities[i].Line
		}
	}
	for i := range file.Relationships {
		if i < len(lines.Relationships) {
			file.Relationships[i].LineNum = lines.Relationships[i].Line
		}
	}

	return file, nil
}

// expectEnd fails when the stream holds another non-empty document after
// the one already decoded.
func expectEnd(decoder *yaml.Decoder) error {
	var extra yaml.Node
	err := decoder.Decode(&extra)
	if errors.Is(err, io.EOF) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("parsing YAML: %w", err)
	}
	if isEmptyDocument(&extra) {
		return expectEnd(decoder)
	}
	return fmt.Errorf("parsing YAML: unexpected data after document (line %d)", extra.Line)
}

func isEmptyDocument(n *yaml.Node) bool {
	if len(n.Content) == 0 {
		return true
	}
	if len(n.Content) == 1 {
		c := n.Content[0]
		return c.Kind == yaml.ScalarNode && c.Tag == "!!null" && c.Value == ""
	}
	return false
}

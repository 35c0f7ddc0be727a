package parsers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// JSONParser parses records from JSON format. Unknown keys are rejected.
type JSONParser struct{}

// Parse reads JSON from the reader and returns the parsed records.
func (p *JSONParser) Parse(r io.Reader) (*SourceFile, error) {
	file := &SourceFile{}

	decoder := json.NewDecoder(r)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(file); err != nil {
		return nil, fmt.Errorf("parsing JSON: %w", err)
	}
	if _, err := decoder.Token(); !errors.Is(err, io.EOF) {
		return nil, errors.New("parsing JSON: unexpected data after document")
	}

	return file, nil
}

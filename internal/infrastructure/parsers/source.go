package parsers

import (
	"bytes"
	"context"
	"fmt"
	"os"

	"github.com/ersonp/lore-graph/internal/domain/entities"
)

// FileSource loads a dataset from a YAML, JSON or CSV file.
type FileSource struct {
	path   string
	parser Parser
}

// NewFileSource picks a parser from the file extension.
func NewFileSource(path string) (*FileSource, error) {
	parser := ForFile(path)
	if parser == nil {
		return nil, fmt.Errorf("unsupported format for file: %s", path)
	}
	return &FileSource{path: path, parser: parser}, nil
}

// Path returns the file the source reads.
func (s *FileSource) Path() string {
	return s.path
}

// Load reads and parses the file. A file that cannot be read yields an
// *entities.IOError; one that cannot be decoded yields a document-level
// validation error.
func (s *FileSource) Load(_ context.Context) (*entities.Dataset, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, &entities.IOError{Op: "reading source", Path: s.path, Err: err}
	}

	file, err := s.parser.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, entities.ValidationErrors{{
			Kind:    entities.RecordDocument,
			Index:   -1,
			Ref:     s.path,
			Message: err.Error(),
		}}
	}

	return file.Dataset(), nil
}

package encoders

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/ersonp/lore-graph/internal/domain/entities"
)

// JSONEncoder writes the document as indented vis-network JSON.
type JSONEncoder struct{}

// Encode writes the document followed by a newline.
func (e *JSONEncoder) Encode(w io.Writer, doc *entities.GraphDocument) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encoding JSON: %w", err)
	}
	return nil
}

// ContentType returns the MIME type of the encoding.
func (e *JSONEncoder) ContentType() string {
	return "application/json; charset=utf-8"
}

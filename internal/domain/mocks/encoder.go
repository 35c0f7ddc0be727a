package mocks

import (
	"io"

	"github.com/ersonp/lore-graph/internal/domain/entities"
)

// Encoder is a mock implementation of ports.Encoder that writes a fixed
// payload.
type Encoder struct {
	Output []byte
	Err    error

	// Call tracking
	EncodeCallCount int
	LastDocument    *entities.GraphDocument
}

// Encode records the document and writes Output.
func (m *Encoder) Encode(w io.Writer, doc *entities.GraphDocument) error {
	m.EncodeCallCount++
	m.LastDocument = doc
	if m.Err != nil {
		return m.Err
	}
	_, err := w.Write(m.Output)
	return err
}

// ContentType returns a generic binary type.
func (m *Encoder) ContentType() string {
	return "application/octet-stream"
}

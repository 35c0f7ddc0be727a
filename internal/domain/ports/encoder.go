package ports

import (
	"io"

	"github.com/ersonp/lore-graph/internal/domain/entities"
)

// Encoder serializes a graph document. Encoding the same document twice
// must produce identical bytes.
type Encoder interface {
	Encode(w io.Writer, doc *entities.GraphDocument) error

	// ContentType is the MIME type of the encoded output.
	ContentType() string
}

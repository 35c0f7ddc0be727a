package encoders

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/ersonp/lore-graph/internal/domain/entities"
	"github.com/ersonp/lore-graph/internal/web"
)

// HTMLEncoder writes a standalone page with the document and front-end
// assets inlined. Only the rendering libraries are fetched from a CDN.
type HTMLEncoder struct{}

// Encode renders the page.
func (e *HTMLEncoder) Encode(w io.Writer, doc *entities.GraphDocument) error {
	// json.Marshal escapes <, > and & so the document cannot close the
	// surrounding script element.
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encoding document: %w", err)
	}

	page, err := web.InlinePage(doc.Title, doc.Config.Layout.Background, data)
	if err != nil {
		return err
	}
	return web.RenderIndex(w, page)
}

// ContentType returns the MIME type of the encoding.
func (e *HTMLEncoder) ContentType() string {
	return "text/html; charset=utf-8"
}

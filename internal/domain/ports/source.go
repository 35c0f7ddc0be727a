// Package ports defines the interfaces the domain uses to reach record
// sources and output encoders.
package ports

import (
	"context"

	"github.com/ersonp/lore-graph/internal/domain/entities"
)

// Source loads author-maintained records. Implementations must return
// records in a stable order so that builds are reproducible.
type Source interface {
	// Load reads the full dataset. Read failures are reported as
	// *entities.IOError and undecodable records as entities.ValidationErrors.
	Load(ctx context.Context) (*entities.Dataset, error)

	// Path returns the location the source reads from, for messages and
	// file watching.
	Path() string
}

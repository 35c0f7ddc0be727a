// Package encoders turns a graph document into its output formats.
package encoders

import (
	"fmt"
	"strings"

	"github.com/ersonp/lore-graph/internal/domain/ports"
)

// Formats lists the supported output formats.
var Formats = []string{"json", "gml", "html"}

// ForFormat returns the encoder for the given format name.
func ForFormat(format string) (ports.Encoder, error) {
	switch strings.ToLower(format) {
	case "json":
		return &JSONEncoder{}, nil
	case "gml":
		return &GMLEncoder{}, nil
	case "html":
		return &HTMLEncoder{}, nil
	default:
		return nil, fmt.Errorf("unsupported output format %q (valid: %s)", format, strings.Join(Formats, ", "))
	}
}

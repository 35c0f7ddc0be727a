package handlers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/ersonp/lore-graph/internal/domain/entities"
	"github.com/ersonp/lore-graph/internal/domain/ports"
	"github.com/ersonp/lore-graph/internal/domain/services"
	"github.com/ersonp/lore-graph/internal/infrastructure/metrics"
)

// BuildHandler runs the load, build, encode and write pipeline.
type BuildHandler struct {
	builder *services.GraphBuilder
	metrics metrics.Recorder
	logger  *log.Logger

	// title is used when the dataset carries none.
	title string
}

// NewBuildHandler creates a new build handler.
func NewBuildHandler(builder *services.GraphBuilder, rec metrics.Recorder, logger *log.Logger) *BuildHandler {
	if rec == nil {
		rec = metrics.Noop{}
	}
	return &BuildHandler{
		builder: builder,
		metrics: rec,
		logger:  logger,
	}
}

// WithTitle sets the fallback document title.
func (h *BuildHandler) WithTitle(title string) *BuildHandler {
	h.title = title
	return h
}

// BuildResult contains the result of a build written to a file.
type BuildResult struct {
	Path  string
	Nodes int
	Edges int
}

// Build loads the source and produces its graph document. Load errors
// are returned as the source reported them; validation problems come
// back as entities.ValidationErrors.
func (h *BuildHandler) Build(ctx context.Context, src ports.Source) (doc *entities.GraphDocument, err error) {
	done := metrics.TimeBuild(h.metrics)
	defer func() { done(err == nil) }()

	h.logger.Debug("loading records", "source", src.Path())
	ds, err := src.Load(ctx)
	if err != nil {
		return nil, err
	}
	if ds != nil && ds.Title == "" {
		ds.Title = h.title
	}

	doc, err = h.builder.Build(ds)
	if err != nil {
		var verrs entities.ValidationErrors
		if errors.As(err, &verrs) {
			h.logger.Debug("validation failed", "source", src.Path(), "problems", len(verrs))
		}
		return nil, err
	}

	h.metrics.SetGraphSize(len(doc.Nodes), len(doc.Edges))
	h.logger.Debug("graph built", "source", src.Path(), "nodes", len(doc.Nodes), "edges", len(doc.Edges))
	return doc, nil
}

// Validate builds without emitting and returns the summary of the
// document that would be produced.
func (h *BuildHandler) Validate(ctx context.Context, src ports.Source) (*services.Summary, error) {
	doc, err := h.Build(ctx, src)
	if err != nil {
		return nil, err
	}
	return services.Summarize(doc), nil
}

// Handle builds the source and writes the encoded document to outPath.
func (h *BuildHandler) Handle(ctx context.Context, src ports.Source, enc ports.Encoder, outPath string) (*BuildResult, error) {
	doc, err := h.Build(ctx, src)
	if err != nil {
		return nil, err
	}

	if err := WriteFile(outPath, enc, doc); err != nil {
		return nil, err
	}

	h.logger.Debug("document written", "path", outPath, "content_type", enc.ContentType())
	return &BuildResult{
		Path:  outPath,
		Nodes: len(doc.Nodes),
		Edges: len(doc.Edges),
	}, nil
}

// Encode writes the encoded document to w.
func Encode(w io.Writer, enc ports.Encoder, doc *entities.GraphDocument) error {
	if err := enc.Encode(w, doc); err != nil {
		return fmt.Errorf("encoding document: %w", err)
	}
	return nil
}

// WriteFile encodes the document into a temporary file next to path and
// renames it into place, so readers never see a partial document.
func WriteFile(path string, enc ports.Encoder, doc *entities.GraphDocument) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return &entities.IOError{Op: "creating output directory", Path: dir, Err: err}
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return &entities.IOError{Op: "writing output", Path: path, Err: err}
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath) //nolint:errcheck // no-op after a successful rename

	if err := Encode(tmp, enc, doc); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return &entities.IOError{Op: "writing output", Path: path, Err: err}
	}
	if err := os.Chmod(tmpPath, 0644); err != nil {
		return &entities.IOError{Op: "writing output", Path: path, Err: err}
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return &entities.IOError{Op: "writing output", Path: path, Err: err}
	}
	return nil
}

// Package handlers contains application use case handlers.
package handlers

import (
	"context"
	"fmt"

	"github.com/ersonp/lore-graph/internal/infrastructure/config"
)

// InitHandler handles project initialization.
type InitHandler struct{}

// NewInitHandler creates a new init handler.
func NewInitHandler() *InitHandler {
	return &InitHandler{}
}

// InitResult contains the result of initialization.
type InitResult struct {
	ConfigPath string
	DataPath   string
	// DataWritten is false when a record file already existed.
	DataWritten bool
}

// Handle writes the default config and a sample record file.
func (h *InitHandler) Handle(_ context.Context, basePath string) (*InitResult, error) {
	if config.Exists(basePath) {
		return nil, fmt.Errorf("loregraph already initialized in %s", basePath)
	}

	if err := config.WriteDefault(basePath); err != nil {
		return nil, fmt.Errorf("writing default config: %w", err)
	}

	cfg, err := config.Load(basePath)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	written, err := config.WriteSampleData(basePath, cfg.Input)
	if err != nil {
		return nil, fmt.Errorf("writing sample data: %w", err)
	}

	return &InitResult{
		ConfigPath:  config.ConfigFilePath(basePath),
		DataPath:    cfg.Input,
		DataWritten: written,
	}, nil
}

package mocks

import (
	"context"

	"github.com/ersonp/lore-graph/internal/domain/entities"
)

// Source is a mock implementation of ports.Source.
type Source struct {
	Dataset  *entities.Dataset
	Err      error
	Location string

	// Call tracking
	LoadCallCount int
}

// Load returns the configured dataset or error.
func (m *Source) Load(_ context.Context) (*entities.Dataset, error) {
	m.LoadCallCount++
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Dataset, nil
}

// Path returns the configured location.
func (m *Source) Path() string {
	if m.Location == "" {
		return "mock"
	}
	return m.Location
}

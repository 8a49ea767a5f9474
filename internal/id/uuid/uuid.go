// Package uuid generates request identifiers.
package uuid

import (
	"fmt"

	"github.com/google/uuid"
)

// Generator creates UUID v7 strings, which sort by creation time in logs.
type Generator struct{}

// New creates a new Generator.
func New() *Generator {
	return &Generator{}
}

// NewID returns a UUID7 string.
func (Generator) NewID() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("generate uuid7: %w", err)
	}
	return id.String(), nil
}

// NewIDOrRandom returns a UUID7, degrading to a random v4 if the v7 source fails.
func (g Generator) NewIDOrRandom() string {
	if id, err := g.NewID(); err == nil {
		return id
	}
	return uuid.NewString()
}

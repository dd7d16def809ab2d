// Package uuid generates the IDs assigned to effect instances. The
// interface exists so tests and snapshot restores can supply
// deterministic IDs.
package uuid

import "github.com/google/uuid"

// Generator produces unique effect-instance IDs
type Generator interface {
	New() string
}

// GoogleUUIDGenerator implements Generator with random V4 UUIDs
type GoogleUUIDGenerator struct{}

// NewGoogleUUIDGenerator creates the default generator
func NewGoogleUUIDGenerator() *GoogleUUIDGenerator {
	return &GoogleUUIDGenerator{}
}

// New returns a new random UUID string
func (g *GoogleUUIDGenerator) New() string {
	return uuid.New().String()
}

package account

import "github.com/google/uuid"

// IDGenerator hands out opaque, collision-free identifiers.
type IDGenerator interface {
	NewID() string
}

// UUIDGenerator generates random (version 4) UUIDs.
type UUIDGenerator struct{}

// NewID returns a new UUIDv4 string.
func (UUIDGenerator) NewID() string {
	return uuid.NewString()
}

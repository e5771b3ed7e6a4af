package utils

import (
	"github.com/google/uuid"
)

var newUUIDv7 = uuid.NewV7

// NewID returns a time-ordered (v7) UUID. The ledgers here are append-only
// and usually read in insertion order, so time-ordered keys keep the primary
// key index append-friendly. Falls back to a random v4 if v7 generation
// fails.
func NewID() uuid.UUID {
	id, err := newUUIDv7()
	if err != nil {
		return uuid.New()
	}
	return id
}

// Package id generates identifiers for operator sessions.
// UUIDv7 is time-ordered, so session ids in the log sort by start time.
package id

import "github.com/google/uuid"

type ID = uuid.UUID

// New returns a v7 id, or a random v4 one when v7 generation fails.
func New() ID {
	if v7, err := uuid.NewV7(); err == nil {
		return v7
	}
	return uuid.New()
}

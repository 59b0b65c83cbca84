package domain

import "github.com/google/uuid"

// NewID returns a process-unique identifier for sections and blocks.
// UUIDv7 packs a millisecond timestamp with random bits.
func NewID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New().String()
	}
	return id.String()
}

package uuidx

import "github.com/google/uuid"

// New generates a new v7 UUID. It panics if generation fails.
func New() uuid.UUID {
	return uuid.Must(uuid.NewV7())
}

// NewString generates a new v7 UUID and returns its string form.
func NewString() string {
	return New().String()
}

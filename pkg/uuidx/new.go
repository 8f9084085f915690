package uuidx

import (
	"github.com/google/uuid"
)

// New generates a version 7 UUID. Version 7 ids sort by creation time, which
// keeps run ids in the order runs were started.
// It panics if the random source fails.
func New() uuid.UUID {
	return uuid.Must(uuid.NewV7())
}

// NewString returns New formatted as a canonical UUID string.
func NewString() string {
	return New().String()
}

// ParseOrNil parses s as a UUID and returns uuid.Nil when s is empty or malformed.
func ParseOrNil(s string) uuid.UUID {
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil
	}
	return id
}

// Package id provides opaque identifier generation for sessions and payment
// references.
package id

import "github.com/google/uuid"

// Generator produces unique string identifiers.
type Generator interface {
	NewID() string
}

type uuidGenerator struct{}

func NewUUIDGenerator() Generator {
	return uuidGenerator{}
}

func (uuidGenerator) NewID() string {
	return uuid.NewString()
}

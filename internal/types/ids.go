// Package types holds identifier helpers shared by the storage layer
package types

import "github.com/google/uuid"

// NewID returns a fresh random identifier for a stored entity. Identifiers
// are opaque strings; callers never depend on the encoding.
func NewID() string {
	return uuid.NewString()
}

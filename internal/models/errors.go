package models

import "errors"

// Storage-level errors shared by every repository
var (
	// ErrNotFound indicates that no row matched the requested identifier
	ErrNotFound = errors.New("record not found")

	// ErrConflict indicates that a uniqueness constraint rejected the write
	ErrConflict = errors.New("record already exists")
)

// ErrReferenced indicates that a foreign key rejected the write, either
// because the referenced row is missing or because other rows still point
// at the one being deleted.
var ErrReferenced = errors.New("record is referenced by or references a missing record")

package project

import "errors"

// Domain errors for project service
var (
	// Validation errors
	ErrEmptyName   = errors.New("project name cannot be empty")
	ErrNameTooLong = errors.New("project name cannot exceed 100 characters")
	ErrKeyTooLong  = errors.New("project key cannot exceed 10 characters")

	// Business logic errors
	ErrProjectNotFound = errors.New("project not found")
)

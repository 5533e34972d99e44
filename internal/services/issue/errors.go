package issue

import "errors"

// Issue-related errors
var (
	// Validation errors
	ErrEmptyTitle      = errors.New("issue title cannot be empty")
	ErrTitleTooLong    = errors.New("issue title cannot exceed 255 characters")
	ErrInvalidType     = errors.New("issue type must be Bug, Task or Story")
	ErrInvalidStatus   = errors.New("issue status must be To Do, In Progress or Done")
	ErrInvalidPriority = errors.New("issue priority must be Low, Medium or High")
	ErrMissingProject  = errors.New("projectId is required")
	ErrMissingReporter = errors.New("reporterId is required")

	// Business logic errors
	ErrIssueNotFound    = errors.New("issue not found")
	ErrProjectNotFound  = errors.New("project not found")
	ErrReporterNotFound = errors.New("reporter not found")
	ErrAssigneeNotFound = errors.New("assignee not found")
)

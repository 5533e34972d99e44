package comment

import "errors"

// Comment-related errors
var (
	// Validation errors
	ErrEmptyContent   = errors.New("comment content cannot be empty")
	ErrContentTooLong = errors.New("comment content cannot exceed 1000 characters")
	ErrMissingIssue   = errors.New("issueId is required")
	ErrMissingUser    = errors.New("userId is required")

	// Business logic errors
	ErrCommentNotFound = errors.New("comment not found")
	ErrIssueNotFound   = errors.New("issue not found")
	ErrUserNotFound    = errors.New("user not found")
)

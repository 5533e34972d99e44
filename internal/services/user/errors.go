package user

import "errors"

// Domain errors for user service
var (
	// Validation errors
	ErrEmptyName           = errors.New("user name cannot be empty")
	ErrNameTooLong         = errors.New("user name cannot exceed 100 characters")
	ErrEmptyEmail          = errors.New("email cannot be empty")
	ErrInvalidEmail        = errors.New("email address is not valid")
	ErrEmptyPassword       = errors.New("password cannot be empty")
	ErrInvalidRole         = errors.New("role must be regular or admin")
	ErrCredentialsRequired = errors.New("email and password are required")

	// Business logic errors
	ErrNameTaken          = errors.New("name already exists, please choose a different name")
	ErrEmailTaken         = errors.New("email already exists, please choose a different email")
	ErrUserNotFound       = errors.New("user not found")
	ErrUserHasReports     = errors.New("cannot delete a user who still reports issues or has comments")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

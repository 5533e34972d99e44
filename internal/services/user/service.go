package user

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"github.com/thenoetrevino/issueboard/internal/auth"
	"github.com/thenoetrevino/issueboard/internal/database"
	"github.com/thenoetrevino/issueboard/internal/events"
	"github.com/thenoetrevino/issueboard/internal/models"
)

// Service defines all user-related business operations
type Service interface {
	// Read operations
	GetAllUsers(ctx context.Context) ([]*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)

	// Write operations
	CreateUser(ctx context.Context, req CreateUserRequest) (*models.User, error)
	UpdateUser(ctx context.Context, req UpdateUserRequest) (*models.User, error)
	DeleteUser(ctx context.Context, id string) error

	// Authenticate returns the user whose email and password match
	Authenticate(ctx context.Context, email, password string) (*models.User, error)
}

// CreateUserRequest encapsulates data for registering a user
type CreateUserRequest struct {
	Name     string
	Email    string
	Password string
	Avatar   *string
	Role     models.Role // Optional: empty means regular
}

// UpdateUserRequest encapsulates data for updating a user.
// Fields with pointers are optional - nil means don't update
type UpdateUserRequest struct {
	ID       string
	Name     *string
	Email    *string
	Password *string
	Avatar   *string
	Role     *models.Role
}

// repository defines the data access methods needed by the user service
type repository interface {
	CreateUser(ctx context.Context, name, email, passwordHash string, avatar *string, role models.Role) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	FindUserByNameOrEmail(ctx context.Context, name, email, excludeID string) (*models.User, error)
	GetAllUsers(ctx context.Context) ([]*models.User, error)
	UpdateUser(ctx context.Context, id string, patch database.UserPatch) (*models.User, error)
	DeleteUser(ctx context.Context, id string) error
}

// service implements Service interface with private repository
type service struct {
	repo        repository
	eventClient events.EventPublisher
}

// NewService creates a new user service
func NewService(repo repository, eventClient events.EventPublisher) Service {
	return &service{
		repo:        repo,
		eventClient: eventClient,
	}
}

// GetAllUsers retrieves all users
func (s *service) GetAllUsers(ctx context.Context) ([]*models.User, error) {
	return s.repo.GetAllUsers(ctx)
}

// GetUserByID retrieves a specific user
func (s *service) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	u, err := s.repo.GetUserByID(ctx, id)
	if err != nil {
		return nil, notFound(err)
	}
	return u, nil
}

// CreateUser registers a user after checking that name and email are free
func (s *service) CreateUser(ctx context.Context, req CreateUserRequest) (*models.User, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	if req.Role == "" {
		req.Role = models.DefaultRole
	}
	if err := s.validateCreateUser(req); err != nil {
		return nil, err
	}

	if err := s.checkAvailable(ctx, "", req.Name, req.Email); err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	u, err := s.repo.CreateUser(ctx, req.Name, req.Email, hash, req.Avatar, req.Role)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.publishUserEvent(ctx, events.OpCreated, u.ID)
	return u, nil
}

// UpdateUser applies the provided fields to an existing user
func (s *service) UpdateUser(ctx context.Context, req UpdateUserRequest) (*models.User, error) {
	if err := s.validateUpdateUser(req); err != nil {
		return nil, err
	}

	existing, err := s.repo.GetUserByID(ctx, req.ID)
	if err != nil {
		return nil, notFound(err)
	}

	name, email := existing.Name, existing.Email
	if req.Name != nil {
		name = strings.TrimSpace(*req.Name)
	}
	if req.Email != nil {
		email = strings.TrimSpace(*req.Email)
	}
	if name != existing.Name || email != existing.Email {
		if err := s.checkAvailable(ctx, req.ID, name, email); err != nil {
			return nil, err
		}
	}

	patch := database.UserPatch{Avatar: req.Avatar, Role: req.Role}
	if req.Name != nil {
		patch.Name = &name
	}
	if req.Email != nil {
		patch.Email = &email
	}
	if req.Password != nil {
		hash, err := auth.HashPassword(*req.Password)
		if err != nil {
			return nil, err
		}
		patch.PasswordHash = &hash
	}

	u, err := s.repo.UpdateUser(ctx, req.ID, patch)
	if err != nil {
		return nil, fmt.Errorf("failed to update user: %w", notFound(err))
	}

	s.publishUserEvent(ctx, events.OpUpdated, u.ID)
	return u, nil
}

// DeleteUser removes a user. Issues assigned to them become unassigned.
func (s *service) DeleteUser(ctx context.Context, id string) error {
	if err := s.repo.DeleteUser(ctx, id); err != nil {
		if errors.Is(err, models.ErrReferenced) {
			return ErrUserHasReports
		}
		return notFound(err)
	}
	s.publishUserEvent(ctx, events.OpDeleted, id)
	return nil
}

// Authenticate checks a login attempt. Unknown emails and wrong passwords
// return the same error.
func (s *service) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, ErrCredentialsRequired
	}

	u, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	if err := auth.CheckPassword(u.PasswordHash, password); err != nil {
		return nil, ErrInvalidCredentials
	}
	return u, nil
}

// checkAvailable reports which of name or email already belongs to a user
// other than selfID.
func (s *service) checkAvailable(ctx context.Context, selfID, name, email string) error {
	existing, err := s.repo.FindUserByNameOrEmail(ctx, name, email, selfID)
	if errors.Is(err, models.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to check existing users: %w", err)
	}
	if existing.Name == name {
		return ErrNameTaken
	}
	return ErrEmailTaken
}

// validateCreateUser validates a CreateUserRequest
func (s *service) validateCreateUser(req CreateUserRequest) error {
	if err := validateName(req.Name); err != nil {
		return err
	}
	if err := validateEmail(req.Email); err != nil {
		return err
	}
	if req.Password == "" {
		return ErrEmptyPassword
	}
	if !req.Role.Valid() {
		return ErrInvalidRole
	}
	return nil
}

// validateUpdateUser validates an UpdateUserRequest
func (s *service) validateUpdateUser(req UpdateUserRequest) error {
	if req.Name != nil {
		if err := validateName(strings.TrimSpace(*req.Name)); err != nil {
			return err
		}
	}
	if req.Email != nil {
		if err := validateEmail(strings.TrimSpace(*req.Email)); err != nil {
			return err
		}
	}
	if req.Password != nil && *req.Password == "" {
		return ErrEmptyPassword
	}
	if req.Role != nil && !req.Role.Valid() {
		return ErrInvalidRole
	}
	return nil
}

func validateName(name string) error {
	if name == "" {
		return ErrEmptyName
	}
	if len(name) > 100 {
		return ErrNameTooLong
	}
	return nil
}

func validateEmail(email string) error {
	if email == "" {
		return ErrEmptyEmail
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return ErrInvalidEmail
	}
	return nil
}

func notFound(err error) error {
	if errors.Is(err, models.ErrNotFound) {
		return ErrUserNotFound
	}
	return err
}

// publishUserEvent publishes a user event. Failures are logged inside
// PublishWithRetry and never fail the write.
func (s *service) publishUserEvent(ctx context.Context, op events.Op, userID string) {
	if s.eventClient == nil {
		return
	}
	_ = events.PublishWithRetry(ctx, s.eventClient, events.Event{
		Type:     events.EventUserChanged,
		Op:       op,
		EntityID: userID,
	}, 3)
}

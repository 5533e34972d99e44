package comment

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/thenoetrevino/issueboard/internal/events"
	"github.com/thenoetrevino/issueboard/internal/models"
)

// maxContentLength is the longest comment accepted, in characters
const maxContentLength = 1000

// Service defines all comment-related business operations
type Service interface {
	// Read operations
	GetAllComments(ctx context.Context) ([]*models.Comment, error)
	GetCommentByID(ctx context.Context, id string) (*models.Comment, error)
	GetCommentsByIssue(ctx context.Context, issueID string) ([]*models.Comment, error)
	GetCommentsByProject(ctx context.Context, projectID string) ([]*models.Comment, error)

	// Write operations
	CreateComment(ctx context.Context, req CreateCommentRequest) (*models.Comment, error)
	UpdateComment(ctx context.Context, id, content string) (*models.Comment, error)
	DeleteComment(ctx context.Context, id string) error
}

// CreateCommentRequest encapsulates data for creating a comment
type CreateCommentRequest struct {
	IssueID string
	UserID  string
	Content string
}

// repository defines the data access methods needed by the comment service
type repository interface {
	CreateComment(ctx context.Context, issueID, userID, content string) (*models.Comment, error)
	GetCommentByID(ctx context.Context, id string) (*models.Comment, error)
	ListComments(ctx context.Context) ([]*models.Comment, error)
	ListCommentsByIssue(ctx context.Context, issueID string) ([]*models.Comment, error)
	ListCommentsByProject(ctx context.Context, projectID string) ([]*models.Comment, error)
	UpdateComment(ctx context.Context, id, content string) (*models.Comment, error)
	DeleteComment(ctx context.Context, id string) error

	// Reference checks
	GetIssueByID(ctx context.Context, id string) (*models.Issue, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
}

// service implements Service interface
type service struct {
	repo        repository
	eventClient events.EventPublisher
}

// NewService creates a new comment service
func NewService(repo repository, eventClient events.EventPublisher) Service {
	return &service{
		repo:        repo,
		eventClient: eventClient,
	}
}

func (s *service) GetAllComments(ctx context.Context) ([]*models.Comment, error) {
	return s.repo.ListComments(ctx)
}

func (s *service) GetCommentByID(ctx context.Context, id string) (*models.Comment, error) {
	c, err := s.repo.GetCommentByID(ctx, id)
	if err != nil {
		return nil, notFound(err, ErrCommentNotFound)
	}
	return c, nil
}

func (s *service) GetCommentsByIssue(ctx context.Context, issueID string) ([]*models.Comment, error) {
	return s.repo.ListCommentsByIssue(ctx, issueID)
}

func (s *service) GetCommentsByProject(ctx context.Context, projectID string) ([]*models.Comment, error) {
	return s.repo.ListCommentsByProject(ctx, projectID)
}

// CreateComment adds a comment to an existing issue
func (s *service) CreateComment(ctx context.Context, req CreateCommentRequest) (*models.Comment, error) {
	content, err := validateContent(req.Content)
	if err != nil {
		return nil, err
	}
	if req.IssueID == "" {
		return nil, ErrMissingIssue
	}
	if req.UserID == "" {
		return nil, ErrMissingUser
	}

	issue, err := s.repo.GetIssueByID(ctx, req.IssueID)
	if err != nil {
		return nil, notFound(err, ErrIssueNotFound)
	}
	if _, err := s.repo.GetUserByID(ctx, req.UserID); err != nil {
		return nil, notFound(err, ErrUserNotFound)
	}

	c, err := s.repo.CreateComment(ctx, req.IssueID, req.UserID, content)
	if err != nil {
		return nil, fmt.Errorf("failed to create comment: %w", err)
	}

	s.publishCommentEvent(ctx, events.OpCreated, issue.ProjectID, c.ID)
	return c, nil
}

// UpdateComment replaces the content of a comment
func (s *service) UpdateComment(ctx context.Context, id, content string) (*models.Comment, error) {
	content, err := validateContent(content)
	if err != nil {
		return nil, err
	}

	c, err := s.repo.UpdateComment(ctx, id, content)
	if err != nil {
		return nil, notFound(err, ErrCommentNotFound)
	}

	s.publishCommentEvent(ctx, events.OpUpdated, s.projectOf(ctx, c.IssueID), c.ID)
	return c, nil
}

// DeleteComment removes a comment
func (s *service) DeleteComment(ctx context.Context, id string) error {
	existing, err := s.repo.GetCommentByID(ctx, id)
	if err != nil {
		return notFound(err, ErrCommentNotFound)
	}
	if err := s.repo.DeleteComment(ctx, id); err != nil {
		return notFound(err, ErrCommentNotFound)
	}

	s.publishCommentEvent(ctx, events.OpDeleted, s.projectOf(ctx, existing.IssueID), id)
	return nil
}

// projectOf returns the project of an issue, or "" when it cannot be loaded
func (s *service) projectOf(ctx context.Context, issueID string) string {
	issue, err := s.repo.GetIssueByID(ctx, issueID)
	if err != nil {
		return ""
	}
	return issue.ProjectID
}

// validateContent trims content and enforces the length limit
func validateContent(content string) (string, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return "", ErrEmptyContent
	}
	if utf8.RuneCountInString(content) > maxContentLength {
		return "", ErrContentTooLong
	}
	return content, nil
}

func notFound(err, sentinel error) error {
	if errors.Is(err, models.ErrNotFound) {
		return sentinel
	}
	return err
}

// publishCommentEvent publishes a comment event
func (s *service) publishCommentEvent(ctx context.Context, op events.Op, projectID, commentID string) {
	if s.eventClient == nil {
		return
	}
	_ = events.PublishWithRetry(ctx, s.eventClient, events.Event{
		Type:      events.EventCommentChanged,
		Op:        op,
		ProjectID: projectID,
		EntityID:  commentID,
	}, 3)
}

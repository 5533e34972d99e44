package issue

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/thenoetrevino/issueboard/internal/board"
	"github.com/thenoetrevino/issueboard/internal/database"
	"github.com/thenoetrevino/issueboard/internal/events"
	"github.com/thenoetrevino/issueboard/internal/models"
)

// Service defines all issue-related business operations
type Service interface {
	// Read operations
	GetAllIssues(ctx context.Context) ([]*models.Issue, error)
	GetIssueByID(ctx context.Context, id string) (*models.Issue, error)
	GetIssuesByProject(ctx context.Context, projectID string) ([]*models.Issue, error)

	// Board groups a project's issues into status lanes after applying filter
	Board(ctx context.Context, projectID string, filter board.Filter) (board.Lanes, error)

	// Write operations
	CreateIssue(ctx context.Context, req CreateIssueRequest) (*models.Issue, error)
	UpdateIssue(ctx context.Context, req UpdateIssueRequest) (*models.Issue, error)
	DeleteIssue(ctx context.Context, id string) error
}

// CreateIssueRequest encapsulates all data needed to create an issue
type CreateIssueRequest struct {
	Title       string
	Description string
	Type        models.IssueType // Optional: empty means Task
	Status      models.Status    // Optional: empty means To Do
	Priority    models.Priority  // Optional: empty means Medium
	Code        string           // Optional: generated from Title when empty
	ProjectID   string
	AssigneeID  *string
	ReporterID  string
}

// UpdateIssueRequest encapsulates all data needed to update an issue.
// Fields with pointers are optional - nil means don't update.
// AssigneeID pointing at "" removes the assignee.
type UpdateIssueRequest struct {
	ID          string
	Title       *string
	Description *string
	Type        *models.IssueType
	Status      *models.Status
	Priority    *models.Priority
	Code        *string
	ProjectID   *string
	AssigneeID  *string
}

// Lister loads a project's issues. The repository satisfies it; a cache
// can wrap it.
type Lister interface {
	ListIssuesByProject(ctx context.Context, projectID string) ([]*models.Issue, error)
}

// repository defines the data access methods needed by the issue service
type repository interface {
	Lister
	CreateIssue(ctx context.Context, in database.NewIssue) (*models.Issue, error)
	GetIssueByID(ctx context.Context, id string) (*models.Issue, error)
	ListIssues(ctx context.Context) ([]*models.Issue, error)
	UpdateIssue(ctx context.Context, id string, patch database.IssuePatch) (*models.Issue, error)
	DeleteIssue(ctx context.Context, id string) error

	// Reference checks
	GetProjectByID(ctx context.Context, id string) (*models.Project, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	ListCommentsByIssue(ctx context.Context, issueID string) ([]*models.Comment, error)
}

// Option configures optional service collaborators
type Option func(*service)

// WithLister routes project issue reads through l instead of the repository
func WithLister(l Lister) Option {
	return func(s *service) {
		if l != nil {
			s.lister = l
		}
	}
}

// service implements Service interface
type service struct {
	repo        repository
	lister      Lister
	eventClient events.EventPublisher
	now         func() time.Time
}

// NewService creates a new issue service
func NewService(repo repository, eventClient events.EventPublisher, opts ...Option) Service {
	s := &service{
		repo:        repo,
		lister:      repo,
		eventClient: eventClient,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GetAllIssues retrieves every issue
func (s *service) GetAllIssues(ctx context.Context) ([]*models.Issue, error) {
	return s.repo.ListIssues(ctx)
}

// GetIssueByID retrieves an issue with its comments, oldest first
func (s *service) GetIssueByID(ctx context.Context, id string) (*models.Issue, error) {
	issue, err := s.repo.GetIssueByID(ctx, id)
	if err != nil {
		return nil, notFound(err, ErrIssueNotFound)
	}
	comments, err := s.repo.ListCommentsByIssue(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load comments: %w", err)
	}
	issue.Comments = comments
	return issue, nil
}

// GetIssuesByProject retrieves a project's issues in creation order
func (s *service) GetIssuesByProject(ctx context.Context, projectID string) ([]*models.Issue, error) {
	return s.lister.ListIssuesByProject(ctx, projectID)
}

// Board loads a project's issues and groups them into lanes
func (s *service) Board(ctx context.Context, projectID string, filter board.Filter) (board.Lanes, error) {
	if _, err := s.repo.GetProjectByID(ctx, projectID); err != nil {
		return board.Lanes{}, notFound(err, ErrProjectNotFound)
	}
	issues, err := s.lister.ListIssuesByProject(ctx, projectID)
	if err != nil {
		return board.Lanes{}, fmt.Errorf("failed to load issues: %w", err)
	}
	return board.ComputeLanes(issues, filter), nil
}

// CreateIssue handles issue creation with validation and defaults
func (s *service) CreateIssue(ctx context.Context, req CreateIssueRequest) (*models.Issue, error) {
	req.Title = strings.TrimSpace(req.Title)
	applyDefaults(&req)
	if err := s.validateCreateIssue(req); err != nil {
		return nil, err
	}
	if err := s.checkReferences(ctx, req.ProjectID, req.ReporterID, req.AssigneeID); err != nil {
		return nil, err
	}
	if req.Code == "" {
		req.Code = models.GenerateCode(req.Title, s.now())
	}

	issue, err := s.repo.CreateIssue(ctx, database.NewIssue{
		Title:       req.Title,
		Description: req.Description,
		Type:        req.Type,
		Status:      req.Status,
		Priority:    req.Priority,
		Code:        req.Code,
		ProjectID:   req.ProjectID,
		AssigneeID:  req.AssigneeID,
		ReporterID:  req.ReporterID,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create issue: %w", err)
	}

	s.publishIssueEvent(ctx, events.OpCreated, issue.ProjectID, issue.ID)
	return issue, nil
}

// UpdateIssue applies the provided fields to an existing issue
func (s *service) UpdateIssue(ctx context.Context, req UpdateIssueRequest) (*models.Issue, error) {
	if err := s.validateUpdateIssue(req); err != nil {
		return nil, err
	}

	existing, err := s.repo.GetIssueByID(ctx, req.ID)
	if err != nil {
		return nil, notFound(err, ErrIssueNotFound)
	}

	var title *string
	if req.Title != nil {
		trimmed := strings.TrimSpace(*req.Title)
		title = &trimmed
	}
	if req.ProjectID != nil {
		if _, err := s.repo.GetProjectByID(ctx, *req.ProjectID); err != nil {
			return nil, notFound(err, ErrProjectNotFound)
		}
	}
	if req.AssigneeID != nil && *req.AssigneeID != "" {
		if _, err := s.repo.GetUserByID(ctx, *req.AssigneeID); err != nil {
			return nil, notFound(err, ErrAssigneeNotFound)
		}
	}

	issue, err := s.repo.UpdateIssue(ctx, req.ID, database.IssuePatch{
		Title:       title,
		Description: req.Description,
		Type:        req.Type,
		Status:      req.Status,
		Priority:    req.Priority,
		Code:        req.Code,
		ProjectID:   req.ProjectID,
		AssigneeID:  req.AssigneeID,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update issue: %w", notFound(err, ErrIssueNotFound))
	}

	// A move between projects changes both boards
	if existing.ProjectID != issue.ProjectID {
		s.publishIssueEvent(ctx, events.OpUpdated, existing.ProjectID, issue.ID)
	}
	s.publishIssueEvent(ctx, events.OpUpdated, issue.ProjectID, issue.ID)
	return issue, nil
}

// DeleteIssue deletes an issue and its comments
func (s *service) DeleteIssue(ctx context.Context, id string) error {
	existing, err := s.repo.GetIssueByID(ctx, id)
	if err != nil {
		return notFound(err, ErrIssueNotFound)
	}
	if err := s.repo.DeleteIssue(ctx, id); err != nil {
		return notFound(err, ErrIssueNotFound)
	}
	s.publishIssueEvent(ctx, events.OpDeleted, existing.ProjectID, id)
	return nil
}

func applyDefaults(req *CreateIssueRequest) {
	if req.Type == "" {
		req.Type = models.DefaultType
	}
	if req.Status == "" {
		req.Status = models.DefaultStatus
	}
	if req.Priority == "" {
		req.Priority = models.DefaultPriority
	}
	if req.AssigneeID != nil && *req.AssigneeID == "" {
		req.AssigneeID = nil
	}
}

// checkReferences verifies that the project, reporter and optional assignee exist
func (s *service) checkReferences(ctx context.Context, projectID, reporterID string, assigneeID *string) error {
	if _, err := s.repo.GetProjectByID(ctx, projectID); err != nil {
		return notFound(err, ErrProjectNotFound)
	}
	if _, err := s.repo.GetUserByID(ctx, reporterID); err != nil {
		return notFound(err, ErrReporterNotFound)
	}
	if assigneeID != nil {
		if _, err := s.repo.GetUserByID(ctx, *assigneeID); err != nil {
			return notFound(err, ErrAssigneeNotFound)
		}
	}
	return nil
}

// validateCreateIssue validates a CreateIssueRequest after defaults are applied
func (s *service) validateCreateIssue(req CreateIssueRequest) error {
	if err := validateTitle(req.Title); err != nil {
		return err
	}
	if req.ProjectID == "" {
		return ErrMissingProject
	}
	if req.ReporterID == "" {
		return ErrMissingReporter
	}
	return validateEnums(&req.Type, &req.Status, &req.Priority)
}

// validateUpdateIssue validates the fields present in an UpdateIssueRequest
func (s *service) validateUpdateIssue(req UpdateIssueRequest) error {
	if req.Title != nil {
		if err := validateTitle(strings.TrimSpace(*req.Title)); err != nil {
			return err
		}
	}
	if req.ProjectID != nil && *req.ProjectID == "" {
		return ErrMissingProject
	}
	return validateEnums(req.Type, req.Status, req.Priority)
}

func validateTitle(title string) error {
	if title == "" {
		return ErrEmptyTitle
	}
	if len(title) > 255 {
		return ErrTitleTooLong
	}
	return nil
}

func validateEnums(typ *models.IssueType, status *models.Status, priority *models.Priority) error {
	if typ != nil && !typ.Valid() {
		return ErrInvalidType
	}
	if status != nil && !status.Valid() {
		return ErrInvalidStatus
	}
	if priority != nil && !priority.Valid() {
		return ErrInvalidPriority
	}
	return nil
}

func notFound(err, sentinel error) error {
	if errors.Is(err, models.ErrNotFound) {
		return sentinel
	}
	return err
}

// publishIssueEvent publishes an issue event for the owning project
func (s *service) publishIssueEvent(ctx context.Context, op events.Op, projectID, issueID string) {
	if s.eventClient == nil {
		return
	}
	_ = events.PublishWithRetry(ctx, s.eventClient, events.Event{
		Type:      events.EventIssueChanged,
		Op:        op,
		ProjectID: projectID,
		EntityID:  issueID,
	}, 3)
}

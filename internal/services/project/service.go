package project

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/thenoetrevino/issueboard/internal/database"
	"github.com/thenoetrevino/issueboard/internal/events"
	"github.com/thenoetrevino/issueboard/internal/models"
)

// Service defines all project-related business operations
type Service interface {
	// Read operations
	GetAllProjects(ctx context.Context) ([]*models.Project, error)
	GetProjectByID(ctx context.Context, id string) (*models.Project, error)
	CountProjects(ctx context.Context) (int, error)

	// Write operations
	CreateProject(ctx context.Context, req CreateProjectRequest) (*models.Project, error)
	UpdateProject(ctx context.Context, req UpdateProjectRequest) (*models.Project, error)
	DeleteProject(ctx context.Context, id string) error
}

// CreateProjectRequest encapsulates data for creating a project
type CreateProjectRequest struct {
	Name        string
	Key         string
	Description string
	Code        string // Optional: generated from Name when empty
}

// UpdateProjectRequest encapsulates data for updating a project.
// Fields with pointers are optional - nil means don't update
type UpdateProjectRequest struct {
	ID          string
	Name        *string
	Key         *string
	Description *string
	Code        *string
}

// repository defines the data access methods needed by the project service
// This interface is private to the service layer
type repository interface {
	CreateProject(ctx context.Context, name, key, description, code string) (*models.Project, error)
	GetProjectByID(ctx context.Context, id string) (*models.Project, error)
	GetAllProjects(ctx context.Context) ([]*models.Project, error)
	UpdateProject(ctx context.Context, id string, patch database.ProjectPatch) (*models.Project, error)
	DeleteProject(ctx context.Context, id string) error
	CountProjects(ctx context.Context) (int, error)

	// Issues are embedded on project reads
	ListIssues(ctx context.Context) ([]*models.Issue, error)
	ListIssuesByProject(ctx context.Context, projectID string) ([]*models.Issue, error)
}

// service implements Service interface with private repository
type service struct {
	repo        repository
	eventClient events.EventPublisher
	now         func() time.Time
}

// NewService creates a new project service with private repository
func NewService(repo repository, eventClient events.EventPublisher) Service {
	return &service{
		repo:        repo,
		eventClient: eventClient,
		now:         time.Now,
	}
}

// GetAllProjects retrieves all projects with their issues embedded
func (s *service) GetAllProjects(ctx context.Context) ([]*models.Project, error) {
	projects, err := s.repo.GetAllProjects(ctx)
	if err != nil {
		return nil, err
	}
	issues, err := s.repo.ListIssues(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load project issues: %w", err)
	}

	byProject := make(map[string][]*models.Issue, len(projects))
	for _, i := range issues {
		byProject[i.ProjectID] = append(byProject[i.ProjectID], i)
	}
	for _, p := range projects {
		p.Issues = byProject[p.ID]
		if p.Issues == nil {
			p.Issues = []*models.Issue{}
		}
	}
	return projects, nil
}

// GetProjectByID retrieves a specific project with its issues embedded
func (s *service) GetProjectByID(ctx context.Context, id string) (*models.Project, error) {
	p, err := s.repo.GetProjectByID(ctx, id)
	if err != nil {
		return nil, notFound(err)
	}
	issues, err := s.repo.ListIssuesByProject(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load project issues: %w", err)
	}
	p.Issues = issues
	return p, nil
}

// CountProjects returns the number of projects
func (s *service) CountProjects(ctx context.Context) (int, error) {
	return s.repo.CountProjects(ctx)
}

// CreateProject creates a new project with validation
func (s *service) CreateProject(ctx context.Context, req CreateProjectRequest) (*models.Project, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Key = strings.ToUpper(strings.TrimSpace(req.Key))
	if err := s.validateCreateProject(req); err != nil {
		return nil, err
	}
	if req.Code == "" {
		req.Code = models.GenerateCode(req.Name, s.now())
	}

	project, err := s.repo.CreateProject(ctx, req.Name, req.Key, req.Description, req.Code)
	if err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}

	// Publish event after successful commit
	s.publishProjectEvent(ctx, events.OpCreated, project.ID)

	return project, nil
}

// UpdateProject updates an existing project
func (s *service) UpdateProject(ctx context.Context, req UpdateProjectRequest) (*models.Project, error) {
	patch := database.ProjectPatch{Description: req.Description, Code: req.Code}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if err := validateName(name); err != nil {
			return nil, err
		}
		patch.Name = &name
	}
	if req.Key != nil {
		key := strings.ToUpper(strings.TrimSpace(*req.Key))
		if len(key) > 10 {
			return nil, ErrKeyTooLong
		}
		patch.Key = &key
	}

	project, err := s.repo.UpdateProject(ctx, req.ID, patch)
	if err != nil {
		return nil, notFound(err)
	}

	// Publish event after successful update
	s.publishProjectEvent(ctx, events.OpUpdated, project.ID)

	return project, nil
}

// DeleteProject deletes a project together with its issues and their comments
func (s *service) DeleteProject(ctx context.Context, id string) error {
	if err := s.repo.DeleteProject(ctx, id); err != nil {
		return notFound(err)
	}

	// Publish event after successful deletion
	s.publishProjectEvent(ctx, events.OpDeleted, id)

	return nil
}

// validateCreateProject validates a CreateProjectRequest
func (s *service) validateCreateProject(req CreateProjectRequest) error {
	if err := validateName(req.Name); err != nil {
		return err
	}
	if len(req.Key) > 10 {
		return ErrKeyTooLong
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

func notFound(err error) error {
	if errors.Is(err, models.ErrNotFound) {
		return ErrProjectNotFound
	}
	return err
}

// publishProjectEvent publishes a project event
func (s *service) publishProjectEvent(ctx context.Context, op events.Op, projectID string) {
	if s.eventClient == nil {
		return
	}
	_ = events.PublishWithRetry(ctx, s.eventClient, events.Event{
		Type:      events.EventProjectChanged,
		Op:        op,
		ProjectID: projectID,
		EntityID:  projectID,
	}, 3)
}

package database

import (
	"context"
	"database/sql"
	"testing"

	"github.com/thenoetrevino/issueboard/internal/models"
)

// ============================================================================
// DATABASE SETUP HELPERS
// ============================================================================

// setupTestDB creates an in-memory database and runs migrations.
// testutil cannot be used here because it imports this package.
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := InitDB(context.Background(), ":memory:")
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

// ============================================================================
// FIXTURE HELPERS
// ============================================================================

func createUser(t *testing.T, repo *Repository, name string) *models.User {
	t.Helper()
	u, err := repo.CreateUser(context.Background(), name, name+"@example.com", "hash", nil, models.RoleRegular)
	if err != nil {
		t.Fatalf("Failed to create user %s: %v", name, err)
	}
	return u
}

func createProject(t *testing.T, repo *Repository, name string) *models.Project {
	t.Helper()
	p, err := repo.CreateProject(context.Background(), name, "KEY", "", "PROJ-240101")
	if err != nil {
		t.Fatalf("Failed to create project %s: %v", name, err)
	}
	return p
}

func createIssue(t *testing.T, repo *Repository, projectID, reporterID, title string, status models.Status) *models.Issue {
	t.Helper()
	i, err := repo.CreateIssue(context.Background(), NewIssue{
		Title:      title,
		Type:       models.TypeTask,
		Status:     status,
		Priority:   models.PriorityMedium,
		Code:       "CODE-240101",
		ProjectID:  projectID,
		ReporterID: reporterID,
	})
	if err != nil {
		t.Fatalf("Failed to create issue %s: %v", title, err)
	}
	return i
}

func strPtr(s string) *string { return &s }

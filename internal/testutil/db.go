package testutil

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/thenoetrevino/issueboard/internal/database"
	"github.com/thenoetrevino/issueboard/internal/models"
)

// SetupTestDB creates an in-memory database with the full migrated schema.
// The connection is closed when the test finishes.
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := database.InitDB(context.Background(), ":memory:")
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

// CreateTestUser inserts a regular user named name with a derived email
func CreateTestUser(t *testing.T, db *sql.DB, name string) *models.User {
	t.Helper()
	repo := database.NewRepository(db)
	u, err := repo.CreateUser(context.Background(), name, name+"@example.com", "not-a-real-hash", nil, models.RoleRegular)
	if err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}
	return u
}

// CreateTestProject inserts a project and returns it
func CreateTestProject(t *testing.T, db *sql.DB, name string) *models.Project {
	t.Helper()
	repo := database.NewRepository(db)
	p, err := repo.CreateProject(context.Background(), name, "TST", "Test description", models.GenerateCode(name, time.Now()))
	if err != nil {
		t.Fatalf("Failed to create test project: %v", err)
	}
	return p
}

// CreateTestIssue inserts an issue with the given status into a project
func CreateTestIssue(t *testing.T, db *sql.DB, projectID, reporterID, title string, status models.Status) *models.Issue {
	t.Helper()
	repo := database.NewRepository(db)
	i, err := repo.CreateIssue(context.Background(), database.NewIssue{
		Title:      title,
		Type:       models.DefaultType,
		Status:     status,
		Priority:   models.DefaultPriority,
		Code:       models.GenerateCode(title, time.Now()),
		ProjectID:  projectID,
		ReporterID: reporterID,
	})
	if err != nil {
		t.Fatalf("Failed to create test issue: %v", err)
	}
	return i
}

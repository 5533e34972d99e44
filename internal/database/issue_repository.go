package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/thenoetrevino/issueboard/internal/models"
	"github.com/thenoetrevino/issueboard/internal/types"
)

// IssueRepo handles all issue-related database operations.
type IssueRepo struct {
	db *sql.DB
}

// NewIssue carries the columns of an issue to insert
type NewIssue struct {
	Title       string
	Description string
	Type        models.IssueType
	Status      models.Status
	Priority    models.Priority
	Code        string
	ProjectID   string
	AssigneeID  *string
	ReporterID  string
}

// IssuePatch lists the issue columns to change. Nil fields are left alone.
// An AssigneeID pointing at the empty string clears the assignee.
type IssuePatch struct {
	Title       *string
	Description *string
	Type        *models.IssueType
	Status      *models.Status
	Priority    *models.Priority
	Code        *string
	ProjectID   *string
	AssigneeID  *string
}

// issueSelect joins the assignee and reporter so their summaries can be
// embedded in the result.
const issueSelect = `
	SELECT i.id, i.title, i.description, i.type, i.status, i.priority, i.code,
	       i.project_id, i.assignee_id, i.reporter_id, i.created_at, i.updated_at,
	       a.id, a.name, a.avatar, rp.id, rp.name, rp.avatar
	FROM issues i
	LEFT JOIN users a ON a.id = i.assignee_id
	LEFT JOIN users rp ON rp.id = i.reporter_id`

func scanIssue(row interface{ Scan(...any) error }) (*models.Issue, error) {
	i := &models.Issue{}
	var assigneeID sql.NullString
	var aID, aName, aAvatar, rID, rName, rAvatar sql.NullString
	err := row.Scan(
		&i.ID, &i.Title, &i.Description, &i.Type, &i.Status, &i.Priority, &i.Code,
		&i.ProjectID, &assigneeID, &i.ReporterID, &i.CreatedAt, &i.UpdatedAt,
		&aID, &aName, &aAvatar, &rID, &rName, &rAvatar,
	)
	if err != nil {
		return nil, err
	}
	i.AssigneeID = nullStringToPtr(assigneeID)
	i.Assignee = summaryFromNull(aID, aName, aAvatar)
	i.Reporter = summaryFromNull(rID, rName, rAvatar)
	return i, nil
}

func (r *IssueRepo) queryIssues(ctx context.Context, query string, args ...any) ([]*models.Issue, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query issues: %w", err)
	}
	defer closeRows(rows)

	issues := make([]*models.Issue, 0, 20)
	for rows.Next() {
		i, err := scanIssue(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan issue row: %w", err)
		}
		issues = append(issues, i)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating issue rows: %w", err)
	}
	return issues, nil
}

// CreateIssue inserts an issue and returns the stored row
func (r *IssueRepo) CreateIssue(ctx context.Context, in NewIssue) (*models.Issue, error) {
	id := types.NewID()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO issues (id, title, description, type, status, priority, code, project_id, assignee_id, reporter_id)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, in.Title, in.Description, in.Type, in.Status, in.Priority, in.Code,
		in.ProjectID, ptrToNullString(in.AssigneeID), in.ReporterID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert issue '%s': %w", in.Title, translateErr(err))
	}
	return r.GetIssueByID(ctx, id)
}

// GetIssueByID retrieves an issue with its assignee and reporter summaries
func (r *IssueRepo) GetIssueByID(ctx context.Context, id string) (*models.Issue, error) {
	i, err := scanIssue(r.db.QueryRowContext(ctx, issueSelect+` WHERE i.id = ?`, id))
	if err != nil {
		return nil, fmt.Errorf("failed to get issue %s: %w", id, translateErr(err))
	}
	return i, nil
}

// ListIssues retrieves every issue in creation order
func (r *IssueRepo) ListIssues(ctx context.Context) ([]*models.Issue, error) {
	return r.queryIssues(ctx, issueSelect+` ORDER BY i.created_at, i.rowid`)
}

// ListIssuesByProject retrieves a project's issues in creation order.
// The order is stable so lanes built from it are deterministic.
func (r *IssueRepo) ListIssuesByProject(ctx context.Context, projectID string) ([]*models.Issue, error) {
	return r.queryIssues(ctx, issueSelect+` WHERE i.project_id = ? ORDER BY i.created_at, i.rowid`, projectID)
}

// UpdateIssue applies patch to the issue and returns the stored row
func (r *IssueRepo) UpdateIssue(ctx context.Context, id string, patch IssuePatch) (*models.Issue, error) {
	var b updateBuilder
	if patch.Title != nil {
		b.set("title", *patch.Title)
	}
	if patch.Description != nil {
		b.set("description", *patch.Description)
	}
	if patch.Type != nil {
		b.set("type", *patch.Type)
	}
	if patch.Status != nil {
		b.set("status", *patch.Status)
	}
	if patch.Priority != nil {
		b.set("priority", *patch.Priority)
	}
	if patch.Code != nil {
		b.set("code", *patch.Code)
	}
	if patch.ProjectID != nil {
		b.set("project_id", *patch.ProjectID)
	}
	if patch.AssigneeID != nil {
		b.set("assignee_id", ptrToNullString(patch.AssigneeID))
	}

	if !b.empty() {
		query, args := b.build("issues", id)
		res, err := r.db.ExecContext(ctx, query, args...)
		if err != nil {
			return nil, fmt.Errorf("failed to update issue %s: %w", id, translateErr(err))
		}
		if err := requireAffected(res); err != nil {
			return nil, fmt.Errorf("failed to update issue %s: %w", id, err)
		}
	}
	return r.GetIssueByID(ctx, id)
}

// DeleteIssue deletes an issue together with its comments
func (r *IssueRepo) DeleteIssue(ctx context.Context, id string) error {
	return withTx(ctx, r.db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM comments WHERE issue_id = ?`, id); err != nil {
			return fmt.Errorf("failed to delete comments for issue %s: %w", id, err)
		}
		res, err := tx.ExecContext(ctx, `DELETE FROM issues WHERE id = ?`, id)
		if err != nil {
			return fmt.Errorf("failed to delete issue %s: %w", id, err)
		}
		if err := requireAffected(res); err != nil {
			return fmt.Errorf("failed to delete issue %s: %w", id, err)
		}
		return nil
	})
}

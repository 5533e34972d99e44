package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/thenoetrevino/issueboard/internal/models"
	"github.com/thenoetrevino/issueboard/internal/types"
)

// CommentRepo handles all comment-related database operations.
type CommentRepo struct {
	db *sql.DB
}

const commentSelect = `
	SELECT c.id, c.content, c.issue_id, c.user_id, c.created_at, c.updated_at,
	       u.id, u.name, u.avatar
	FROM comments c
	LEFT JOIN users u ON u.id = c.user_id`

func scanComment(row interface{ Scan(...any) error }) (*models.Comment, error) {
	c := &models.Comment{}
	var uID, uName, uAvatar sql.NullString
	if err := row.Scan(&c.ID, &c.Content, &c.IssueID, &c.UserID, &c.CreatedAt, &c.UpdatedAt, &uID, &uName, &uAvatar); err != nil {
		return nil, err
	}
	c.User = summaryFromNull(uID, uName, uAvatar)
	return c, nil
}

func (r *CommentRepo) queryComments(ctx context.Context, query string, args ...any) ([]*models.Comment, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query comments: %w", err)
	}
	defer closeRows(rows)

	comments := make([]*models.Comment, 0, 10)
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan comment row: %w", err)
		}
		comments = append(comments, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating comment rows: %w", err)
	}
	return comments, nil
}

// CreateComment inserts a comment and returns the stored row
func (r *CommentRepo) CreateComment(ctx context.Context, issueID, userID, content string) (*models.Comment, error) {
	id := types.NewID()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO comments (id, content, issue_id, user_id) VALUES (?, ?, ?, ?)`,
		id, content, issueID, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert comment on issue %s: %w", issueID, translateErr(err))
	}
	return r.GetCommentByID(ctx, id)
}

// GetCommentByID retrieves a comment with its author summary
func (r *CommentRepo) GetCommentByID(ctx context.Context, id string) (*models.Comment, error) {
	c, err := scanComment(r.db.QueryRowContext(ctx, commentSelect+` WHERE c.id = ?`, id))
	if err != nil {
		return nil, fmt.Errorf("failed to get comment %s: %w", id, translateErr(err))
	}
	return c, nil
}

// ListComments retrieves every comment, oldest first
func (r *CommentRepo) ListComments(ctx context.Context) ([]*models.Comment, error) {
	return r.queryComments(ctx, commentSelect+` ORDER BY c.created_at, c.rowid`)
}

// ListCommentsByIssue retrieves the comments of one issue, oldest first
func (r *CommentRepo) ListCommentsByIssue(ctx context.Context, issueID string) ([]*models.Comment, error) {
	return r.queryComments(ctx, commentSelect+` WHERE c.issue_id = ? ORDER BY c.created_at, c.rowid`, issueID)
}

// ListCommentsByProject retrieves the comments on every issue of a project
func (r *CommentRepo) ListCommentsByProject(ctx context.Context, projectID string) ([]*models.Comment, error) {
	return r.queryComments(ctx,
		commentSelect+` JOIN issues i ON i.id = c.issue_id WHERE i.project_id = ? ORDER BY c.created_at, c.rowid`,
		projectID,
	)
}

// UpdateComment replaces the comment content
func (r *CommentRepo) UpdateComment(ctx context.Context, id, content string) (*models.Comment, error) {
	var b updateBuilder
	b.set("content", content)
	query, args := b.build("comments", id)
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to update comment %s: %w", id, translateErr(err))
	}
	if err := requireAffected(res); err != nil {
		return nil, fmt.Errorf("failed to update comment %s: %w", id, err)
	}
	return r.GetCommentByID(ctx, id)
}

// DeleteComment removes a comment
func (r *CommentRepo) DeleteComment(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM comments WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete comment %s: %w", id, err)
	}
	if err := requireAffected(res); err != nil {
		return fmt.Errorf("failed to delete comment %s: %w", id, err)
	}
	return nil
}

package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/thenoetrevino/issueboard/internal/models"
	"github.com/thenoetrevino/issueboard/internal/types"
)

// ProjectRepo handles all project-related database operations.
type ProjectRepo struct {
	db *sql.DB
}

// ProjectPatch lists the project columns to change. Nil fields are left alone.
type ProjectPatch struct {
	Name        *string
	Key         *string
	Description *string
	Code        *string
}

const projectColumns = `id, name, key, description, code, created_at, updated_at`

func scanProject(row interface{ Scan(...any) error }) (*models.Project, error) {
	p := &models.Project{}
	if err := row.Scan(&p.ID, &p.Name, &p.Key, &p.Description, &p.Code, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	return p, nil
}

// CreateProject inserts a project and returns the stored row
func (r *ProjectRepo) CreateProject(ctx context.Context, name, key, description, code string) (*models.Project, error) {
	id := types.NewID()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO projects (id, name, key, description, code) VALUES (?, ?, ?, ?, ?)`,
		id, name, key, description, code,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert project '%s': %w", name, translateErr(err))
	}
	return r.GetProjectByID(ctx, id)
}

// GetProjectByID retrieves a project by its ID
func (r *ProjectRepo) GetProjectByID(ctx context.Context, id string) (*models.Project, error) {
	p, err := scanProject(r.db.QueryRowContext(ctx, `SELECT `+projectColumns+` FROM projects WHERE id = ?`, id))
	if err != nil {
		return nil, fmt.Errorf("failed to get project %s: %w", id, translateErr(err))
	}
	return p, nil
}

// GetAllProjects retrieves all projects ordered by creation time
func (r *ProjectRepo) GetAllProjects(ctx context.Context) ([]*models.Project, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+projectColumns+` FROM projects ORDER BY created_at, rowid`)
	if err != nil {
		return nil, fmt.Errorf("failed to query all projects: %w", err)
	}
	defer closeRows(rows)

	projects := make([]*models.Project, 0, 10)
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan project row: %w", err)
		}
		projects = append(projects, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating project rows: %w", err)
	}
	return projects, nil
}

// UpdateProject applies patch to the project and returns the stored row
func (r *ProjectRepo) UpdateProject(ctx context.Context, id string, patch ProjectPatch) (*models.Project, error) {
	var b updateBuilder
	if patch.Name != nil {
		b.set("name", *patch.Name)
	}
	if patch.Key != nil {
		b.set("key", *patch.Key)
	}
	if patch.Description != nil {
		b.set("description", *patch.Description)
	}
	if patch.Code != nil {
		b.set("code", *patch.Code)
	}

	if !b.empty() {
		query, args := b.build("projects", id)
		res, err := r.db.ExecContext(ctx, query, args...)
		if err != nil {
			return nil, fmt.Errorf("failed to update project %s: %w", id, translateErr(err))
		}
		if err := requireAffected(res); err != nil {
			return nil, fmt.Errorf("failed to update project %s: %w", id, err)
		}
	}
	return r.GetProjectByID(ctx, id)
}

// DeleteProject deletes a project along with its issues and their comments
func (r *ProjectRepo) DeleteProject(ctx context.Context, id string) error {
	return withTx(ctx, r.db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM comments WHERE issue_id IN (SELECT id FROM issues WHERE project_id = ?)`, id,
		); err != nil {
			return fmt.Errorf("failed to delete comments for project %s: %w", id, err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM issues WHERE project_id = ?`, id); err != nil {
			return fmt.Errorf("failed to delete issues for project %s: %w", id, err)
		}
		res, err := tx.ExecContext(ctx, `DELETE FROM projects WHERE id = ?`, id)
		if err != nil {
			return fmt.Errorf("failed to delete project %s: %w", id, err)
		}
		if err := requireAffected(res); err != nil {
			return fmt.Errorf("failed to delete project %s: %w", id, err)
		}
		return nil
	})
}

// CountProjects returns the number of stored projects
func (r *ProjectRepo) CountProjects(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM projects`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count projects: %w", err)
	}
	return n, nil
}

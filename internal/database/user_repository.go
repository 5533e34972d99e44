package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/thenoetrevino/issueboard/internal/models"
	"github.com/thenoetrevino/issueboard/internal/types"
)

// UserRepo handles all user-related database operations.
type UserRepo struct {
	db *sql.DB
}

// UserPatch lists the user columns to change. Nil fields are left alone.
type UserPatch struct {
	Name         *string
	Email        *string
	PasswordHash *string
	Avatar       *string
	Role         *models.Role
}

const userColumns = `id, name, email, password_hash, avatar, role, created_at, updated_at`

func scanUser(row interface{ Scan(...any) error }) (*models.User, error) {
	u := &models.User{}
	var avatar sql.NullString
	if err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &avatar, &u.Role, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, err
	}
	u.Avatar = nullStringToPtr(avatar)
	return u, nil
}

// CreateUser inserts a user and returns the stored row
func (r *UserRepo) CreateUser(ctx context.Context, name, email, passwordHash string, avatar *string, role models.Role) (*models.User, error) {
	id := types.NewID()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO users (id, name, email, password_hash, avatar, role) VALUES (?, ?, ?, ?, ?, ?)`,
		id, name, email, passwordHash, ptrToNullString(avatar), role,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert user '%s': %w", name, translateErr(err))
	}
	return r.GetUserByID(ctx, id)
}

// GetUserByID retrieves a user by id
func (r *UserRepo) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	u, err := scanUser(r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id))
	if err != nil {
		return nil, fmt.Errorf("failed to get user %s: %w", id, translateErr(err))
	}
	return u, nil
}

// GetUserByEmail retrieves a user by email, including the password hash
func (r *UserRepo) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	u, err := scanUser(r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE email = ?`, email))
	if err != nil {
		return nil, fmt.Errorf("failed to get user by email: %w", translateErr(err))
	}
	return u, nil
}

// FindUserByNameOrEmail returns the first user other than excludeID whose
// name or email matches. Pass an empty excludeID to consider every user.
func (r *UserRepo) FindUserByNameOrEmail(ctx context.Context, name, email, excludeID string) (*models.User, error) {
	u, err := scanUser(r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE (name = ? OR email = ?) AND id != ? ORDER BY rowid LIMIT 1`,
		name, email, excludeID,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", translateErr(err))
	}
	return u, nil
}

// GetAllUsers retrieves all users in creation order
func (r *UserRepo) GetAllUsers(ctx context.Context) ([]*models.User, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+userColumns+` FROM users ORDER BY created_at, rowid`)
	if err != nil {
		return nil, fmt.Errorf("failed to query all users: %w", err)
	}
	defer closeRows(rows)

	users := make([]*models.User, 0, 10)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user row: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating user rows: %w", err)
	}
	return users, nil
}

// UpdateUser applies patch to the user and returns the stored row
func (r *UserRepo) UpdateUser(ctx context.Context, id string, patch UserPatch) (*models.User, error) {
	var b updateBuilder
	if patch.Name != nil {
		b.set("name", *patch.Name)
	}
	if patch.Email != nil {
		b.set("email", *patch.Email)
	}
	if patch.PasswordHash != nil {
		b.set("password_hash", *patch.PasswordHash)
	}
	if patch.Avatar != nil {
		b.set("avatar", ptrToNullString(patch.Avatar))
	}
	if patch.Role != nil {
		b.set("role", *patch.Role)
	}

	if !b.empty() {
		query, args := b.build("users", id)
		res, err := r.db.ExecContext(ctx, query, args...)
		if err != nil {
			return nil, fmt.Errorf("failed to update user %s: %w", id, translateErr(err))
		}
		if err := requireAffected(res); err != nil {
			return nil, fmt.Errorf("failed to update user %s: %w", id, err)
		}
	}
	return r.GetUserByID(ctx, id)
}

// DeleteUser removes a user. Issues assigned to the user become unassigned.
func (r *UserRepo) DeleteUser(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete user %s: %w", id, translateErr(err))
	}
	if err := requireAffected(res); err != nil {
		return fmt.Errorf("failed to delete user %s: %w", id, err)
	}
	return nil
}

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/thenoetrevino/issueboard/internal/models"
)

// withTx executes a function within a database transaction.
// It automatically handles begin, rollback on error, and commit on success.
func withTx(ctx context.Context, db *sql.DB, fn func(*sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
			log.WithError(err).Error("failed to rollback transaction")
		}
	}()

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// closeRows closes a result set, logging instead of returning the error
func closeRows(rows *sql.Rows) {
	if err := rows.Close(); err != nil {
		log.WithError(err).Error("failed to close rows")
	}
}

// translateErr maps driver errors onto the shared model errors so services
// can match them with errors.Is without knowing the driver.
func translateErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return models.ErrNotFound
	}
	if strings.Contains(err.Error(), "UNIQUE constraint failed") {
		return fmt.Errorf("%w: %v", models.ErrConflict, err)
	}
	if strings.Contains(err.Error(), "FOREIGN KEY constraint failed") {
		return fmt.Errorf("%w: %v", models.ErrReferenced, err)
	}
	return err
}

// requireAffected returns models.ErrNotFound when a write touched no rows
func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return models.ErrNotFound
	}
	return nil
}

// updateBuilder collects "column = ?" assignments for partial updates
type updateBuilder struct {
	sets []string
	args []any
}

func (b *updateBuilder) set(column string, value any) {
	b.sets = append(b.sets, column+" = ?")
	b.args = append(b.args, value)
}

func (b *updateBuilder) empty() bool {
	return len(b.sets) == 0
}

// build renders an UPDATE for table by id, always bumping updated_at
func (b *updateBuilder) build(table, id string) (string, []any) {
	sets := append(append([]string{}, b.sets...), "updated_at = CURRENT_TIMESTAMP")
	query := fmt.Sprintf("UPDATE %s SET %s WHERE id = ?", table, strings.Join(sets, ", "))
	return query, append(append([]any{}, b.args...), id)
}

// nullStringToPtr converts sql.NullString to *string.
// Returns nil if the value is not valid.
func nullStringToPtr(ns sql.NullString) *string {
	if ns.Valid {
		val := ns.String
		return &val
	}
	return nil
}

// ptrToNullString converts an optional string into a nullable column value.
// Both nil and the empty string are stored as NULL.
func ptrToNullString(s *string) sql.NullString {
	if s == nil || *s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

// summaryFromNull builds an embedded user summary from a LEFT JOIN
func summaryFromNull(id, name, avatar sql.NullString) *models.UserSummary {
	if !id.Valid {
		return nil
	}
	return &models.UserSummary{ID: id.String, Name: name.String, Avatar: nullStringToPtr(avatar)}
}

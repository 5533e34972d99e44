package database

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/thenoetrevino/issueboard/internal/models"
)

func TestUpdateBuilder(t *testing.T) {
	t.Parallel()
	var b updateBuilder
	if !b.empty() {
		t.Fatal("New builder should be empty")
	}
	b.set("name", "x")
	b.set("key", "K")

	query, args := b.build("projects", "id-1")
	want := "UPDATE projects SET name = ?, key = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?"
	if query != want {
		t.Errorf("Expected %q, got %q", want, query)
	}
	if len(args) != 3 || args[2] != "id-1" {
		t.Errorf("Unexpected args: %v", args)
	}
}

func TestTranslateErr(t *testing.T) {
	t.Parallel()
	if translateErr(nil) != nil {
		t.Error("nil should stay nil")
	}
	if !errors.Is(translateErr(sql.ErrNoRows), models.ErrNotFound) {
		t.Error("ErrNoRows should map to ErrNotFound")
	}
	if !errors.Is(translateErr(errors.New("constraint failed: UNIQUE constraint failed: users.email")), models.ErrConflict) {
		t.Error("UNIQUE violations should map to ErrConflict")
	}
	other := errors.New("disk full")
	if !errors.Is(translateErr(other), other) {
		t.Error("Unrelated errors should pass through")
	}
}

func TestPtrToNullString(t *testing.T) {
	t.Parallel()
	if ptrToNullString(nil).Valid {
		t.Error("nil should be NULL")
	}
	if ptrToNullString(strPtr("")).Valid {
		t.Error("Empty string should be NULL")
	}
	if ns := ptrToNullString(strPtr("a")); !ns.Valid || ns.String != "a" {
		t.Errorf("Unexpected %+v", ns)
	}
}

func TestWithTx_RollsBackOnError(t *testing.T) {
	t.Parallel()
	db := setupTestDB(t)
	ctx := context.Background()
	boom := errors.New("boom")

	err := withTx(ctx, db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `INSERT INTO projects (id, name) VALUES ('p1', 'rolled back')`); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("Expected boom, got %v", err)
	}

	n, err := NewRepository(db).CountProjects(ctx)
	if err != nil {
		t.Fatalf("CountProjects failed: %v", err)
	}
	if n != 0 {
		t.Errorf("Expected rollback to leave 0 projects, got %d", n)
	}
}

func TestSchemaVersion(t *testing.T) {
	t.Parallel()
	db := setupTestDB(t)
	v, err := SchemaVersion(context.Background(), db)
	if err != nil {
		t.Fatalf("SchemaVersion failed: %v", err)
	}
	if v != 1 {
		t.Errorf("Expected schema version 1, got %d", v)
	}
}

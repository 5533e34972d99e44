package user

import (
	"context"
	"errors"
	"testing"

	"github.com/thenoetrevino/issueboard/internal/database"
	"github.com/thenoetrevino/issueboard/internal/events"
	"github.com/thenoetrevino/issueboard/internal/models"
	"github.com/thenoetrevino/issueboard/internal/testutil"
)

// ============================================================================
// TEST HELPERS
// ============================================================================

func newTestService(t *testing.T) (Service, *events.Bus) {
	t.Helper()
	bus := events.NewBus()
	repo := database.NewRepository(testutil.SetupTestDB(t))
	return NewService(repo, bus), bus
}

func mustCreate(t *testing.T, svc Service, name string) *models.User {
	t.Helper()
	u, err := svc.CreateUser(context.Background(), CreateUserRequest{
		Name:     name,
		Email:    name + "@example.com",
		Password: "secret",
	})
	if err != nil {
		t.Fatalf("Failed to create user %s: %v", name, err)
	}
	return u
}

func strPtr(s string) *string { return &s }

// ============================================================================
// TEST CASES
// ============================================================================

func TestCreateUser(t *testing.T) {
	t.Parallel()
	svc, bus := newTestService(t)

	var seen []events.Event
	bus.Subscribe(func(_ context.Context, e events.Event) error {
		seen = append(seen, e)
		return nil
	})

	u := mustCreate(t, svc, "ada")

	if u.Role != models.RoleRegular {
		t.Errorf("Expected default role regular, got %s", u.Role)
	}
	if u.PasswordHash == "secret" || u.PasswordHash == "" {
		t.Error("Expected password to be stored hashed")
	}
	if len(seen) != 1 || seen[0].Type != events.EventUserChanged || seen[0].Op != events.OpCreated {
		t.Errorf("Expected one user created event, got %+v", seen)
	}
}

func TestCreateUser_Validation(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService(t)

	tests := []struct {
		name string
		req  CreateUserRequest
		want error
	}{
		{"empty name", CreateUserRequest{Name: "  ", Email: "a@example.com", Password: "p"}, ErrEmptyName},
		{"empty email", CreateUserRequest{Name: "a", Password: "p"}, ErrEmptyEmail},
		{"bad email", CreateUserRequest{Name: "a", Email: "not-an-email", Password: "p"}, ErrInvalidEmail},
		{"empty password", CreateUserRequest{Name: "a", Email: "a@example.com"}, ErrEmptyPassword},
		{"bad role", CreateUserRequest{Name: "a", Email: "a@example.com", Password: "p", Role: "owner"}, ErrInvalidRole},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateUser(context.Background(), tt.req)
			if !errors.Is(err, tt.want) {
				t.Errorf("Expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestCreateUser_DuplicateNameOrEmail(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService(t)
	mustCreate(t, svc, "ada")

	_, err := svc.CreateUser(context.Background(), CreateUserRequest{Name: "ada", Email: "new@example.com", Password: "p"})
	if !errors.Is(err, ErrNameTaken) {
		t.Errorf("Expected ErrNameTaken, got %v", err)
	}

	_, err = svc.CreateUser(context.Background(), CreateUserRequest{Name: "new", Email: "ada@example.com", Password: "p"})
	if !errors.Is(err, ErrEmailTaken) {
		t.Errorf("Expected ErrEmailTaken, got %v", err)
	}
}

func TestUpdateUser(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService(t)
	ada := mustCreate(t, svc, "ada")
	mustCreate(t, svc, "grace")
	ctx := context.Background()

	updated, err := svc.UpdateUser(ctx, UpdateUserRequest{ID: ada.ID, Name: strPtr("lovelace"), Email: strPtr(ada.Email)})
	if err != nil {
		t.Fatalf("UpdateUser failed: %v", err)
	}
	if updated.Name != "lovelace" {
		t.Errorf("Expected lovelace, got %s", updated.Name)
	}

	_, err = svc.UpdateUser(ctx, UpdateUserRequest{ID: ada.ID, Email: strPtr("grace@example.com")})
	if !errors.Is(err, ErrEmailTaken) {
		t.Errorf("Expected ErrEmailTaken, got %v", err)
	}

	_, err = svc.UpdateUser(ctx, UpdateUserRequest{ID: "missing", Name: strPtr("x")})
	if !errors.Is(err, ErrUserNotFound) {
		t.Errorf("Expected ErrUserNotFound, got %v", err)
	}
}

func TestUpdateUser_PasswordChangeAffectsLogin(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService(t)
	ada := mustCreate(t, svc, "ada")
	ctx := context.Background()

	if _, err := svc.UpdateUser(ctx, UpdateUserRequest{ID: ada.ID, Password: strPtr("changed")}); err != nil {
		t.Fatalf("UpdateUser failed: %v", err)
	}
	if _, err := svc.Authenticate(ctx, ada.Email, "secret"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("Old password should fail, got %v", err)
	}
	if _, err := svc.Authenticate(ctx, ada.Email, "changed"); err != nil {
		t.Errorf("New password should work, got %v", err)
	}
}

func TestAuthenticate(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService(t)
	ada := mustCreate(t, svc, "ada")
	ctx := context.Background()

	got, err := svc.Authenticate(ctx, " ada@example.com ", "secret")
	if err != nil {
		t.Fatalf("Authenticate failed: %v", err)
	}
	if got.ID != ada.ID {
		t.Errorf("Expected %s, got %s", ada.ID, got.ID)
	}

	if _, err := svc.Authenticate(ctx, "ada@example.com", ""); !errors.Is(err, ErrCredentialsRequired) {
		t.Errorf("Expected ErrCredentialsRequired, got %v", err)
	}
	if _, err := svc.Authenticate(ctx, "nobody@example.com", "secret"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("Expected ErrInvalidCredentials for unknown email, got %v", err)
	}
	if _, err := svc.Authenticate(ctx, "ada@example.com", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("Expected ErrInvalidCredentials for wrong password, got %v", err)
	}
}

func TestDeleteUser(t *testing.T) {
	t.Parallel()
	db := testutil.SetupTestDB(t)
	svc := NewService(database.NewRepository(db), nil)
	ctx := context.Background()

	reporter := mustCreate(t, svc, "reporter")
	idle := mustCreate(t, svc, "idle")
	p := testutil.CreateTestProject(t, db, "Board")
	testutil.CreateTestIssue(t, db, p.ID, reporter.ID, "Fix", models.StatusToDo)

	if err := svc.DeleteUser(ctx, reporter.ID); !errors.Is(err, ErrUserHasReports) {
		t.Errorf("Expected ErrUserHasReports, got %v", err)
	}
	if err := svc.DeleteUser(ctx, idle.ID); err != nil {
		t.Errorf("DeleteUser failed: %v", err)
	}
	if err := svc.DeleteUser(ctx, idle.ID); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("Expected ErrUserNotFound, got %v", err)
	}
}

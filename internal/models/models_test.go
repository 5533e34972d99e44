package models

import (
	"errors"
	"testing"
	"time"
)

// ============================================================================
// Enum Tests
// ============================================================================

func TestStatus_Valid(t *testing.T) {
	for _, s := range Statuses {
		if !s.Valid() {
			t.Errorf("Expected %q to be valid", s)
		}
	}
	for _, s := range []Status{"", "Blocked", "todo", "to do"} {
		if s.Valid() {
			t.Errorf("Expected %q to be invalid", s)
		}
	}
}

func TestIssueType_Valid(t *testing.T) {
	for _, typ := range IssueTypes {
		if !typ.Valid() {
			t.Errorf("Expected %q to be valid", typ)
		}
	}
	if IssueType("Epic").Valid() {
		t.Error("Expected Epic to be invalid")
	}
}

func TestPriority_Valid(t *testing.T) {
	for _, p := range Priorities {
		if !p.Valid() {
			t.Errorf("Expected %q to be valid", p)
		}
	}
	if Priority("Critical").Valid() {
		t.Error("Expected Critical to be invalid")
	}
}

func TestRole_Valid(t *testing.T) {
	if !RoleRegular.Valid() || !RoleAdmin.Valid() {
		t.Error("Expected built-in roles to be valid")
	}
	if Role("owner").Valid() {
		t.Error("Expected owner to be invalid")
	}
}

// ============================================================================
// Code Generation Tests
// ============================================================================

func TestGenerateCode(t *testing.T) {
	day := time.Date(2024, time.January, 1, 15, 30, 0, 0, time.UTC)

	tests := []struct {
		name string
		text string
		want string
	}{
		{"plain title", "Login bug", "LOGI-240101"},
		{"short title", "Ab", "AB-240101"},
		{"strips digits and symbols", "1-2 f!x a_b", "FXAB-240101"},
		{"no letters", "1234 !!", "-240101"},
		{"non ascii letters dropped", "Ünïcode", "NCOD-240101"},
		{"empty", "", "-240101"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GenerateCode(tt.text, day); got != tt.want {
				t.Errorf("GenerateCode(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}

func TestGenerateCode_UsesUTCDate(t *testing.T) {
	loc := time.FixedZone("UTC+10", 10*60*60)
	// 2024-03-05 08:00 in UTC+10 is still March 4th in UTC
	local := time.Date(2024, time.March, 5, 8, 0, 0, 0, loc)

	if got := GenerateCode("Export CSV", local); got != "EXPO-240304" {
		t.Errorf("Expected UTC date in code, got %q", got)
	}
}

// ============================================================================
// Struct Tests
// ============================================================================

func TestIssue_AssignedTo(t *testing.T) {
	alice := "alice"
	issue := &Issue{AssigneeID: &alice}
	if !issue.AssignedTo("alice") {
		t.Error("Expected issue to be assigned to alice")
	}
	if issue.AssignedTo("bob") {
		t.Error("Expected issue not to be assigned to bob")
	}

	unassigned := &Issue{}
	if unassigned.AssignedTo("") {
		t.Error("Expected unassigned issue not to match empty id")
	}
}

func TestUser_Summary(t *testing.T) {
	avatar := "/uploads/avatars/u1.png"
	u := &User{ID: "u1", Name: "Ada", Email: "ada@example.com", Avatar: &avatar}

	s := u.Summary()
	if s.ID != "u1" || s.Name != "Ada" || s.Avatar == nil || *s.Avatar != avatar {
		t.Errorf("Unexpected summary: %+v", s)
	}
}

func TestErrors_Unique(t *testing.T) {
	if errors.Is(ErrNotFound, ErrConflict) {
		t.Error("ErrNotFound should not equal ErrConflict")
	}
}

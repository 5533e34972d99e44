package models

// ============================================================================
// ISSUE TYPE
// ============================================================================

// IssueType classifies the kind of work an issue tracks
type IssueType string

const (
	TypeBug   IssueType = "Bug"
	TypeTask  IssueType = "Task"
	TypeStory IssueType = "Story"
)

// IssueTypes lists every known issue type in display order
var IssueTypes = []IssueType{TypeBug, TypeTask, TypeStory}

// Valid reports whether t is one of the known issue types
func (t IssueType) Valid() bool {
	switch t {
	case TypeBug, TypeTask, TypeStory:
		return true
	}
	return false
}

// ============================================================================
// STATUS
// ============================================================================

// Status is the workflow state of an issue. The three values double as
// the board lane keys.
type Status string

const (
	StatusToDo       Status = "To Do"
	StatusInProgress Status = "In Progress"
	StatusDone       Status = "Done"
)

// Statuses lists every known status in lane order
var Statuses = []Status{StatusToDo, StatusInProgress, StatusDone}

// Valid reports whether s is one of the known statuses
func (s Status) Valid() bool {
	switch s {
	case StatusToDo, StatusInProgress, StatusDone:
		return true
	}
	return false
}

// ============================================================================
// PRIORITY
// ============================================================================

// Priority ranks how urgent an issue is
type Priority string

const (
	PriorityLow    Priority = "Low"
	PriorityMedium Priority = "Medium"
	PriorityHigh   Priority = "High"
)

// Priorities lists every known priority from lowest to highest
var Priorities = []Priority{PriorityLow, PriorityMedium, PriorityHigh}

// Valid reports whether p is one of the known priorities
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// ============================================================================
// ROLE
// ============================================================================

// Role is the account role stored on a user
type Role string

const (
	RoleRegular Role = "regular"
	RoleAdmin   Role = "admin"
)

// Valid reports whether r is one of the known roles
func (r Role) Valid() bool {
	return r == RoleRegular || r == RoleAdmin
}

// ============================================================================
// DEFAULTS
// ============================================================================

const (
	// DefaultStatus is assigned to new issues that do not name one
	DefaultStatus = StatusToDo

	// DefaultType is assigned to new issues that do not name one
	DefaultType = TypeTask

	// DefaultPriority is assigned to new issues that do not name one
	DefaultPriority = PriorityMedium

	// DefaultRole is assigned to new users that do not name one
	DefaultRole = RoleRegular
)

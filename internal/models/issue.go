package models

import "time"

// Issue is a trackable unit of work inside a project
type Issue struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Type        IssueType `json:"type"`
	Status      Status    `json:"status"`
	Priority    Priority  `json:"priority"`
	Code        string    `json:"code"`
	ProjectID   string    `json:"projectId"`
	AssigneeID  *string   `json:"assigneeId"`
	ReporterID  string    `json:"reporterId"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`

	Assignee *UserSummary `json:"assignee,omitempty"`
	Reporter *UserSummary `json:"reporter,omitempty"`
	Comments []*Comment   `json:"comments,omitempty"`
}

// AssignedTo reports whether the issue is assigned to userID
func (i *Issue) AssignedTo(userID string) bool {
	return i.AssigneeID != nil && *i.AssigneeID == userID
}

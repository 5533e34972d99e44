package models

import "time"

// Comment is a message left by a user on an issue
type Comment struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	IssueID   string    `json:"issueId"`
	UserID    string    `json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	User *UserSummary `json:"user,omitempty"`
}

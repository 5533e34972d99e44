package models

import "time"

// Project groups issues under a short key and display code
type Project struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Key         string    `json:"key"`
	Description string    `json:"description"`
	Code        string    `json:"code"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`

	// Issues is populated on reads that include the project's issues
	Issues []*Issue `json:"issues,omitempty"`
}

// Package board partitions a project's issues into the three status lanes
// shown on the issues board.
package board

import (
	"strings"

	"github.com/thenoetrevino/issueboard/internal/models"
)

// Filter is the set of user-selected criteria controlling which issues are
// visible. The zero value matches every issue. Each field is independent and
// an empty field is unset.
type Filter struct {
	Search     string
	AssigneeID string
	ReporterID string
	Status     models.Status
	Type       models.IssueType
}

// IsZero reports whether no criterion is set
func (f Filter) IsZero() bool {
	return strings.TrimSpace(f.Search) == "" &&
		f.AssigneeID == "" &&
		f.ReporterID == "" &&
		f.Status == "" &&
		f.Type == ""
}

// Matches reports whether issue passes every active criterion
func (f Filter) Matches(issue *models.Issue) bool {
	if issue == nil {
		return false
	}
	return f.matchesSearch(issue) &&
		(f.AssigneeID == "" || issue.AssignedTo(f.AssigneeID)) &&
		(f.ReporterID == "" || issue.ReporterID == f.ReporterID) &&
		(f.Status == "" || issue.Status == f.Status) &&
		(f.Type == "" || issue.Type == f.Type)
}

// matchesSearch checks title, description and code. Blank search text is
// unset; otherwise the untrimmed text is matched case-insensitively.
func (f Filter) matchesSearch(issue *models.Issue) bool {
	if strings.TrimSpace(f.Search) == "" {
		return true
	}
	needle := strings.ToLower(f.Search)
	return containsFold(issue.Title, needle) ||
		containsFold(issue.Description, needle) ||
		containsFold(issue.Code, needle)
}

func containsFold(field, lowerNeedle string) bool {
	if field == "" {
		return false
	}
	return strings.Contains(strings.ToLower(field), lowerNeedle)
}

// Lanes holds the visible issues grouped by status, each lane in input order
type Lanes struct {
	ToDo       []*models.Issue `json:"toDo"`
	InProgress []*models.Issue `json:"inProgress"`
	Done       []*models.Issue `json:"done"`

	// Unplaced counts visible issues whose status has no lane
	Unplaced int `json:"unplaced"`
}

// Lane returns the lane for status, or nil for an unknown status
func (l Lanes) Lane(status models.Status) []*models.Issue {
	switch status {
	case models.StatusToDo:
		return l.ToDo
	case models.StatusInProgress:
		return l.InProgress
	case models.StatusDone:
		return l.Done
	}
	return nil
}

// Placed returns the number of issues across all three lanes
func (l Lanes) Placed() int {
	return len(l.ToDo) + len(l.InProgress) + len(l.Done)
}

// ComputeLanes filters issues and partitions the survivors into the three
// status lanes. It is a pure function of its arguments: the input slice is
// not modified and lanes preserve the relative order of the input.
func ComputeLanes(issues []*models.Issue, filter Filter) Lanes {
	lanes := Lanes{
		ToDo:       []*models.Issue{},
		InProgress: []*models.Issue{},
		Done:       []*models.Issue{},
	}

	for _, issue := range issues {
		if !filter.Matches(issue) {
			continue
		}
		switch issue.Status {
		case models.StatusToDo:
			lanes.ToDo = append(lanes.ToDo, issue)
		case models.StatusInProgress:
			lanes.InProgress = append(lanes.InProgress, issue)
		case models.StatusDone:
			lanes.Done = append(lanes.Done, issue)
		default:
			lanes.Unplaced++
		}
	}

	return lanes
}

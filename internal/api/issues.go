package api

import (
	"net/http"

	"github.com/bytedance/sonic"
	"github.com/labstack/echo/v4"

	"github.com/thenoetrevino/issueboard/internal/models"
	issueservice "github.com/thenoetrevino/issueboard/internal/services/issue"
)

// optionalString records whether a JSON field was present at all, so an
// explicit null can be told apart from an omitted field
type optionalString struct {
	Set   bool
	Value *string
}

func (o *optionalString) UnmarshalJSON(data []byte) error {
	o.Set = true
	if string(data) == "null" {
		o.Value = nil
		return nil
	}
	var s string
	if err := sonic.Unmarshal(data, &s); err != nil {
		return err
	}
	o.Value = &s
	return nil
}

// cleared reports whether the field was sent as null or ""
func (o optionalString) cleared() bool {
	return o.Set && (o.Value == nil || *o.Value == "")
}

type createIssueBody struct {
	Title       string           `json:"title"`
	Description string           `json:"description"`
	Type        models.IssueType `json:"type"`
	Status      models.Status    `json:"status"`
	Priority    models.Priority  `json:"priority"`
	Code        string           `json:"code"`
	ProjectID   string           `json:"projectId"`
	AssigneeID  *string          `json:"assigneeId"`
	ReporterID  string           `json:"reporterId"`
}

type updateIssueBody struct {
	Title       *string           `json:"title"`
	Description *string           `json:"description"`
	Type        *models.IssueType `json:"type"`
	Status      *models.Status    `json:"status"`
	Priority    *models.Priority  `json:"priority"`
	Code        *string           `json:"code"`
	ProjectID   *string           `json:"projectId"`
	AssigneeID  optionalString    `json:"assigneeId"`
}

func (b updateIssueBody) request(id string) issueservice.UpdateIssueRequest {
	return issueservice.UpdateIssueRequest{
		ID:          id,
		Title:       b.Title,
		Description: b.Description,
		Type:        b.Type,
		Status:      b.Status,
		Priority:    b.Priority,
		Code:        b.Code,
		ProjectID:   b.ProjectID,
	}
}

func (s *Server) listIssues(c echo.Context) error {
	ctx := c.Request().Context()
	var (
		issues []*models.Issue
		err    error
	)
	if projectID := c.QueryParam("projectId"); projectID != "" {
		issues, err = s.app.IssueService.GetIssuesByProject(ctx, projectID)
	} else {
		issues, err = s.app.IssueService.GetAllIssues(ctx)
	}
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, nonNil(issues))
}

func (s *Server) getIssue(c echo.Context) error {
	i, err := s.app.IssueService.GetIssueByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, i)
}

// createIssue defaults the reporter to the authenticated user
func (s *Server) createIssue(c echo.Context) error {
	var body createIssueBody
	if err := c.Bind(&body); err != nil {
		return err
	}
	if body.ReporterID == "" {
		body.ReporterID = currentUserID(c)
	}
	i, err := s.app.IssueService.CreateIssue(c.Request().Context(), issueservice.CreateIssueRequest{
		Title:       body.Title,
		Description: body.Description,
		Type:        body.Type,
		Status:      body.Status,
		Priority:    body.Priority,
		Code:        body.Code,
		ProjectID:   body.ProjectID,
		AssigneeID:  body.AssigneeID,
		ReporterID:  body.ReporterID,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, i)
}

// replaceIssue handles PUT: an absent or empty assigneeId unassigns the issue
func (s *Server) replaceIssue(c echo.Context) error {
	var body updateIssueBody
	if err := c.Bind(&body); err != nil {
		return err
	}
	req := body.request(c.Param("id"))
	unassigned := ""
	req.AssigneeID = &unassigned
	if body.AssigneeID.Value != nil {
		req.AssigneeID = body.AssigneeID.Value
	}
	return s.writeIssueUpdate(c, req)
}

// patchIssue handles PATCH: only supplied fields change, and a null or empty
// assigneeId unassigns the issue
func (s *Server) patchIssue(c echo.Context) error {
	var body updateIssueBody
	if err := c.Bind(&body); err != nil {
		return err
	}
	req := body.request(c.Param("id"))
	switch {
	case body.AssigneeID.cleared():
		unassigned := ""
		req.AssigneeID = &unassigned
	case body.AssigneeID.Set:
		req.AssigneeID = body.AssigneeID.Value
	}
	return s.writeIssueUpdate(c, req)
}

func (s *Server) writeIssueUpdate(c echo.Context, req issueservice.UpdateIssueRequest) error {
	i, err := s.app.IssueService.UpdateIssue(c.Request().Context(), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, i)
}

func (s *Server) deleteIssue(c echo.Context) error {
	if err := s.app.IssueService.DeleteIssue(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

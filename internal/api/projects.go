package api

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/thenoetrevino/issueboard/internal/board"
	"github.com/thenoetrevino/issueboard/internal/models"
	projectservice "github.com/thenoetrevino/issueboard/internal/services/project"
)

type createProjectBody struct {
	Name        string `json:"name"`
	Key         string `json:"key"`
	Description string `json:"description"`
	Code        string `json:"code"`
}

type updateProjectBody struct {
	Name        *string `json:"name"`
	Key         *string `json:"key"`
	Description *string `json:"description"`
	Code        *string `json:"code"`
}

func (s *Server) listProjects(c echo.Context) error {
	projects, err := s.app.ProjectService.GetAllProjects(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, nonNil(projects))
}

func (s *Server) getProject(c echo.Context) error {
	p, err := s.app.ProjectService.GetProjectByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, p)
}

func (s *Server) createProject(c echo.Context) error {
	var body createProjectBody
	if err := c.Bind(&body); err != nil {
		return err
	}
	p, err := s.app.ProjectService.CreateProject(c.Request().Context(), projectservice.CreateProjectRequest{
		Name:        body.Name,
		Key:         body.Key,
		Description: body.Description,
		Code:        body.Code,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, p)
}

func (s *Server) updateProject(c echo.Context) error {
	var body updateProjectBody
	if err := c.Bind(&body); err != nil {
		return err
	}
	p, err := s.app.ProjectService.UpdateProject(c.Request().Context(), projectservice.UpdateProjectRequest{
		ID:          c.Param("id"),
		Name:        body.Name,
		Key:         body.Key,
		Description: body.Description,
		Code:        body.Code,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, p)
}

func (s *Server) deleteProject(c echo.Context) error {
	if err := s.app.ProjectService.DeleteProject(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// getBoard returns the project's issues grouped into status lanes
func (s *Server) getBoard(c echo.Context) error {
	filter := board.Filter{
		Search:     c.QueryParam("search"),
		AssigneeID: c.QueryParam("assigneeId"),
		ReporterID: c.QueryParam("reporterId"),
		Status:     models.Status(c.QueryParam("status")),
		Type:       models.IssueType(c.QueryParam("type")),
	}
	lanes, err := s.app.IssueService.Board(c.Request().Context(), c.Param("id"), filter)
	if err != nil {
		return err
	}
	s.metrics.IncBoardsComputed()
	return c.JSON(http.StatusOK, lanes)
}

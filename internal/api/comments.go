package api

import (
	"net/http"

	"github.com/labstack/echo/v4"

	commentservice "github.com/thenoetrevino/issueboard/internal/services/comment"
)

type createCommentBody struct {
	Content string `json:"content"`
	IssueID string `json:"issueId"`
	UserID  string `json:"userId"`
}

type updateCommentBody struct {
	Content string `json:"content"`
}

func (s *Server) listComments(c echo.Context) error {
	comments, err := s.app.CommentService.GetAllComments(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, nonNil(comments))
}

func (s *Server) listIssueComments(c echo.Context) error {
	comments, err := s.app.CommentService.GetCommentsByIssue(c.Request().Context(), c.Param("issueId"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, nonNil(comments))
}

func (s *Server) listProjectComments(c echo.Context) error {
	comments, err := s.app.CommentService.GetCommentsByProject(c.Request().Context(), c.Param("projectId"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, nonNil(comments))
}

func (s *Server) getComment(c echo.Context) error {
	comment, err := s.app.CommentService.GetCommentByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, comment)
}

// createComment attributes the comment to the authenticated user when the
// body names no author
func (s *Server) createComment(c echo.Context) error {
	var body createCommentBody
	if err := c.Bind(&body); err != nil {
		return err
	}
	if body.UserID == "" {
		body.UserID = currentUserID(c)
	}
	comment, err := s.app.CommentService.CreateComment(c.Request().Context(), commentservice.CreateCommentRequest{
		IssueID: body.IssueID,
		UserID:  body.UserID,
		Content: body.Content,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, comment)
}

func (s *Server) updateComment(c echo.Context) error {
	var body updateCommentBody
	if err := c.Bind(&body); err != nil {
		return err
	}
	comment, err := s.app.CommentService.UpdateComment(c.Request().Context(), c.Param("id"), body.Content)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, comment)
}

func (s *Server) deleteComment(c echo.Context) error {
	if err := s.app.CommentService.DeleteComment(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

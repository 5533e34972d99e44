package api

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	log "github.com/sirupsen/logrus"

	"github.com/thenoetrevino/issueboard/internal/auth"
	"github.com/thenoetrevino/issueboard/internal/models"
	commentservice "github.com/thenoetrevino/issueboard/internal/services/comment"
	issueservice "github.com/thenoetrevino/issueboard/internal/services/issue"
	projectservice "github.com/thenoetrevino/issueboard/internal/services/project"
	userservice "github.com/thenoetrevino/issueboard/internal/services/user"
)

// errorResponse is the body of every failed request
type errorResponse struct {
	Error string `json:"error"`
}

var (
	badRequestErrors = []error{
		userservice.ErrEmptyName, userservice.ErrNameTooLong, userservice.ErrEmptyEmail,
		userservice.ErrInvalidEmail, userservice.ErrEmptyPassword, userservice.ErrInvalidRole,
		userservice.ErrCredentialsRequired, userservice.ErrNameTaken, userservice.ErrEmailTaken,
		userservice.ErrUserHasReports,
		projectservice.ErrEmptyName, projectservice.ErrNameTooLong, projectservice.ErrKeyTooLong,
		issueservice.ErrEmptyTitle, issueservice.ErrTitleTooLong, issueservice.ErrInvalidType,
		issueservice.ErrInvalidStatus, issueservice.ErrInvalidPriority,
		issueservice.ErrMissingProject, issueservice.ErrMissingReporter,
		commentservice.ErrEmptyContent, commentservice.ErrContentTooLong,
		commentservice.ErrMissingIssue, commentservice.ErrMissingUser,
		models.ErrConflict, models.ErrReferenced,
	}

	notFoundErrors = []error{
		userservice.ErrUserNotFound, projectservice.ErrProjectNotFound,
		issueservice.ErrIssueNotFound, issueservice.ErrProjectNotFound,
		issueservice.ErrReporterNotFound, issueservice.ErrAssigneeNotFound,
		commentservice.ErrCommentNotFound, commentservice.ErrIssueNotFound,
		commentservice.ErrUserNotFound, models.ErrNotFound,
	}

	unauthorizedErrors = []error{
		userservice.ErrInvalidCredentials, auth.ErrInvalidToken,
		auth.ErrMissingAuthorization, auth.ErrBadAuthorization,
	}
)

// statusFor maps a service error to its HTTP status
func statusFor(err error) int {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code
	}
	switch {
	case isAny(err, unauthorizedErrors):
		return http.StatusUnauthorized
	case isAny(err, notFoundErrors):
		return http.StatusNotFound
	case isAny(err, badRequestErrors):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func isAny(err error, targets []error) bool {
	for _, target := range targets {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// errorHandler writes {"error": msg} bodies. Internal errors are logged and
// hidden from the client.
func errorHandler(logger *log.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status := statusFor(err)
		msg := err.Error()
		var he *echo.HTTPError
		if errors.As(err, &he) {
			if m, ok := he.Message.(string); ok {
				msg = m
			} else {
				msg = http.StatusText(he.Code)
			}
		}
		if status == http.StatusUnauthorized && errors.Is(err, auth.ErrInvalidToken) {
			msg = auth.ErrInvalidToken.Error()
		}
		if status >= http.StatusInternalServerError {
			logger.WithError(err).WithField("path", c.Path()).Error("internal error")
			msg = http.StatusText(status)
		}

		var writeErr error
		if c.Request().Method == http.MethodHead {
			writeErr = c.NoContent(status)
		} else {
			writeErr = c.JSON(status, errorResponse{Error: msg})
		}
		if writeErr != nil {
			logger.WithError(writeErr).Warn("failed to write error response")
		}
	}
}

package api

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

const statusCheckTimeout = 2 * time.Second

type statusResponse struct {
	Status            string          `json:"status"`
	Message           string          `json:"message"`
	DatabaseConnected bool            `json:"databaseConnected"`
	Projects          int             `json:"projects"`
	CacheEnabled      bool            `json:"cacheEnabled"`
	Timestamp         time.Time       `json:"timestamp"`
	Metrics           MetricsSnapshot `json:"metrics"`
}

func (s *Server) banner(c echo.Context) error {
	return c.String(http.StatusOK, "Issue board API is running")
}

// status reports database reachability. It answers 200 even when the
// database is down so monitors can read the body.
func (s *Server) status(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), statusCheckTimeout)
	defer cancel()

	resp := statusResponse{
		Status:       "ok",
		Message:      "API is running",
		CacheEnabled: s.app.CacheEnabled(),
		Timestamp:    time.Now().UTC(),
		Metrics:      s.metrics.Snapshot(),
	}

	if err := s.db.PingContext(ctx); err != nil {
		s.logger.WithError(err).Warn("status: database ping failed")
		resp.Status = "degraded"
		resp.Message = "database unreachable"
		return c.JSON(http.StatusOK, resp)
	}
	resp.DatabaseConnected = true

	count, err := s.app.ProjectService.CountProjects(ctx)
	if err != nil {
		s.logger.WithError(err).Warn("status: project count failed")
	}
	resp.Projects = count
	return c.JSON(http.StatusOK, resp)
}

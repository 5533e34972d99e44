// Package api exposes the issue tracker over a JSON REST API
package api

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	log "github.com/sirupsen/logrus"

	"github.com/thenoetrevino/issueboard/internal/app"
	"github.com/thenoetrevino/issueboard/internal/auth"
)

const shutdownTimeout = 10 * time.Second

// Options configures the HTTP layer
type Options struct {
	BodyLimit    string
	AllowOrigins []string
	Logger       *log.Logger
}

// Server wires the application services to echo routes
type Server struct {
	echo    *echo.Echo
	app     *app.App
	db      *sql.DB
	issuer  *auth.Issuer
	metrics *Metrics
	logger  *log.Logger
}

// NewServer builds the echo instance and registers every route
func NewServer(a *app.App, db *sql.DB, issuer *auth.Issuer, opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = log.StandardLogger()
	}
	if opts.BodyLimit == "" {
		opts.BodyLimit = "1M"
	}
	if len(opts.AllowOrigins) == 0 {
		opts.AllowOrigins = []string{"*"}
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.JSONSerializer = sonicSerializer{}
	e.HTTPErrorHandler = errorHandler(opts.Logger)

	s := &Server{
		echo:    e,
		app:     a,
		db:      db,
		issuer:  issuer,
		metrics: NewMetrics(),
		logger:  opts.Logger,
	}

	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: opts.AllowOrigins,
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))
	e.Use(middleware.BodyLimit(opts.BodyLimit))
	e.Use(s.requestLogger())

	s.register()
	return s
}

// Handler exposes the router for tests and embedding
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Metrics returns the live request counters
func (s *Server) Metrics() *Metrics {
	return s.metrics
}

// Start serves on addr until ctx is cancelled, then shuts down gracefully
func (s *Server) Start(ctx context.Context, addr string) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.WithField("addr", addr).Info("api server listening")
		if err := s.echo.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("api server shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.echo.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}

func (s *Server) register() {
	e := s.echo
	e.GET("/", s.banner)
	e.GET("/api/status", s.status)

	e.POST("/api/users", s.createUser)
	e.POST("/api/users/login", s.login)

	api := e.Group("/api", s.requireAuth)

	api.GET("/users", s.listUsers)
	api.GET("/users/:id", s.getUser)
	api.PUT("/users/:id", s.updateUser)
	api.PATCH("/users/:id", s.updateUser)
	api.DELETE("/users/:id", s.deleteUser)

	api.GET("/projects", s.listProjects)
	api.POST("/projects", s.createProject)
	api.GET("/projects/:id", s.getProject)
	api.PUT("/projects/:id", s.updateProject)
	api.PATCH("/projects/:id", s.updateProject)
	api.DELETE("/projects/:id", s.deleteProject)
	api.GET("/projects/:id/board", s.getBoard)

	api.GET("/issues", s.listIssues)
	api.POST("/issues", s.createIssue)
	api.GET("/issues/:id", s.getIssue)
	api.PUT("/issues/:id", s.replaceIssue)
	api.PATCH("/issues/:id", s.patchIssue)
	api.DELETE("/issues/:id", s.deleteIssue)

	api.GET("/comments", s.listComments)
	api.POST("/comments", s.createComment)
	api.GET("/comments/issue/:issueId", s.listIssueComments)
	api.GET("/comments/project/:projectId", s.listProjectComments)
	api.GET("/comments/:id", s.getComment)
	api.PUT("/comments/:id", s.updateComment)
	api.PATCH("/comments/:id", s.updateComment)
	api.DELETE("/comments/:id", s.deleteComment)
}

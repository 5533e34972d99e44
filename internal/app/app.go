package app

import (
	"database/sql"

	log "github.com/sirupsen/logrus"

	"github.com/thenoetrevino/issueboard/internal/cache"
	"github.com/thenoetrevino/issueboard/internal/database"
	"github.com/thenoetrevino/issueboard/internal/events"
	commentservice "github.com/thenoetrevino/issueboard/internal/services/comment"
	issueservice "github.com/thenoetrevino/issueboard/internal/services/issue"
	projectservice "github.com/thenoetrevino/issueboard/internal/services/project"
	userservice "github.com/thenoetrevino/issueboard/internal/services/user"
)

// App holds all application services and provides dependency injection.
// This is the main application container that manages service lifecycles.
type App struct {
	// Repository layer (direct database access)
	repo *database.Repository

	// Change events; ownedBus is set when the App created the bus itself
	eventClient events.EventPublisher
	ownedBus    *events.Bus

	// Optional Redis cache for project issue lists
	issueCache  *cache.IssueCache
	unsubscribe func()

	// Service layer (business logic)
	UserService    userservice.Service
	ProjectService projectservice.Service
	IssueService   issueservice.Service
	CommentService commentservice.Service
}

// New creates a new App with all services initialized.
// This is the single entry point for creating the application container.
func New(db *sql.DB, opts ...Option) *App {
	cfg := &appConfig{}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.logger == nil {
		cfg.logger = log.StandardLogger()
	}

	a := &App{repo: database.NewRepository(db)}

	if cfg.eventClient == nil {
		a.ownedBus = events.NewBus()
		cfg.eventClient = a.ownedBus
	}
	a.eventClient = cfg.eventClient

	var issueOpts []issueservice.Option
	if cfg.redis != nil {
		a.issueCache = cache.NewIssueCache(a.repo, cfg.redis, cfg.cacheTTL)
		a.unsubscribe = a.eventClient.Subscribe(a.issueCache.Handler())
		issueOpts = append(issueOpts, issueservice.WithLister(a.issueCache))
		cfg.logger.WithField("ttl", cfg.cacheTTL).Info("issue cache enabled")
	}

	a.UserService = userservice.NewService(a.repo, a.eventClient)
	a.ProjectService = projectservice.NewService(a.repo, a.eventClient)
	a.IssueService = issueservice.NewService(a.repo, a.eventClient, issueOpts...)
	a.CommentService = commentservice.NewService(a.repo, a.eventClient)
	return a
}

// Repo returns the underlying repository for direct database access
func (a *App) Repo() *database.Repository {
	return a.repo
}

// Events returns the publisher services report changes to
func (a *App) Events() events.EventPublisher {
	return a.eventClient
}

// CacheEnabled reports whether project issue reads go through Redis
func (a *App) CacheEnabled() bool {
	return a.issueCache != nil
}

// Close detaches the cache from the event stream and closes an owned bus
func (a *App) Close() error {
	if a.unsubscribe != nil {
		a.unsubscribe()
		a.unsubscribe = nil
	}
	if a.ownedBus != nil {
		return a.ownedBus.Close()
	}
	return nil
}

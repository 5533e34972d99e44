package app

import (
	"time"

	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"

	"github.com/thenoetrevino/issueboard/internal/events"
)

// Option is a functional option for configuring App initialization
type Option func(*appConfig)

// appConfig holds the configuration for App initialization
type appConfig struct {
	eventClient events.EventPublisher
	redis       *redis.Client
	cacheTTL    time.Duration
	logger      log.FieldLogger
}

// WithEventPublisher sets the event publisher for the application.
// Without it the App creates and owns an in-process bus.
func WithEventPublisher(ec events.EventPublisher) Option {
	return func(cfg *appConfig) {
		cfg.eventClient = ec
	}
}

// WithRedis enables the project issue cache
func WithRedis(client *redis.Client, ttl time.Duration) Option {
	return func(cfg *appConfig) {
		cfg.redis = client
		cfg.cacheTTL = ttl
	}
}

// WithLogger sets the logger for the application
func WithLogger(logger log.FieldLogger) Option {
	return func(cfg *appConfig) {
		cfg.logger = logger
	}
}

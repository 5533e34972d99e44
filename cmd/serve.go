package cmd

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/gofrs/flock"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/thenoetrevino/issueboard/internal/api"
	"github.com/thenoetrevino/issueboard/internal/app"
	"github.com/thenoetrevino/issueboard/internal/auth"
	"github.com/thenoetrevino/issueboard/internal/config"
	"github.com/thenoetrevino/issueboard/internal/database"
)

// ErrAlreadyRunning is returned when another server holds the database lock
var ErrAlreadyRunning = errors.New("another issueboard server is already using this database")

func newServeCmd(opts *rootOptions) *cobra.Command {
	var port int
	var dbPath string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the REST API",
		Long: `Run the REST API until interrupted.

The Redis issue cache is enabled when REDIS_URL (or redis.url in the config
file) is set. JWT_SECRET is required.

Examples:
  JWT_SECRET=change-me issueboard serve
  issueboard serve --port 8080 --db ./board.db`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := opts.cfg
			if port > 0 {
				cfg.Server.Port = port
			}
			if dbPath != "" {
				cfg.Database.Path = dbPath
			}

			ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer cancel()
			return serve(ctx, cfg)
		},
	}

	cmd.Flags().IntVar(&port, "port", 0, "Listen port (overrides PORT)")
	cmd.Flags().StringVar(&dbPath, "db", "", "SQLite database path (overrides DATABASE_PATH)")
	return cmd
}

func serve(ctx context.Context, cfg *config.Config) error {
	issuer, err := auth.NewIssuer(cfg.Server.JWTSecret, cfg.Server.TokenTTL)
	if err != nil {
		return fmt.Errorf("JWT_SECRET: %w", err)
	}

	path, err := databasePath(cfg)
	if err != nil {
		return err
	}

	unlock, err := lockDatabase(path)
	if err != nil {
		return err
	}
	defer unlock()

	db, err := database.InitDB(ctx, path)
	if err != nil {
		return err
	}
	defer closeDB(db)

	appOpts := []app.Option{app.WithLogger(log.StandardLogger())}
	if cfg.Redis.URL != "" {
		redisOpts, err := redis.ParseURL(cfg.Redis.URL)
		if err != nil {
			return fmt.Errorf("invalid REDIS_URL: %w", err)
		}
		rdb := redis.NewClient(redisOpts)
		defer func() { _ = rdb.Close() }()

		if err := rdb.Ping(ctx).Err(); err != nil {
			log.WithError(err).Warn("redis unreachable, reads will fall back to the database")
		}
		appOpts = append(appOpts, app.WithRedis(rdb, cfg.Redis.CacheTTL))
	}

	application := app.New(db, appOpts...)
	defer func() {
		if err := application.Close(); err != nil {
			log.WithError(err).Error("error closing app")
		}
	}()

	server := api.NewServer(application, db, issuer, api.Options{
		BodyLimit:    cfg.Server.BodyLimit,
		AllowOrigins: cfg.Server.AllowOrigins,
		Logger:       log.StandardLogger(),
	})

	log.WithFields(log.Fields{
		"addr":     cfg.Addr(),
		"database": path,
		"cache":    application.CacheEnabled(),
		"pid":      os.Getpid(),
	}).Info("issueboard api starting")

	if err := server.Start(ctx, cfg.Addr()); err != nil {
		return err
	}
	log.Info("issueboard api stopped")
	return nil
}

func databasePath(cfg *config.Config) (string, error) {
	if cfg.Database.Path != "" {
		return cfg.Database.Path, nil
	}
	return database.DefaultPath()
}

// lockDatabase takes an exclusive lock file next to the database so two
// servers never write the same file
func lockDatabase(path string) (func(), error) {
	if path == ":memory:" {
		return func() {}, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	lock := flock.New(path + ".lock")
	locked, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("failed to acquire lock: %w", err)
	}
	if !locked {
		return nil, ErrAlreadyRunning
	}
	return func() {
		if err := lock.Unlock(); err != nil {
			log.WithError(err).Warn("failed to release database lock")
		}
	}, nil
}

func closeDB(db *sql.DB) {
	if err := db.Close(); err != nil {
		log.WithError(err).Error("error closing db")
	}
}

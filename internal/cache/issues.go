// Package cache keeps per-project issue lists in Redis so board reads skip
// the database until a change event arrives.
package cache

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/bytedance/sonic"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"

	"github.com/thenoetrevino/issueboard/internal/events"
	"github.com/thenoetrevino/issueboard/internal/models"
)

const keyPrefix = "issueboard:issues:"

// DefaultTTL applies when a non-positive TTL is configured
const DefaultTTL = 5 * time.Minute

// loadTimeout bounds a shared backend load, which outlives any one caller
const loadTimeout = 30 * time.Second

type backend interface {
	ListIssuesByProject(ctx context.Context, projectID string) ([]*models.Issue, error)
}

// IssueCache is a read-through Redis cache over a project issue lister.
// Redis failures fall back to the backend without failing the read.
type IssueCache struct {
	base  backend
	redis *redis.Client
	ttl   time.Duration

	// loads collapses concurrent misses for one project into one query
	loads singleflight.Group

	// mu guards the generations. Evict bumps them so a load that started
	// before a write never stores its result.
	mu    sync.Mutex
	gens  map[string]uint64
	epoch uint64
}

// NewIssueCache wraps base with client. A nil client disables caching.
func NewIssueCache(base backend, client *redis.Client, ttl time.Duration) *IssueCache {
	if base == nil {
		panic("cache.NewIssueCache: base is nil")
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &IssueCache{base: base, redis: client, ttl: ttl, gens: make(map[string]uint64)}
}

// ListIssuesByProject returns the cached list for projectID, loading and
// storing it on a miss
func (c *IssueCache) ListIssuesByProject(ctx context.Context, projectID string) ([]*models.Issue, error) {
	if issues, ok := c.load(ctx, projectID); ok {
		return issues, nil
	}

	gen := c.generation(projectID)
	key := projectID + "@" + strconv.FormatUint(gen, 10)
	ch := c.loads.DoChan(key, func() (any, error) {
		loadCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), loadTimeout)
		defer cancel()

		issues, err := c.base.ListIssuesByProject(loadCtx, projectID)
		if err != nil {
			return nil, err
		}
		c.store(loadCtx, projectID, gen, issues)
		return issues, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.([]*models.Issue), nil
	}
}

// Evict drops the cached list for projectID
func (c *IssueCache) Evict(ctx context.Context, projectID string) {
	if c.redis == nil || projectID == "" {
		return
	}
	c.mu.Lock()
	c.gens[projectID]++
	c.mu.Unlock()

	if err := c.redis.Del(ctx, issuesKey(projectID)).Err(); err != nil {
		log.WithError(err).WithField("project_id", projectID).Warn("cache evict failed")
	}
}

// EvictAll drops every cached project list
func (c *IssueCache) EvictAll(ctx context.Context) {
	if c.redis == nil {
		return
	}
	c.mu.Lock()
	c.epoch++
	c.mu.Unlock()

	iter := c.redis.Scan(ctx, 0, keyPrefix+"*", 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		log.WithError(err).Warn("cache scan failed")
		return
	}
	if len(keys) == 0 {
		return
	}
	if err := c.redis.Del(ctx, keys...).Err(); err != nil {
		log.WithError(err).Warn("cache evict failed")
	}
}

// Handler returns an event handler that keeps the cache consistent with
// writes. Issue and project events evict their project; user events evict
// everything because cached issues embed user names.
func (c *IssueCache) Handler() events.Handler {
	return func(ctx context.Context, e events.Event) error {
		switch e.Type {
		case events.EventIssueChanged, events.EventProjectChanged:
			c.Evict(ctx, e.ProjectID)
		case events.EventUserChanged:
			c.EvictAll(ctx)
		}
		return nil
	}
}

func (c *IssueCache) load(ctx context.Context, projectID string) ([]*models.Issue, bool) {
	if c.redis == nil {
		return nil, false
	}
	data, err := c.redis.Get(ctx, issuesKey(projectID)).Bytes()
	if err != nil {
		if err != redis.Nil {
			log.WithError(err).WithField("project_id", projectID).Debug("cache read failed")
		}
		return nil, false
	}
	var issues []*models.Issue
	if err := sonic.Unmarshal(data, &issues); err != nil {
		_ = c.redis.Del(ctx, issuesKey(projectID)).Err()
		return nil, false
	}
	return issues, true
}

// generation changes whenever projectID is evicted, alone or by EvictAll
func (c *IssueCache) generation(projectID string) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.epoch + c.gens[projectID]
}

// store writes issues unless projectID was evicted after the load read them.
// The check and the write share the lock with the generation bump, so an
// eviction either skips this write or deletes it afterwards.
func (c *IssueCache) store(ctx context.Context, projectID string, gen uint64, issues []*models.Issue) {
	if c.redis == nil {
		return
	}
	data, err := sonic.Marshal(issues)
	if err != nil {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.epoch+c.gens[projectID] != gen {
		log.WithField("project_id", projectID).Debug("cache write skipped after eviction")
		return
	}
	if err := c.redis.Set(ctx, issuesKey(projectID), data, c.ttl).Err(); err != nil {
		log.WithError(err).WithField("project_id", projectID).Debug("cache write failed")
	}
}

func issuesKey(projectID string) string {
	return keyPrefix + projectID
}

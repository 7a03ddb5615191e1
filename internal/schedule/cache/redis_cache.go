package cache

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/cloudnative-denmark/conference-companion/internal/logging"
	"github.com/cloudnative-denmark/conference-companion/internal/schedule/client"
)

const (
	feedKeyPrefix  = "sched:" // sched:{event_id}:{view}
	defaultFeedTTL = 2 * time.Minute
)

// FeedCache keeps provider view bodies in Redis so restarts and parallel
// replicas do not hammer the provider. Redis failures fall through to the source.
type FeedCache struct {
	client  *redis.Client
	next    client.RawSource
	eventID string
	ttl     time.Duration
}

// NewFeedCache creates a cache in front of next
func NewFeedCache(rdb *redis.Client, next client.RawSource, eventID string, ttl time.Duration) *FeedCache {
	if ttl <= 0 {
		ttl = defaultFeedTTL
	}
	return &FeedCache{client: rdb, next: next, eventID: eventID, ttl: ttl}
}

// FetchView returns the cached body for view, fetching and storing it on a miss
func (c *FeedCache) FetchView(ctx context.Context, view client.View) ([]byte, error) {
	logger := logging.New(ctx)
	key := c.key(view)

	data, err := c.client.Get(ctx, key).Bytes()
	if err == nil {
		return data, nil
	}
	if !errors.Is(err, redis.Nil) {
		logger.LogWarnf("feed_cache", "get %s failed: %v", key, err)
	}

	data, err = c.next.FetchView(ctx, view)
	if err != nil {
		return nil, err
	}

	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		logger.LogWarnf("feed_cache", "set %s failed: %v", key, err)
	}
	return data, nil
}

// Invalidate drops every cached view so the next fetch goes to the provider
func (c *FeedCache) Invalidate(ctx context.Context) error {
	keys := make([]string, 0, 3)
	for _, v := range []client.View{client.ViewGrid, client.ViewSpeakers, client.ViewSessions} {
		keys = append(keys, c.key(v))
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("failed to invalidate feed cache: %w", err)
	}
	return nil
}

func (c *FeedCache) key(view client.View) string {
	return feedKeyPrefix + c.eventID + ":" + strings.ToLower(string(view))
}

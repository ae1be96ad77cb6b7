package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

const (
	contextCachePrefix = "context:"
	contextCacheTTL    = 5 * time.Minute
)

// ContextCache caches the assembled document context per session so that
// repeated questions against an unchanged document set skip the database.
type ContextCache struct {
	client *Client
}

// NewContextCache creates a new context cache
func NewContextCache(client *Client) *ContextCache {
	return &ContextCache{client: client}
}

// Get retrieves the cached context for a session. The second return value
// reports whether the key was present; an empty context is a valid entry.
func (c *ContextCache) Get(ctx context.Context, sessionID uuid.UUID) (string, bool, error) {
	key := fmt.Sprintf("%s%s", contextCachePrefix, sessionID.String())

	data, err := c.client.rdb.Get(ctx, key).Result()
	if err != nil {
		return "", false, nil // Cache miss
	}

	return data, true, nil
}

// Set caches the assembled context for a session
func (c *ContextCache) Set(ctx context.Context, sessionID uuid.UUID, assembled string) error {
	key := fmt.Sprintf("%s%s", contextCachePrefix, sessionID.String())
	return c.client.rdb.Set(ctx, key, assembled, contextCacheTTL).Err()
}

// Invalidate removes the cached context for a session. Called whenever the
// session's document set changes.
func (c *ContextCache) Invalidate(ctx context.Context, sessionID uuid.UUID) error {
	key := fmt.Sprintf("%s%s", contextCachePrefix, sessionID.String())
	return c.client.rdb.Del(ctx, key).Err()
}

// FlushAll removes all cached contexts
func (c *ContextCache) FlushAll(ctx context.Context) (int64, error) {
	pattern := contextCachePrefix + "*"
	var cursor uint64
	var deleted int64

	for {
		keys, nextCursor, err := c.client.rdb.Scan(ctx, cursor, pattern, 100).Result()
		if err != nil {
			return deleted, fmt.Errorf("failed to scan keys: %w", err)
		}

		if len(keys) > 0 {
			count, err := c.client.rdb.Del(ctx, keys...).Result()
			if err != nil {
				return deleted, fmt.Errorf("failed to delete keys: %w", err)
			}
			deleted += count
		}

		cursor = nextCursor
		if cursor == 0 {
			break
		}
	}

	return deleted, nil
}

package lyrics

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	redis "github.com/redis/go-redis/v9"
)

const cacheKeyPrefix = "lyralign:lyrics:"

// defaultCacheTTL keeps fetched lyrics for a week. Lyrics for a released
// song do not change, so the TTL mostly bounds Redis memory.
const defaultCacheTTL = 7 * 24 * time.Hour

// Cache stores normalised lyric lines in Redis, keyed by artist and title.
// All failures are soft: a broken Redis degrades to plain API fetches.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCache connects to the Redis instance at addr (e.g., "localhost:6379").
// A non-positive ttl selects the one-week default. The connection is
// verified with a ping so that a misconfigured address surfaces at startup.
func NewCache(ctx context.Context, addr string, ttl time.Duration) (*Cache, error) {
	if addr == "" {
		return nil, fmt.Errorf("lyrics: cache address must not be empty")
	}
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}

	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("lyrics: ping redis %q: %w", addr, err)
	}

	return &Cache{client: client, ttl: ttl}, nil
}

// Get returns the cached lines for artist/title, or ok=false on a miss or
// any Redis error.
func (c *Cache) Get(ctx context.Context, artist, title string) (lines []string, ok bool) {
	val, err := c.client.Get(ctx, cacheKey(artist, title)).Result()
	if err != nil {
		if err != redis.Nil {
			slog.Warn("lyrics cache get failed", "artist", artist, "title", title, "err", err)
		}
		return nil, false
	}
	if val == "" {
		return nil, false
	}
	return strings.Split(val, "\n"), true
}

// Set stores lines for artist/title with the configured TTL. Errors are
// logged, not returned.
func (c *Cache) Set(ctx context.Context, artist, title string, lines []string) {
	err := c.client.Set(ctx, cacheKey(artist, title), strings.Join(lines, "\n"), c.ttl).Err()
	if err != nil {
		slog.Warn("lyrics cache set failed", "artist", artist, "title", title, "err", err)
	}
}

// Close releases the Redis connection.
func (c *Cache) Close() error {
	return c.client.Close()
}

// cacheKey builds the Redis key. Artist and title are lowercased so lookups
// are case-insensitive.
func cacheKey(artist, title string) string {
	return cacheKeyPrefix + strings.ToLower(artist) + "|" + strings.ToLower(title)
}

package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/harborml-backend/internal/logger"
	"github.com/yungbote/harborml-backend/internal/services"
)

// LeaderboardCache caches rendered leaderboard views in redis under one key
// per limit. Entries expire on a short TTL and are dropped eagerly whenever a
// scoring event moves a profile.
type LeaderboardCache struct {
	log    *logger.Logger
	rdb    *goredis.Client
	prefix string
	ttl    time.Duration
}

func NewLeaderboardCache(log *logger.Logger, ttl time.Duration) (*LeaderboardCache, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}

	addr := strings.TrimSpace(os.Getenv("REDIS_ADDR"))
	if addr == "" {
		return nil, fmt.Errorf("missing REDIS_ADDR")
	}
	prefix := strings.TrimSpace(os.Getenv("REDIS_LEADERBOARD_PREFIX"))
	if prefix == "" {
		prefix = "leaderboard"
	}
	if ttl <= 0 {
		ttl = 30 * time.Second
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &LeaderboardCache{
		log:    log.With("service", "RedisLeaderboardCache"),
		rdb:    rdb,
		prefix: prefix,
		ttl:    ttl,
	}, nil
}

func (c *LeaderboardCache) key(limit int) string {
	return fmt.Sprintf("%s:top:%d", c.prefix, limit)
}

func (c *LeaderboardCache) Get(ctx context.Context, limit int) ([]services.LeaderboardEntry, bool) {
	raw, err := c.rdb.Get(ctx, c.key(limit)).Bytes()
	if err != nil {
		if err != goredis.Nil {
			c.log.Warn("Leaderboard cache read failed", "error", err)
		}
		return nil, false
	}
	var entries []services.LeaderboardEntry
	if err := json.Unmarshal(raw, &entries); err != nil {
		c.log.Warn("Leaderboard cache entry corrupt, dropping", "error", err)
		_ = c.rdb.Del(ctx, c.key(limit)).Err()
		return nil, false
	}
	return entries, true
}

func (c *LeaderboardCache) Set(ctx context.Context, limit int, entries []services.LeaderboardEntry) {
	raw, err := json.Marshal(entries)
	if err != nil {
		c.log.Warn("Leaderboard cache encode failed", "error", err)
		return
	}
	if err := c.rdb.Set(ctx, c.key(limit), raw, c.ttl).Err(); err != nil {
		c.log.Warn("Leaderboard cache write failed", "error", err)
	}
}

func (c *LeaderboardCache) Invalidate(ctx context.Context) {
	iter := c.rdb.Scan(ctx, 0, c.prefix+":top:*", 0).Iterator()
	for iter.Next(ctx) {
		if err := c.rdb.Del(ctx, iter.Val()).Err(); err != nil {
			c.log.Warn("Leaderboard cache invalidation failed", "key", iter.Val(), "error", err)
		}
	}
	if err := iter.Err(); err != nil {
		c.log.Warn("Leaderboard cache scan failed", "error", err)
	}
}

func (c *LeaderboardCache) Close() error {
	return c.rdb.Close()
}

package redis

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/fairlead/chartering-backend/internal/pkg/logger"
	"github.com/fairlead/chartering-backend/internal/utils"
)

// NameCache is a read-through cache for reference display names. The
// resolver treats a nil cache as a plain DB lookup, so redis stays
// optional.
type NameCache interface {
	Get(ctx context.Context, key string) (string, bool)
	Set(ctx context.Context, key, val string)
	Close() error
}

type nameCache struct {
	log *logger.Logger
	rdb *goredis.Client
	ttl time.Duration
}

func NewNameCache(log *logger.Logger) (NameCache, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}

	addr := strings.TrimSpace(os.Getenv("REDIS_ADDR"))
	if addr == "" {
		return nil, fmt.Errorf("missing REDIS_ADDR")
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

	ttlMinutes := utils.GetEnvAsInt("REFNAME_CACHE_TTL_MINUTES", 15, log)
	return &nameCache{
		log: log.With("service", "RedisNameCache"),
		rdb: rdb,
		ttl: time.Duration(ttlMinutes) * time.Minute,
	}, nil
}

func (c *nameCache) Get(ctx context.Context, key string) (string, bool) {
	val, err := c.rdb.Get(ctx, key).Result()
	if err != nil {
		if err != goredis.Nil {
			c.log.Debug("cache get failed", "key", key, "error", err)
		}
		return "", false
	}
	return val, true
}

func (c *nameCache) Set(ctx context.Context, key, val string) {
	if err := c.rdb.Set(ctx, key, val, c.ttl).Err(); err != nil {
		c.log.Debug("cache set failed", "key", key, "error", err)
	}
}

func (c *nameCache) Close() error {
	return c.rdb.Close()
}

package redis

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/daleyoon76/saas-idea-generator/internal/observability"
	"github.com/daleyoon76/saas-idea-generator/internal/platform/logger"
)

const keyPrefix = "ideaforge:cache:"

type Config struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

// Cache stores JSON-encoded research answers. Get reports a miss with
// (false, nil); cache errors are never fatal to callers.
type Cache interface {
	Get(ctx context.Context, key string, out any) (bool, error)
	Set(ctx context.Context, key string, v any) error
	Close() error
}

type cache struct {
	log *logger.Logger
	rdb *goredis.Client
	ttl time.Duration
}

// NewCache connects to Redis, or returns a no-op cache when no address is
// configured.
func NewCache(log *logger.Logger, cfg Config) (Cache, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	addr := strings.TrimSpace(cfg.Addr)
	if addr == "" {
		log.Info("REDIS_ADDR not set, research cache disabled")
		return NopCache{}, nil
	}
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = time.Hour
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		Password:    cfg.Password,
		DB:          cfg.DB,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &cache{
		log: log.With("service", "RedisCache"),
		rdb: rdb,
		ttl: ttl,
	}, nil
}

// Key hashes the parts so arbitrary user input never ends up in a Redis key.
func Key(namespace string, parts ...string) string {
	h := sha256.New()
	for _, p := range parts {
		_, _ = h.Write([]byte(strings.ToLower(strings.TrimSpace(p))))
		_, _ = h.Write([]byte{0})
	}
	return keyPrefix + namespace + ":" + hex.EncodeToString(h.Sum(nil))[:32]
}

func (c *cache) Get(ctx context.Context, key string, out any) (bool, error) {
	raw, err := c.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, goredis.Nil) {
		observability.Current().IncCache(false)
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(raw, out); err != nil {
		c.log.Warn("Dropping undecodable cache entry", "key", key, "error", err)
		_ = c.rdb.Del(ctx, key).Err()
		observability.Current().IncCache(false)
		return false, nil
	}
	observability.Current().IncCache(true)
	return true, nil
}

func (c *cache) Set(ctx context.Context, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, key, raw, c.ttl).Err()
}

func (c *cache) Close() error {
	return c.rdb.Close()
}

type NopCache struct{}

func (NopCache) Get(context.Context, string, any) (bool, error) { return false, nil }
func (NopCache) Set(context.Context, string, any) error         { return nil }
func (NopCache) Close() error                                   { return nil }

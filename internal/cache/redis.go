// Package cache is a redis read cache for the imported optimization report
// tables. The cache degrades gracefully: when redis is unreachable every
// lookup is a miss and writes are dropped, so the API keeps serving from the
// store.
package cache

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"bakery-backend/internal/config"
)

type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

// New connects to redis per the config. Returns nil when redis is disabled;
// a nil *Cache is safe to use and always misses.
func New(cfg *config.Config) *Cache {
	if !cfg.Redis.Enabled {
		return nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		log.Printf("[Redis] unavailable, running without cache: %v", err)
		return nil
	}

	log.Printf("[Redis] connected to %s", cfg.Redis.Addr)
	return &Cache{
		client: client,
		ttl:    time.Duration(cfg.Redis.ReportTTLSeconds) * time.Second,
	}
}

// GetJSON loads key into dest. Returns false on miss or any redis error.
func (c *Cache) GetJSON(ctx context.Context, key string, dest interface{}) bool {
	if c == nil {
		return false
	}
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			log.Printf("[Redis] get %s: %v", key, err)
		}
		return false
	}
	if err := json.Unmarshal(data, dest); err != nil {
		log.Printf("[Redis] unmarshal %s: %v", key, err)
		return false
	}
	return true
}

// SetJSON stores value under key with the report TTL. Errors are logged and
// swallowed.
func (c *Cache) SetJSON(ctx context.Context, key string, value interface{}) {
	if c == nil {
		return
	}
	data, err := json.Marshal(value)
	if err != nil {
		log.Printf("[Redis] marshal %s: %v", key, err)
		return
	}
	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		log.Printf("[Redis] set %s: %v", key, err)
	}
}

// Invalidate removes keys by pattern after a bulk import.
func (c *Cache) Invalidate(ctx context.Context, pattern string) {
	if c == nil {
		return
	}
	keys, err := c.client.Keys(ctx, pattern).Result()
	if err != nil {
		log.Printf("[Redis] keys %s: %v", pattern, err)
		return
	}
	if len(keys) > 0 {
		if err := c.client.Del(ctx, keys...).Err(); err != nil {
			log.Printf("[Redis] del: %v", err)
		}
	}
}

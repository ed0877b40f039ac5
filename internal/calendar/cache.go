package calendar

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/redis/rueidis"
)

// Cache is a shared store for computed holiday sets. Lookups are best effort:
// a miss or a broken cache only costs a recomputation.
type Cache interface {
	Get(ctx context.Context, country string, year int) ([]Range, bool)
	Set(ctx context.Context, country string, year int, ranges []Range)
}

// RedisCache keeps holiday sets in redis under <prefix>:<country>:<year> so
// multiple planner instances compute each year at most once.
type RedisCache struct {
	client rueidis.Client
	prefix string
}

func NewRedisCache(client rueidis.Client, prefix string) *RedisCache {
	return &RedisCache{client: client, prefix: prefix}
}

func (c *RedisCache) key(country string, year int) string {
	return fmt.Sprintf("%s:%s:%d", c.prefix, country, year)
}

func (c *RedisCache) Get(ctx context.Context, country string, year int) ([]Range, bool) {
	cmd := c.client.B().Get().Key(c.key(country, year)).Build()
	result := c.client.Do(ctx, cmd)

	if err := result.Error(); err != nil {
		if !rueidis.IsRedisNil(err) {
			log.Printf("holiday cache: get failed: %v", err)
		}
		return nil, false
	}

	raw, err := result.AsBytes()
	if err != nil {
		return nil, false
	}

	var ranges []Range
	if err := json.Unmarshal(raw, &ranges); err != nil {
		log.Printf("holiday cache: corrupt entry for %s/%d: %v", country, year, err)
		return nil, false
	}
	return ranges, true
}

func (c *RedisCache) Set(ctx context.Context, country string, year int, ranges []Range) {
	raw, err := json.Marshal(ranges)
	if err != nil {
		return
	}

	cmd := c.client.B().Set().Key(c.key(country, year)).Value(string(raw)).Build()
	if err := c.client.Do(ctx, cmd).Error(); err != nil {
		log.Printf("holiday cache: set failed: %v", err)
	}
}

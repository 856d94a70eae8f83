package service

import (
	"context"
	"encoding/json"
	"lms_backend/pkg/logger"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const listingKeyPrefix = "units:listing:"

// 首页列表缓存键
const (
	ListingCategories  = "categories"
	ListingLatest      = "latest"
	ListingPopular     = "popular"
	ListingRecommended = "recommended"
)

var listingKeys = []string{ListingCategories, ListingLatest, ListingPopular, ListingRecommended}

// ListingCache 缓存首页公开列表，写操作后整体失效
type ListingCache interface {
	Get(ctx context.Context, key string, dest interface{}) bool
	Set(ctx context.Context, key string, value interface{})
	Invalidate(ctx context.Context)
}

func NewListingCache(rdb *redis.Client, ttl time.Duration) ListingCache {
	if rdb == nil {
		return noopListingCache{}
	}
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &RedisListingCache{Redis: rdb, TTL: ttl}
}

type RedisListingCache struct {
	Redis *redis.Client
	TTL   time.Duration
}

func (c *RedisListingCache) Get(ctx context.Context, key string, dest interface{}) bool {
	val, err := c.Redis.Get(ctx, listingKeyPrefix+key).Bytes()
	if err == redis.Nil {
		return false
	} else if err != nil {
		logger.Log.Warn("Listing cache read failed", zap.String("key", key), zap.Error(err))
		return false
	}
	if err := json.Unmarshal(val, dest); err != nil {
		return false
	}
	return true
}

func (c *RedisListingCache) Set(ctx context.Context, key string, value interface{}) {
	data, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := c.Redis.Set(ctx, listingKeyPrefix+key, data, c.TTL).Err(); err != nil {
		logger.Log.Warn("Listing cache write failed", zap.String("key", key), zap.Error(err))
	}
}

func (c *RedisListingCache) Invalidate(ctx context.Context) {
	keys := make([]string, 0, len(listingKeys))
	for _, k := range listingKeys {
		keys = append(keys, listingKeyPrefix+k)
	}
	if err := c.Redis.Del(ctx, keys...).Err(); err != nil {
		logger.Log.Warn("Listing cache invalidation failed", zap.Error(err))
	}
}

type noopListingCache struct{}

func (noopListingCache) Get(context.Context, string, interface{}) bool { return false }
func (noopListingCache) Set(context.Context, string, interface{})      {}
func (noopListingCache) Invalidate(context.Context)                    {}

package service

import (
	"context"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
)

const revokedTokenKeyPrefix = "revoked_token:"

// TokenBlacklist 记录已注销令牌的 jti，直到令牌自然过期
type TokenBlacklist interface {
	Revoke(ctx context.Context, jti string, ttl time.Duration) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// NewTokenBlacklist 有 Redis 时使用 Redis，否则退回进程内存
func NewTokenBlacklist(rdb *redis.Client) TokenBlacklist {
	if rdb == nil {
		return NewMemoryTokenBlacklist()
	}
	return &RedisTokenBlacklist{Redis: rdb}
}

type RedisTokenBlacklist struct {
	Redis *redis.Client
}

func (b *RedisTokenBlacklist) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	return b.Redis.Set(ctx, revokedTokenKeyPrefix+jti, "1", ttl).Err()
}

func (b *RedisTokenBlacklist) IsRevoked(ctx context.Context, jti string) (bool, error) {
	n, err := b.Redis.Exists(ctx, revokedTokenKeyPrefix+jti).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

type MemoryTokenBlacklist struct {
	mu      sync.Mutex
	entries map[string]time.Time
}

func NewMemoryTokenBlacklist() *MemoryTokenBlacklist {
	return &MemoryTokenBlacklist{entries: make(map[string]time.Time)}
}

func (b *MemoryTokenBlacklist) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	now := time.Now()
	b.mu.Lock()
	defer b.mu.Unlock()
	for k, exp := range b.entries {
		if now.After(exp) {
			delete(b.entries, k)
		}
	}
	b.entries[jti] = now.Add(ttl)
	return nil
}

func (b *MemoryTokenBlacklist) IsRevoked(ctx context.Context, jti string) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	exp, ok := b.entries[jti]
	if !ok {
		return false, nil
	}
	if time.Now().After(exp) {
		delete(b.entries, jti)
		return false, nil
	}
	return true, nil
}

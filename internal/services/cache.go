package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/tonzxz12/Findr-sub000/internal/tenant"

	"github.com/go-redis/redis/v8"
)

// ErrCacheMiss is returned by Get when the key is absent.
var ErrCacheMiss = errors.New("cache miss")

// Cache is the subset of CacheService the dashboard depends on.
type Cache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	SetWithTags(ctx context.Context, key string, value interface{}, expiration time.Duration, tags []string) error
	InvalidateByTag(ctx context.Context, tag string) error
}

// CacheService provides caching functionality using Redis
type CacheService struct {
	client *redis.Client
}

// NewCacheService creates a new cache service
func NewCacheService(client *redis.Client) *CacheService {
	return &CacheService{client: client}
}

// Get retrieves a value from cache
func (cs *CacheService) Get(ctx context.Context, key string, dest interface{}) error {
	val, err := cs.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return ErrCacheMiss
		}
		return fmt.Errorf("failed to get cache key %s: %w", key, err)
	}

	if err := json.Unmarshal(val, dest); err != nil {
		return fmt.Errorf("failed to unmarshal cached value for key %s: %w", key, err)
	}

	return nil
}

// Set stores a value in cache with expiration
func (cs *CacheService) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal value for key %s: %w", key, err)
	}

	if err := cs.client.Set(ctx, key, data, expiration).Err(); err != nil {
		return fmt.Errorf("failed to set cache key %s: %w", key, err)
	}

	return nil
}

// SetWithTags stores a value and records it under each tag for invalidation
func (cs *CacheService) SetWithTags(ctx context.Context, key string, value interface{}, expiration time.Duration, tags []string) error {
	if err := cs.Set(ctx, key, value, expiration); err != nil {
		return err
	}

	pipe := cs.client.TxPipeline()
	for _, tag := range tags {
		tagKey := TagKey(tag)
		pipe.SAdd(ctx, tagKey, key)
		// outlive the values the tag points at
		pipe.Expire(ctx, tagKey, expiration+time.Hour)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to tag cache key %s: %w", key, err)
	}

	return nil
}

// InvalidateByTag removes all cached values associated with a tag
func (cs *CacheService) InvalidateByTag(ctx context.Context, tag string) error {
	tagKey := TagKey(tag)

	keys, err := cs.client.SMembers(ctx, tagKey).Result()
	if err != nil {
		return fmt.Errorf("failed to get keys for tag %s: %w", tag, err)
	}

	keys = append(keys, tagKey)
	if err := cs.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("failed to delete keys for tag %s: %w", tag, err)
	}

	return nil
}

// Ping checks the Redis connection
func (cs *CacheService) Ping(ctx context.Context) error {
	return cs.client.Ping(ctx).Err()
}

// TagKey is the set holding the keys recorded under tag.
func TagKey(tag string) string {
	return "tag:" + tag
}

// DashboardKey is the cache key of a tenant's dashboard payload.
func DashboardKey(t tenant.Tenant) string {
	return "dashboard:" + t.Schema + ":" + t.ClientID
}

// TenantTag groups every cached value derived from a tenant's rows.
func TenantTag(t tenant.Tenant) string {
	return "tenant:" + t.ClientID
}

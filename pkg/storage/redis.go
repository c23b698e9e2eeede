package storage

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultScanCount int64 = 100

// RedisStorage implements KV on a redis server. Keys are stored verbatim, so
// the namespaced layout ("subscriptions:<id>") is directly visible in redis.
type RedisStorage struct {
	client    redis.UniversalClient
	scanCount int64
}

// NewRedisStorage connects to redis and verifies the connection with PING.
func NewRedisStorage(ctx context.Context, cfg RedisConfig) (*RedisStorage, error) {
	if cfg.Address == "" {
		return nil, fmt.Errorf("redis address is required")
	}

	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Address,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.Address, err)
	}

	return newRedisStorageWithClient(client, cfg.ScanCount), nil
}

func newRedisStorageWithClient(client redis.UniversalClient, scanCount int64) *RedisStorage {
	if scanCount <= 0 {
		scanCount = defaultScanCount
	}
	return &RedisStorage{client: client, scanCount: scanCount}
}

// Get returns the value stored under key
func (r *RedisStorage) Get(ctx context.Context, key string) ([]byte, error) {
	value, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get %s from redis: %w", key, err)
	}
	return value, nil
}

// Put stores value under key without expiry
func (r *RedisStorage) Put(ctx context.Context, key string, value []byte) error {
	if err := r.client.Set(ctx, key, value, 0).Err(); err != nil {
		return fmt.Errorf("failed to set %s in redis: %w", key, err)
	}
	return nil
}

// Delete removes key. DEL on a missing key is a no-op in redis.
func (r *RedisStorage) Delete(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("failed to delete %s from redis: %w", key, err)
	}
	return nil
}

// List walks the keyspace with SCAN, one cursor page at a time. SCAN may
// return a key more than once; duplicates are suppressed.
func (r *RedisStorage) List(ctx context.Context, prefix string) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		match := escapeGlob(prefix) + "*"
		seen := make(map[string]struct{})
		var cursor uint64

		for {
			keys, next, err := r.client.Scan(ctx, cursor, match, r.scanCount).Result()
			if err != nil {
				yield("", fmt.Errorf("failed to scan redis keys: %w", err))
				return
			}
			for _, key := range keys {
				if _, dup := seen[key]; dup {
					continue
				}
				seen[key] = struct{}{}
				if !yield(key, nil) {
					return
				}
			}
			if next == 0 {
				return
			}
			cursor = next
		}
	}
}

// Close closes the redis client
func (r *RedisStorage) Close() error {
	return r.client.Close()
}

// escapeGlob escapes the characters SCAN MATCH treats as pattern syntax.
func escapeGlob(s string) string {
	var b strings.Builder
	for _, ch := range s {
		switch ch {
		case '*', '?', '[', ']', '\\':
			b.WriteRune('\\')
		}
		b.WriteRune(ch)
	}
	return b.String()
}

var _ KV = (*RedisStorage)(nil)

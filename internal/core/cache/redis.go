package cache

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"menu-ops/internal/infrastructure/config"
	"menu-ops/internal/pkg/common"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// RedisStore Redis 快取
type RedisStore struct {
	client *redis.Client
	config *config.CacheConfig
}

// NewRedisStore 建立 Redis 快取並測試連線
func NewRedisStore(cfg *config.CacheConfig) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	common.LogInfo("快取管理員已初始化",
		zap.String("backend", config.CacheBackendRedis),
		zap.String("addr", cfg.RedisAddr),
		zap.Duration("存活時間", cfg.TTL),
	)

	return NewRedisStoreWithClient(client, cfg), nil
}

// NewRedisStoreWithClient 使用既有的 client
func NewRedisStoreWithClient(client *redis.Client, cfg *config.CacheConfig) *RedisStore {
	return &RedisStore{client: client, config: cfg}
}

func (s *RedisStore) key(k string) string {
	return s.config.KeyPrefix + k
}

// scanPattern 前綴中的 glob 字元要跳脫，只保留結尾的 *
func (s *RedisStore) scanPattern(key string) string {
	return globEscaper.Replace(s.key(strings.TrimSuffix(key, "*"))) + "*"
}

var globEscaper = strings.NewReplacer(`\`, `\\`, `*`, `\*`, `?`, `\?`, `[`, `\[`, `]`, `\]`)

// Get 獲取緩存
func (s *RedisStore) Get(ctx context.Context, key string) (string, error) {
	val, err := s.client.Get(ctx, s.key(key)).Result()
	if errors.Is(err, redis.Nil) {
		common.LogCacheMiss(config.CacheBackendRedis, key)
		return "", common.ErrCacheMiss
	}
	if err != nil {
		return "", fmt.Errorf("failed to get cache: %w", err)
	}
	common.LogCacheHit(config.CacheBackendRedis, key)
	return val, nil
}

// Set 設置緩存
func (s *RedisStore) Set(ctx context.Context, key, value string) error {
	if err := s.client.Set(ctx, s.key(key), value, s.config.TTL).Err(); err != nil {
		return fmt.Errorf("failed to set cache: %w", err)
	}
	return nil
}

// Delete 刪除緩存，鍵以 * 結尾時以 SCAN 刪除整個前綴
func (s *RedisStore) Delete(ctx context.Context, keys ...string) error {
	var exact []string
	for _, key := range keys {
		if !strings.HasSuffix(key, "*") {
			exact = append(exact, s.key(key))
			continue
		}
		iter := s.client.Scan(ctx, 0, s.scanPattern(key), 100).Iterator()
		for iter.Next(ctx) {
			exact = append(exact, iter.Val())
		}
		if err := iter.Err(); err != nil {
			return fmt.Errorf("failed to scan cache keys: %w", err)
		}
	}

	if len(exact) == 0 {
		return nil
	}
	if err := s.client.Del(ctx, exact...).Err(); err != nil {
		return fmt.Errorf("failed to delete cache: %w", err)
	}
	return nil
}

// Stats 回傳連線池統計
func (s *RedisStore) Stats() map[string]interface{} {
	ps := s.client.PoolStats()
	return map[string]interface{}{
		"backend":     config.CacheBackendRedis,
		"hits":        ps.Hits,
		"misses":      ps.Misses,
		"timeouts":    ps.Timeouts,
		"total_conns": ps.TotalConns,
		"idle_conns":  ps.IdleConns,
	}
}

// Close 關閉連線
func (s *RedisStore) Close() error {
	return s.client.Close()
}

package cache

import (
	"testing"
	"time"

	"menu-ops/internal/infrastructure/config"

	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
)

func TestNewRedisStoreUnreachable(t *testing.T) {
	_, err := NewRedisStore(&config.CacheConfig{
		RedisAddr: "127.0.0.1:1",
		TTL:       time.Minute,
	})
	assert.Error(t, err)
}

func TestRedisStoreKeyPrefix(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1"})
	store := NewRedisStoreWithClient(client, &config.CacheConfig{KeyPrefix: "menu-ops:"})
	defer store.Close()

	assert.Equal(t, "menu-ops:sheets:메뉴DB!A:L", store.key("sheets:메뉴DB!A:L"))
	assert.Equal(t, config.CacheBackendRedis, store.Stats()["backend"])
}

func TestRedisStoreScanPatternEscapesGlob(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1"})
	store := NewRedisStoreWithClient(client, &config.CacheConfig{KeyPrefix: "menu-ops:"})
	defer store.Close()

	tests := []struct {
		key  string
		want string
	}{
		{"sheets:메뉴DB!*", "menu-ops:sheets:메뉴DB!*"},
		{"sheets:메뉴[DB]!*", `menu-ops:sheets:메뉴\[DB\]!*`},
		{"sheets:Q?*A!*", `menu-ops:sheets:Q\?\*A!*`},
		{`sheets:a\b!*`, `menu-ops:sheets:a\\b!*`},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			assert.Equal(t, tt.want, store.scanPattern(tt.key))
		})
	}
}

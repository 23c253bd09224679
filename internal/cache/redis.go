package cache

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/bookstore-next/internal/config"

	"github.com/redis/go-redis/v9"
)

const defaultPrefix = "bs"

// store 书店共享的 Redis 连接与键前缀
type store struct {
	client *redis.Client
	prefix string
}

var (
	mu      sync.RWMutex
	current *store
)

// InitRedis 按配置建立 Redis 连接，未启用时清空已有连接
func InitRedis(cfg *config.RedisConfig) error {
	if cfg == nil || !cfg.Enabled {
		return Close()
	}
	host := strings.TrimSpace(cfg.Host)
	if host == "" {
		host = "127.0.0.1"
	}
	port := cfg.Port
	if port <= 0 {
		port = 6379
	}
	prefix := strings.TrimSpace(cfg.Prefix)
	if prefix == "" {
		prefix = defaultPrefix
	}
	next := &store{
		client: redis.NewClient(&redis.Options{
			Addr:     net.JoinHostPort(host, strconv.Itoa(port)),
			Password: cfg.Password,
			DB:       cfg.DB,
		}),
		prefix: prefix,
	}

	mu.Lock()
	prev := current
	current = next
	mu.Unlock()
	if prev != nil {
		_ = prev.client.Close()
	}
	return nil
}

func active() *store {
	mu.RLock()
	defer mu.RUnlock()
	return current
}

// Client 底层客户端，供限流中间件使用；未启用时为 nil
func Client() *redis.Client {
	if s := active(); s != nil {
		return s.client
	}
	return nil
}

// GetJSON 读取并解码缓存，未命中或未启用返回 false
func GetJSON(ctx context.Context, key string, dest interface{}) (bool, error) {
	s := active()
	if s == nil {
		return false, nil
	}
	raw, err := s.client.Get(ctx, s.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return false, err
	}
	return true, nil
}

// SetJSON 编码后写入缓存
func SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	s := active()
	if s == nil {
		return nil
	}
	payload, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, s.key(key), payload, ttl).Err()
}

// Del 删除缓存键
func Del(ctx context.Context, key string) error {
	s := active()
	if s == nil {
		return nil
	}
	return s.client.Del(ctx, s.key(key)).Err()
}

// SetNX 键不存在时写入并返回 true；未启用缓存时恒为 true
func SetNX(ctx context.Context, key string, value interface{}, ttl time.Duration) (bool, error) {
	s := active()
	if s == nil {
		return true, nil
	}
	return s.client.SetNX(ctx, s.key(key), value, ttl).Result()
}

// Ping 连通性检查
func Ping(ctx context.Context) error {
	s := active()
	if s == nil {
		return nil
	}
	return s.client.Ping(ctx).Err()
}

// Close 关闭连接，之后所有操作退化为直通
func Close() error {
	mu.Lock()
	prev := current
	current = nil
	mu.Unlock()
	if prev == nil {
		return nil
	}
	return prev.client.Close()
}

func (s *store) key(key string) string {
	trimmed := strings.TrimSpace(key)
	if trimmed == "" {
		return s.prefix
	}
	return s.prefix + ":" + trimmed
}

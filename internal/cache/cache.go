// Package cache 提供读接口的响应缓存：以"操作名 + 参数值"显式构造缓存键，
// 在外部 Redis 中保存 JSON 序列化结果并设置固定过期时间。
// 写路径不做失效：在 TTL 窗口内读接口可能返回变更前的旧值，这是约定行为。
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"

	"newsroom/internal/metrics"
)

// keySeparator 缓存键各段之间的分隔符。
const keySeparator = "::"

// DefaultTTL 未显式配置时的缓存条目有效期。
const DefaultTTL = 300 * time.Second

// Store 是缓存后端所需的最小 Redis 命令集，便于在测试中以内存实现替换。
type Store interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
}

// Client 读穿缓存客户端。
type Client struct {
	store Store
	ttl   time.Duration
}

func New(store Store, ttl time.Duration) *Client {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Client{store: store, ttl: ttl}
}

// Key 由操作名与参数值构造确定性缓存键。
// 数据库句柄等不可序列化的依赖不属于调用身份，调用方不应将其作为参数传入。
func Key(op string, args ...any) string {
	if len(args) == 0 {
		return op
	}
	parts := make([]string, 0, len(args)+1)
	parts = append(parts, op)
	for _, a := range args {
		parts = append(parts, fmt.Sprintf("%v", a))
	}
	return strings.Join(parts, keySeparator)
}

// GetOrFetch 命中时反序列化缓存值直接返回，不调用 fetch；
// 未命中时执行 fetch，将结果以固定 TTL 写回后返回。
// 同键并发未命中会各自执行 fetch，后写者覆盖；不做互斥。
func GetOrFetch[T any](ctx context.Context, c *Client, key string, fetch func(ctx context.Context) (T, error)) (T, error) {
	var zero T
	b, err := c.store.Get(ctx, key).Bytes()
	if err == nil {
		var v T
		if uerr := json.Unmarshal(b, &v); uerr == nil {
			metrics.CacheLookups.WithLabelValues("hit").Inc()
			return v, nil
		}
		// 损坏的缓存条目按未命中处理
	} else if !errors.Is(err, redis.Nil) {
		return zero, err
	}
	metrics.CacheLookups.WithLabelValues("miss").Inc()

	v, err := fetch(ctx)
	if err != nil {
		return zero, err
	}
	buf, err := json.Marshal(v)
	if err != nil {
		return zero, err
	}
	if err := c.store.Set(ctx, key, buf, c.ttl).Err(); err != nil {
		return zero, err
	}
	return v, nil
}

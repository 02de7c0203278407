// Package cache 提供笔记读取缓存，缓存不可用时降级为直读数据库
package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/haierkeys/versioned-notes-service/pkg/logger"

	"github.com/bytedance/sonic"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// Config 缓存配置
type Config struct {
	// Enabled 是否启用缓存
	Enabled bool `yaml:"enabled" default:"false"`
	// Addr Redis 地址
	Addr string `yaml:"addr" default:"127.0.0.1:6379"`
	// Password Redis 密码
	Password string `yaml:"password"`
	// DB Redis 数据库编号
	DB int `yaml:"db" default:"0"`
	// TTL 缓存过期时间
	TTL string `yaml:"ttl" default:"5m"`
}

// NoteCache 笔记缓存
// 所有方法都是尽力而为：Redis 故障只记日志和指标，不向调用方传播
type NoteCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// ErrMiss 缓存未命中
var ErrMiss = redis.Nil

func New(c *Config, lg *zap.Logger) (*NoteCache, error) {
	if lg == nil {
		lg = zap.NewNop()
	}

	client := redis.NewClient(&redis.Options{
		Addr:     c.Addr,
		Password: c.Password,
		DB:       c.DB,
	})

	ttl, err := time.ParseDuration(c.TTL)
	if err != nil || ttl <= 0 {
		ttl = 5 * time.Minute
	}

	return &NoteCache{
		client: client,
		ttl:    ttl,
		logger: lg,
	}, nil
}

// NoteKey 单条笔记缓存键
func NoteKey(id int64) string {
	return fmt.Sprintf("note:%d", id)
}

// UserNotesKey 用户笔记列表缓存键
func UserNotesKey(uid int64) string {
	return fmt.Sprintf("user:%d:notes", uid)
}

// Get 读取缓存并反序列化到 dest，未命中返回 false
func (c *NoteCache) Get(ctx context.Context, key string, dest any) bool {
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			metricCacheErrors.Inc()
			c.logger.Warn("cache get failed", zap.String(logger.FieldCacheKey, key), zap.Error(err))
		}
		metricCacheMisses.Inc()
		return false
	}

	if err := sonic.Unmarshal(data, dest); err != nil {
		metricCacheErrors.Inc()
		c.logger.Warn("cache decode failed", zap.String(logger.FieldCacheKey, key), zap.Error(err))
		return false
	}

	metricCacheHits.Inc()
	return true
}

// Set 序列化 value 并写入缓存
func (c *NoteCache) Set(ctx context.Context, key string, value any) {
	data, err := sonic.Marshal(value)
	if err != nil {
		metricCacheErrors.Inc()
		c.logger.Warn("cache encode failed", zap.String(logger.FieldCacheKey, key), zap.Error(err))
		return
	}

	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		metricCacheErrors.Inc()
		c.logger.Warn("cache set failed", zap.String(logger.FieldCacheKey, key), zap.Error(err))
	}
}

// Invalidate 删除缓存键，必须在数据库事务提交之后调用
func (c *NoteCache) Invalidate(ctx context.Context, keys ...string) {
	if len(keys) == 0 {
		return
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		metricCacheErrors.Inc()
		c.logger.Warn("cache invalidate failed",
			zap.Strings("keys", keys), zap.Error(err))
		return
	}
	metricCacheInvalidations.Add(float64(len(keys)))
}

// Ping 健康检查
func (c *NoteCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Close 关闭 Redis 连接
func (c *NoteCache) Close() error {
	return c.client.Close()
}

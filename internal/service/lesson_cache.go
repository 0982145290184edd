package service

import (
	"coder_edu_catalog/internal/util"
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"
)

var ErrCacheMiss = errors.New("lesson cache miss")

// LessonCache 课时详情缓存。键包含目录校验和，目录变化后旧键自然失效。
type LessonCache interface {
	Get(ctx context.Context, key string) (*LessonView, error)
	Set(ctx context.Context, key string, v *LessonView) error
}

func lessonCacheKey(checksum, courseID, moduleID, lessonID string) string {
	if len(checksum) > 16 {
		checksum = checksum[:16]
	}
	return util.LessonCacheKeyPrefix + checksum + ":" + courseID + "/" + moduleID + "/" + lessonID
}

type RedisLessonCache struct {
	Redis *redis.Client
	TTL   time.Duration
}

func NewRedisLessonCache(rdb *redis.Client, ttl time.Duration) *RedisLessonCache {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &RedisLessonCache{Redis: rdb, TTL: ttl}
}

func (c *RedisLessonCache) Get(ctx context.Context, key string) (*LessonView, error) {
	val, err := c.Redis.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, err
	}
	var v LessonView
	if err := json.Unmarshal(val, &v); err != nil {
		return nil, err
	}
	return &v, nil
}

func (c *RedisLessonCache) Set(ctx context.Context, key string, v *LessonView) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return c.Redis.Set(ctx, key, data, c.TTL).Err()
}

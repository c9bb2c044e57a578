package services

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"

	appContext "github.com/alphabatem/common/context"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

// RedisService caches hot read paths (streak, missions, weekly stats).
// The cache is strictly optional: every helper degrades to a miss when
// redis is unreachable, so the engine never depends on it.
type RedisService struct {
	appContext.DefaultService
	redis *redis.Client
}

const REDIS_SVC = "redis_svc"

const cacheTTL = 5 * time.Minute

func (svc RedisService) Id() string {
	return REDIS_SVC
}

func (svc *RedisService) Configure(ctx *appContext.Context) error {
	svc.initRedisClient()
	return svc.DefaultService.Configure(ctx)
}

func (svc *RedisService) Start() error {
	if svc.redis != nil {
		ctx := context.Background()
		if _, err := svc.redis.Ping(ctx).Result(); err != nil {
			// Cache-only dependency: log and run without it.
			log.WithError(err).Warn("Redis unavailable, running without cache")
			svc.redis = nil
		}
	}
	return nil
}

func (svc *RedisService) initRedisClient() {
	redisAddr := os.Getenv("REDIS_ADDR")
	if redisAddr == "" {
		redisAddr = "localhost:6379"
	}

	redisPassword := os.Getenv("REDIS_PASSWORD")

	redisDB := 0
	if dbStr := os.Getenv("REDIS_DB"); dbStr != "" {
		if db, err := strconv.Atoi(dbStr); err == nil {
			redisDB = db
		}
	}

	svc.redis = redis.NewClient(&redis.Options{
		Addr:     redisAddr,
		Password: redisPassword,
		DB:       redisDB,
	})
}

func (svc *RedisService) GetClient() *redis.Client {
	return svc.redis
}

// ==================== CACHE KEYS ====================

func StreakCacheKey(userID string) string {
	return "streak:" + userID
}

func MissionsCacheKey(userID string) string {
	return "missions:" + userID
}

func WeeklyStatsCacheKey(userID string) string {
	return "weekly_stats:" + userID
}

// ==================== CACHE HELPERS ====================

// CacheJSON stores value under key for the standard TTL. Failures are
// logged and swallowed.
func (svc *RedisService) CacheJSON(ctx context.Context, key string, value interface{}) {
	if svc == nil || svc.redis == nil {
		return
	}

	data, err := json.Marshal(value)
	if err != nil {
		log.WithError(err).WithField("key", key).Warn("Failed to marshal cache value")
		return
	}
	if err := svc.redis.Set(ctx, key, data, cacheTTL).Err(); err != nil {
		log.WithError(err).WithField("key", key).Warn("Failed to write cache")
	}
}

// GetCachedJSON reports hit=true only when the key exists and decodes
// cleanly into dest.
func (svc *RedisService) GetCachedJSON(ctx context.Context, key string, dest interface{}) bool {
	if svc == nil || svc.redis == nil {
		return false
	}

	result, err := svc.redis.Get(ctx, key).Result()
	if err == redis.Nil {
		return false
	}
	if err != nil {
		log.WithError(err).WithField("key", key).Warn("Failed to read cache")
		return false
	}

	if err := json.Unmarshal([]byte(result), dest); err != nil {
		log.WithError(err).WithField("key", key).Warn("Failed to decode cache value")
		return false
	}
	return true
}

// InvalidateUser drops every cached read for the user; called on any
// write that changes what those reads return.
func (svc *RedisService) InvalidateUser(ctx context.Context, userID string) {
	if svc == nil || svc.redis == nil {
		return
	}

	keys := []string{
		StreakCacheKey(userID),
		MissionsCacheKey(userID),
		WeeklyStatsCacheKey(userID),
	}
	if err := svc.redis.Del(ctx, keys...).Err(); err != nil {
		log.WithError(err).WithField("user_id", userID).Warn("Failed to invalidate cache")
	}
}

// ==================== GENERIC OPS ====================

func (svc *RedisService) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	if svc.redis == nil {
		return fmt.Errorf("redis client not initialized")
	}

	var data []byte
	var err error

	switch v := value.(type) {
	case string:
		data = []byte(v)
	case []byte:
		data = v
	default:
		data, err = json.Marshal(value)
		if err != nil {
			return fmt.Errorf("failed to marshal value: %w", err)
		}
	}

	return svc.redis.Set(ctx, key, data, expiration).Err()
}

func (svc *RedisService) Get(ctx context.Context, key string) (string, error) {
	if svc.redis == nil {
		return "", fmt.Errorf("redis client not initialized")
	}

	result, err := svc.redis.Get(ctx, key).Result()
	if err == redis.Nil {
		return "", nil
	}
	return result, err
}

func (svc *RedisService) Delete(ctx context.Context, keys ...string) error {
	if svc.redis == nil {
		return fmt.Errorf("redis client not initialized")
	}

	return svc.redis.Del(ctx, keys...).Err()
}

func (svc *RedisService) Exists(ctx context.Context, key string) (bool, error) {
	if svc.redis == nil {
		return false, fmt.Errorf("redis client not initialized")
	}

	result, err := svc.redis.Exists(ctx, key).Result()
	return result > 0, err
}

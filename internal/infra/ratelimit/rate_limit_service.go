package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/fixora/backoffice/internal/infra/logger"
	"github.com/fixora/backoffice/internal/ports"
)

// Config configures Redis-backed rate limiting
type Config struct {
	Enabled       bool
	RedisURL      string
	Requests      int
	Window        time.Duration
	BlockDuration time.Duration
}

// rateLimitService implements ports.RateLimitService with Redis
type rateLimitService struct {
	redisClient *redis.Client
	logger      logger.Logger
}

// NewRateLimitService connects to Redis, or returns a no-op limiter when
// rate limiting is disabled
func NewRateLimitService(config Config, log logger.Logger) (ports.RateLimitService, error) {
	if !config.Enabled {
		log.Info(context.Background(), "Rate limiting disabled", nil)
		return NewNoopRateLimitService(), nil
	}

	opt, err := redis.ParseURL(config.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	redisClient := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := redisClient.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	log.Info(ctx, "Rate limiting service initialized", map[string]interface{}{
		"requests":       config.Requests,
		"window":         config.Window.String(),
		"block_duration": config.BlockDuration.String(),
	})

	return NewRedisRateLimitService(redisClient, log), nil
}

// NewRedisRateLimitService wraps an existing Redis client
func NewRedisRateLimitService(client *redis.Client, log logger.Logger) ports.RateLimitService {
	return &rateLimitService{redisClient: client, logger: log}
}

// CheckLimit reports whether key is still under limit
func (s *rateLimitService) CheckLimit(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	currentCount, err := s.GetAttempts(ctx, key)
	if err != nil {
		return false, err
	}

	isUnderLimit := currentCount < limit

	s.logger.Debug(ctx, "Rate limit check", map[string]interface{}{
		"key":         key,
		"current":     currentCount,
		"limit":       limit,
		"under_limit": isUnderLimit,
	})

	return isUnderLimit, nil
}

// Increment bumps the counter for key and refreshes its window
func (s *rateLimitService) Increment(ctx context.Context, key string, window time.Duration) error {
	pipeline := s.redisClient.Pipeline()
	pipeline.Incr(ctx, key)
	pipeline.Expire(ctx, key, window)

	if _, err := pipeline.Exec(ctx); err != nil {
		s.logger.Error(ctx, "Failed to increment rate limit counter", err, map[string]interface{}{"key": key})
		return fmt.Errorf("failed to increment rate limit: %w", err)
	}
	return nil
}

// Block rejects key for duration
func (s *rateLimitService) Block(ctx context.Context, key string, duration time.Duration, reason string) error {
	blockKey := BlockKey(key)

	blockData := map[string]interface{}{
		"reason":         reason,
		"blocked_at":     time.Now().Unix(),
		"duration":       duration.Seconds(),
		"correlation_id": logger.CorrelationID(ctx),
	}

	pipeline := s.redisClient.Pipeline()
	pipeline.HSet(ctx, blockKey, blockData)
	pipeline.Expire(ctx, blockKey, duration)

	if _, err := pipeline.Exec(ctx); err != nil {
		s.logger.Error(ctx, "Failed to block key", err, map[string]interface{}{"key": key})
		return fmt.Errorf("failed to block key: %w", err)
	}

	logger.LogSecurityEvent(ctx, s.logger, "rate_limit_block", "MEDIUM", map[string]interface{}{
		"key":      key,
		"duration": duration.String(),
		"reason":   reason,
	})

	return nil
}

// IsBlocked reports whether key is currently blocked
func (s *rateLimitService) IsBlocked(ctx context.Context, key string) (bool, error) {
	exists, err := s.redisClient.Exists(ctx, BlockKey(key)).Result()
	if err != nil {
		s.logger.Error(ctx, "Failed to check block status", err, map[string]interface{}{"key": key})
		return false, fmt.Errorf("failed to check block status: %w", err)
	}
	return exists > 0, nil
}

// GetAttempts returns the current counter for key
func (s *rateLimitService) GetAttempts(ctx context.Context, key string) (int, error) {
	count, err := s.redisClient.Get(ctx, key).Int()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}
		s.logger.Error(ctx, "Failed to get attempts count", err, map[string]interface{}{"key": key})
		return 0, fmt.Errorf("failed to get attempts: %w", err)
	}
	return count, nil
}

// BlockKey is the Redis key marking key as blocked
func BlockKey(key string) string {
	return "blocked:" + key
}

// ClientKey is the counter key for a client address on a route group
func ClientKey(group, addr string) string {
	return fmt.Sprintf("ratelimit:%s:%s", group, addr)
}

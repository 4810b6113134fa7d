package ratelimit

import (
	"context"
	"time"

	"github.com/fixora/backoffice/internal/ports"
)

// noopRateLimitService allows everything; used when rate limiting is off
type noopRateLimitService struct{}

// NewNoopRateLimitService returns a limiter that never limits
func NewNoopRateLimitService() ports.RateLimitService {
	return &noopRateLimitService{}
}

func (n *noopRateLimitService) CheckLimit(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	return true, nil
}

func (n *noopRateLimitService) Increment(ctx context.Context, key string, window time.Duration) error {
	return nil
}

func (n *noopRateLimitService) Block(ctx context.Context, key string, duration time.Duration, reason string) error {
	return nil
}

func (n *noopRateLimitService) IsBlocked(ctx context.Context, key string) (bool, error) {
	return false, nil
}

func (n *noopRateLimitService) GetAttempts(ctx context.Context, key string) (int, error) {
	return 0, nil
}

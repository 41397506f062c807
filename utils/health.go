package utils

import (
	"context"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// HealthStatus represents current status of external services.
type HealthStatus struct {
	Mongo     bool      `json:"mongo"`
	Redis     bool      `json:"redis"`
	CheckedAt time.Time `json:"checkedAt"`
}

// Healthy reports whether every dependency answered the last check.
func (h HealthStatus) Healthy() bool {
	return h.Mongo && h.Redis
}

// HealthCheck pings a single dependency.
type HealthCheck func(ctx context.Context) error

var (
	currentHealth HealthStatus
	mu            sync.RWMutex
)

// GetHealthStatus returns latest stored health snapshot.
func GetHealthStatus() HealthStatus {
	mu.RLock()
	defer mu.RUnlock()
	return currentHealth
}

// RedisCheck wraps a redis client ping.
func RedisCheck(client *redis.Client) HealthCheck {
	return func(ctx context.Context) error {
		return client.Ping(ctx).Err()
	}
}

// MongoCheck wraps a mongo client ping.
func MongoCheck(client *mongo.Client) HealthCheck {
	return func(ctx context.Context) error {
		return client.Ping(ctx, nil)
	}
}

// CheckHealth runs both checks once and stores the result.
func CheckHealth(ctx context.Context, mongoCheck, redisCheck HealthCheck, now time.Time) HealthStatus {
	status := HealthStatus{
		Mongo:     mongoCheck(ctx) == nil,
		Redis:     redisCheck(ctx) == nil,
		CheckedAt: now,
	}

	mu.Lock()
	currentHealth = status
	mu.Unlock()
	return status
}

// StartHealthMonitor performs periodic health checks until ctx is done.
func StartHealthMonitor(ctx context.Context, interval time.Duration, mongoCheck, redisCheck HealthCheck) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		clk := NewSystemClock()
		CheckHealth(ctx, mongoCheck, redisCheck, clk.Now())
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				status := CheckHealth(ctx, mongoCheck, redisCheck, clk.Now())
				if !status.Healthy() {
					GetLogger().Warn("dependency unhealthy",
						zap.Bool("mongo", status.Mongo), zap.Bool("redis", status.Redis))
				}
			}
		}
	}()
}

package state

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/vladimiradmaev/tinnitus-helper/internal/config"
	"github.com/vladimiradmaev/tinnitus-helper/internal/logger"
)

// stateTTL drops conversations abandoned mid-way
const stateTTL = 24 * time.Hour

const opTimeout = 3 * time.Second

// RedisManager manages user states using Redis, so a check-in started
// before a restart can be finished after it.
type RedisManager struct {
	client *redis.Client
	log    *slog.Logger
}

// NewRedisManager creates a new Redis-based state manager
func NewRedisManager(cfg config.RedisConfig) (*RedisManager, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         fmt.Sprintf("%s:%s", cfg.Host, cfg.Port),
		Password:     cfg.Password,
		DB:           cfg.DB,
		ReadTimeout:  opTimeout,
		WriteTimeout: opTimeout,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return NewRedisManagerWithClient(client), nil
}

// NewRedisManagerWithClient wraps an existing client
func NewRedisManagerWithClient(client *redis.Client) *RedisManager {
	return &RedisManager{
		client: client,
		log:    logger.ForComponent("redis_state"),
	}
}

func stateKey(userID int64) string {
	return fmt.Sprintf("tinnitus:user:%d:state", userID)
}

func tempKey(userID int64) string {
	return fmt.Sprintf("tinnitus:user:%d:temp", userID)
}

func (m *RedisManager) ctx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), opTimeout)
}

// SetUserState sets the state for a user with TTL
func (m *RedisManager) SetUserState(userID int64, state string) {
	ctx, cancel := m.ctx()
	defer cancel()
	if err := m.client.Set(ctx, stateKey(userID), state, stateTTL).Err(); err != nil {
		m.log.Error("Failed to save user state", "telegram_id", userID, "error", err.Error())
	}
}

// GetUserState gets the state for a user. Errors read as None so a Redis
// outage resets conversations instead of blocking them.
func (m *RedisManager) GetUserState(userID int64) string {
	ctx, cancel := m.ctx()
	defer cancel()
	state, err := m.client.Get(ctx, stateKey(userID)).Result()
	if errors.Is(err, redis.Nil) {
		return None
	}
	if err != nil {
		m.log.Error("Failed to load user state", "telegram_id", userID, "error", err.Error())
		return None
	}
	return state
}

// ClearUserState clears the state for a user
func (m *RedisManager) ClearUserState(userID int64) {
	ctx, cancel := m.ctx()
	defer cancel()
	m.client.Del(ctx, stateKey(userID))
}

// SetTempData sets temporary data for a user
func (m *RedisManager) SetTempData(userID int64, key, value string) {
	ctx, cancel := m.ctx()
	defer cancel()
	pipe := m.client.TxPipeline()
	pipe.HSet(ctx, tempKey(userID), key, value)
	pipe.Expire(ctx, tempKey(userID), stateTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		m.log.Error("Failed to save temp data", "telegram_id", userID, "key", key, "error", err.Error())
	}
}

// GetTempData gets temporary data for a user
func (m *RedisManager) GetTempData(userID int64, key string) (string, bool) {
	ctx, cancel := m.ctx()
	defer cancel()
	value, err := m.client.HGet(ctx, tempKey(userID), key).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			m.log.Error("Failed to load temp data", "telegram_id", userID, "key", key, "error", err.Error())
		}
		return "", false
	}
	return value, true
}

// ClearTempData clears all temporary data for a user
func (m *RedisManager) ClearTempData(userID int64) {
	ctx, cancel := m.ctx()
	defer cancel()
	m.client.Del(ctx, tempKey(userID))
}

// Close closes the Redis connection
func (m *RedisManager) Close() error {
	return m.client.Close()
}

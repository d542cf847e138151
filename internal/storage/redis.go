package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/xaenox/coach-bot/internal/models"
	"go.uber.org/zap"
)

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	Prefix   string
	TTL      time.Duration
}

// RedisCache keeps the last loaded snapshot in Redis in front of another
// Storage. Writes go to the wrapped storage and drop the cached copy.
type RedisCache struct {
	next   Storage
	client *redis.Client
	key    string
	ttl    time.Duration
	logger *zap.Logger
}

func NewRedisCache(next Storage, cfg RedisConfig, logger *zap.Logger) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(context.Background()).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	if cfg.TTL <= 0 {
		cfg.TTL = 5 * time.Minute
	}
	return &RedisCache{
		next:   next,
		client: client,
		key:    cfg.Prefix + "snapshot",
		ttl:    cfg.TTL,
		logger: logger,
	}, nil
}

func (c *RedisCache) LoadSnapshot(ctx context.Context) (*models.TeamSnapshot, error) {
	data, err := c.client.Get(ctx, c.key).Bytes()
	if err == nil {
		var snap models.TeamSnapshot
		if err := json.Unmarshal(data, &snap); err == nil {
			return &snap, nil
		}
		c.logger.Warn("Dropping undecodable cached snapshot", zap.String("key", c.key))
	} else if err != redis.Nil {
		c.logger.Warn("Redis read failed, loading from storage", zap.Error(err))
	}

	snap, err := c.next.LoadSnapshot(ctx)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(snap); err == nil {
		if err := c.client.Set(ctx, c.key, data, c.ttl).Err(); err != nil {
			c.logger.Warn("Failed to cache snapshot", zap.Error(err))
		}
	}
	return snap, nil
}

func (c *RedisCache) AddPlayer(ctx context.Context, player models.Player) error {
	if err := c.next.AddPlayer(ctx, player); err != nil {
		return err
	}
	c.invalidate(ctx)
	return nil
}

func (c *RedisCache) AddTrainingPlan(ctx context.Context, plan models.TrainingPlan) error {
	if err := c.next.AddTrainingPlan(ctx, plan); err != nil {
		return err
	}
	c.invalidate(ctx)
	return nil
}

func (c *RedisCache) invalidate(ctx context.Context) {
	if err := c.client.Del(ctx, c.key).Err(); err != nil {
		c.logger.Warn("Failed to invalidate cached snapshot", zap.Error(err))
	}
}

func (c *RedisCache) Close() error {
	cerr := c.client.Close()
	if err := c.next.Close(); err != nil {
		return err
	}
	return cerr
}

package services

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/calvora/recsys-backend/internal/logger"
	"github.com/calvora/recsys-backend/internal/types"
)

// ActivityPublisher announces tracked activities to interested consumers
// (feature pipelines, analytics). Publishing is fire-and-forget: a failed
// publish never fails the track call.
type ActivityPublisher interface {
	Publish(ctx context.Context, activity *types.UserActivity) error
	Close() error
}

type redisActivityPublisher struct {
	log     *logger.Logger
	rdb     *redis.Client
	channel string
}

func NewRedisActivityPublisher(log *logger.Logger) (ActivityPublisher, error) {
	addr := strings.TrimSpace(os.Getenv("REDIS_ADDR"))
	if addr == "" {
		return nil, fmt.Errorf("missing REDIS_ADDR")
	}
	ch := strings.TrimSpace(os.Getenv("REDIS_ACTIVITY_CHANNEL"))
	if ch == "" {
		ch = "activity"
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &redisActivityPublisher{
		log:     log.With("service", "RedisActivityPublisher"),
		rdb:     rdb,
		channel: ch,
	}, nil
}

func (p *redisActivityPublisher) Publish(ctx context.Context, activity *types.UserActivity) error {
	raw, err := json.Marshal(activity)
	if err != nil {
		return err
	}
	return p.rdb.Publish(ctx, p.channel, raw).Err()
}

func (p *redisActivityPublisher) Close() error {
	return p.rdb.Close()
}

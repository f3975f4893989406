package dedupe

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/aquavo/support-backend/internal/utils"
)

const DefaultTTL = 10 * time.Minute

// Guard lets a caller open at most one ticket per conversation turn.
type Guard interface {
	// Acquire returns true the first time it sees a conversation/message pair
	// within the TTL.
	Acquire(ctx context.Context, conversationID, message string) (bool, error)
	// Release forgets a pair so the turn can be retried, e.g. after the
	// ticket insert failed.
	Release(ctx context.Context, conversationID, message string) error
}

type NopGuard struct{}

func (NopGuard) Acquire(context.Context, string, string) (bool, error) { return true, nil }

func (NopGuard) Release(context.Context, string, string) error { return nil }

type RedisGuard struct {
	Client *goredis.Client
	TTL    time.Duration
}

func NewRedisGuard(ctx context.Context, redisURL string, ttl time.Duration) (*RedisGuard, error) {
	opts, err := goredis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	if opts.DialTimeout == 0 {
		opts.DialTimeout = 5 * time.Second
	}
	client := goredis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisGuard{Client: client, TTL: ttl}, nil
}

func (g *RedisGuard) Acquire(ctx context.Context, conversationID, message string) (bool, error) {
	return g.Client.SetNX(ctx, Key(conversationID, message), time.Now().UTC().Unix(), g.TTL).Result()
}

func (g *RedisGuard) Release(ctx context.Context, conversationID, message string) error {
	return g.Client.Del(ctx, Key(conversationID, message)).Err()
}

func (g *RedisGuard) Close() error {
	return g.Client.Close()
}

// Key identifies one conversation turn.
func Key(conversationID, message string) string {
	return fmt.Sprintf("escalation:%s:%x", conversationID, utils.HashStringToUint64(message))
}

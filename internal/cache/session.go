package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Skotchmaster/qr_menu/internal/models"
)

const (
	keyPrefix = "qrmenu:session:"
	MaxTTL    = 10 * time.Minute
)

var ErrMiss = errors.New("cache miss")

type SessionEntry struct {
	User      models.User `json:"user"`
	ExpiresAt time.Time   `json:"expires_at"`
}

type SessionCache struct {
	client *redis.Client
}

func Connect(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	opts.ReadTimeout = 500 * time.Millisecond
	opts.WriteTimeout = 500 * time.Millisecond
	opts.DialTimeout = 500 * time.Millisecond

	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}

func NewSessionCache(client *redis.Client) *SessionCache {
	return &SessionCache{client: client}
}

func (c *SessionCache) Get(ctx context.Context, tokenHash string) (*SessionEntry, error) {
	raw, err := c.client.Get(ctx, keyPrefix+tokenHash).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrMiss
	}
	if err != nil {
		return nil, err
	}

	var entry SessionEntry
	if err := json.Unmarshal(raw, &entry); err != nil {
		return nil, fmt.Errorf("decode session entry: %w", err)
	}
	return &entry, nil
}

// Set stores entry until the earlier of MaxTTL and the session expiry.
func (c *SessionCache) Set(ctx context.Context, tokenHash string, entry SessionEntry) error {
	ttl := TTL(time.Now(), entry.ExpiresAt)
	if ttl <= 0 {
		return nil
	}

	raw, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("encode session entry: %w", err)
	}
	return c.client.Set(ctx, keyPrefix+tokenHash, raw, ttl).Err()
}

func (c *SessionCache) Delete(ctx context.Context, tokenHash string) error {
	return c.client.Del(ctx, keyPrefix+tokenHash).Err()
}

func TTL(now, expiresAt time.Time) time.Duration {
	left := expiresAt.Sub(now)
	if left > MaxTTL {
		return MaxTTL
	}
	return left
}

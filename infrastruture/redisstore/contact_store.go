// Package redisstore backs the session manager's contact store and per-agent
// locks with redis, so several server instances can share agents.
package redisstore

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultContactsKey is the sorted set last-contact times are kept in.
const DefaultContactsKey = "trapmaze:contacts"

// ContactStore keeps last-contact times as scores of a sorted set, in unix
// milliseconds.
type ContactStore struct {
	client *redis.Client
	key    string
	ttl    time.Duration
}

// NewContactStore returns a store on client. The whole set expires after ttl
// without any contact.
func NewContactStore(client *redis.Client, key string, ttl time.Duration) *ContactStore {
	if key == "" {
		key = DefaultContactsKey
	}
	return &ContactStore{client: client, key: key, ttl: ttl}
}

// Touch records a contact by id at the given time.
func (c *ContactStore) Touch(ctx context.Context, id string, at time.Time) error {
	_, err := c.client.ZAdd(ctx, c.key, redis.Z{Score: float64(at.UnixMilli()), Member: id}).Result()
	if err != nil {
		return err
	}
	if c.ttl > 0 {
		_ = c.client.Expire(ctx, c.key, c.ttl).Err()
	}
	return nil
}

// LastContact returns the last recorded contact of id.
func (c *ContactStore) LastContact(ctx context.Context, id string) (time.Time, bool, error) {
	score, err := c.client.ZScore(ctx, c.key, id).Result()
	if errors.Is(err, redis.Nil) {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, err
	}
	return time.UnixMilli(int64(score)), true, nil
}

// Forget drops id from the set.
func (c *ContactStore) Forget(ctx context.Context, id string) error {
	return c.client.ZRem(ctx, c.key, id).Err()
}

// Count returns the number of agents with a recorded contact.
func (c *ContactStore) Count(ctx context.Context) int64 {
	return c.client.ZCard(ctx, c.key).Val()
}

package redisstore

import (
	"context"
	"time"

	"github.com/go-redsync/redsync/v4"
	"github.com/go-redsync/redsync/v4/redis/goredis/v9"
	"github.com/redis/go-redis/v9"
)

// Locker is a redsync distributed mutex per key.
type Locker struct {
	locker *redsync.Redsync
	expiry time.Duration
}

// NewLocker returns a Locker on client. A held lock is released by redis
// after expiry if its holder disappears.
func NewLocker(client *redis.Client, expiry time.Duration) *Locker {
	pool := goredis.NewPool(client)
	return &Locker{locker: redsync.New(pool), expiry: expiry}
}

// Lock acquires the mutex for key.
func (l *Locker) Lock(ctx context.Context, key string) (func(), error) {
	opts := []redsync.Option{redsync.WithTries(64), redsync.WithRetryDelay(50 * time.Millisecond)}
	if l.expiry > 0 {
		opts = append(opts, redsync.WithExpiry(l.expiry))
	}
	mutex := l.locker.NewMutex(key+":lock", opts...)
	if err := mutex.LockContext(ctx); err != nil {
		return nil, err
	}
	return func() {
		_, _ = mutex.Unlock()
	}, nil
}

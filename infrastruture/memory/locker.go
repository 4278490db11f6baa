// Package memory provides in-process implementations of the service
// interfaces, used when no redis or mongo is configured.
package memory

import (
	"context"
	"sync"
)

// Locker hands out one mutex per key. Keys are never reclaimed, which is
// fine for the one-lock-per-agent usage of the server.
type Locker struct {
	mu    sync.Mutex
	locks map[string]chan struct{}
}

// NewLocker returns an empty Locker.
func NewLocker() *Locker {
	return &Locker{locks: make(map[string]chan struct{})}
}

// Lock blocks until key is free or ctx is done.
func (l *Locker) Lock(ctx context.Context, key string) (func(), error) {
	l.mu.Lock()
	ch, ok := l.locks[key]
	if !ok {
		ch = make(chan struct{}, 1)
		l.locks[key] = ch
	}
	l.mu.Unlock()

	select {
	case ch <- struct{}{}:
		var once sync.Once
		return func() { once.Do(func() { <-ch }) }, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

package i

import "context"

// Locker serializes work on a key across goroutines, or across server
// instances when backed by a shared store.
type Locker interface {
	// Lock blocks until the key is held. The returned func releases it.
	Lock(ctx context.Context, key string) (unlock func(), err error)
}

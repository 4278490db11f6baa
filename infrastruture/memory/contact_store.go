package memory

import (
	"context"
	"sync"
	"time"
)

// ContactStore keeps last-contact times in a map.
type ContactStore struct {
	last map[string]time.Time
	sync.RWMutex
}

// NewContactStore returns an empty ContactStore.
func NewContactStore() *ContactStore {
	return &ContactStore{last: make(map[string]time.Time)}
}

func (c *ContactStore) Touch(_ context.Context, id string, at time.Time) error {
	c.Lock()
	defer c.Unlock()
	c.last[id] = at
	return nil
}

func (c *ContactStore) LastContact(_ context.Context, id string) (time.Time, bool, error) {
	c.RLock()
	defer c.RUnlock()
	at, ok := c.last[id]
	return at, ok, nil
}

func (c *ContactStore) Forget(_ context.Context, id string) error {
	c.Lock()
	defer c.Unlock()
	delete(c.last, id)
	return nil
}

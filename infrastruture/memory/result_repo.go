package memory

import (
	"context"
	"sync"

	dmn "github.com/beka-birhanu/trapmaze/domain"
	"github.com/beka-birhanu/trapmaze/service/i"
	"github.com/google/uuid"
)

// ResultRepo keeps results in a map.
type ResultRepo struct {
	results map[uuid.UUID]dmn.Result
	sync.RWMutex
}

// NewResultRepo returns an empty ResultRepo.
func NewResultRepo() *ResultRepo {
	return &ResultRepo{results: make(map[uuid.UUID]dmn.Result)}
}

// Save inserts or replaces r.
func (r *ResultRepo) Save(_ context.Context, res *dmn.Result) error {
	r.Lock()
	defer r.Unlock()
	r.results[res.ID] = *res
	return nil
}

// ByID returns a copy of the stored result.
func (r *ResultRepo) ByID(_ context.Context, id uuid.UUID) (*dmn.Result, error) {
	r.RLock()
	defer r.RUnlock()
	res, ok := r.results[id]
	if !ok {
		return nil, i.ErrResultNotFound
	}
	return &res, nil
}

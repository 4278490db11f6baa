package i

import (
	"context"
	"errors"

	dmn "github.com/beka-birhanu/trapmaze/domain"
	"github.com/google/uuid"
)

// ErrResultNotFound is returned by ResultRepo.ByID for unknown ids.
var ErrResultNotFound = errors.New("result not found")

// ResultRepo stores finished runs.
type ResultRepo interface {
	Save(ctx context.Context, r *dmn.Result) error
	ByID(ctx context.Context, id uuid.UUID) (*dmn.Result, error)
}

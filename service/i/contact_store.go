package i

import (
	"context"
	"time"
)

// ContactStore remembers when each agent last talked to the server.
type ContactStore interface {
	Touch(ctx context.Context, id string, at time.Time) error
	// LastContact reports false when the id was never touched or has been
	// forgotten.
	LastContact(ctx context.Context, id string) (time.Time, bool, error)
	Forget(ctx context.Context, id string) error
}

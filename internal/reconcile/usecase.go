package reconcile

import (
	"context"

	"github.com/fekuna/omnipos-register/internal/model"
)

type UseCase interface {
	Configured() bool

	// Sync runs one direction and returns the resulting local snapshot. Push
	// returns local unchanged; pull returns local with products, customers
	// and sales replaced and settings kept.
	Sync(ctx context.Context, direction Direction, local model.Snapshot) (model.Snapshot, error)

	// Push upserts every table in parent-before-child order. The first
	// failing table aborts the push; tables already written stay written.
	Push(ctx context.Context, local model.Snapshot) error

	// Pull fetches all five tables concurrently and rebuilds local
	// collections. Any failed fetch fails the whole pull.
	Pull(ctx context.Context) (Pulled, error)
}

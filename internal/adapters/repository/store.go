// Package repository holds the live visual instances of the host harness.
package repository

import (
	"context"
	"sync"
	"time"

	"github.com/okian/kpidonut/internal/visual"
)

// Instance is one hosted visual. The embedded mutex serialises host calls;
// the visual itself is single-threaded.
type Instance struct {
	sync.Mutex

	ID        string
	Visual    *visual.DonutChart
	CreatedAt time.Time

	// Guarded by the instance lock.
	UpdatedAt time.Time
	Updates   int
}

// Store provides access to the hosted visual instances.
type Store interface {
	// Put adds an instance. Returns ErrCapacity when full and ErrExists
	// when the id is taken.
	Put(ctx context.Context, inst *Instance) error

	// Get returns the instance with id or ErrNotFound.
	Get(ctx context.Context, id string) (*Instance, error)

	// Delete removes and returns the instance with id or ErrNotFound.
	Delete(ctx context.Context, id string) (*Instance, error)

	// Count returns the number of stored instances.
	Count(ctx context.Context) int
}

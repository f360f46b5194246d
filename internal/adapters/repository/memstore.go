package repository

import (
	"context"
	"sync"
	"time"

	"github.com/okian/kpidonut/pkg/metrics"
)

// MemoryStore is an in-memory Store keyed by instance id.
type MemoryStore struct {
	mu                    sync.RWMutex
	byID                  map[string]*Instance
	capacity              int
	metricsUpdateInterval time.Duration

	wg       sync.WaitGroup
	stopOnce sync.Once
	stopChan chan struct{}
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore constructs a store and starts its metrics updater, which
// runs until ctx is done or Close is called.
func NewMemoryStore(ctx context.Context, opts ...Option) *MemoryStore {
	s := &MemoryStore{
		byID:                  make(map[string]*Instance),
		capacity:              1024,
		metricsUpdateInterval: 5 * time.Second,
		stopChan:              make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.startMetricsUpdater(ctx)
	return s
}

func (s *MemoryStore) Put(_ context.Context, inst *Instance) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byID[inst.ID]; ok {
		return ErrExists
	}
	if len(s.byID) >= s.capacity {
		metrics.RecordErrorByType("capacity", "warning")
		return ErrCapacity
	}
	s.byID[inst.ID] = inst
	metrics.UpdateInstances(len(s.byID))
	return nil
}

func (s *MemoryStore) Get(_ context.Context, id string) (*Instance, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	inst, ok := s.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	return inst, nil
}

func (s *MemoryStore) Delete(_ context.Context, id string) (*Instance, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	inst, ok := s.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	delete(s.byID, id)
	metrics.UpdateInstances(len(s.byID))
	return inst, nil
}

func (s *MemoryStore) Count(_ context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byID)
}

// Drain removes and returns every instance.
func (s *MemoryStore) Drain() []*Instance {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*Instance, 0, len(s.byID))
	for id, inst := range s.byID {
		out = append(out, inst)
		delete(s.byID, id)
	}
	metrics.UpdateInstances(0)
	return out
}

// Close stops the metrics updater.
func (s *MemoryStore) Close() error {
	s.stopOnce.Do(func() { close(s.stopChan) })
	s.wg.Wait()
	return nil
}

func (s *MemoryStore) startMetricsUpdater(ctx context.Context) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(s.metricsUpdateInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-s.stopChan:
				return
			case <-ticker.C:
				metrics.UpdateInstances(s.Count(ctx))
			}
		}
	}()
}

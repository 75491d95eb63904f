package repository

import (
	"context"
	"sync"
	"time"

	"github.com/okian/receipts/pkg/metrics"
)

// MemoryStore is a map-backed Store guarded by a RWMutex.
type MemoryStore struct {
	mu     sync.RWMutex
	points map[string]int
	closed bool
	cfg    storeConfig
}

// NewMemoryStore constructs an empty in-memory store.
func NewMemoryStore(opts ...Option) *MemoryStore {
	s := &MemoryStore{
		points: make(map[string]int),
		cfg:    defaultConfig(),
	}
	for _, opt := range opts {
		opt(&s.cfg)
	}
	return s
}

// Submit implements Store.Submit. The uniqueness check and insert happen
// under one write lock so concurrent submits never share an id.
func (s *MemoryStore) Submit(ctx context.Context, points int) (string, error) {
	defer observe(opSubmit, time.Now())
	if err := ctx.Err(); err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return "", ErrClosed
	}

	id, err := nextFreeID(s.cfg.newID, func(id string) (bool, error) {
		_, ok := s.points[id]
		return ok, nil
	})
	if err != nil {
		return "", err
	}
	s.points[id] = points
	metrics.UpdateReceiptsStored(len(s.points))
	return id, nil
}

// Lookup implements Store.Lookup.
func (s *MemoryStore) Lookup(ctx context.Context, id string) (int, error) {
	defer observe(opLookup, time.Now())
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return 0, ErrClosed
	}
	p, ok := s.points[id]
	if !ok {
		metrics.RecordErrorByComponent("repository", "not_found")
		return 0, ErrNotFound
	}
	return p, nil
}

// Count implements Store.Count.
func (s *MemoryStore) Count(_ context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.points)
}

// Close implements Store.Close.
func (s *MemoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

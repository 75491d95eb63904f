// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/okian/receipts/internal/adapters/repository"
	"github.com/okian/receipts/internal/domain/model"
	"github.com/okian/receipts/internal/domain/scoring"
	"github.com/okian/receipts/pkg/logger"
	"github.com/okian/receipts/pkg/metrics"
)

// Store backends accepted by WithStoreBackend.
const (
	BackendMemory = "memory"
	BackendBuntDB = "buntdb"
)

// Service scores receipts and keeps their points for later lookup.
type Service struct {
	mu sync.RWMutex

	// Core components
	store  repository.Store
	scorer scoring.Scorer

	// Configuration
	backend   string
	storeOpts []repository.Option
	// injected is set when the caller supplied its own store via WithStore.
	injected bool

	// State
	started   bool
	startedAt time.Time

	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithStoreBackend selects the store created by Start.
func WithStoreBackend(backend string) Option {
	return func(s *Service) {
		if backend != "" {
			s.backend = backend
		}
	}
}

// WithStoreOptions passes options to the store created by Start.
func WithStoreOptions(opts ...repository.Option) Option {
	return func(s *Service) {
		s.storeOpts = append(s.storeOpts, opts...)
	}
}

// WithStore injects a ready store. Start will not create one and Stop will
// still close it.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
			s.injected = true
		}
	}
}

// WithScorer replaces the default scoring engine.
func WithScorer(scorer scoring.Scorer) Option {
	return func(s *Service) {
		if scorer != nil {
			s.scorer = scorer
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		backend: BackendMemory,
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.scorer == nil {
		s.scorer = scoring.NewEngine()
	}

	return s
}

// Start creates the store and marks the service ready.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if s.logger == nil {
		s.logger = logger.Named("service")
	}

	if !s.injected || s.store == nil {
		store, err := newStore(s.backend, s.storeOpts...)
		if err != nil {
			return err
		}
		s.store = store
	}

	s.started = true
	s.startedAt = time.Now()
	s.logger.Info(ctx, "receipt service started",
		logger.String("backend", s.backend),
		logger.Bool("generatedCodeBonus", s.generatedCodeBonus()),
	)

	return nil
}

func newStore(backend string, opts ...repository.Option) (repository.Store, error) {
	switch backend {
	case BackendMemory:
		return repository.NewMemoryStore(opts...), nil
	case BackendBuntDB:
		return repository.NewBuntStore(opts...)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, backend)
	}
}

// Stop closes the store.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	ctx := context.Background()
	s.logger.Info(ctx, "stopping receipt service...")

	if s.store != nil {
		if err := s.store.Close(); err != nil {
			s.logger.Error(ctx, "failed to close store", logger.Error(err))
		}
	}
	// A later Start builds a fresh store unless one was injected.
	if !s.injected {
		s.store = nil
	}

	s.started = false
	s.logger.Info(ctx, "receipt service stopped")
}

// ProcessReceipt scores r, stores the points and returns the new identifier.
// Identical receipts get distinct identifiers.
func (s *Service) ProcessReceipt(ctx context.Context, r model.Receipt) (string, error) {
	store, err := s.activeStore()
	if err != nil {
		return "", err
	}

	start := time.Now()
	points := s.scorer.Score(r)
	metrics.RecordScoringLatency(float64(time.Since(start).Microseconds()) / 1000)

	if b, ok := s.scorer.(interface {
		Breakdown(model.Receipt) []scoring.Contribution
	}); ok {
		s.logger.Debug(ctx, "receipt scored",
			logger.String("retailer", r.Retailer),
			logger.Int("points", points),
			logger.Any("breakdown", b.Breakdown(r)),
		)
	}

	id, err := store.Submit(ctx, points)
	if err != nil {
		metrics.RecordErrorByComponent("service", "store_submit")
		return "", fmt.Errorf("store receipt: %w", err)
	}

	metrics.RecordReceiptProcessed(points)
	s.logger.Debug(ctx, "receipt stored",
		logger.String("id", id),
		logger.Int("points", points),
	)
	return id, nil
}

// Points returns the points awarded to the receipt with the given id.
// Returns repository.ErrNotFound for ids that were never issued.
func (s *Service) Points(ctx context.Context, id string) (int, error) {
	store, err := s.activeStore()
	if err != nil {
		return 0, err
	}

	points, err := store.Lookup(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			metrics.RecordPointsLookup(metrics.LookupMiss)
			return 0, err
		}
		metrics.RecordErrorByComponent("service", "store_lookup")
		return 0, fmt.Errorf("lookup receipt: %w", err)
	}

	metrics.RecordPointsLookup(metrics.LookupHit)
	return points, nil
}

func (s *Service) activeStore() (repository.Store, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started || s.store == nil {
		return nil, ErrNotStarted
	}
	return s.store, nil
}

func (s *Service) generatedCodeBonus() bool {
	if e, ok := s.scorer.(interface{ GeneratedCodeBonus() bool }); ok {
		return e.GeneratedCodeBonus()
	}
	return false
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]interface{}{
		"started":            s.started,
		"storeBackend":       s.backend,
		"generatedCodeBonus": s.generatedCodeBonus(),
	}

	if s.started {
		stored := s.store.Count(context.Background())
		stats["receiptsStored"] = stored
		stats["uptimeSeconds"] = int64(time.Since(s.startedAt).Seconds())

		metrics.UpdateReceiptsStored(stored)
	}

	return stats
}

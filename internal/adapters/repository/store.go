// Package repository stores receipt points keyed by generated identifiers.
package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/okian/receipts/pkg/metrics"
)

// Store persists points per receipt for the life of the process.
type Store interface {
	// Submit stores points under a freshly generated identifier that does not
	// collide with any identifier already issued, and returns it.
	Submit(ctx context.Context, points int) (string, error)

	// Lookup returns the points stored for id.
	// Returns ErrNotFound if the id was never issued.
	Lookup(ctx context.Context, id string) (int, error)

	// Count returns the number of stored receipts.
	Count(ctx context.Context) int

	// Close releases resources. Further calls return ErrClosed.
	Close() error
}

// Store operation labels used for latency metrics.
const (
	opSubmit = "submit"
	opLookup = "lookup"
)

// nextFreeID draws ids from gen until taken reports false, counting each
// collision. There is no retry cap: UUIDv4 collisions are astronomically rare
// and an injected generator is expected to eventually yield a fresh value.
func nextFreeID(gen IDGenerator, taken func(string) (bool, error)) (string, error) {
	for {
		id, err := gen()
		if err != nil {
			metrics.RecordErrorByComponent("repository", "id_generation")
			return "", fmt.Errorf("%w: %w", ErrIDGeneration, err)
		}
		used, err := taken(id)
		if err != nil {
			return "", err
		}
		if !used {
			return id, nil
		}
		metrics.RecordIDCollision()
	}
}

func observe(op string, start time.Time) {
	metrics.RecordStoreLatency(op, float64(time.Since(start).Microseconds())/1000)
}

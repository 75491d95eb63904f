package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/tidwall/buntdb"

	"github.com/okian/receipts/pkg/metrics"
)

const (
	buntInMemory = ":memory:"
	keyPrefix    = "receipt:"
)

// BuntStore is a Store backed by an in-memory buntdb database.
type BuntStore struct {
	db  *buntdb.DB
	cfg storeConfig
}

// NewBuntStore opens an in-memory buntdb database.
func NewBuntStore(opts ...Option) (*BuntStore, error) {
	db, err := buntdb.Open(buntInMemory)
	if err != nil {
		return nil, fmt.Errorf("open buntdb: %w", err)
	}
	s := &BuntStore{db: db, cfg: defaultConfig()}
	for _, opt := range opts {
		opt(&s.cfg)
	}
	return s, nil
}

// Submit implements Store.Submit inside a single read-write transaction, so
// the existence check and the write cannot interleave with another submit.
func (s *BuntStore) Submit(ctx context.Context, points int) (string, error) {
	defer observe(opSubmit, time.Now())
	if err := ctx.Err(); err != nil {
		return "", err
	}

	var id string
	var stored int
	err := s.db.Update(func(tx *buntdb.Tx) error {
		var err error
		id, err = nextFreeID(s.cfg.newID, func(candidate string) (bool, error) {
			_, err := tx.Get(keyPrefix + candidate)
			switch {
			case errors.Is(err, buntdb.ErrNotFound):
				return false, nil
			case err != nil:
				return false, err
			}
			return true, nil
		})
		if err != nil {
			return err
		}
		if _, _, err = tx.Set(keyPrefix+id, strconv.Itoa(points), nil); err != nil {
			return err
		}
		stored, err = tx.Len()
		return err
	})
	if err != nil {
		return "", mapBuntErr(err)
	}
	metrics.UpdateReceiptsStored(stored)
	return id, nil
}

// Lookup implements Store.Lookup.
func (s *BuntStore) Lookup(ctx context.Context, id string) (int, error) {
	defer observe(opLookup, time.Now())
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	var raw string
	err := s.db.View(func(tx *buntdb.Tx) error {
		var err error
		raw, err = tx.Get(keyPrefix + id)
		return err
	})
	if err != nil {
		if errors.Is(err, buntdb.ErrNotFound) {
			metrics.RecordErrorByComponent("repository", "not_found")
		}
		return 0, mapBuntErr(err)
	}

	points, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("decode points for %s: %w", id, err)
	}
	return points, nil
}

// Count implements Store.Count. A failed read reports zero and is counted
// under the repository component.
func (s *BuntStore) Count(_ context.Context) int {
	n := 0
	err := s.db.View(func(tx *buntdb.Tx) error {
		var err error
		n, err = tx.Len()
		return err
	})
	if err != nil {
		metrics.RecordErrorByComponent("repository", countErrorType(err))
		return 0
	}
	return n
}

func countErrorType(err error) string {
	if errors.Is(mapBuntErr(err), ErrClosed) {
		return "count_closed"
	}
	return "count_failed"
}

// Close implements Store.Close.
func (s *BuntStore) Close() error {
	if err := s.db.Close(); err != nil && !errors.Is(err, buntdb.ErrDatabaseClosed) {
		return err
	}
	return nil
}

func mapBuntErr(err error) error {
	switch {
	case errors.Is(err, buntdb.ErrNotFound):
		return ErrNotFound
	case errors.Is(err, buntdb.ErrDatabaseClosed), errors.Is(err, buntdb.ErrTxClosed):
		return ErrClosed
	default:
		return err
	}
}

package storage

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// ensure Multi implements Backend
var _ Backend = (*Multi)(nil)

// Multi fans writes out to several backends at once. Query reads from the
// first backend only, since all backends receive the same records.
type Multi struct {
	backends []Backend
}

// NewMulti wraps the given backends into a single Backend.
func NewMulti(backends ...Backend) *Multi {
	return &Multi{backends: backends}
}

// Save writes the record to every backend concurrently and returns the first
// error encountered. A failing backend does not stop the others.
func (m *Multi) Save(ctx context.Context, record *RunRecord) error {
	g, gCtx := errgroup.WithContext(ctx)
	for _, b := range m.backends {
		b := b
		g.Go(func() error {
			return b.Save(gCtx, record)
		})
	}
	if err := g.Wait(); err != nil {
		return fmt.Errorf("multi save: %w", err)
	}
	return nil
}

func (m *Multi) Query(ctx context.Context, filter Filter) ([]*RunRecord, error) {
	if len(m.backends) == 0 {
		return []*RunRecord{}, nil
	}
	return m.backends[0].Query(ctx, filter)
}

// Close closes all backends, returning the first error.
func (m *Multi) Close() error {
	var firstErr error
	for _, b := range m.backends {
		if err := b.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

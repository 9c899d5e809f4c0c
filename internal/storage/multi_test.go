package storage

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

type recordingBackend struct {
	mu      sync.Mutex
	saved   []*RunRecord
	saveErr error
}

func (r *recordingBackend) Save(ctx context.Context, record *RunRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.saveErr != nil {
		return r.saveErr
	}
	r.saved = append(r.saved, record)
	return nil
}

func (r *recordingBackend) Query(ctx context.Context, filter Filter) ([]*RunRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.saved, nil
}

func (r *recordingBackend) Close() error { return nil }

func TestMulti_SavesToAllBackends(t *testing.T) {
	a := &recordingBackend{}
	b := &recordingBackend{}
	m := NewMulti(a, b)

	rec := &RunRecord{ID: "run1", Country: "Nigeria", CreatedAt: time.Now()}
	if err := m.Save(context.Background(), rec); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(a.saved) != 1 || len(b.saved) != 1 {
		t.Errorf("expected record in both backends, got %d and %d", len(a.saved), len(b.saved))
	}
}

func TestMulti_SaveError(t *testing.T) {
	bad := &recordingBackend{saveErr: errors.New("disk full")}
	good := &recordingBackend{}
	m := NewMulti(bad, good)

	err := m.Save(context.Background(), &RunRecord{ID: "run1"})
	if err == nil {
		t.Fatal("expected error from failing backend")
	}

	// The healthy backend still received the record
	if len(good.saved) != 1 {
		t.Errorf("expected healthy backend to save, got %d records", len(good.saved))
	}
}

func TestMulti_QueryReadsFirst(t *testing.T) {
	a := &recordingBackend{saved: []*RunRecord{{ID: "run1"}}}
	b := &recordingBackend{}
	m := NewMulti(a, b)

	results, err := m.Query(context.Background(), Filter{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 1 || results[0].ID != "run1" {
		t.Errorf("expected query to read from first backend, got %v", results)
	}
}

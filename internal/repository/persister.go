package repository

import (
	"context"
	"slices"
	"sync"
)

// Snapshot is the full persisted state of one ListStore.
type Snapshot[T any] struct {
	Records []T `json:"records"`
	LastID  int `json:"last_id"`
}

// Persister loads and saves ListStore snapshots.
type Persister[T any] interface {
	Load(ctx context.Context) (Snapshot[T], error)
	Save(ctx context.Context, snap Snapshot[T]) error
}

// NopPersister keeps nothing; the store lives in memory only.
type NopPersister[T any] struct{}

func (NopPersister[T]) Load(context.Context) (Snapshot[T], error) { return Snapshot[T]{}, nil }
func (NopPersister[T]) Save(context.Context, Snapshot[T]) error   { return nil }

// MemoryPersister remembers the last saved snapshot. SaveErr, when set, fails every save.
type MemoryPersister[T any] struct {
	mu      sync.Mutex
	snap    Snapshot[T]
	saves   int
	SaveErr error
}

func (m *MemoryPersister[T]) Load(context.Context) (Snapshot[T], error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return Snapshot[T]{Records: slices.Clone(m.snap.Records), LastID: m.snap.LastID}, nil
}

func (m *MemoryPersister[T]) Save(_ context.Context, snap Snapshot[T]) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.snap = Snapshot[T]{Records: slices.Clone(snap.Records), LastID: snap.LastID}
	m.saves++
	return nil
}

// Saves returns how many snapshots were saved successfully.
func (m *MemoryPersister[T]) Saves() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves
}

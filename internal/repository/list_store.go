package repository

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
)

var (
	// ErrNotFound is returned when an id is not in the store.
	ErrNotFound = errors.New("record not found")
	// ErrPersist is returned when a mutation could not be saved; the store is left unchanged.
	ErrPersist = errors.New("persist snapshot")
)

// Record is implemented by every entity kept in a ListStore.
type Record[T any] interface {
	Identity() int
	WithID(id int) T
}

// Guard inspects a candidate against the other committed records before a write.
// existing never contains the record being updated.
type Guard[T any] func(existing []T, candidate T) error

// ListStore is an ordered, id-keyed list of records with monotonic id assignment.
// It is safe for concurrent use.
type ListStore[T Record[T]] struct {
	mu        sync.RWMutex
	records   []T
	lastID    int
	persister Persister[T]
}

// NewListStore creates an empty store backed by p. A nil p keeps records in memory only.
func NewListStore[T Record[T]](p Persister[T]) *ListStore[T] {
	if p == nil {
		p = NopPersister[T]{}
	}
	return &ListStore[T]{persister: p}
}

// OpenListStore creates a store and loads its last saved snapshot.
func OpenListStore[T Record[T]](ctx context.Context, p Persister[T]) (*ListStore[T], error) {
	s := NewListStore(p)
	snap, err := s.persister.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load snapshot: %w", err)
	}
	s.records = snap.Records
	s.lastID = snap.LastID
	for _, r := range s.records {
		s.lastID = max(s.lastID, r.Identity())
	}
	return s, nil
}

// Seed adds records when the store is empty and reports whether it did.
func (s *ListStore[T]) Seed(ctx context.Context, records ...T) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.records) > 0 || s.lastID > 0 {
		return false, nil
	}
	next := make([]T, 0, len(records))
	lastID := 0
	for _, r := range records {
		lastID++
		next = append(next, r.WithID(lastID))
	}
	if err := s.commit(ctx, next, lastID); err != nil {
		return false, err
	}
	return true, nil
}

// Add assigns the next id to record, appends it and returns the stored copy.
func (s *ListStore[T]) Add(ctx context.Context, record T, guards ...Guard[T]) (T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var zero T
	id := s.lastID + 1
	candidate := record.WithID(id)
	if err := runGuards(s.records, candidate, guards); err != nil {
		return zero, err
	}

	next := append(slices.Clone(s.records), candidate)
	if err := s.commit(ctx, next, id); err != nil {
		return zero, err
	}
	return candidate, nil
}

// Update replaces the record with the given id by patch(record). The id is preserved.
func (s *ListStore[T]) Update(ctx context.Context, id int, patch func(T) T, guards ...Guard[T]) (T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var zero T
	idx := s.indexOf(id)
	if idx < 0 {
		return zero, fmt.Errorf("%w: id %d", ErrNotFound, id)
	}

	candidate := patch(s.records[idx]).WithID(id)
	others := slices.Delete(slices.Clone(s.records), idx, idx+1)
	if err := runGuards(others, candidate, guards); err != nil {
		return zero, err
	}

	next := slices.Clone(s.records)
	next[idx] = candidate
	if err := s.commit(ctx, next, s.lastID); err != nil {
		return zero, err
	}
	return candidate, nil
}

// Remove deletes the record with the given id and returns it. Ids are never reused.
func (s *ListStore[T]) Remove(ctx context.Context, id int, guards ...Guard[T]) (T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var zero T
	idx := s.indexOf(id)
	if idx < 0 {
		return zero, fmt.Errorf("%w: id %d", ErrNotFound, id)
	}

	removed := s.records[idx]
	others := slices.Delete(slices.Clone(s.records), idx, idx+1)
	if err := runGuards(others, removed, guards); err != nil {
		return zero, err
	}
	if err := s.commit(ctx, others, s.lastID); err != nil {
		return zero, err
	}
	return removed, nil
}

// List returns a copy of the records in insertion order.
func (s *ListStore[T]) List() []T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.records)
}

// Get returns the record with the given id.
func (s *ListStore[T]) Get(id int) (T, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if idx := s.indexOf(id); idx >= 0 {
		return s.records[idx], true
	}
	var zero T
	return zero, false
}

// Len returns the number of records.
func (s *ListStore[T]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// LastID returns the highest id ever assigned.
func (s *ListStore[T]) LastID() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastID
}

func (s *ListStore[T]) indexOf(id int) int {
	return slices.IndexFunc(s.records, func(r T) bool { return r.Identity() == id })
}

// commit saves the next state and only then swaps it in. Must hold s.mu.
func (s *ListStore[T]) commit(ctx context.Context, next []T, lastID int) error {
	if err := s.persister.Save(ctx, Snapshot[T]{Records: next, LastID: lastID}); err != nil {
		return fmt.Errorf("%w: %w", ErrPersist, err)
	}
	s.records = next
	s.lastID = lastID
	return nil
}

func runGuards[T any](existing []T, candidate T, guards []Guard[T]) error {
	for _, g := range guards {
		if err := g(existing, candidate); err != nil {
			return err
		}
	}
	return nil
}

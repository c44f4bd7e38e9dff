// Package memory is an in-process implementation of repository.Store.
//
// Both collections share one RW lock. Plain reads take the read lock; a
// unit of work started with RunTx holds the write lock until it returns, so
// check-then-act sequences spanning movies and bookings cannot interleave.
// Writes made inside a failed unit of work are undone.
package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/kirinyoku/cinebook/internal/domain"
	"github.com/kirinyoku/cinebook/internal/repository"
)

type Store struct {
	mu       sync.RWMutex
	movies   *ordered[domain.Movie]
	bookings *ordered[domain.Booking]
}

var _ repository.Store = (*Store)(nil)

func New() *Store {
	return &Store{
		movies:   newOrdered[domain.Movie](),
		bookings: newOrdered[domain.Booking](),
	}
}

func (s *Store) Movies() repository.MovieRepo     { return &MovieRepo{s: s} }
func (s *Store) Bookings() repository.BookingRepo { return &BookingRepo{s: s} }

func (s *Store) RunTx(
	ctx context.Context,
	fn func(ctx context.Context, tx repository.Tx) error,
) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	t := &tx{s: s}
	if err := fn(ctx, t); err != nil {
		t.rollback()
		return err
	}

	return nil
}

type tx struct {
	s    *Store
	undo []func()
}

func (t *tx) Movies() repository.MovieRepo     { return &MovieRepo{s: t.s, tx: t} }
func (t *tx) Bookings() repository.BookingRepo { return &BookingRepo{s: t.s, tx: t} }

func (t *tx) rollback() {
	for i := len(t.undo) - 1; i >= 0; i-- {
		t.undo[i]()
	}
	t.undo = nil
}

// lockRead and lockWrite are no-ops inside a unit of work, which already
// holds the write lock.
func (s *Store) lockRead(t *tx) func() {
	if t != nil {
		return func() {}
	}
	s.mu.RLock()
	return s.mu.RUnlock
}

func (s *Store) lockWrite(t *tx) func() {
	if t != nil {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

func (t *tx) onRollback(fn func()) {
	if t != nil {
		t.undo = append(t.undo, fn)
	}
}

func cloneMovie(m domain.Movie) domain.Movie {
	m.ShowDateTimes = slices.Clone(m.ShowDateTimes)
	return m
}

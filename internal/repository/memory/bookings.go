package memory

import (
	"context"
	"fmt"

	"github.com/kirinyoku/cinebook/internal/domain"
	"github.com/kirinyoku/cinebook/internal/repository"
)

type BookingRepo struct {
	s  *Store
	tx *tx
}

func (r *BookingRepo) List(ctx context.Context) ([]domain.Booking, error) {
	defer r.s.lockRead(r.tx)()

	return r.s.bookings.values(), nil
}

func (r *BookingRepo) Get(ctx context.Context, id string) (*domain.Booking, error) {
	const op = "memory.BookingRepo.Get"

	defer r.s.lockRead(r.tx)()

	b, ok := r.s.bookings.get(id)
	if !ok {
		return nil, fmt.Errorf("%s:%w", op, repository.ErrNotFound)
	}

	return &b, nil
}

func (r *BookingRepo) Create(ctx context.Context, b domain.Booking) error {
	const op = "memory.BookingRepo.Create"

	defer r.s.lockWrite(r.tx)()

	if _, ok := r.s.bookings.get(b.ID); ok {
		return fmt.Errorf("%s:%w", op, repository.ErrConflict)
	}

	r.s.bookings.put(b.ID, b)
	r.tx.onRollback(func() { r.s.bookings.remove(b.ID) })

	return nil
}

func (r *BookingRepo) UpdateSlot(ctx context.Context, id string, slot domain.ShowSlot) error {
	const op = "memory.BookingRepo.UpdateSlot"

	defer r.s.lockWrite(r.tx)()

	b, ok := r.s.bookings.get(id)
	if !ok {
		return fmt.Errorf("%s:%w", op, repository.ErrNotFound)
	}

	prev := b
	b.ShowDate = slot.Date
	b.ShowTime = slot.Time
	r.s.bookings.put(id, b)
	r.tx.onRollback(func() { r.s.bookings.put(id, prev) })

	return nil
}

func (r *BookingRepo) Delete(ctx context.Context, id string) (*domain.Booking, error) {
	const op = "memory.BookingRepo.Delete"

	defer r.s.lockWrite(r.tx)()

	b, idx, ok := r.s.bookings.remove(id)
	if !ok {
		return nil, fmt.Errorf("%s:%w", op, repository.ErrNotFound)
	}
	r.tx.onRollback(func() { r.s.bookings.insertAt(idx, id, b) })

	return &b, nil
}

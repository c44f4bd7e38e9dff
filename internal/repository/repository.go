package repository

import (
	"context"

	"github.com/kirinyoku/cinebook/internal/domain"
)

// MovieRepo is the movie catalog. List returns movies in insertion order.
type MovieRepo interface {
	List(ctx context.Context) ([]domain.Movie, error)
	Get(ctx context.Context, id string) (*domain.Movie, error)
	Create(ctx context.Context, m domain.Movie) error
	// AdjustSeats adds delta to the movie's available seats and returns the
	// new count.
	AdjustSeats(ctx context.Context, id string, delta int) (int, error)
}

// BookingRepo is the booking ledger. List returns bookings in insertion order.
type BookingRepo interface {
	List(ctx context.Context) ([]domain.Booking, error)
	Get(ctx context.Context, id string) (*domain.Booking, error)
	Create(ctx context.Context, b domain.Booking) error
	UpdateSlot(ctx context.Context, id string, slot domain.ShowSlot) error
	Delete(ctx context.Context, id string) (*domain.Booking, error)
}

// Tx exposes both collections bound to one unit of work.
type Tx interface {
	Movies() MovieRepo
	Bookings() BookingRepo
}

// Store is a backing store for the catalog and the ledger. Repos obtained
// directly from the Store run outside any transaction. RunTx runs fn so that
// its reads and writes across both collections are atomic; if fn returns an
// error the transaction is rolled back where the driver supports it.
type Store interface {
	Tx
	RunTx(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
}

package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/kirinyoku/cinebook/internal/domain"
	"github.com/kirinyoku/cinebook/internal/repository"
)

const bookingColumns = `id, movie_id, customer_name, show_date, show_time, number_of_seats, booking_date`

type BookingRepo struct {
	pool *pgxpool.Pool
	db   DB
}

func (r *BookingRepo) With(db DB) *BookingRepo {
	cp := *r
	cp.db = db
	return &cp
}

func (r *BookingRepo) handle() DB {
	if r.db != nil {
		return r.db
	}
	return r.pool
}

func (r *BookingRepo) List(ctx context.Context) ([]domain.Booking, error) {
	const op = "postgres.BookingRepo.List"

	rows, err := r.handle().Query(ctx,
		`SELECT `+bookingColumns+`
		 FROM bookings ORDER BY seq`,
	)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, translateDBErr(err))
	}

	bookings, err := pgx.CollectRows(rows, pgx.RowToStructByPos[domain.Booking])
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, translateDBErr(err))
	}

	return bookings, nil
}

func (r *BookingRepo) Get(ctx context.Context, id string) (*domain.Booking, error) {
	const op = "postgres.BookingRepo.Get"

	rows, err := r.handle().Query(ctx,
		`SELECT `+bookingColumns+`
		 FROM bookings WHERE id = $1`,
		id,
	)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, translateDBErr(err))
	}

	b, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByPos[domain.Booking])
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, translateDBErr(err))
	}

	return &b, nil
}

// Create inserts a booking.
//
// Returns:
//   - error: repository.ErrConflict if the ID is taken.
//   - error: repository.ErrNotFound if the referenced movie does not exist.
func (r *BookingRepo) Create(ctx context.Context, b domain.Booking) error {
	const op = "postgres.BookingRepo.Create"

	_, err := r.handle().Exec(ctx,
		`INSERT INTO bookings(`+bookingColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		b.ID, b.MovieID, b.CustomerName, b.ShowDate, b.ShowTime, b.NumberOfSeats, b.BookingDate,
	)
	if err != nil {
		return fmt.Errorf("%s:%w", op, translateDBErr(err))
	}

	return nil
}

func (r *BookingRepo) UpdateSlot(ctx context.Context, id string, slot domain.ShowSlot) error {
	const op = "postgres.BookingRepo.UpdateSlot"

	tag, err := r.handle().Exec(ctx,
		`UPDATE bookings SET show_date = $2, show_time = $3
		 WHERE id = $1`,
		id, slot.Date, slot.Time,
	)
	if err != nil {
		return fmt.Errorf("%s:%w", op, translateDBErr(err))
	}

	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%s:%w", op, repository.ErrNotFound)
	}

	return nil
}

func (r *BookingRepo) Delete(ctx context.Context, id string) (*domain.Booking, error) {
	const op = "postgres.BookingRepo.Delete"

	rows, err := r.handle().Query(ctx,
		`DELETE FROM bookings WHERE id = $1
		 RETURNING `+bookingColumns,
		id,
	)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, translateDBErr(err))
	}

	b, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByPos[domain.Booking])
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, translateDBErr(err))
	}

	return &b, nil
}

var _ repository.BookingRepo = (*BookingRepo)(nil)

package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/kirinyoku/cinebook/internal/domain"
	"github.com/kirinyoku/cinebook/internal/repository"
)

const movieColumns = `id, title, description, duration, show_date_times, available_seats`

type MovieRepo struct {
	pool *pgxpool.Pool
	db   DB
}

func (r *MovieRepo) With(db DB) *MovieRepo {
	cp := *r
	cp.db = db
	return &cp
}

func (r *MovieRepo) handle() DB {
	if r.db != nil {
		return r.db
	}
	return r.pool
}

func (r *MovieRepo) List(ctx context.Context) ([]domain.Movie, error) {
	const op = "postgres.MovieRepo.List"

	rows, err := r.handle().Query(ctx,
		`SELECT `+movieColumns+`
		 FROM movies ORDER BY seq`,
	)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, translateDBErr(err))
	}

	movies, err := pgx.CollectRows(rows, pgx.RowToStructByPos[domain.Movie])
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, translateDBErr(err))
	}

	return movies, nil
}

// Get retrieves a movie by its ID.
//
// Returns:
//   - error: repository.ErrNotFound if the movie does not exist.
func (r *MovieRepo) Get(ctx context.Context, id string) (*domain.Movie, error) {
	const op = "postgres.MovieRepo.Get"

	var m domain.Movie
	err := r.handle().QueryRow(ctx,
		`SELECT `+movieColumns+`
		 FROM movies WHERE id = $1`,
		id,
	).Scan(&m.ID, &m.Title, &m.Description, &m.Duration, &m.ShowDateTimes, &m.AvailableSeats)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, translateDBErr(err))
	}

	return &m, nil
}

func (r *MovieRepo) Create(ctx context.Context, m domain.Movie) error {
	const op = "postgres.MovieRepo.Create"

	_, err := r.handle().Exec(ctx,
		`INSERT INTO movies(`+movieColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		m.ID, m.Title, m.Description, m.Duration, m.ShowDateTimes, m.AvailableSeats,
	)
	if err != nil {
		return fmt.Errorf("%s:%w", op, translateDBErr(err))
	}

	return nil
}

func (r *MovieRepo) AdjustSeats(ctx context.Context, id string, delta int) (int, error) {
	const op = "postgres.MovieRepo.AdjustSeats"

	var seats int
	err := r.handle().QueryRow(ctx,
		`UPDATE movies SET available_seats = available_seats + $2
		 WHERE id = $1
		 RETURNING available_seats`,
		id, delta,
	).Scan(&seats)
	if err != nil {
		return 0, fmt.Errorf("%s:%w", op, translateDBErr(err))
	}

	return seats, nil
}

var _ repository.MovieRepo = (*MovieRepo)(nil)

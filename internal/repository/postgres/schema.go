package postgres

import (
	"context"
	"fmt"
)

const schema = `
CREATE TABLE IF NOT EXISTS movies (
	seq             BIGSERIAL,
	id              TEXT PRIMARY KEY,
	title           TEXT NOT NULL,
	description     TEXT NOT NULL,
	duration        INT NOT NULL,
	show_date_times JSONB NOT NULL,
	available_seats INT NOT NULL
);

CREATE TABLE IF NOT EXISTS bookings (
	seq             BIGSERIAL,
	id              TEXT PRIMARY KEY,
	movie_id        TEXT NOT NULL REFERENCES movies(id),
	customer_name   TEXT NOT NULL,
	show_date       TEXT NOT NULL,
	show_time       TEXT NOT NULL,
	number_of_seats INT NOT NULL,
	booking_date    TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS bookings_movie_id_idx ON bookings (movie_id);
`

// Migrate creates the movies and bookings tables if they do not exist.
func (s *Store) Migrate(ctx context.Context) error {
	const op = "postgres.Store.Migrate"

	if _, err := s.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("%s:%w", op, err)
	}

	return nil
}

package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/kirinyoku/cinebook/internal/repository"
)

// maxTxAttempts bounds how often a unit of work is re-run after a
// serialization failure or deadlock.
const maxTxAttempts = 3

type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type Store struct {
	pool *pgxpool.Pool
}

var _ repository.Store = (*Store)(nil)

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{
		pool: pool,
	}
}

func (s *Store) Movies() repository.MovieRepo     { return &MovieRepo{pool: s.pool} }
func (s *Store) Bookings() repository.BookingRepo { return &BookingRepo{pool: s.pool} }

// RunTx runs fn inside a serializable transaction.
func (s *Store) RunTx(
	ctx context.Context,
	fn func(ctx context.Context, tx repository.Tx) error,
) error {
	return s.RunTxWithOpts(ctx, nil, fn)
}

// RunTxWithOpts runs fn inside a transaction with the given options. The
// whole transaction is retried when Postgres reports a serialization
// failure or deadlock.
func (s *Store) RunTxWithOpts(
	ctx context.Context,
	opts *pgx.TxOptions,
	fn func(ctx context.Context, tx repository.Tx) error,
) error {
	txOpts := pgx.TxOptions{
		IsoLevel:   pgx.Serializable,
		AccessMode: pgx.ReadWrite,
	}

	if opts != nil {
		txOpts.IsoLevel = opts.IsoLevel
		txOpts.AccessMode = opts.AccessMode
		txOpts.DeferrableMode = opts.DeferrableMode
	}

	var err error
	for attempt := 0; attempt < maxTxAttempts; attempt++ {
		err = s.runTx(ctx, txOpts, fn)
		if err == nil || !IsRetryable(err) {
			return err
		}
	}

	return err
}

func (s *Store) runTx(
	ctx context.Context,
	txOpts pgx.TxOptions,
	fn func(ctx context.Context, tx repository.Tx) error,
) error {
	tx, err := s.pool.BeginTx(ctx, txOpts)
	if err != nil {
		return err
	}

	defer tx.Rollback(ctx)

	if err := fn(ctx, &txScope{pool: s.pool, db: tx}); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	return nil
}

type txScope struct {
	pool *pgxpool.Pool
	db   DB
}

func (t *txScope) Movies() repository.MovieRepo {
	return (&MovieRepo{pool: t.pool}).With(t.db)
}

func (t *txScope) Bookings() repository.BookingRepo {
	return (&BookingRepo{pool: t.pool}).With(t.db)
}

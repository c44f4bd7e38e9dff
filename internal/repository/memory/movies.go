package memory

import (
	"context"
	"fmt"

	"github.com/kirinyoku/cinebook/internal/domain"
	"github.com/kirinyoku/cinebook/internal/repository"
)

type MovieRepo struct {
	s  *Store
	tx *tx
}

func (r *MovieRepo) List(ctx context.Context) ([]domain.Movie, error) {
	defer r.s.lockRead(r.tx)()

	out := r.s.movies.values()
	for i := range out {
		out[i] = cloneMovie(out[i])
	}

	return out, nil
}

func (r *MovieRepo) Get(ctx context.Context, id string) (*domain.Movie, error) {
	const op = "memory.MovieRepo.Get"

	defer r.s.lockRead(r.tx)()

	m, ok := r.s.movies.get(id)
	if !ok {
		return nil, fmt.Errorf("%s:%w", op, repository.ErrNotFound)
	}

	m = cloneMovie(m)
	return &m, nil
}

func (r *MovieRepo) Create(ctx context.Context, m domain.Movie) error {
	const op = "memory.MovieRepo.Create"

	defer r.s.lockWrite(r.tx)()

	if _, ok := r.s.movies.get(m.ID); ok {
		return fmt.Errorf("%s:%w", op, repository.ErrConflict)
	}

	r.s.movies.put(m.ID, cloneMovie(m))
	r.tx.onRollback(func() { r.s.movies.remove(m.ID) })

	return nil
}

func (r *MovieRepo) AdjustSeats(ctx context.Context, id string, delta int) (int, error) {
	const op = "memory.MovieRepo.AdjustSeats"

	defer r.s.lockWrite(r.tx)()

	m, ok := r.s.movies.get(id)
	if !ok {
		return 0, fmt.Errorf("%s:%w", op, repository.ErrNotFound)
	}

	m.AvailableSeats += delta
	r.s.movies.put(id, m)
	r.tx.onRollback(func() {
		m.AvailableSeats -= delta
		r.s.movies.put(id, m)
	})

	return m.AvailableSeats, nil
}

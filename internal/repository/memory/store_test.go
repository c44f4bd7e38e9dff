package memory

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kirinyoku/cinebook/internal/domain"
	"github.com/kirinyoku/cinebook/internal/repository"
)

func testMovie(id string, seats int) domain.Movie {
	return domain.Movie{
		ID:          id,
		Title:       "Movie " + id,
		Description: "desc",
		Duration:    120,
		ShowDateTimes: []domain.ShowSlot{
			{Date: "2030-01-01", Time: "10:00"},
		},
		AvailableSeats: seats,
	}
}

func TestMovieRepo_ListKeepsInsertionOrder(t *testing.T) {
	ctx := context.Background()
	s := New()

	for _, id := range []string{"c", "a", "b"} {
		require.NoError(t, s.Movies().Create(ctx, testMovie(id, 10)))
	}

	movies, err := s.Movies().List(ctx)
	require.NoError(t, err)
	require.Len(t, movies, 3)
	assert.Equal(t, "c", movies[0].ID)
	assert.Equal(t, "a", movies[1].ID)
	assert.Equal(t, "b", movies[2].ID)
}

func TestMovieRepo_GetReturnsCopy(t *testing.T) {
	ctx := context.Background()
	s := New()
	require.NoError(t, s.Movies().Create(ctx, testMovie("m1", 10)))

	m, err := s.Movies().Get(ctx, "m1")
	require.NoError(t, err)
	m.ShowDateTimes[0].Time = "23:59"
	m.AvailableSeats = 0

	again, err := s.Movies().Get(ctx, "m1")
	require.NoError(t, err)
	assert.Equal(t, "10:00", again.ShowDateTimes[0].Time)
	assert.Equal(t, 10, again.AvailableSeats)
}

func TestMovieRepo_NotFoundAndConflict(t *testing.T) {
	ctx := context.Background()
	s := New()

	_, err := s.Movies().Get(ctx, "missing")
	assert.ErrorIs(t, err, repository.ErrNotFound)

	_, err = s.Movies().AdjustSeats(ctx, "missing", 1)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	require.NoError(t, s.Movies().Create(ctx, testMovie("m1", 10)))
	assert.ErrorIs(t, s.Movies().Create(ctx, testMovie("m1", 10)), repository.ErrConflict)
}

func TestMovieRepo_AdjustSeats(t *testing.T) {
	ctx := context.Background()
	s := New()
	require.NoError(t, s.Movies().Create(ctx, testMovie("m1", 10)))

	n, err := s.Movies().AdjustSeats(ctx, "m1", -12)
	require.NoError(t, err)
	assert.Equal(t, -2, n)

	n, err = s.Movies().AdjustSeats(ctx, "m1", 12)
	require.NoError(t, err)
	assert.Equal(t, 10, n)
}

func TestBookingRepo_CRUD(t *testing.T) {
	ctx := context.Background()
	s := New()
	repo := s.Bookings()

	for _, id := range []string{"b1", "b2", "b3"} {
		require.NoError(t, repo.Create(ctx, domain.Booking{ID: id, MovieID: "m1", ShowDate: "d", ShowTime: "t"}))
	}

	require.NoError(t, repo.UpdateSlot(ctx, "b2", domain.ShowSlot{Date: "d2", Time: "t2"}))
	b, err := repo.Get(ctx, "b2")
	require.NoError(t, err)
	assert.Equal(t, "d2", b.ShowDate)
	assert.Equal(t, "t2", b.ShowTime)

	removed, err := repo.Delete(ctx, "b2")
	require.NoError(t, err)
	assert.Equal(t, "b2", removed.ID)

	_, err = repo.Get(ctx, "b2")
	assert.ErrorIs(t, err, repository.ErrNotFound)
	_, err = repo.Delete(ctx, "b2")
	assert.ErrorIs(t, err, repository.ErrNotFound)
	assert.ErrorIs(t, repo.UpdateSlot(ctx, "b2", domain.ShowSlot{}), repository.ErrNotFound)

	all, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "b1", all[0].ID)
	assert.Equal(t, "b3", all[1].ID)
}

func TestRunTx_RollsBackOnError(t *testing.T) {
	ctx := context.Background()
	s := New()
	require.NoError(t, s.Movies().Create(ctx, testMovie("m1", 10)))
	for _, id := range []string{"b1", "b2", "b3"} {
		require.NoError(t, s.Bookings().Create(ctx, domain.Booking{ID: id, MovieID: "m1", ShowDate: "d", ShowTime: "t"}))
	}

	boom := errors.New("boom")
	err := s.RunTx(ctx, func(ctx context.Context, tx repository.Tx) error {
		if _, err := tx.Movies().AdjustSeats(ctx, "m1", -3); err != nil {
			return err
		}
		if _, err := tx.Movies().AdjustSeats(ctx, "m1", -4); err != nil {
			return err
		}
		if err := tx.Bookings().UpdateSlot(ctx, "b1", domain.ShowSlot{Date: "x", Time: "y"}); err != nil {
			return err
		}
		if _, err := tx.Bookings().Delete(ctx, "b2"); err != nil {
			return err
		}
		if err := tx.Bookings().Create(ctx, domain.Booking{ID: "b4", MovieID: "m1"}); err != nil {
			return err
		}
		if err := tx.Movies().Create(ctx, testMovie("m2", 5)); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	m, err := s.Movies().Get(ctx, "m1")
	require.NoError(t, err)
	assert.Equal(t, 10, m.AvailableSeats)

	_, err = s.Movies().Get(ctx, "m2")
	assert.ErrorIs(t, err, repository.ErrNotFound)

	all, err := s.Bookings().List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []string{"b1", "b2", "b3"}, []string{all[0].ID, all[1].ID, all[2].ID})
	assert.Equal(t, "d", all[0].ShowDate)
}

func TestRunTx_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	err := New().RunTx(ctx, func(ctx context.Context, tx repository.Tx) error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
}

func TestRunTx_SerializesCheckThenAct(t *testing.T) {
	ctx := context.Background()
	s := New()
	require.NoError(t, s.Movies().Create(ctx, testMovie("m1", 50)))

	errSoldOut := errors.New("sold out")
	var wg sync.WaitGroup
	var mu sync.Mutex
	succeeded := 0

	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := s.RunTx(ctx, func(ctx context.Context, tx repository.Tx) error {
				m, err := tx.Movies().Get(ctx, "m1")
				if err != nil {
					return err
				}
				if m.AvailableSeats < 1 {
					return errSoldOut
				}
				_, err = tx.Movies().AdjustSeats(ctx, "m1", -1)
				return err
			})
			if err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	m, err := s.Movies().Get(ctx, "m1")
	require.NoError(t, err)
	assert.Equal(t, 0, m.AvailableSeats)
	assert.Equal(t, 50, succeeded)
}

func TestOrdered_InsertAt(t *testing.T) {
	o := newOrdered[int]()
	o.put("a", 1)
	o.put("b", 2)
	o.put("c", 3)

	v, idx, ok := o.remove("b")
	require.True(t, ok)
	assert.Equal(t, 2, v)
	assert.Equal(t, 1, idx)
	assert.Equal(t, 2, o.len())

	o.insertAt(idx, "b", v)
	assert.Equal(t, []int{1, 2, 3}, o.values())
}

package redis

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kirinyoku/cinebook/internal/domain"
)

func newTestClient(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	return mr, rdb
}

type movieSummary struct {
	ID    string `json:"id"`
	Seats int    `json:"seats"`
}

func TestGetOrSetJSON_LoadsOnceThenServesFromCache(t *testing.T) {
	_, rdb := newTestClient(t)
	c := New(rdb)
	ctx := context.Background()

	var calls atomic.Int32
	loader := func(ctx context.Context) (movieSummary, error) {
		calls.Add(1)
		return movieSummary{ID: "m1", Seats: 50}, nil
	}

	for i := 0; i < 3; i++ {
		got, err := GetOrSetJSON(ctx, c, KeyMovie("m1"), time.Minute, loader)
		require.NoError(t, err)
		assert.Equal(t, movieSummary{ID: "m1", Seats: 50}, got)
	}
	assert.Equal(t, int32(1), calls.Load())

	require.NoError(t, c.InvalidateMovie(ctx, "m1"))

	_, err := GetOrSetJSON(ctx, c, KeyMovie("m1"), time.Minute, loader)
	require.NoError(t, err)
	assert.Equal(t, int32(2), calls.Load())
}

func TestGetOrSetJSON_LoaderErrorIsNotCached(t *testing.T) {
	_, rdb := newTestClient(t)
	c := New(rdb)
	ctx := context.Background()

	notFound := errors.New("not found")
	_, err := GetOrSetJSON(ctx, c, KeyMovie("missing"), time.Minute,
		func(ctx context.Context) (movieSummary, error) {
			return movieSummary{}, notFound
		})
	require.ErrorIs(t, err, notFound)

	_, ok, err := c.GetString(ctx, KeyMovie("missing"))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestGetOrSetJSON_ConcurrentMissesShareLoad(t *testing.T) {
	_, rdb := newTestClient(t)
	c := New(rdb)
	ctx := context.Background()

	var calls atomic.Int32
	release := make(chan struct{})
	loader := func(ctx context.Context) ([]movieSummary, error) {
		calls.Add(1)
		<-release
		return []movieSummary{{ID: "m1"}}, nil
	}

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := GetOrSetJSON(ctx, c, KeyMovieList(), time.Minute, loader)
			assert.NoError(t, err)
			assert.Len(t, got, 1)
		}()
	}

	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.LessOrEqual(t, calls.Load(), int32(2))
}

func TestGetOrSetJSONGen_InvalidationDuringLoadIsNotCached(t *testing.T) {
	mr, rdb := newTestClient(t)
	c := New(rdb)
	ctx := context.Background()

	var calls atomic.Int32
	loader := func(ctx context.Context) (movieSummary, error) {
		n := calls.Add(1)
		if n == 1 {
			// a booking commits after the store was read
			require.NoError(t, c.InvalidateMovie(ctx, "m1"))
			return movieSummary{ID: "m1", Seats: 50}, nil
		}
		return movieSummary{ID: "m1", Seats: 48}, nil
	}

	got, err := GetOrSetJSONGen(ctx, c, KeyMovie("m1"), KeyMoviesGen(), time.Minute, loader)
	require.NoError(t, err)
	assert.Equal(t, 50, got.Seats)
	assert.False(t, mr.Exists(KeyMovie("m1")))

	got, err = GetOrSetJSONGen(ctx, c, KeyMovie("m1"), KeyMoviesGen(), time.Minute, loader)
	require.NoError(t, err)
	assert.Equal(t, 48, got.Seats)
	assert.True(t, mr.Exists(KeyMovie("m1")))
	assert.Equal(t, int32(2), calls.Load())

	got, err = GetOrSetJSONGen(ctx, c, KeyMovie("m1"), KeyMoviesGen(), time.Minute, loader)
	require.NoError(t, err)
	assert.Equal(t, 48, got.Seats)
	assert.Equal(t, int32(2), calls.Load())
}

func TestInvalidateMovieList_BumpsGeneration(t *testing.T) {
	mr, rdb := newTestClient(t)
	c := New(rdb)
	ctx := context.Background()

	require.NoError(t, mr.Set(KeyMovieList(), "[]"))
	require.NoError(t, mr.Set(KeyMovie("m1"), "{}"))

	require.NoError(t, c.InvalidateMovieList(ctx))
	assert.False(t, mr.Exists(KeyMovieList()))
	assert.True(t, mr.Exists(KeyMovie("m1")))

	gen, err := mr.Get(KeyMoviesGen())
	require.NoError(t, err)
	assert.Equal(t, "1", gen)
}

func TestIdempotencyStore_Lifecycle(t *testing.T) {
	_, rdb := newTestClient(t)
	s := NewIdempotencyStore(rdb, time.Hour, time.Minute)
	ctx := context.Background()
	key := KeyIdemBooking("abc")

	state, _, err := s.Begin(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, IdemAcquired, state)

	state, _, err = s.Begin(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, IdemInProgress, state)

	require.NoError(t, s.Complete(ctx, key, `{"id":"b1"}`))

	state, payload, err := s.Begin(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, IdemDone, state)
	assert.JSONEq(t, `{"id":"b1"}`, payload)
}

func TestIdempotencyStore_AbortReleasesKey(t *testing.T) {
	_, rdb := newTestClient(t)
	s := NewIdempotencyStore(rdb, time.Hour, time.Minute)
	ctx := context.Background()
	key := KeyIdemBooking("retry-me")

	state, _, err := s.Begin(ctx, key)
	require.NoError(t, err)
	require.Equal(t, IdemAcquired, state)

	require.NoError(t, s.Abort(ctx, key))

	state, _, err = s.Begin(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, IdemAcquired, state)
}

func TestIdempotencyStore_LockExpires(t *testing.T) {
	mr, rdb := newTestClient(t)
	s := NewIdempotencyStore(rdb, time.Hour, 10*time.Second)
	ctx := context.Background()
	key := KeyIdemBooking("stuck")

	state, _, err := s.Begin(ctx, key)
	require.NoError(t, err)
	require.Equal(t, IdemAcquired, state)

	mr.FastForward(11 * time.Second)

	state, _, err = s.Begin(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, IdemAcquired, state)
}

func TestSlidingWindowLimiter(t *testing.T) {
	_, rdb := newTestClient(t)
	l := NewSlidingWindowLimiter(rdb, "bookings", 2, time.Minute)
	ctx := context.Background()

	base := time.Date(2030, 1, 1, 12, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return base }

	for i := 0; i < 2; i++ {
		d, err := l.Allow(ctx, "10.0.0.1")
		require.NoError(t, err)
		assert.True(t, d.Allowed)
	}

	l.now = func() time.Time { return base.Add(10 * time.Second) }
	d, err := l.Allow(ctx, "10.0.0.1")
	require.NoError(t, err)
	assert.False(t, d.Allowed)
	assert.Equal(t, int64(3), d.Count)
	assert.Equal(t, 50*time.Second, d.RetryAfter)

	// other clients have their own window
	d, err = l.Allow(ctx, "10.0.0.2")
	require.NoError(t, err)
	assert.True(t, d.Allowed)

	// once the window has passed, hits are allowed again
	l.now = func() time.Time { return base.Add(2 * time.Minute) }
	d, err = l.Allow(ctx, "10.0.0.1")
	require.NoError(t, err)
	assert.True(t, d.Allowed)
}

func TestBookingsPubSub_RoundTrip(t *testing.T) {
	_, rdb := newTestClient(t)
	ps := NewBookingsPubSub(rdb)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	received := make(chan domain.BookingEvent, 1)
	done := make(chan error, 1)
	go func() {
		done <- ps.Subscribe(ctx, func(ctx context.Context, ev domain.BookingEvent) {
			received <- ev
		})
	}()

	seats := 48
	ev := domain.BookingEvent{
		Type:           domain.BookingCreated,
		BookingID:      "b1",
		MovieID:        "m1",
		ShowDate:       "2030-01-01",
		ShowTime:       "10:00",
		NumberOfSeats:  2,
		AvailableSeats: &seats,
		OccurredAt:     time.Date(2030, 1, 1, 9, 0, 0, 0, time.UTC),
	}

	// the subscriber may not be registered yet; publish until it is
	require.Eventually(t, func() bool {
		n, err := rdb.Publish(ctx, ChannelBookingsChanged(), "not json").Result()
		return err == nil && n > 0
	}, 2*time.Second, 10*time.Millisecond)
	require.NoError(t, ps.Notify(ctx, ev))

	select {
	case got := <-received:
		assert.Equal(t, ev, got)
	case <-time.After(2 * time.Second):
		t.Fatal("event not received")
	}

	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
}

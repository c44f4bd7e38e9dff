package uow

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kirinyoku/cinebook/internal/repository"
	"github.com/kirinyoku/cinebook/internal/repository/memory"
)

func TestDo_RunsHooksAfterCommit(t *testing.T) {
	u := NewUoW(memory.New())

	var order []string
	err := u.Do(context.Background(), func(ctx context.Context, tx repository.Tx, after func(AfterCommit)) error {
		after(func(ctx context.Context) { order = append(order, "first") })
		after(func(ctx context.Context) { order = append(order, "second") })
		order = append(order, "body")
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"body", "first", "second"}, order)
}

func TestDo_SkipsHooksOnError(t *testing.T) {
	u := NewUoW(memory.New())
	boom := errors.New("boom")

	ran := false
	err := u.Do(context.Background(), func(ctx context.Context, tx repository.Tx, after func(AfterCommit)) error {
		after(func(ctx context.Context) { ran = true })
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.False(t, ran)
}

// retryStore replays the unit of work once, the way the postgres store
// does after a serialization failure.
type retryStore struct {
	repository.Store
}

func (s retryStore) RunTx(ctx context.Context, fn func(ctx context.Context, tx repository.Tx) error) error {
	_ = fn(ctx, s.Store)
	return fn(ctx, s.Store)
}

func TestDo_DiscardsHooksFromFailedAttempts(t *testing.T) {
	u := NewUoW(retryStore{Store: memory.New()})

	runs := 0
	err := u.Do(context.Background(), func(ctx context.Context, tx repository.Tx, after func(AfterCommit)) error {
		after(func(ctx context.Context) { runs++ })
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, runs)
}

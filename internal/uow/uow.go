package uow

import (
	"context"

	"github.com/kirinyoku/cinebook/internal/repository"
)

// AfterCommit is a function that runs after a successful commit.
type AfterCommit func(ctx context.Context)

// UoW represents a unit of work over a repository.Store.
type UoW struct {
	store repository.Store
}

func NewUoW(store repository.Store) *UoW {
	return &UoW{store: store}
}

// Do runs fn inside a transaction. After a successful commit it executes
// all after-commit hooks in registration order. Hooks registered by an
// attempt that failed are discarded.
func (u *UoW) Do(
	ctx context.Context,
	fn func(ctx context.Context, tx repository.Tx, after func(AfterCommit)) error,
) error {
	var hooks []AfterCommit

	err := u.store.RunTx(ctx, func(ctx context.Context, tx repository.Tx) error {
		hooks = hooks[:0]
		return fn(ctx, tx, func(h AfterCommit) {
			hooks = append(hooks, h)
		})
	})
	if err != nil {
		return err
	}

	for _, h := range hooks {
		h(ctx)
	}

	return nil
}

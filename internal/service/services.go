package service

import (
	"log/slog"

	"github.com/kirinyoku/cinebook/internal/repository"
	redisrepo "github.com/kirinyoku/cinebook/internal/repository/redis"
	"github.com/kirinyoku/cinebook/internal/service/booking"
	"github.com/kirinyoku/cinebook/internal/service/catalog"
)

type Services struct {
	Catalog *catalog.Service
	Booking *booking.Service
}

type Config struct {
	Catalog catalog.Config
	Booking booking.Config
}

// Deps holds the optional side services. Nil fields are skipped.
type Deps struct {
	Cache     *redisrepo.Cache
	Limiter   *redisrepo.SlidingWindowLimiter
	Notifiers []booking.Notifier
}

func NewServices(
	store repository.Store,
	deps Deps,
	logger *slog.Logger,
	cfg Config,
) *Services {
	return &Services{
		Catalog: catalog.New(store, deps.Cache, logger, cfg.Catalog),
		Booking: booking.New(store, deps.Cache, deps.Limiter, deps.Notifiers, logger, cfg.Booking),
	}
}

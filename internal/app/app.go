package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/kirinyoku/cinebook/internal/config"
	"github.com/kirinyoku/cinebook/internal/domain"
	"github.com/kirinyoku/cinebook/internal/postgres"
	"github.com/kirinyoku/cinebook/internal/queue"
	"github.com/kirinyoku/cinebook/internal/redis"
	"github.com/kirinyoku/cinebook/internal/repository"
	"github.com/kirinyoku/cinebook/internal/repository/memory"
	postgresrepo "github.com/kirinyoku/cinebook/internal/repository/postgres"
	redisrepo "github.com/kirinyoku/cinebook/internal/repository/redis"
	"github.com/kirinyoku/cinebook/internal/service"
	"github.com/kirinyoku/cinebook/internal/service/booking"
	httpgin "github.com/kirinyoku/cinebook/internal/transport/http/gin"
)

type App struct {
	cfg        *config.Config
	logger     *slog.Logger
	httpServer *http.Server
	pubsub     *redisrepo.BookingsPubSub
	closers    []func()
}

func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	const op = "app.New"

	a := &App{cfg: cfg, logger: logger}

	store, err := a.newStore(ctx)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var (
		deps service.Deps
		idem *redisrepo.IdempotencyStore
	)

	if cfg.Redis.Enabled() {
		rdb, err := redis.New(ctx, redis.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		a.closers = append(a.closers, func() { _ = rdb.Close() })

		a.pubsub = redisrepo.NewBookingsPubSub(rdb)
		deps.Cache = redisrepo.New(rdb)
		deps.Notifiers = append(deps.Notifiers, a.pubsub)
		if cfg.Booking.RateLimit > 0 {
			deps.Limiter = redisrepo.NewSlidingWindowLimiter(rdb, "bookings", cfg.Booking.RateLimit, time.Minute)
		}
		idem = redisrepo.NewIdempotencyStore(rdb, 24*time.Hour, 30*time.Second)
		logger.Info("redis enabled", "addr", cfg.Redis.Addr)
	}

	if cfg.AMQP.Enabled() {
		pub, err := queue.NewPublisher(cfg.AMQP.URL, cfg.AMQP.Queue)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		a.closers = append(a.closers, func() { _ = pub.Close() })

		deps.Notifiers = append(deps.Notifiers, pub)
		logger.Info("amqp publisher enabled", "queue", cfg.AMQP.Queue)
	}

	services := service.NewServices(store, deps, logger, service.Config{
		Booking: booking.Config{AllowOverbooking: cfg.Booking.AllowOverbooking},
	})

	if cfg.Store.Seed {
		n, err := services.Catalog.Seed(ctx, demoCatalog())
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if n > 0 {
			logger.Info("seeded catalog", "movies", n)
		}
	}

	router := httpgin.NewRouter(services, idem, logger)

	a.httpServer = &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	return a, nil
}

func (a *App) newStore(ctx context.Context) (repository.Store, error) {
	switch a.cfg.Store.Driver {
	case config.DriverPostgres:
		pool, err := postgres.New(ctx, postgres.Config{DSN: a.cfg.Postgres.DSN()})
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, pool.Close)

		store := postgresrepo.NewStore(pool)
		if err := store.Migrate(ctx); err != nil {
			return nil, err
		}
		a.logger.Info("using postgres store", "host", a.cfg.Postgres.Host, "db", a.cfg.Postgres.Name)
		return store, nil
	default:
		a.logger.Info("using in-memory store")
		return memory.New(), nil
	}
}

func (a *App) Run(ctx context.Context) error {
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	g, gCtx := errgroup.WithContext(ctx)

	// Start HTTP server
	g.Go(func() error {
		a.logger.Info("HTTP server listening", "host", a.cfg.Server.Host, "port", a.cfg.Server.Port)
		if err := a.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("failed to start HTTP server: %w", err)
		}
		return nil
	})

	// Booking change feed
	if a.pubsub != nil {
		g.Go(func() error {
			err := a.pubsub.Subscribe(gCtx, func(ctx context.Context, ev domain.BookingEvent) {
				attrs := []any{
					"type", ev.Type,
					"booking_id", ev.BookingID,
					"movie_id", ev.MovieID,
				}
				if ev.AvailableSeats != nil {
					attrs = append(attrs, "available_seats", *ev.AvailableSeats)
				}
				a.logger.Info("booking changed", attrs...)
			})
			if err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, goredis.ErrClosed) {
				a.logger.Warn("booking feed stopped", "error", err)
			}
			return nil
		})
	}

	// Graceful shutdown
	g.Go(func() error {
		<-gCtx.Done()
		a.logger.Info("shutting down HTTP server")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return a.httpServer.Shutdown(ctx)
	})

	err := g.Wait()
	a.Close()
	return err
}

// Close releases connections in reverse order of acquisition.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}

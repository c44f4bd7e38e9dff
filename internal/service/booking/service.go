package booking

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/kirinyoku/cinebook/internal/domain"
	"github.com/kirinyoku/cinebook/internal/repository"
	redisrepo "github.com/kirinyoku/cinebook/internal/repository/redis"
	"github.com/kirinyoku/cinebook/internal/uow"
)

type Config struct {
	// AllowOverbooking disables the check that a booking fits into the
	// movie's available seats, letting the counter go negative.
	AllowOverbooking bool
}

// Notifier receives an event for every committed booking transition.
type Notifier interface {
	Notify(ctx context.Context, ev domain.BookingEvent) error
}

type Service struct {
	store     repository.Store
	cache     *redisrepo.Cache
	limiter   *redisrepo.SlidingWindowLimiter
	notifiers []Notifier
	uow       *uow.UoW
	logger    *slog.Logger
	cfg       Config
	now       func() time.Time
}

// New creates the booking service. cache and limiter may be nil.
func New(
	store repository.Store,
	cache *redisrepo.Cache,
	limiter *redisrepo.SlidingWindowLimiter,
	notifiers []Notifier,
	logger *slog.Logger,
	cfg Config,
) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &Service{
		store:     store,
		cache:     cache,
		limiter:   limiter,
		notifiers: notifiers,
		uow:       uow.NewUoW(store),
		logger:    logger,
		cfg:       cfg,
		now:       time.Now,
	}
}

type CreateParams struct {
	MovieID       string
	CustomerName  string
	ShowDate      string
	ShowTime      string
	NumberOfSeats int
	// RateLimitKey identifies the caller for rate limiting. Empty disables
	// the limit for this call.
	RateLimitKey string
}

// Create books seats for a customer at one of a movie's show slots.
//
// Parameters:
//   - ctx: request-scoped context.
//   - p: the booking request.
//
// Returns:
//   - *domain.BookingView: the stored booking with its movie snapshot.
//   - error: booking.ErrMissingFields if a field is empty or zero.
//   - error: booking.ErrInvalidSeatCount if the seat count is negative.
//   - error: booking.ErrRateLimited (as *RateLimitedError) if the caller is over its limit.
//   - error: booking.ErrMovieNotFound if the movie does not exist.
//   - error: booking.ErrInvalidShowSlot if the slot is not one of the movie's.
//   - error: booking.ErrInsufficientSeats if the seats do not fit.
func (s *Service) Create(ctx context.Context, p CreateParams) (*domain.BookingView, error) {
	const op = "service.booking.Create"

	if p.MovieID == "" ||
		p.CustomerName == "" ||
		p.ShowDate == "" ||
		p.ShowTime == "" ||
		p.NumberOfSeats == 0 {
		return nil, fmt.Errorf("%s: %w", op, ErrMissingFields)
	}

	if p.NumberOfSeats < 0 {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidSeatCount)
	}

	if s.limiter != nil && p.RateLimitKey != "" {
		d, err := s.limiter.Allow(ctx, p.RateLimitKey)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if !d.Allowed {
			return nil, fmt.Errorf("%s: %w", op, &RateLimitedError{RetryAfter: d.RetryAfter})
		}
	}

	var view *domain.BookingView

	err := s.uow.Do(ctx, func(ctx context.Context, tx repository.Tx, after func(uow.AfterCommit)) error {
		movie, err := tx.Movies().Get(ctx, p.MovieID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrMovieNotFound
			}
			return err
		}

		if !movie.HasSlot(p.ShowDate, p.ShowTime) {
			return ErrInvalidShowSlot
		}

		if !s.cfg.AllowOverbooking && p.NumberOfSeats > movie.AvailableSeats {
			return ErrInsufficientSeats
		}

		seats, err := tx.Movies().AdjustSeats(ctx, movie.ID, -p.NumberOfSeats)
		if err != nil {
			return err
		}

		b := domain.Booking{
			ID:            uuid.NewString(),
			MovieID:       movie.ID,
			CustomerName:  p.CustomerName,
			ShowDate:      p.ShowDate,
			ShowTime:      p.ShowTime,
			NumberOfSeats: p.NumberOfSeats,
			BookingDate:   s.now().UTC(),
		}

		if err := tx.Bookings().Create(ctx, b); err != nil {
			return err
		}

		view = &domain.BookingView{Booking: b, Movie: movie.Info()}

		after(s.changed(domain.BookingCreated, b, &seats, true))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return view, nil
}

// Update moves a booking to another show slot of the same movie. An empty
// showDate or showTime keeps the booking's current value. Seat counts are
// not touched.
//
// Returns:
//   - error: booking.ErrSlotRequired if both showDate and showTime are empty.
//   - error: booking.ErrBookingNotFound if the booking does not exist.
//   - error: booking.ErrMovieNotFound if the booking's movie is gone.
//   - error: booking.ErrInvalidShowSlot if the resulting slot is not one of the movie's.
func (s *Service) Update(ctx context.Context, id, showDate, showTime string) (*domain.BookingView, error) {
	const op = "service.booking.Update"

	if showDate == "" && showTime == "" {
		return nil, fmt.Errorf("%s: %w", op, ErrSlotRequired)
	}

	var view *domain.BookingView

	err := s.uow.Do(ctx, func(ctx context.Context, tx repository.Tx, after func(uow.AfterCommit)) error {
		b, err := tx.Bookings().Get(ctx, id)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrBookingNotFound
			}
			return err
		}

		movie, err := tx.Movies().Get(ctx, b.MovieID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrMovieNotFound
			}
			return err
		}

		slot := domain.ShowSlot{Date: b.ShowDate, Time: b.ShowTime}
		if showDate != "" {
			slot.Date = showDate
		}
		if showTime != "" {
			slot.Time = showTime
		}

		if !movie.HasSlot(slot.Date, slot.Time) {
			return ErrInvalidShowSlot
		}

		if err := tx.Bookings().UpdateSlot(ctx, b.ID, slot); err != nil {
			return err
		}

		b.ShowDate = slot.Date
		b.ShowTime = slot.Time
		view = &domain.BookingView{Booking: *b, Movie: movie.Info()}

		after(s.changed(domain.BookingRescheduled, *b, &movie.AvailableSeats, false))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return view, nil
}

// Cancel removes a booking and returns its seats to the movie. If the movie
// no longer exists the seats are dropped.
//
// Returns:
//   - error: booking.ErrBookingNotFound if the booking does not exist.
func (s *Service) Cancel(ctx context.Context, id string) error {
	const op = "service.booking.Cancel"

	err := s.uow.Do(ctx, func(ctx context.Context, tx repository.Tx, after func(uow.AfterCommit)) error {
		b, err := tx.Bookings().Delete(ctx, id)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrBookingNotFound
			}
			return err
		}

		seats, err := tx.Movies().AdjustSeats(ctx, b.MovieID, b.NumberOfSeats)
		switch {
		case err == nil:
			after(s.changed(domain.BookingCancelled, *b, &seats, true))
		case errors.Is(err, repository.ErrNotFound):
			after(s.seatsDropped(*b))
			after(s.changed(domain.BookingCancelled, *b, nil, false))
		default:
			return err
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// List returns every booking with a snapshot of its movie.
func (s *Service) List(ctx context.Context) ([]domain.BookingView, error) {
	const op = "service.booking.List"

	bookings, err := s.store.Bookings().List(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	movies, err := s.store.Movies().List(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	byID := make(map[string]*domain.Movie, len(movies))
	for i := range movies {
		byID[movies[i].ID] = &movies[i]
	}

	views := make([]domain.BookingView, 0, len(bookings))
	for _, b := range bookings {
		v := domain.BookingView{Booking: b}
		if m, ok := byID[b.MovieID]; ok {
			v.Movie = m.Info()
		}
		views = append(views, v)
	}

	return views, nil
}

// Get returns a booking with a snapshot of its movie.
//
// Returns:
//   - error: booking.ErrBookingNotFound if the booking does not exist.
func (s *Service) Get(ctx context.Context, id string) (*domain.BookingView, error) {
	const op = "service.booking.Get"

	b, err := s.store.Bookings().Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, ErrBookingNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	v := &domain.BookingView{Booking: *b}

	m, err := s.store.Movies().Get(ctx, b.MovieID)
	switch {
	case err == nil:
		v.Movie = m.Info()
	case !errors.Is(err, repository.ErrNotFound):
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return v, nil
}

// seatsDropped logs a cancellation whose seats had no movie to return to.
func (s *Service) seatsDropped(b domain.Booking) uow.AfterCommit {
	return func(ctx context.Context) {
		s.logger.Info("movie gone, cancelled seats dropped",
			slog.String("booking_id", b.ID),
			slog.String("movie_id", b.MovieID),
			slog.Int("seats", b.NumberOfSeats),
		)
	}
}

// changed builds the after-commit hook for a booking transition. When
// seatsChanged is set the movie's cached entries are dropped as well.
// availableSeats is nil when the movie is gone.
func (s *Service) changed(
	typ domain.BookingEventType,
	b domain.Booking,
	availableSeats *int,
	seatsChanged bool,
) uow.AfterCommit {
	ev := domain.BookingEvent{
		Type:           typ,
		BookingID:      b.ID,
		MovieID:        b.MovieID,
		ShowDate:       b.ShowDate,
		ShowTime:       b.ShowTime,
		NumberOfSeats:  b.NumberOfSeats,
		AvailableSeats: availableSeats,
		OccurredAt:     s.now().UTC(),
	}

	return func(ctx context.Context) {
		if seatsChanged && s.cache != nil {
			if err := s.cache.InvalidateMovie(ctx, b.MovieID); err != nil {
				s.logger.Warn("cache invalidation failed",
					slog.String("movie_id", b.MovieID),
					slog.Any("error", err),
				)
			}
		}

		for _, n := range s.notifiers {
			if err := n.Notify(ctx, ev); err != nil {
				s.logger.Warn("booking notification failed",
					slog.String("type", string(ev.Type)),
					slog.String("booking_id", ev.BookingID),
					slog.Any("error", err),
				)
			}
		}
	}
}

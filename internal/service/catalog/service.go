package catalog

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

// Show slots are parsed as local wall-clock time in one of these layouts.
var slotLayouts = []string{
	"2006-01-02T15:04",
	"2006-01-02T15:04:05",
}

type Config struct {
	MovieListTTL time.Duration
	MovieTTL     time.Duration
	// Location is the zone show slots are interpreted in. Defaults to
	// time.Local.
	Location *time.Location
}

type Service struct {
	store  repository.Store
	cache  *redisrepo.Cache
	uow    *uow.UoW
	logger *slog.Logger
	cfg    Config
	now    func() time.Time
}

// New creates the catalog service. cache may be nil, in which case every
// read goes to the store.
func New(store repository.Store, cache *redisrepo.Cache, logger *slog.Logger, cfg Config) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	if cfg.MovieListTTL <= 0 {
		cfg.MovieListTTL = 15 * time.Second
	}

	if cfg.MovieTTL <= 0 {
		cfg.MovieTTL = 15 * time.Second
	}

	if cfg.Location == nil {
		cfg.Location = time.Local
	}

	return &Service{
		store:  store,
		cache:  cache,
		uow:    uow.NewUoW(store),
		logger: logger,
		cfg:    cfg,
		now:    time.Now,
	}
}

// List returns all movies in the order they were added.
func (s *Service) List(ctx context.Context) ([]domain.Movie, error) {
	const op = "service.catalog.List"

	load := func(ctx context.Context) ([]domain.Movie, error) {
		movies, err := s.store.Movies().List(ctx)
		if err != nil {
			return nil, err
		}
		if movies == nil {
			movies = []domain.Movie{}
		}
		return movies, nil
	}

	var movies []domain.Movie
	var err error
	if s.cache != nil {
		movies, err = redisrepo.GetOrSetJSONGen(ctx, s.cache, redisrepo.KeyMovieList(), redisrepo.KeyMoviesGen(), s.cfg.MovieListTTL, load)
	} else {
		movies, err = load(ctx)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return movies, nil
}

// Get retrieves a movie by its ID.
//
// Returns:
//   - error: catalog.ErrMovieNotFound if no movie has that ID.
func (s *Service) Get(ctx context.Context, id string) (*domain.Movie, error) {
	const op = "service.catalog.Get"

	load := func(ctx context.Context) (domain.Movie, error) {
		m, err := s.store.Movies().Get(ctx, id)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return domain.Movie{}, ErrMovieNotFound
			}
			return domain.Movie{}, err
		}
		return *m, nil
	}

	var movie domain.Movie
	var err error
	if s.cache != nil {
		movie, err = redisrepo.GetOrSetJSONGen(ctx, s.cache, redisrepo.KeyMovie(id), redisrepo.KeyMoviesGen(), s.cfg.MovieTTL, load)
	} else {
		movie, err = load(ctx)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &movie, nil
}

// Add validates a draft and appends it to the catalog under a fresh ID.
//
// Returns:
//   - error: catalog.ErrMissingFields if a required field is empty or zero.
//   - error: catalog.ErrInvalidMovie if duration or seats are negative.
//   - error: catalog.ErrPastShowDate if a show slot is not strictly in the
//     future or cannot be parsed.
func (s *Service) Add(ctx context.Context, draft domain.MovieDraft) (*domain.Movie, error) {
	const op = "service.catalog.Add"

	if draft.Title == "" ||
		draft.Description == "" ||
		draft.Duration == 0 ||
		len(draft.ShowDateTimes) == 0 ||
		draft.AvailableSeats == 0 {
		return nil, fmt.Errorf("%s: %w", op, ErrMissingFields)
	}

	if draft.Duration < 0 || draft.AvailableSeats < 0 {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidMovie)
	}

	now := s.now()
	for _, slot := range draft.ShowDateTimes {
		at, ok := s.slotTime(slot)
		if !ok || !at.After(now) {
			return nil, fmt.Errorf("%s: %w", op, ErrPastShowDate)
		}
	}

	movie := domain.Movie{
		ID:             uuid.NewString(),
		Title:          draft.Title,
		Description:    draft.Description,
		Duration:       draft.Duration,
		ShowDateTimes:  append([]domain.ShowSlot(nil), draft.ShowDateTimes...),
		AvailableSeats: draft.AvailableSeats,
	}

	err := s.uow.Do(ctx, func(ctx context.Context, tx repository.Tx, after func(uow.AfterCommit)) error {
		if err := tx.Movies().Create(ctx, movie); err != nil {
			return err
		}

		after(s.invalidateList)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &movie, nil
}

// CheckSlot reports whether date and time form one of the movie's show
// slots, together with the slots that do exist.
func (s *Service) CheckSlot(ctx context.Context, movieID, showDate, showTime string) (*domain.SlotCheck, error) {
	const op = "service.catalog.CheckSlot"

	m, err := s.store.Movies().Get(ctx, movieID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, ErrMovieNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &domain.SlotCheck{
		Movie:              m.Title,
		ShowDateExists:     m.HasSlot(showDate, showTime),
		AvailableShowTimes: m.ShowDateTimes,
		RequestedDate:      showDate,
		RequestedTime:      showTime,
	}, nil
}

// Seed stores movies as given, bypassing draft validation. It is a no-op
// when the catalog already has movies.
func (s *Service) Seed(ctx context.Context, movies []domain.Movie) (int, error) {
	const op = "service.catalog.Seed"

	var added int
	err := s.uow.Do(ctx, func(ctx context.Context, tx repository.Tx, after func(uow.AfterCommit)) error {
		added = 0
		existing, err := tx.Movies().List(ctx)
		if err != nil {
			return err
		}
		if len(existing) > 0 {
			return nil
		}

		for _, m := range movies {
			if m.ID == "" {
				m.ID = uuid.NewString()
			}
			if err := tx.Movies().Create(ctx, m); err != nil {
				return err
			}
			added++
		}

		after(s.invalidateList)
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return added, nil
}

// invalidateList runs after a commit that added movies.
func (s *Service) invalidateList(ctx context.Context) {
	if s.cache == nil {
		return
	}

	if err := s.cache.InvalidateMovieList(ctx); err != nil {
		s.logger.Warn("cache invalidation failed",
			slog.String("key", redisrepo.KeyMovieList()),
			slog.Any("error", err),
		)
	}
}

func (s *Service) slotTime(slot domain.ShowSlot) (time.Time, bool) {
	raw := slot.Date + "T" + slot.Time
	for _, layout := range slotLayouts {
		if t, err := time.ParseInLocation(layout, raw, s.cfg.Location); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

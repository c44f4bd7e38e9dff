package booking

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrMissingFields     = errors.New("missing required fields")
	ErrInvalidSeatCount  = errors.New("number of seats must be positive")
	ErrMovieNotFound     = errors.New("movie not found")
	ErrBookingNotFound   = errors.New("booking not found")
	ErrInvalidShowSlot   = errors.New("invalid show date or time")
	ErrSlotRequired      = errors.New("show date or time is required")
	ErrInsufficientSeats = errors.New("not enough seats available")
	ErrRateLimited       = errors.New("rate limited")
)

type RateLimitedError struct {
	RetryAfter time.Duration
}

func (e *RateLimitedError) Error() string {
	return fmt.Sprintf("rate limited, retry in %s", e.RetryAfter)
}

func (e *RateLimitedError) Unwrap() error {
	return ErrRateLimited
}

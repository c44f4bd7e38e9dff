package catalog

import (
	"errors"
)

var (
	ErrMissingFields = errors.New("missing required fields")
	ErrInvalidMovie  = errors.New("duration and available seats must be positive")
	ErrPastShowDate  = errors.New("show dates must be in the future")
	ErrMovieNotFound = errors.New("movie not found")
)

package httpgin

import "github.com/kirinyoku/cinebook/internal/domain"

type CreateMovieRequest struct {
	Title          string            `json:"title"`
	Description    string            `json:"description"`
	Duration       int               `json:"duration"`
	ShowDateTimes  []domain.ShowSlot `json:"showDateTimes"`
	AvailableSeats int               `json:"availableSeats"`
}

func (r CreateMovieRequest) draft() domain.MovieDraft {
	return domain.MovieDraft{
		Title:          r.Title,
		Description:    r.Description,
		Duration:       r.Duration,
		ShowDateTimes:  r.ShowDateTimes,
		AvailableSeats: r.AvailableSeats,
	}
}

type CreateBookingRequest struct {
	MovieID       string `json:"movieId"`
	CustomerName  string `json:"customerName"`
	ShowDate      string `json:"showDate"`
	ShowTime      string `json:"showTime"`
	NumberOfSeats int    `json:"numberOfSeats"`
}

type UpdateBookingRequest struct {
	ShowDate string `json:"showDate"`
	ShowTime string `json:"showTime"`
}

type ErrorResponse struct {
	Message string `json:"message"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type HealthResponse struct {
	Status string `json:"status"`
}

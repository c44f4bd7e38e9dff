package domain

import (
	"time"
)

type ShowSlot struct {
	Date string `json:"date"`
	Time string `json:"time"`
}

type Movie struct {
	ID             string     `json:"id"`
	Title          string     `json:"title"`
	Description    string     `json:"description"`
	Duration       int        `json:"duration"`
	ShowDateTimes  []ShowSlot `json:"showDateTimes"`
	AvailableSeats int        `json:"availableSeats"`
}

// HasSlot reports whether showDate and showTime match one of the movie's
// show slots exactly. No normalization is applied to either component.
func (m *Movie) HasSlot(showDate, showTime string) bool {
	for _, s := range m.ShowDateTimes {
		if s.Date == showDate && s.Time == showTime {
			return true
		}
	}
	return false
}

// Info returns the read-only snapshot embedded into booking responses.
func (m *Movie) Info() *MovieInfo {
	return &MovieInfo{
		Title:       m.Title,
		Description: m.Description,
		Duration:    m.Duration,
	}
}

type MovieDraft struct {
	Title          string
	Description    string
	Duration       int
	ShowDateTimes  []ShowSlot
	AvailableSeats int
}

type MovieInfo struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Duration    int    `json:"duration"`
}

type Booking struct {
	ID            string    `json:"id"`
	MovieID       string    `json:"movieId"`
	CustomerName  string    `json:"customerName"`
	ShowDate      string    `json:"showDate"`
	ShowTime      string    `json:"showTime"`
	NumberOfSeats int       `json:"numberOfSeats"`
	BookingDate   time.Time `json:"bookingDate"`
}

// BookingView is a booking together with a snapshot of its movie. Movie is
// nil when the referenced movie can no longer be found.
type BookingView struct {
	Booking
	Movie *MovieInfo `json:"movie"`
}

type SlotCheck struct {
	Movie              string     `json:"movie"`
	ShowDateExists     bool       `json:"showDateExists"`
	AvailableShowTimes []ShowSlot `json:"availableShowTimes"`
	RequestedDate      string     `json:"requestedDate"`
	RequestedTime      string     `json:"requestedTime"`
}

type BookingEventType string

const (
	BookingCreated     BookingEventType = "booking.created"
	BookingRescheduled BookingEventType = "booking.rescheduled"
	BookingCancelled   BookingEventType = "booking.cancelled"
)

// BookingEvent describes one committed transition of a booking.
// AvailableSeats is nil when the movie no longer exists.
type BookingEvent struct {
	Type           BookingEventType `json:"type"`
	BookingID      string           `json:"bookingId"`
	MovieID        string           `json:"movieId"`
	ShowDate       string           `json:"showDate"`
	ShowTime       string           `json:"showTime"`
	NumberOfSeats  int              `json:"numberOfSeats"`
	AvailableSeats *int             `json:"availableSeats,omitempty"`
	OccurredAt     time.Time        `json:"occurredAt"`
}

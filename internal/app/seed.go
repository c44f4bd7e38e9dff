package app

import "github.com/kirinyoku/cinebook/internal/domain"

// demoCatalog is loaded into an empty store when seeding is enabled. IDs are
// assigned on insert.
func demoCatalog() []domain.Movie {
	return []domain.Movie{
		{
			Title:       "Inception",
			Description: "A thief who steals corporate secrets through dream-sharing technology",
			Duration:    148,
			ShowDateTimes: []domain.ShowSlot{
				{Date: "2025-05-08", Time: "10:00"},
				{Date: "2025-05-08", Time: "14:00"},
				{Date: "2025-05-09", Time: "18:00"},
				{Date: "2025-05-09", Time: "21:00"},
			},
			AvailableSeats: 50,
		},
		{
			Title:       "The Dark Knight",
			Description: "Batman fights against the criminal mastermind known as the Joker",
			Duration:    152,
			ShowDateTimes: []domain.ShowSlot{
				{Date: "2025-05-08", Time: "11:00"},
				{Date: "2025-05-08", Time: "15:00"},
				{Date: "2025-05-09", Time: "19:00"},
				{Date: "2025-05-09", Time: "22:00"},
			},
			AvailableSeats: 50,
		},
	}
}

package app

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kirinyoku/cinebook/internal/config"
	"github.com/kirinyoku/cinebook/internal/domain"
)

func memoryConfig(seed bool) *config.Config {
	return &config.Config{
		Server:  config.ServerConfig{Host: "127.0.0.1", Port: 0},
		Store:   config.StoreConfig{Driver: config.DriverMemory, Seed: seed},
		Booking: config.BookingConfig{RateLimit: 10},
	}
}

func listMovies(t *testing.T, a *App) []domain.Movie {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, "/api/movies", nil)
	w := httptest.NewRecorder()
	a.httpServer.Handler.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var movies []domain.Movie
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &movies))
	return movies
}

func TestNew_SeedsDemoCatalog(t *testing.T) {
	gin.SetMode(gin.TestMode)

	a, err := New(context.Background(), memoryConfig(true), slog.New(slog.DiscardHandler))
	require.NoError(t, err)
	t.Cleanup(a.Close)

	movies := listMovies(t, a)
	require.Len(t, movies, 2)
	assert.Equal(t, "Inception", movies[0].Title)
	assert.Equal(t, "The Dark Knight", movies[1].Title)
	for _, m := range movies {
		assert.NotEmpty(t, m.ID)
		assert.Equal(t, 50, m.AvailableSeats)
		assert.Len(t, m.ShowDateTimes, 4)
	}
}

func TestNew_WithoutSeed(t *testing.T) {
	gin.SetMode(gin.TestMode)

	a, err := New(context.Background(), memoryConfig(false), slog.New(slog.DiscardHandler))
	require.NoError(t, err)
	t.Cleanup(a.Close)

	assert.Empty(t, listMovies(t, a))
}

func TestNew_RedisUnavailable(t *testing.T) {
	cfg := memoryConfig(false)
	cfg.Redis.Addr = "127.0.0.1:1"

	_, err := New(context.Background(), cfg, slog.New(slog.DiscardHandler))
	assert.Error(t, err)
}

package httpgin

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	redisrepo "github.com/kirinyoku/cinebook/internal/repository/redis"
	"github.com/kirinyoku/cinebook/internal/service"
	"github.com/kirinyoku/cinebook/internal/service/booking"
	"github.com/kirinyoku/cinebook/internal/service/catalog"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

const (
	msgInvalidBody        = "Invalid request body"
	msgInternal           = "Internal server error"
	msgMissingFields      = "Missing required fields"
	msgMovieNotFound      = "Movie not found"
	msgBookingNotFound    = "Booking not found"
	msgPastShowDate       = "Show dates must be in the future"
	msgInvalidMovie       = "Duration and available seats must be positive"
	msgInvalidSeatCount   = "Number of seats must be positive"
	msgInvalidMovieSlot   = "Invalid show date or time for this movie"
	msgInvalidSlot        = "Invalid show date or time"
	msgSlotRequired       = "Show date or time is required"
	msgInsufficientSeats  = "Not enough seats available"
	msgIdemInProgress     = "Idempotency key in progress"
	msgBookingCancelled   = "Booking cancelled successfully"
	msgTooManyBookingsFmt = "Too many booking requests, retry in "

	// seat counts change with every booking, so clients revalidate
	cacheMovies = "no-cache"
	cacheMovie  = "no-cache"
)

func NewRouter(
	svcs *service.Services,
	idem *redisrepo.IdempotencyStore,
	logger *slog.Logger,
	middlewares ...gin.HandlerFunc,
) *gin.Engine {
	r := gin.New()

	r.Use(gin.Recovery(), RequestIDMiddleware(), LoggingMiddleware(logger), CORS())
	for _, m := range middlewares {
		if m != nil {
			r.Use(m)
		}
	}

	// Swagger UI
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// health
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, HealthResponse{Status: "ok"})
	})

	api := r.Group("/api")

	movies := api.Group("/movies")
	{
		movies.GET("", handleListMovies(svcs))
		movies.GET("/:id", handleGetMovie(svcs))
		movies.POST("", handleCreateMovie(svcs))
		movies.GET("/:id/showtimes/check", handleCheckShowtime(svcs))
	}

	bookings := api.Group("/bookings")
	{
		bookings.GET("", handleListBookings(svcs))
		bookings.GET("/:id", handleGetBooking(svcs))
		bookings.POST("", handleCreateBooking(svcs, idem))
		bookings.PUT("/:id", handleUpdateBooking(svcs))
		bookings.DELETE("/:id", handleCancelBooking(svcs))
	}

	return r
}

// @Summary  List movies
// @Tags     movies
// @Produce  json
// @Success  200  {array}  domain.Movie
// @Router   /api/movies [get]
func handleListMovies(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		movies, err := svcs.Catalog.List(c.Request.Context())
		if err != nil {
			respondErr(c, err)
			return
		}
		writeJSONWithCache(c, http.StatusOK, movies, cacheMovies, true)
	}
}

// @Summary  Get movie
// @Tags     movies
// @Produce  json
// @Param    id   path      string  true  "Movie ID"
// @Success  200  {object}  domain.Movie
// @Failure  404  {object}  ErrorResponse
// @Router   /api/movies/{id} [get]
func handleGetMovie(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		m, err := svcs.Catalog.Get(c.Request.Context(), c.Param("id"))
		if err != nil {
			respondErr(c, err)
			return
		}
		writeJSONWithCache(c, http.StatusOK, m, cacheMovie, true)
	}
}

// @Summary  Add movie
// @Tags     movies
// @Accept   json
// @Produce  json
// @Param    req  body      CreateMovieRequest  true  "payload"
// @Success  201  {object}  domain.Movie
// @Failure  400  {object}  ErrorResponse
// @Router   /api/movies [post]
func handleCreateMovie(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CreateMovieRequest
		if !bindJSON(c, &req) {
			return
		}

		m, err := svcs.Catalog.Add(c.Request.Context(), req.draft())
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusCreated, m)
	}
}

// @Summary  Check a show slot against a movie's schedule
// @Tags     movies
// @Produce  json
// @Param    id    path      string  true   "Movie ID"
// @Param    date  query     string  false  "show date"
// @Param    time  query     string  false  "show time"
// @Success  200   {object}  domain.SlotCheck
// @Failure  404   {object}  ErrorResponse
// @Router   /api/movies/{id}/showtimes/check [get]
func handleCheckShowtime(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		res, err := svcs.Catalog.CheckSlot(
			c.Request.Context(),
			c.Param("id"),
			c.Query("date"),
			c.Query("time"),
		)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, res)
	}
}

// @Summary  List bookings
// @Tags     bookings
// @Produce  json
// @Success  200  {array}  domain.BookingView
// @Router   /api/bookings [get]
func handleListBookings(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		views, err := svcs.Booking.List(c.Request.Context())
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, views)
	}
}

// @Summary  Get booking
// @Tags     bookings
// @Produce  json
// @Param    id   path      string  true  "Booking ID"
// @Success  200  {object}  domain.BookingView
// @Failure  404  {object}  ErrorResponse
// @Router   /api/bookings/{id} [get]
func handleGetBooking(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		v, err := svcs.Booking.Get(c.Request.Context(), c.Param("id"))
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, v)
	}
}

// @Summary  Create booking (idempotent)
// @Tags     bookings
// @Accept   json
// @Produce  json
// @Param    Idempotency-Key  header    string                false  "replay key"
// @Param    req              body      CreateBookingRequest  true   "payload"
// @Header   201              {string}  Idempotency-Key       "echo"
// @Success  201              {object}  domain.BookingView
// @Failure  400              {object}  ErrorResponse
// @Failure  404              {object}  ErrorResponse
// @Failure  409              {object}  ErrorResponse  "not enough seats / idem in progress"
// @Failure  429              {object}  ErrorResponse  "rate limited"
// @Router   /api/bookings [post]
func handleCreateBooking(
	svcs *service.Services,
	idem *redisrepo.IdempotencyStore,
) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CreateBookingRequest
		if !bindJSON(c, &req) {
			return
		}

		ctx := c.Request.Context()

		idemKey := strings.TrimSpace(c.GetHeader(headerIdemKey))
		var idemStorageKey string
		if idem != nil && idemKey != "" {
			idemStorageKey = redisrepo.KeyIdemBooking(idemKey)

			state, payload, err := idem.Begin(ctx, idemStorageKey)
			if err != nil {
				respondErr(c, err)
				return
			}

			switch state {
			case redisrepo.IdemDone:
				c.Header(headerIdemKey, idemKey)
				c.Data(http.StatusCreated, "application/json; charset=utf-8", []byte(payload))
				return
			case redisrepo.IdemInProgress:
				c.Header(headerRetryAfter, "1")
				c.JSON(http.StatusConflict, ErrorResponse{Message: msgIdemInProgress})
				return
			}
		}

		v, err := svcs.Booking.Create(ctx, booking.CreateParams{
			MovieID:       req.MovieID,
			CustomerName:  req.CustomerName,
			ShowDate:      req.ShowDate,
			ShowTime:      req.ShowTime,
			NumberOfSeats: req.NumberOfSeats,
			RateLimitKey:  "ip:" + c.ClientIP(),
		})
		if err != nil {
			if idemStorageKey != "" {
				_ = idem.Abort(ctx, idemStorageKey)
			}
			respondErr(c, err)
			return
		}

		b, err := json.Marshal(v)
		if err != nil {
			respondErr(c, err)
			return
		}

		if idemStorageKey != "" {
			if err := idem.Complete(ctx, idemStorageKey, string(b)); err != nil {
				_ = c.Error(err)
			}
			c.Header(headerIdemKey, idemKey)
		}

		c.Data(http.StatusCreated, "application/json; charset=utf-8", b)
	}
}

// @Summary  Reschedule booking
// @Tags     bookings
// @Accept   json
// @Produce  json
// @Param    id   path      string                true  "Booking ID"
// @Param    req  body      UpdateBookingRequest  true  "payload"
// @Success  200  {object}  domain.BookingView
// @Failure  400  {object}  ErrorResponse
// @Failure  404  {object}  ErrorResponse
// @Router   /api/bookings/{id} [put]
func handleUpdateBooking(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req UpdateBookingRequest
		if !bindJSON(c, &req) {
			return
		}

		v, err := svcs.Booking.Update(
			c.Request.Context(),
			c.Param("id"),
			req.ShowDate,
			req.ShowTime,
		)
		if err != nil {
			if errors.Is(err, booking.ErrInvalidShowSlot) {
				badRequest(c, msgInvalidSlot)
				return
			}
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, v)
	}
}

// @Summary  Cancel booking
// @Tags     bookings
// @Produce  json
// @Param    id   path      string  true  "Booking ID"
// @Success  200  {object}  MessageResponse
// @Failure  404  {object}  ErrorResponse
// @Router   /api/bookings/{id} [delete]
func handleCancelBooking(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := svcs.Booking.Cancel(c.Request.Context(), c.Param("id")); err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, MessageResponse{Message: msgBookingCancelled})
	}
}

// --- Helpers ---

// bindJSON decodes the request body into req. A missing or empty body
// leaves req at its zero value. On failure it writes 400 and returns false.
func bindJSON(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil && !errors.Is(err, io.EOF) {
		badRequest(c, msgInvalidBody)
		return false
	}
	return true
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Message: msg})
}

// retryAfterSeconds rounds up to whole seconds, never below one.
func retryAfterSeconds(rl *booking.RateLimitedError) int {
	secs := int(math.Ceil(rl.RetryAfter.Seconds()))
	if secs < 1 {
		secs = 1
	}
	return secs
}

func respondErr(c *gin.Context, err error) {
	if err == nil {
		c.Status(http.StatusNoContent)
		return
	}

	var rl *booking.RateLimitedError
	if errors.As(err, &rl) {
		c.Header(headerRetryAfter, strconv.Itoa(retryAfterSeconds(rl)))
		c.JSON(
			http.StatusTooManyRequests,
			ErrorResponse{Message: msgTooManyBookingsFmt + rl.RetryAfter.String()},
		)
		return
	}

	switch {
	// catalog service
	case errors.Is(err, catalog.ErrMissingFields):
		badRequest(c, msgMissingFields)
	case errors.Is(err, catalog.ErrPastShowDate):
		badRequest(c, msgPastShowDate)
	case errors.Is(err, catalog.ErrInvalidMovie):
		badRequest(c, msgInvalidMovie)
	case errors.Is(err, catalog.ErrMovieNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Message: msgMovieNotFound})
	// booking service
	case errors.Is(err, booking.ErrMissingFields):
		badRequest(c, msgMissingFields)
	case errors.Is(err, booking.ErrInvalidSeatCount):
		badRequest(c, msgInvalidSeatCount)
	case errors.Is(err, booking.ErrSlotRequired):
		badRequest(c, msgSlotRequired)
	case errors.Is(err, booking.ErrInvalidShowSlot):
		badRequest(c, msgInvalidMovieSlot)
	case errors.Is(err, booking.ErrMovieNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Message: msgMovieNotFound})
	case errors.Is(err, booking.ErrBookingNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Message: msgBookingNotFound})
	case errors.Is(err, booking.ErrInsufficientSeats):
		c.JSON(http.StatusConflict, ErrorResponse{Message: msgInsufficientSeats})
	default:
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Message: msgInternal})
	}
}

package redis

import "fmt"

const ns = "cinebook:v1"

func KeyMovieList() string {
	return ns + ":movies"
}

func KeyMovie(id string) string {
	return fmt.Sprintf("%s:movie:%s", ns, id)
}

func KeyIdemBooking(idemKey string) string {
	return fmt.Sprintf("%s:idem:bookings:%s", ns, idemKey)
}

func KeyRateLimit(scope, id string) string {
	return fmt.Sprintf("%s:rl:%s:%s", ns, scope, id)
}

func ChannelBookingsChanged() string {
	return ns + ":bookings:changed"
}

// KeyMoviesGen is bumped on every catalog invalidation. Loads that started
// under an older generation do not write their result back.
func KeyMoviesGen() string {
	return ns + ":movies:gen"
}

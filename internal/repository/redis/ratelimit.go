package redis

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Sliding window over a sorted set scored by hit time.
// KEYS[1] = key
// ARGV[1] = now_ms
// ARGV[2] = window_ms
// ARGV[3] = limit
// ARGV[4] = member (unique)
const luaSlidingWindow = `
local key = KEYS[1]
local now = tonumber(ARGV[1])
local window = tonumber(ARGV[2])
local limit = tonumber(ARGV[3])
local member = ARGV[4]

redis.call('ZREMRANGEBYSCORE', key, 0, now - window)
redis.call('ZADD', key, now, member)
local count = redis.call('ZCARD', key)
redis.call('PEXPIRE', key, window)

if count > limit then
  local earliest = redis.call('ZRANGE', key, 0, 0, 'WITHSCORES')
  local earliestScore = tonumber(earliest[2]) or (now - window)
  local retry_ms = window - (now - earliestScore)
  if retry_ms < 0 then retry_ms = 0 end
  return {0, count, retry_ms}
end
return {1, count, 0}
`

type Decision struct {
	Allowed    bool
	Count      int64
	RetryAfter time.Duration
}

type SlidingWindowLimiter struct {
	rdb    *redis.Client
	scope  string
	limit  int
	window time.Duration
	script *redis.Script
	now    func() time.Time
}

func NewSlidingWindowLimiter(
	rdb *redis.Client,
	scope string,
	limit int,
	window time.Duration,
) *SlidingWindowLimiter {
	return &SlidingWindowLimiter{
		rdb:    rdb,
		scope:  scope,
		limit:  limit,
		window: window,
		script: redis.NewScript(luaSlidingWindow),
		now:    time.Now,
	}
}

// Allow records a hit for id and reports whether it fits in the window.
// Rejected hits still count towards the window.
func (l *SlidingWindowLimiter) Allow(ctx context.Context, id string) (Decision, error) {
	const op = "redis.SlidingWindowLimiter.Allow"

	res, err := l.script.Run(
		ctx,
		l.rdb,
		[]string{KeyRateLimit(l.scope, id)},
		l.now().UnixMilli(), l.window.Milliseconds(), l.limit, randomHex(12),
	).Int64Slice()
	if err != nil {
		return Decision{}, fmt.Errorf("%s:%w", op, err)
	}

	if len(res) != 3 {
		return Decision{}, fmt.Errorf("%s: bad script result: %v", op, res)
	}

	return Decision{
		Allowed:    res[0] == 1,
		Count:      res[1],
		RetryAfter: time.Duration(res[2]) * time.Millisecond,
	}, nil
}

func randomHex(n int) string {
	b := make([]byte, n)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

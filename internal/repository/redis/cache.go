package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

// Cache is a JSON read-through cache. Concurrent misses for the same key
// share a single load.
type Cache struct {
	rdb *redis.Client
	sf  singleflight.Group
}

func New(client *redis.Client) *Cache {
	return &Cache{rdb: client}
}

func (c *Cache) GetString(ctx context.Context, key string) (string, bool, error) {
	s, err := c.rdb.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}

	if err != nil {
		return "", false, err
	}

	return s, true, nil
}

func (c *Cache) SetString(ctx context.Context, key, val string, ttl time.Duration) error {
	return c.rdb.Set(ctx, key, val, ttl).Err()
}

func (c *Cache) Del(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}

	return c.rdb.Del(ctx, keys...).Err()
}

func GetJSON[T any](ctx context.Context, c *Cache, key string) (T, bool, error) {
	var zero T

	s, ok, err := c.GetString(ctx, key)
	if err != nil || !ok {
		return zero, ok, err
	}

	var out T
	if err := json.Unmarshal([]byte(s), &out); err != nil {
		return zero, false, err
	}

	return out, true, nil
}

func SetJSON(ctx context.Context, c *Cache, key string, val any, ttl time.Duration) error {
	b, err := json.Marshal(val)
	if err != nil {
		return err
	}

	return c.SetString(ctx, key, string(b), ttl)
}

// Sets KEYS[1] only while the generation at KEYS[2] still equals ARGV[1].
// KEYS[1] = key
// KEYS[2] = generation key
// ARGV[1] = generation seen before the load ("" when unset)
// ARGV[2] = value
// ARGV[3] = ttl_ms (0 = no expiry)
const luaSetIfGen = `
local gen = redis.call('GET', KEYS[2]) or ''
if gen ~= ARGV[1] then
  return 0
end
local ttl = tonumber(ARGV[3])
if ttl > 0 then
  redis.call('SET', KEYS[1], ARGV[2], 'PX', ttl)
else
  redis.call('SET', KEYS[1], ARGV[2])
end
return 1
`

var setIfGenScript = redis.NewScript(luaSetIfGen)

// GetOrSetJSON returns the cached value under key, or calls loader and
// caches its result for ttl. Loader errors are returned unchanged and are
// never cached. A failing cache write does not fail the call.
func GetOrSetJSON[T any](
	ctx context.Context,
	c *Cache,
	key string,
	ttl time.Duration,
	loader func(ctx context.Context) (T, error),
) (T, error) {
	return GetOrSetJSONGen(ctx, c, key, "", ttl, loader)
}

// GetOrSetJSONGen is GetOrSetJSON guarded by the generation counter at
// genKey: if the generation moves while loader runs, the loaded value is
// returned but not cached. An empty genKey disables the guard.
func GetOrSetJSONGen[T any](
	ctx context.Context,
	c *Cache,
	key string,
	genKey string,
	ttl time.Duration,
	loader func(ctx context.Context) (T, error),
) (T, error) {
	var zero T

	if v, ok, err := GetJSON[T](ctx, c, key); err != nil || ok {
		return v, err
	}

	vAny, err, _ := c.sf.Do(key, func() (any, error) {
		if v, ok, err := GetJSON[T](ctx, c, key); err != nil || ok {
			return v, err
		}

		var gen string
		if genKey != "" {
			g, _, err := c.GetString(ctx, genKey)
			if err != nil {
				return nil, err
			}
			gen = g
		}

		v, err := loader(ctx)
		if err != nil {
			return nil, err
		}

		if genKey == "" {
			_ = SetJSON(ctx, c, key, v, ttl)
			return v, nil
		}

		b, err := json.Marshal(v)
		if err == nil {
			_ = setIfGenScript.Run(ctx, c.rdb,
				[]string{key, genKey},
				gen, string(b), ttl.Milliseconds(),
			).Err()
		}
		return v, nil
	})
	if err != nil {
		return zero, err
	}

	v, ok := vAny.(T)
	if !ok {
		return zero, errors.New("cache: type assertion failed")
	}

	return v, nil
}

// InvalidateMovie drops the cached catalog list and the movie's own entry
// and bumps the catalog generation.
func (c *Cache) InvalidateMovie(ctx context.Context, movieID string) error {
	return c.invalidate(ctx, KeyMovieList(), KeyMovie(movieID))
}

// InvalidateMovieList drops the cached catalog list and bumps the catalog
// generation.
func (c *Cache) InvalidateMovieList(ctx context.Context) error {
	return c.invalidate(ctx, KeyMovieList())
}

func (c *Cache) invalidate(ctx context.Context, keys ...string) error {
	_, err := c.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, KeyMoviesGen())
		pipe.Del(ctx, keys...)
		return nil
	})
	return err
}

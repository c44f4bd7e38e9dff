package redis

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	idemLock      = "LOCK"
	idemResPrefix = "RES:"
)

type IdemState int

const (
	// IdemAcquired means the caller owns the key and must Complete or Abort it.
	IdemAcquired IdemState = iota
	// IdemInProgress means another request holds the key.
	IdemInProgress
	// IdemDone means a stored response is available for replay.
	IdemDone
)

type IdempotencyStore struct {
	rdb     *redis.Client
	ttl     time.Duration
	lockTTL time.Duration
}

func NewIdempotencyStore(rdb *redis.Client, ttl, lockTTL time.Duration) *IdempotencyStore {
	return &IdempotencyStore{rdb: rdb, ttl: ttl, lockTTL: lockTTL}
}

// Begin claims key for the caller, or reports that the key is in progress
// or already has a stored response, which is then returned.
func (s *IdempotencyStore) Begin(ctx context.Context, key string) (IdemState, string, error) {
	if payload, ok, err := s.result(ctx, key); err != nil || ok {
		return IdemDone, payload, err
	}

	locked, err := s.rdb.SetNX(ctx, key, idemLock, s.lockTTL).Result()
	if err != nil {
		return IdemInProgress, "", err
	}
	if locked {
		return IdemAcquired, "", nil
	}

	// lost the race: the holder may have finished in between
	if payload, ok, err := s.result(ctx, key); err != nil || ok {
		return IdemDone, payload, err
	}

	return IdemInProgress, "", nil
}

// Complete stores the response payload for replay.
func (s *IdempotencyStore) Complete(ctx context.Context, key, payload string) error {
	return s.rdb.Set(ctx, key, idemResPrefix+payload, s.ttl).Err()
}

// Abort releases the key so the request can be retried.
func (s *IdempotencyStore) Abort(ctx context.Context, key string) error {
	return s.rdb.Del(ctx, key).Err()
}

func (s *IdempotencyStore) result(ctx context.Context, key string) (string, bool, error) {
	v, err := s.rdb.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	if payload, ok := strings.CutPrefix(v, idemResPrefix); ok {
		return payload, true, nil
	}

	return "", false, nil
}

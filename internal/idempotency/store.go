// Package idempotency keeps the envelopes produced for idempotent requests so
// a retry can be answered with the exact same bytes.
package idempotency

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	keyPrefix = "messagegateway:idempotency:"

	// reservationTTL bounds how long a crashed request can hold its key.
	reservationTTL = time.Minute
)

var (
	ErrNotFound   = errors.New("idempotency record not found")
	ErrInProgress = errors.New("idempotent request still in progress")
)

// Record is a response as it was written the first time. A pending record
// marks a key whose first request has not finished yet.
type Record struct {
	Status  int    `json:"status"`
	Body    []byte `json:"body,omitempty"`
	Pending bool   `json:"pending,omitempty"`
}

type Store interface {
	// Reserve claims key for a new request and reports reserved=true. If key
	// is already taken it returns the finished record, or ErrInProgress while
	// the first request is still running.
	Reserve(ctx context.Context, key string) (record Record, reserved bool, err error)
	// Complete replaces the reservation with the final record.
	Complete(ctx context.Context, key string, record Record) error
	// Release drops the reservation so the request can be retried.
	Release(ctx context.Context, key string) error
}

// Client is the subset of redis.Cmdable the store uses.
type Client interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.BoolCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

type RedisStore struct {
	client Client
	ttl    time.Duration
}

func NewRedisStore(client Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func (s *RedisStore) Reserve(ctx context.Context, key string) (Record, bool, error) {
	marker, err := json.Marshal(Record{Pending: true})
	if err != nil {
		return Record{}, false, fmt.Errorf("failed to encode idempotency reservation: %w", err)
	}

	ok, err := s.client.SetNX(ctx, keyPrefix+key, marker, s.reservationTTL()).Result()
	if err != nil {
		return Record{}, false, fmt.Errorf("failed to reserve idempotency key: %w", err)
	}

	if ok {
		return Record{}, true, nil
	}

	record, err := s.Get(ctx, key)
	switch {
	case errors.Is(err, ErrNotFound):
		// Released or expired between SETNX and GET; the holder is retrying.
		return Record{}, false, ErrInProgress
	case err != nil:
		return Record{}, false, err
	case record.Pending:
		return Record{}, false, ErrInProgress
	}

	return record, false, nil
}

func (s *RedisStore) Get(ctx context.Context, key string) (Record, error) {
	raw, err := s.client.Get(ctx, keyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return Record{}, ErrNotFound
	}

	if err != nil {
		return Record{}, fmt.Errorf("failed to read idempotency record: %w", err)
	}

	var record Record
	if err := json.Unmarshal(raw, &record); err != nil {
		return Record{}, fmt.Errorf("failed to decode idempotency record: %w", err)
	}

	return record, nil
}

func (s *RedisStore) Complete(ctx context.Context, key string, record Record) error {
	record.Pending = false

	raw, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to encode idempotency record: %w", err)
	}

	if err := s.client.Set(ctx, keyPrefix+key, raw, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to write idempotency record: %w", err)
	}

	return nil
}

func (s *RedisStore) Release(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, keyPrefix+key).Err(); err != nil {
		return fmt.Errorf("failed to release idempotency key: %w", err)
	}

	return nil
}

func (s *RedisStore) reservationTTL() time.Duration {
	if s.ttl > 0 && s.ttl < reservationTTL {
		return s.ttl
	}

	return reservationTTL
}

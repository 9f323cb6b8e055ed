package mocks

import (
	"context"

	"github.com/Behyna/sms-services/messagegateway/internal/idempotency"
	"github.com/stretchr/testify/mock"
)

type IdempotencyStore struct {
	mock.Mock
}

func (m *IdempotencyStore) Reserve(ctx context.Context, key string) (idempotency.Record, bool, error) {
	args := m.Called(ctx, key)
	return args.Get(0).(idempotency.Record), args.Bool(1), args.Error(2)
}

func (m *IdempotencyStore) Complete(ctx context.Context, key string, record idempotency.Record) error {
	args := m.Called(ctx, key, record)
	return args.Error(0)
}

func (m *IdempotencyStore) Release(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

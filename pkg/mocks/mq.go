package mocks

import (
	"context"

	"github.com/Behyna/sms-services/messagegateway/pkg/mq"
	"github.com/stretchr/testify/mock"
)

type Consumer struct {
	mock.Mock
}

func (_m *Consumer) Consume(ctx context.Context, prefetch int, queue string, handler mq.Handle) error {
	ret := _m.Called(ctx, prefetch, queue, handler)
	return ret.Error(0)
}

type Publisher struct {
	mock.Mock
}

func (_m *Publisher) Publish(ctx context.Context, exchange string, routingKey string, body []byte) error {
	ret := _m.Called(ctx, exchange, routingKey, body)
	return ret.Error(0)
}

func (_m *Publisher) Reply(ctx context.Context, replyTo string, correlationID string, body []byte) error {
	ret := _m.Called(ctx, replyTo, correlationID, body)
	return ret.Error(0)
}

package mq

import (
	"context"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

type Publisher interface {
	// Publish sends a persistent event to exchange. The routing key doubles
	// as the message type.
	Publish(ctx context.Context, exchange string, routingKey string, body []byte) error
	// Reply sends body to the default exchange under replyTo, tagged with the
	// request's correlation id.
	Reply(ctx context.Context, replyTo string, correlationID string, body []byte) error
}

type RabbitPublisher struct {
	ch *amqp.Channel
}

func NewRabbitPublisher(ch *amqp.Channel) Publisher { return &RabbitPublisher{ch: ch} }

func (r *RabbitPublisher) Publish(ctx context.Context, exchange string, routingKey string, body []byte) error {
	msg := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Type:         routingKey,
		Timestamp:    time.Now(),
		Body:         body,
	}

	return r.ch.PublishWithContext(ctx, exchange, routingKey, false, false, msg)
}

func (r *RabbitPublisher) Reply(ctx context.Context, replyTo string, correlationID string, body []byte) error {
	msg := amqp.Publishing{
		ContentType:   "application/json",
		CorrelationId: correlationID,
		Body:          body,
	}

	return r.ch.PublishWithContext(ctx, "", replyTo, false, false, msg)
}

func (r *RabbitPublisher) Close() error {
	if r.ch != nil {
		return r.ch.Close()
	}

	return nil
}

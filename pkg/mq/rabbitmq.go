package mq

import (
	"errors"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

var ErrConnectionClosed = errors.New("mq: connection is closed")

type Config struct {
	URL string `mapstructure:"url"`
}

// Topology is the broker layout an RPC worker needs before it consumes.
type Topology struct {
	// Queue receives RPC requests.
	Queue string
	// RequestTTL drops requests nobody is waiting for anymore. Zero keeps them.
	RequestTTL time.Duration
	// EventsExchange is a topic exchange for message lifecycle events.
	// Empty disables events.
	EventsExchange string
}

// QueueArgs returns the arguments the RPC queue is declared with.
func (t Topology) QueueArgs() amqp.Table {
	if t.RequestTTL <= 0 {
		return nil
	}

	return amqp.Table{"x-message-ttl": t.RequestTTL.Milliseconds()}
}

type RabbitMQ struct {
	conn   *amqp.Connection
	logger *zap.Logger
}

func NewConnection(cfg Config, logger *zap.Logger) (*RabbitMQ, error) {
	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		logger.Error("rabbitmq dial failed", zap.Error(err))
		return nil, fmt.Errorf("dial rabbitmq: %w", err)
	}

	logger.Info("rabbitmq connected")

	return &RabbitMQ{conn: conn, logger: logger}, nil
}

func (r *RabbitMQ) channel() (*amqp.Channel, error) {
	if r.conn == nil || r.conn.IsClosed() {
		return nil, ErrConnectionClosed
	}

	ch, err := r.conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("open channel: %w", err)
	}

	return ch, nil
}

// DeclareRPCTopology declares the request queue and, when configured, the
// events exchange. Declarations are idempotent as long as the arguments match
// what already exists on the broker.
func (r *RabbitMQ) DeclareRPCTopology(t Topology) error {
	ch, err := r.channel()
	if err != nil {
		return err
	}
	defer ch.Close()

	if _, err := ch.QueueDeclare(t.Queue, true, false, false, false, t.QueueArgs()); err != nil {
		return fmt.Errorf("declare rpc queue %s: %w", t.Queue, err)
	}

	if t.EventsExchange != "" {
		if err := ch.ExchangeDeclare(t.EventsExchange, amqp.ExchangeTopic, true, false, false, false, nil); err != nil {
			return fmt.Errorf("declare events exchange %s: %w", t.EventsExchange, err)
		}
	}

	r.logger.Info("rpc topology declared",
		zap.String("queue", t.Queue),
		zap.Duration("requestTTL", t.RequestTTL),
		zap.String("eventsExchange", t.EventsExchange),
	)

	return nil
}

func (r *RabbitMQ) CreatePublisher() (Publisher, error) {
	ch, err := r.channel()
	if err != nil {
		return nil, fmt.Errorf("publisher channel: %w", err)
	}

	return NewRabbitPublisher(ch), nil
}

func (r *RabbitMQ) CreateConsumer() (Consumer, error) {
	ch, err := r.channel()
	if err != nil {
		return nil, fmt.Errorf("consumer channel: %w", err)
	}

	return NewRabbitConsumer(ch), nil
}

func (r *RabbitMQ) Close() error {
	if r.conn == nil || r.conn.IsClosed() {
		return nil
	}

	return r.conn.Close()
}

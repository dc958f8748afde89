package events

import (
	"context"
	"errors"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Exchange is the topic exchange order events are published to
const Exchange = "orders_topic"

var ErrNack = errors.New("publish NACK from broker")

// Broker publishes one message and waits for the broker to accept it
type Broker interface {
	Publish(ctx context.Context, exchange, key string, body []byte) error
	Close() error
}

// confirmation is the broker's answer for one published message
type confirmation interface {
	WaitContext(ctx context.Context) (bool, error)
}

type publishFunc func(ctx context.Context, exchange, key string, msg amqp.Publishing) (confirmation, error)

// AMQPBroker is a single confirm-mode channel. Every publish waits on its own
// deferred confirmation, so a timed-out publish never consumes the next ack.
type AMQPBroker struct {
	conn    *amqp.Connection
	ch      *amqp.Channel
	publish publishFunc
}

// DialAMQP connects, enables publisher confirms and declares the exchange
func DialAMQP(url string) (*AMQPBroker, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to rabbitmq: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}
	if err := ch.Confirm(false); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("failed to enable confirms: %w", err)
	}
	if err := ch.ExchangeDeclare(Exchange, "topic", true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("failed to declare exchange: %w", err)
	}
	b := &AMQPBroker{conn: conn, ch: ch}
	b.publish = func(ctx context.Context, exchange, key string, msg amqp.Publishing) (confirmation, error) {
		dc, err := ch.PublishWithDeferredConfirmWithContext(ctx, exchange, key, false, false, msg)
		if err != nil {
			return nil, err
		}
		return dc, nil
	}
	return b, nil
}

func (b *AMQPBroker) Publish(ctx context.Context, exchange, key string, body []byte) error {
	conf, err := b.publish(ctx, exchange, key, amqp.Publishing{
		DeliveryMode: amqp.Persistent,
		ContentType:  "application/json",
		Timestamp:    time.Now().UTC(),
		Body:         body,
	})
	if err != nil {
		return err
	}

	ack, err := conf.WaitContext(ctx)
	if err != nil {
		return err
	}
	if !ack {
		return ErrNack
	}
	return nil
}

// Ping reports whether the connection is still open
func (b *AMQPBroker) Ping() error {
	if b.conn == nil || b.conn.IsClosed() {
		return errors.New("rabbitmq connection is closed")
	}
	return nil
}

func (b *AMQPBroker) Close() error {
	var errs []error
	if b.ch != nil {
		errs = append(errs, b.ch.Close())
	}
	if b.conn != nil {
		errs = append(errs, b.conn.Close())
	}
	return errors.Join(errs...)
}

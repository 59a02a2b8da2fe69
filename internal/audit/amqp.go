package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/sufield/libadmin/internal/bg"
)

// publishTimeout bounds a single publish once it has been handed off.
const publishTimeout = 5 * time.Second

// AMQPPublisher publishes events as JSON to a durable fanout exchange.
type AMQPPublisher struct {
	exchange string
	runner   bg.Runner

	mu   sync.Mutex // guards ch; amqp channels are not safe for concurrent publishing
	conn *amqp.Connection
	ch   *amqp.Channel

	closeOnce sync.Once
	closeErr  error
}

// DialAMQP connects to url and declares exchange. Publishing runs through runner.
func DialAMQP(url, exchange string, runner bg.Runner) (*AMQPPublisher, error) {
	if runner == nil {
		runner = bg.Async{}
	}

	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to broker: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	err = ch.ExchangeDeclare(
		exchange,
		amqp.ExchangeFanout,
		true,  // durable
		false, // auto-deleted
		false, // internal
		false, // no-wait
		nil,
	)
	if err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("failed to declare exchange %q: %w", exchange, err)
	}

	return &AMQPPublisher{exchange: exchange, runner: runner, conn: conn, ch: ch}, nil
}

// Publish hands e to the runner. Errors are logged.
func (p *AMQPPublisher) Publish(ctx context.Context, e Event) {
	// The request that triggered the event may finish before the publish does.
	ctx = context.WithoutCancel(ctx)

	p.runner.Do(func() {
		if err := p.publish(ctx, e); err != nil {
			log.Printf("audit: failed to publish %s %s %s: %v", e.Action, e.Entity, e.EntityID, err)
		}
	})
}

func (p *AMQPPublisher) publish(ctx context.Context, e Event) error {
	body, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("failed to encode event: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.ch == nil {
		return fmt.Errorf("publisher is closed")
	}

	return p.ch.PublishWithContext(ctx,
		p.exchange,
		"",    // routing key, ignored by fanout
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			MessageId:    e.ID,
			Timestamp:    e.At,
			Type:         e.Entity + "." + e.Action,
			Body:         body,
		},
	)
}

// Close closes the channel and connection. Safe to call more than once.
func (p *AMQPPublisher) Close() error {
	p.closeOnce.Do(func() {
		p.mu.Lock()
		defer p.mu.Unlock()

		if p.ch != nil {
			_ = p.ch.Close()
			p.ch = nil
		}
		if p.conn != nil {
			p.closeErr = p.conn.Close()
			p.conn = nil
		}
	})
	return p.closeErr
}

package update

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/rabbitmq/amqp091-go"
	"github.com/techmaster-vietnam/goerrorkit"
)

// DialOptions configures the AMQP connection retry loop.
type DialOptions struct {
	URL           string
	RetryAttempts int
	Delay         time.Duration
}

const maxDialDelay = 60 * time.Second

// DialWithRetry tries to connect to the AMQP broker with exponential backoff.
// It respects context cancellation for graceful shutdown.
func DialWithRetry(ctx context.Context, opts DialOptions) (*amqp091.Connection, error) {
	if opts.RetryAttempts <= 0 {
		opts.RetryAttempts = 5
	}
	if opts.Delay <= 0 {
		opts.Delay = time.Second
	}

	var lastErr error
	for i := 1; i <= opts.RetryAttempts; i++ {
		conn, err := amqp091.Dial(opts.URL)
		if err == nil {
			return conn, nil
		}
		lastErr = err

		// exponential backoff with cap
		sleep := opts.Delay * time.Duration(math.Pow(2, float64(i-1)))
		if sleep > maxDialDelay {
			sleep = maxDialDelay
		}

		timer := time.NewTimer(sleep)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, errors.New("dial cancelled: " + ctx.Err().Error())
		case <-timer.C:
		}
	}

	return nil, fmt.Errorf("failed to connect to AMQP broker after %d attempts: %w",
		opts.RetryAttempts, lastErr)
}

// AMQPRelay republishes hub events to a durable topic exchange so that
// out-of-process consumers (SDK agents, audit collectors) can bind per-app
// queues. Routing key is fort.resource.<kind>.<operation>; the appKey travels
// in the message headers and the JSON body.
type AMQPRelay struct {
	conn     *amqp091.Connection
	exchange string
	hub      *Hub
	sub      *Subscription
	done     chan struct{}
}

// NewAMQPRelay connects to the broker, declares the exchange and subscribes
// to every app's events. Call Run to start forwarding.
func NewAMQPRelay(ctx context.Context, url, exchange string, hub *Hub) (*AMQPRelay, error) {
	conn, err := DialWithRetry(ctx, DialOptions{URL: url})
	if err != nil {
		return nil, err
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, err
	}
	defer ch.Close()

	if err := ch.ExchangeDeclare(
		exchange, "topic", true, false, false, false, nil,
	); err != nil {
		conn.Close()
		return nil, err
	}

	return &AMQPRelay{
		conn:     conn,
		exchange: exchange,
		hub:      hub,
		sub:      hub.Subscribe("", 256),
		done:     make(chan struct{}),
	}, nil
}

// Run forwards hub events to the exchange until the subscription channel is
// closed. Publish failures are logged and the event is lost; notification is
// best-effort by contract.
func (r *AMQPRelay) Run() {
	defer close(r.done)

	for event := range r.sub.C() {
		if err := r.publish(event); err != nil {
			goerrorkit.LogError(goerrorkit.WrapWithMessage(err, "failed to relay update event to AMQP").WithData(map[string]interface{}{
				"event":  event.ID,
				"appKey": event.AppKey,
				"type":   event.Type(),
			}), "")
		}
	}
}

func (r *AMQPRelay) publish(event Event) error {
	ch, err := r.conn.Channel()
	if err != nil {
		return err
	}
	defer ch.Close()

	body, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return ch.PublishWithContext(
		context.Background(), r.exchange, event.Type(), false, false,
		amqp091.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp091.Persistent,
			MessageId:    event.ID,
			Timestamp:    event.Time,
			Headers:      amqp091.Table{"app_key": event.AppKey},
			Body:         body,
		},
	)
}

// Close unsubscribes from the hub, waits for the forwarding loop to drain and
// closes the broker connection.
func (r *AMQPRelay) Close() error {
	r.hub.Unsubscribe(r.sub)
	<-r.done
	return r.conn.Close()
}

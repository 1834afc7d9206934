// Package rabbitmq hands background tasks to the mail worker through a durable
// RabbitMQ queue.
package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
)

// Channel is the subset of *amqp.Channel the dispatcher needs.
type Channel interface {
	QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (amqp.Queue, error)
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// Task is the message body. The worker dispatches on Name.
type Task struct {
	Name    string          `json:"task"`
	Payload json.RawMessage `json:"payload"`
}

// TaskDispatcher publishes tasks to one queue as persistent JSON messages.
type TaskDispatcher struct {
	conn  *amqp.Connection
	ch    Channel
	queue string
}

// Dial opens a connection and a channel to url and declares queue.
func Dial(url, queue string) (*TaskDispatcher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to rabbitmq: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	d, err := NewTaskDispatcher(ch, queue)
	if err != nil {
		_ = conn.Close()
		return nil, err
	}
	d.conn = conn

	return d, nil
}

// NewTaskDispatcher declares queue as durable on ch.
func NewTaskDispatcher(ch Channel, queue string) (*TaskDispatcher, error) {
	if _, err := ch.QueueDeclare(
		queue, // name
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,   // arguments
	); err != nil {
		return nil, fmt.Errorf("failed to declare queue %s: %w", queue, err)
	}

	return &TaskDispatcher{ch: ch, queue: queue}, nil
}

// Enqueue returns once the broker accepted the message.
func (d *TaskDispatcher) Enqueue(ctx context.Context, taskName string, payload any) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode %s payload: %w", taskName, err)
	}
	body, err := json.Marshal(Task{Name: taskName, Payload: raw})
	if err != nil {
		return fmt.Errorf("failed to encode %s task: %w", taskName, err)
	}

	err = d.ch.PublishWithContext(
		ctx,
		"",      // default exchange
		d.queue, // routing key
		false,   // mandatory
		false,   // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			MessageId:    uuid.NewString(),
			Type:         taskName,
			Timestamp:    time.Now().UTC(),
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish %s: %w", taskName, err)
	}
	return nil
}

// Close releases the channel and, when Dial opened it, the connection.
func (d *TaskDispatcher) Close() error {
	if err := d.ch.Close(); err != nil {
		return err
	}
	if d.conn != nil {
		return d.conn.Close()
	}
	return nil
}

package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"

	"edumate/internal/model"
)

// QuizAttemptPublisher enqueues graded quiz attempts for the persist worker.
type QuizAttemptPublisher struct {
	conn      *amqp.Connection
	queueName string
}

func NewQuizAttemptPublisher(conn *amqp.Connection, queueName string) *QuizAttemptPublisher {
	return &QuizAttemptPublisher{
		conn:      conn,
		queueName: queueName,
	}
}

func (p *QuizAttemptPublisher) Record(ctx context.Context, attempt model.QuizAttempt) error {
	ch, err := p.conn.Channel()
	if err != nil {
		return fmt.Errorf("open rabbitmq channel failed: %w", err)
	}
	defer ch.Close()

	if _, err := DeclareQueue(ch, p.queueName); err != nil {
		return err
	}

	payload, err := json.Marshal(attempt)
	if err != nil {
		return fmt.Errorf("marshal quiz attempt payload failed: %w", err)
	}

	if err := ch.PublishWithContext(
		ctx,
		"",
		p.queueName,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         payload,
			DeliveryMode: amqp.Persistent,
		},
	); err != nil {
		return fmt.Errorf("publish quiz attempt failed: %w", err)
	}
	return nil
}

// DeclareQueue declares the durable queue shared by publisher and worker.
func DeclareQueue(ch *amqp.Channel, name string) (amqp.Queue, error) {
	q, err := ch.QueueDeclare(
		name,
		true,  // durable
		false, // auto-delete
		false, // exclusive
		false, // no-wait
		nil,
	)
	if err != nil {
		return amqp.Queue{}, fmt.Errorf("declare queue %s failed: %w", name, err)
	}
	return q, nil
}

package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"edumate/internal/model"
	"edumate/internal/platform/rabbitmq"
)

type AttemptStore interface {
	Create(attempt *model.QuizAttempt) error
}

// QuizAttemptWorker consumes quiz attempts published by the quiz service and
// writes them to the attempt store.
type QuizAttemptWorker struct {
	conn      *amqp.Connection
	store     AttemptStore
	queueName string
	log       *zap.Logger

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewQuizAttemptWorker(conn *amqp.Connection, store AttemptStore, queueName string, log *zap.Logger) *QuizAttemptWorker {
	return &QuizAttemptWorker{
		conn:      conn,
		store:     store,
		queueName: queueName,
		log:       log.Named("quiz_attempt_worker"),
	}
}

func (w *QuizAttemptWorker) Start(ctx context.Context) error {
	if w.cancel != nil {
		return nil
	}

	workerCtx, cancel := context.WithCancel(ctx)
	w.cancel = cancel

	ch, err := w.conn.Channel()
	if err != nil {
		cancel()
		return fmt.Errorf("open worker channel failed: %w", err)
	}

	if _, err := rabbitmq.DeclareQueue(ch, w.queueName); err != nil {
		_ = ch.Close()
		cancel()
		return err
	}

	deliveries, err := ch.Consume(
		w.queueName,
		"",
		false, // manual ack
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		_ = ch.Close()
		cancel()
		return fmt.Errorf("consume queue failed: %w", err)
	}

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		defer ch.Close()

		for {
			select {
			case <-workerCtx.Done():
				return
			case d, ok := <-deliveries:
				if !ok {
					return
				}
				if err := w.handle(d.Body); err != nil {
					w.log.Warn("drop quiz attempt", zap.Error(err))
					_ = d.Nack(false, false)
					continue
				}
				_ = d.Ack(false)
			}
		}
	}()

	w.log.Info("worker started", zap.String("queue", w.queueName))
	return nil
}

func (w *QuizAttemptWorker) handle(body []byte) error {
	var attempt model.QuizAttempt
	if err := json.Unmarshal(body, &attempt); err != nil {
		return fmt.Errorf("decode quiz attempt failed: %w", err)
	}
	if attempt.SessionID == "" || attempt.Total <= 0 {
		return fmt.Errorf("quiz attempt is incomplete")
	}
	// ids are assigned by the store
	attempt.ID = 0
	if err := w.store.Create(&attempt); err != nil {
		return fmt.Errorf("persist quiz attempt failed: %w", err)
	}
	return nil
}

func (w *QuizAttemptWorker) Close() {
	if w.cancel != nil {
		w.cancel()
	}
	w.wg.Wait()
}

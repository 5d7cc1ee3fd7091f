package rabbitmq

import (
	"context"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// New dials the broker and opens a probe channel within a 3s budget.
func New(ctx context.Context, url string) (*amqp.Connection, error) {
	checkCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	type dialResult struct {
		conn *amqp.Connection
		err  error
	}
	done := make(chan dialResult, 1)
	go func() {
		conn, err := amqp.DialConfig(url, amqp.Config{
			Heartbeat: 10 * time.Second,
			Dial:      amqp.DefaultDial(3 * time.Second),
		})
		if err != nil {
			done <- dialResult{err: err}
			return
		}
		ch, err := conn.Channel()
		if err != nil {
			_ = conn.Close()
			done <- dialResult{err: fmt.Errorf("open rabbitmq channel failed: %w", err)}
			return
		}
		_ = ch.Close()
		done <- dialResult{conn: conn}
	}()

	select {
	case <-checkCtx.Done():
		go func() {
			if res := <-done; res.conn != nil {
				_ = res.conn.Close()
			}
		}()
		return nil, fmt.Errorf("rabbitmq health check timeout: %w", checkCtx.Err())
	case res := <-done:
		if res.err != nil {
			return nil, fmt.Errorf("dial rabbitmq failed: %w", res.err)
		}
		return res.conn, nil
	}
}

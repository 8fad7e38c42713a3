package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"github.com/xavierca1/leadzone/internal/entity"
)

// Notifier delivers a territory request to the admins.
type Notifier interface {
	SendTerritoryRequested(ctx context.Context, event entity.TerritoryRequested) error
}

type channelConsumer interface {
	Consume(queue, consumer string, autoAck, exclusive, noLocal, noWait bool, args amqp.Table) (<-chan amqp.Delivery, error)
}

type Worker struct {
	Channel  channelConsumer
	Notifier Notifier
	Logger   *zap.Logger
}

func NewWorker(ch channelConsumer, notifier Notifier, logger *zap.Logger) *Worker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Worker{Channel: ch, Notifier: notifier, Logger: logger}
}

// Start consumes queueName until ctx is cancelled or the channel closes.
func (w *Worker) Start(ctx context.Context, queueName string) error {
	msgs, err := w.Channel.Consume(queueName, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("register consumer: %w", err)
	}

	w.Logger.Info("worker waiting for messages", zap.String("queue", queueName))
	for {
		select {
		case <-ctx.Done():
			return nil
		case d, ok := <-msgs:
			if !ok {
				return errors.New("delivery channel closed")
			}
			w.handle(ctx, d)
		}
	}
}

// handle acks delivered notifications. Malformed bodies go straight to the
// dead-letter queue; delivery failures are retried once.
func (w *Worker) handle(ctx context.Context, d amqp.Delivery) {
	var event entity.TerritoryRequested
	if err := json.Unmarshal(d.Body, &event); err != nil || event.RequestID == "" {
		w.Logger.Error("discarding malformed territory request message",
			zap.String("message_id", d.MessageId),
			zap.Error(err),
		)
		_ = d.Nack(false, false)
		return
	}

	log := w.Logger.With(zap.String("request_id", event.RequestID), zap.String("zip_code", event.ZipCode))

	if err := w.Notifier.SendTerritoryRequested(ctx, event); err != nil {
		requeue := !d.Redelivered
		log.Warn("admin notification failed", zap.Bool("requeue", requeue), zap.Error(err))
		_ = d.Nack(false, requeue)
		return
	}

	log.Info("admin notified of territory request")
	_ = d.Ack(false)
}

package outbox

import (
	"context"
	"log/slog"
	"time"

	"github.com/spf13/viper"
	"github.com/swadseva/ordering/internal/dal/interfaces/ioutboxrepo"
	"github.com/swadseva/ordering/internal/service/models/outbox"
)

const maxBackoff = time.Hour

type publisher interface {
	Publish(msg outbox.Message) error
}

// Worker relays order events from the outbox table to RabbitMQ.
type Worker struct {
	outboxRepo    ioutboxrepo.IOutboxRepository
	publisher     publisher
	pollInterval  time.Duration
	batchSize     int
	retryInterval time.Duration
	now           func() time.Time
	stopCh        chan struct{}
}

// NewWorker creates a new outbox worker.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func NewWorker(outboxRepo ioutboxrepo.IOutboxRepository, publisher publisher) *Worker {
	pollIntervalSeconds := viper.GetInt("rabbitmq.outbox.poll_interval_seconds")
	if pollIntervalSeconds == 0 {
		pollIntervalSeconds = 5
	}

	batchSize := viper.GetInt("rabbitmq.outbox.batch_size")
	if batchSize == 0 {
		batchSize = 100
	}

	retryIntervalSeconds := viper.GetInt("rabbitmq.outbox.retry_interval_seconds")
	if retryIntervalSeconds == 0 {
		retryIntervalSeconds = 30
	}

	return &Worker{
		outboxRepo:    outboxRepo,
		publisher:     publisher,
		pollInterval:  time.Duration(pollIntervalSeconds) * time.Second,
		batchSize:     batchSize,
		retryInterval: time.Duration(retryIntervalSeconds) * time.Second,
		now:           time.Now,
		stopCh:        make(chan struct{}),
	}
}

// Start relays pending messages on every tick until ctx is cancelled or Stop is called.
func (w *Worker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	slog.Info("Outbox worker started", "poll_interval", w.pollInterval, "batch_size", w.batchSize)

	for {
		select {
		case <-ctx.Done():
			slog.Info("Outbox worker shutting down")

			return
		case <-w.stopCh:
			slog.Info("Outbox worker stopped")

			return
		case <-ticker.C:
			w.processMessages(ctx)
		}
	}
}

// Stop stops the worker.
func (w *Worker) Stop() {
	close(w.stopCh)
}

// backoff doubles retryInterval per failed attempt, capped at maxBackoff.
func (w *Worker) backoff(retryCount int) time.Duration {
	d := w.retryInterval
	for i := 1; i < retryCount; i++ {
		d *= 2
		if d >= maxBackoff {
			return maxBackoff
		}
	}

	return d
}

// processMessages publishes one batch and returns how many messages were delivered.
func (w *Worker) processMessages(ctx context.Context) int {
	messages, err := w.outboxRepo.FetchDue(ctx, w.now(), w.batchSize)
	if err != nil {
		slog.Error("Failed to get pending messages from outbox", "error", err)

		return 0
	}

	if len(messages) == 0 {
		return 0
	}

	slog.Debug("Processing outbox messages", "count", len(messages))

	delivered := 0
	for _, msg := range messages {
		if err := w.publisher.Publish(msg); err != nil {
			newRetryCount := msg.RetryCount + 1
			nextRetryAt := w.now().Add(w.backoff(newRetryCount))

			if msg.Exhausted(newRetryCount) {
				slog.Error("Giving up on outbox message",
					"outbox_id", msg.ID,
					"type", msg.Type,
					"queue", msg.QueueName,
					"retry_count", newRetryCount,
					"error", err,
				)
			} else {
				slog.Warn("Failed to publish message from outbox, will retry",
					"outbox_id", msg.ID,
					"retry_count", newRetryCount,
					"next_retry", nextRetryAt,
					"error", err,
				)
			}

			if err := w.outboxRepo.ScheduleRetry(ctx, msg.ID, newRetryCount, err.Error(), nextRetryAt); err != nil {
				slog.Error("Failed to update retry information", "outbox_id", msg.ID, "error", err)
			}

			continue
		}

		delivered++
		if err := w.outboxRepo.Delete(ctx, msg.ID); err != nil {
			slog.Error("Failed to delete message from outbox after successful publish",
				"outbox_id", msg.ID,
				"error", err,
			)
		}
	}

	slog.Info("Outbox batch relayed", "delivered", delivered, "failed", len(messages)-delivered)

	return delivered
}

package ioutboxrepo

import (
	"context"
	"time"

	"github.com/swadseva/ordering/internal/service/models/outbox"
)

// IOutboxRepository stores order events until they reach RabbitMQ.
type IOutboxRepository interface {
	Insert(ctx context.Context, msg outbox.Message) error

	// FetchDue returns up to limit messages whose next attempt is at or before now and
	// whose retries are not exhausted, oldest first.
	FetchDue(ctx context.Context, now time.Time, limit int) ([]outbox.Message, error)

	Delete(ctx context.Context, id int64) error

	// ScheduleRetry records a failed attempt and when to try again.
	ScheduleRetry(ctx context.Context, id int64, retryCount int, lastError string, nextRetryAt time.Time) error
}

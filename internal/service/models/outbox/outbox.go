package outbox

import (
	"encoding/json"
	"fmt"
	"time"
)

const contentTypeJSON = "application/json"

// Message is an order event stored next to the change it describes until the relay publishes it.
type Message struct {
	ID           int64
	Type         string
	QueueName    string
	ExchangeName string
	RoutingKey   string
	Payload      []byte
	ContentType  string
	RetryCount   int
	MaxRetries   int
	LastError    string
	CreatedAt    time.Time
	UpdatedAt    time.Time
	NextRetryAt  time.Time
}

// NewJSON builds a message for the default exchange, routed straight to queue and due immediately.
func NewJSON(msgType, queue string, payload any, maxRetries int, now time.Time) (Message, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return Message{}, fmt.Errorf("failed to marshal %s payload: %w", msgType, err)
	}

	return Message{
		Type:        msgType,
		QueueName:   queue,
		RoutingKey:  queue,
		Payload:     body,
		ContentType: contentTypeJSON,
		MaxRetries:  maxRetries,
		CreatedAt:   now,
		UpdatedAt:   now,
		NextRetryAt: now,
	}, nil
}

// Exhausted reports whether retryCount failed attempts use up the retry budget.
func (m Message) Exhausted(retryCount int) bool {
	return retryCount >= m.MaxRetries
}

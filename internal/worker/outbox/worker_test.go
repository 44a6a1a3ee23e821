package outbox

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/swadseva/ordering/internal/service/models/outbox"
)

type MockOutboxRepository struct {
	mock.Mock
}

func (m *MockOutboxRepository) Insert(ctx context.Context, msg outbox.Message) error {
	return m.Called(ctx, msg).Error(0)
}

func (m *MockOutboxRepository) FetchDue(ctx context.Context, now time.Time, limit int) ([]outbox.Message, error) {
	args := m.Called(ctx, now, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]outbox.Message), args.Error(1)
}

func (m *MockOutboxRepository) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockOutboxRepository) ScheduleRetry(
	ctx context.Context,
	id int64,
	retryCount int,
	lastError string,
	nextRetryAt time.Time,
) error {
	return m.Called(ctx, id, retryCount, lastError, nextRetryAt).Error(0)
}

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(msg outbox.Message) error {
	return m.Called(msg).Error(0)
}

func TestWorker_ProcessMessages(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	ok := outbox.Message{ID: 1, RoutingKey: "swadseva.order.events", Payload: []byte(`{}`), MaxRetries: 5}
	failing := outbox.Message{ID: 2, RoutingKey: "swadseva.order.events", RetryCount: 1, MaxRetries: 5}

	repo := new(MockOutboxRepository)
	repo.On("FetchDue", mock.Anything, now, 100).Return([]outbox.Message{ok, failing}, nil).Once()
	repo.On("Delete", mock.Anything, int64(1)).Return(nil).Once()
	repo.On("ScheduleRetry", mock.Anything, int64(2), 2, "channel closed", now.Add(60*time.Second)).Return(nil).Once()

	pub := new(MockPublisher)
	pub.On("Publish", ok).Return(nil).Once()
	pub.On("Publish", failing).Return(errors.New("channel closed")).Once()

	w := NewWorker(repo, pub)
	w.now = func() time.Time { return now }

	delivered := w.processMessages(context.Background())

	assert.Equal(t, 1, delivered)
	repo.AssertExpectations(t)
	pub.AssertExpectations(t)
}

func TestWorker_ProcessMessagesRepositoryError(t *testing.T) {
	repo := new(MockOutboxRepository)
	repo.On("FetchDue", mock.Anything, mock.Anything, 100).Return(nil, errors.New("connection refused")).Once()
	pub := new(MockPublisher)

	w := NewWorker(repo, pub)

	assert.Equal(t, 0, w.processMessages(context.Background()))
	pub.AssertNotCalled(t, "Publish", mock.Anything)
}

func TestWorker_Backoff(t *testing.T) {
	w := NewWorker(new(MockOutboxRepository), new(MockPublisher))

	tests := []struct {
		retry int
		want  time.Duration
	}{
		{retry: 1, want: 30 * time.Second},
		{retry: 2, want: time.Minute},
		{retry: 3, want: 2 * time.Minute},
		{retry: 5, want: 8 * time.Minute},
		{retry: 20, want: time.Hour},
	}

	for _, testCase := range tests {
		assert.Equal(t, testCase.want, w.backoff(testCase.retry), "retry %d", testCase.retry)
	}
}

func TestWorker_StopsOnContextCancel(t *testing.T) {
	w := NewWorker(new(MockOutboxRepository), new(MockPublisher))
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		w.Start(ctx)
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("worker did not stop")
	}
}

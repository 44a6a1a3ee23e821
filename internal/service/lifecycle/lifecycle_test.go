package lifecycle

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/swadseva/ordering/internal/service/models/order"
)

func TestCurrentStep(t *testing.T) {
	tests := []struct {
		name      string
		orderType order.Type
		status    order.Status
		want      int
	}{
		{name: "takeaway preparing", orderType: order.TypeTakeaway, status: order.StatusPreparing, want: 1},
		{name: "takeaway completed", orderType: order.TypeTakeaway, status: order.StatusCompleted, want: 3},
		{name: "delivery out for delivery", orderType: order.TypeDelivery, status: order.StatusOutForDelivery, want: 3},
		{name: "delivery status on takeaway", orderType: order.TypeTakeaway, status: order.StatusOutForDelivery, want: -1},
		{name: "unknown status", orderType: order.TypeDelivery, status: "cancelled", want: -1},
		{name: "unknown order type", orderType: "dine_in", status: order.StatusPending, want: -1},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			assert.Equal(t, testCase.want, CurrentStep(testCase.orderType, testCase.status))
		})
	}
}

func TestSteps(t *testing.T) {
	steps := Steps(order.TypeTakeaway, order.StatusPreparing)

	require.Len(t, steps, 4)
	assert.Equal(t, []Step{
		{Status: order.StatusPending, State: StepCompleted},
		{Status: order.StatusPreparing, State: StepInProgress},
		{Status: order.StatusReady, State: StepPending},
		{Status: order.StatusCompleted, State: StepPending},
	}, steps)

	for _, step := range Steps(order.TypeDelivery, "cancelled") {
		assert.Equal(t, StepPending, step.State)
	}
}

func TestUnknownOrderType(t *testing.T) {
	assert.Nil(t, ProgressionFor("dine_in"))
	assert.Empty(t, Steps("dine_in", order.StatusPending))
	assert.False(t, IsTerminal("dine_in", order.StatusCompleted))
	assert.False(t, CanTransition("dine_in", order.StatusPending, order.StatusPreparing))
}

func TestProgressionForReturnsCopy(t *testing.T) {
	p := ProgressionFor(order.TypeDelivery)
	p[0] = "mutated"

	assert.Equal(t, order.StatusPending, ProgressionFor(order.TypeDelivery)[0])
}

func TestCanTransition(t *testing.T) {
	tests := []struct {
		name      string
		orderType order.Type
		from, to  order.Status
		want      bool
	}{
		{name: "next step", orderType: order.TypeTakeaway, from: order.StatusPending, to: order.StatusPreparing, want: true},
		{name: "skip ahead", orderType: order.TypeDelivery, from: order.StatusPending, to: order.StatusReady, want: true},
		{name: "same status", orderType: order.TypeDelivery, from: order.StatusReady, to: order.StatusReady, want: true},
		{name: "backwards", orderType: order.TypeTakeaway, from: order.StatusReady, to: order.StatusPreparing, want: false},
		{name: "status of other progression", orderType: order.TypeTakeaway, from: order.StatusReady, to: order.StatusDelivered, want: false},
		{name: "unknown target", orderType: order.TypeTakeaway, from: order.StatusReady, to: "lost", want: false},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			assert.Equal(t, testCase.want, CanTransition(testCase.orderType, testCase.from, testCase.to))
		})
	}
}

func TestIsTerminal(t *testing.T) {
	assert.True(t, IsTerminal(order.TypeDelivery, order.StatusDelivered))
	assert.True(t, IsTerminal(order.TypeTakeaway, order.StatusCompleted))
	assert.False(t, IsTerminal(order.TypeDelivery, order.StatusCompleted))
}

func TestPollerKeepsLastOrderOnError(t *testing.T) {
	var (
		mu      sync.Mutex
		calls   int
		updates []order.Status
	)

	fetch := func(ctx context.Context) (order.Order, error) {
		mu.Lock()
		defer mu.Unlock()
		calls++
		switch calls {
		case 1:
			return order.Order{Status: order.StatusPending}, nil
		case 2:
			return order.Order{}, errors.New("connection refused")
		default:
			return order.Order{Status: order.StatusPreparing}, nil
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan struct{})
	poller := NewPoller(fetch, 5*time.Millisecond, func(o order.Order) {
		mu.Lock()
		defer mu.Unlock()
		updates = append(updates, o.Status)
		if len(updates) == 2 {
			close(done)
		}
	})

	go poller.Run(ctx)

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("poller did not deliver two updates")
	}
	cancel()

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []order.Status{order.StatusPending, order.StatusPreparing}, updates[:2])
	assert.GreaterOrEqual(t, calls, 3)
}

package lifecycle

import (
	"context"
	"log/slog"
	"time"

	"github.com/swadseva/ordering/internal/service/models/order"
)

// DefaultPollInterval is how often the tracker refreshes an order.
const DefaultPollInterval = 10 * time.Second

// Fetcher loads the latest state of the tracked order.
type Fetcher func(ctx context.Context) (order.Order, error)

// Poller refreshes an order on a fixed interval until its context is cancelled.
type Poller struct {
	fetch    Fetcher
	interval time.Duration
	onUpdate func(order.Order)
}

// NewPoller creates a new Poller. A non-positive interval means DefaultPollInterval.
func NewPoller(fetch Fetcher, interval time.Duration, onUpdate func(order.Order)) *Poller {
	if interval <= 0 {
		interval = DefaultPollInterval
	}

	return &Poller{
		fetch:    fetch,
		interval: interval,
		onUpdate: onUpdate,
	}
}

// Run fetches once immediately, then on every tick. Failed fetches are logged and
// the previously reported order stays current.
func (p *Poller) Run(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.poll(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.poll(ctx)
		}
	}
}

func (p *Poller) poll(ctx context.Context) {
	o, err := p.fetch(ctx)
	if err != nil {
		if ctx.Err() == nil {
			slog.Error("Failed to refresh order", "error", err)
		}

		return
	}
	p.onUpdate(o)
}

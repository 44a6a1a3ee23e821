package shell

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/swadseva/ordering/internal/service/lifecycle"
	"github.com/swadseva/ordering/internal/service/models/currency"
	"github.com/swadseva/ordering/internal/service/models/order"
)

var statusLabels = map[order.Status]string{
	order.StatusPending:        "Order received",
	order.StatusPreparing:      "Preparing",
	order.StatusReady:          "Ready",
	order.StatusOutForDelivery: "Out for delivery",
	order.StatusDelivered:      "Delivered",
	order.StatusCompleted:      "Completed",
}

type tracking struct {
	order     order.Order
	refreshed time.Time
	updates   <-chan order.Order
	cancel    context.CancelFunc
}

// startTracking polls the placed order in the background until the tracking screen is left.
func (m *Model) startTracking(o order.Order) tea.Cmd {
	m.tracking.stop()

	ctx, cancel := context.WithCancel(context.Background())
	updates := make(chan order.Order, 1)
	apiClient := m.api

	poller := lifecycle.NewPoller(func(ctx context.Context) (order.Order, error) {
		reqCtx, reqCancel := context.WithTimeout(ctx, requestTimeout)
		defer reqCancel()

		return apiClient.GetOrder(reqCtx, o.ID)
	}, m.pollInterval, func(o order.Order) {
		select {
		case updates <- o:
		case <-ctx.Done():
		}
	})

	go func() {
		poller.Run(ctx)
		close(updates)
	}()

	m.tracking = tracking{
		order:     o,
		refreshed: time.Now(),
		updates:   updates,
		cancel:    cancel,
	}

	return m.tracking.wait()
}

func (t tracking) wait() tea.Cmd {
	updates := t.updates
	if updates == nil {
		return nil
	}

	return func() tea.Msg {
		o, ok := <-updates
		if !ok {
			return nil
		}

		return orderUpdateMsg{order: o, updates: updates}
	}
}

func (t tracking) stop() {
	if t.cancel != nil {
		t.cancel()
	}
}

func (m Model) updateTracking(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key.String() {
	case "q":
		m.tracking.stop()

		return m, tea.Quit
	case "esc", "h":
		m.tracking.stop()
		m.tracking = tracking{}
		m.view = viewRestaurants
		m.loading = true

		return m, m.loadRestaurants()
	}

	return m, nil
}

// eta mirrors the estimate shown to customers for the current step.
func eta(o order.Order) string {
	step := lifecycle.CurrentStep(o.Type, o.Status)
	if lifecycle.IsTerminal(o.Type, o.Status) {
		return "Enjoy your meal!"
	}
	if o.Type == order.TypeDelivery {
		if step >= 3 {
			return "10-15 minutes"
		}

		return "35-45 minutes"
	}
	if step >= 2 {
		return "Ready for pickup"
	}

	return "10-15 minutes"
}

func (m Model) trackingView() string {
	o := m.tracking.order

	var b strings.Builder
	b.WriteString(titleStyle.Render("Order " + strings.ToUpper(o.ID.String()[:8])))
	b.WriteString("\n\n")

	if o.Restaurant != nil {
		fmt.Fprintf(&b, "%s\n", selectedStyle.Render(o.Restaurant.Name))
	}
	kind := "Home delivery"
	if o.Type == order.TypeTakeaway {
		kind = "Takeaway"
	}
	cur := o.TotalCurrency
	if cur == "" {
		cur = currency.Default
	}
	fmt.Fprintf(&b, "%s · %s\n\n", kind, cur.Format(o.TotalAmount))

	for _, step := range lifecycle.Steps(o.Type, o.Status) {
		label := statusLabels[step.Status]
		switch step.State {
		case lifecycle.StepCompleted:
			b.WriteString(doneStyle.Render("  ✓ " + label))
		case lifecycle.StepInProgress:
			b.WriteString(activeStyle.Render("  ● " + label + "  in progress..."))
		default:
			b.WriteString(mutedStyle.Render("  ○ " + label))
		}
		b.WriteString("\n")
	}

	if d := o.Delivery; d != nil && d.Driver != nil {
		fmt.Fprintf(&b, "\nDelivery partner: %s (%s) · %s\n", d.Driver.Name, d.Driver.VehicleNumber, d.Driver.PhoneNumber)
	}

	fmt.Fprintf(&b, "\nEstimated time: %s\n", activeStyle.Render(eta(o)))
	fmt.Fprintf(&b, "%s\n\n", mutedStyle.Render("Last updated "+m.tracking.refreshed.Format(time.Kitchen)))
	b.WriteString(mutedStyle.Render("esc: back to restaurants · q: quit"))

	return b.String()
}

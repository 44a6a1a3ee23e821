package ordersvc

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/swadseva/ordering/internal/service/errs"
	"github.com/swadseva/ordering/internal/service/lifecycle"
	"github.com/swadseva/ordering/internal/service/models/event"
	"github.com/swadseva/ordering/internal/service/models/order"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// UpdateOrderStatus moves an order forward along its progression.
// deliveryStatus is applied to the order's delivery when both are present.
func (s *OrderService) UpdateOrderStatus(
	ctx context.Context,
	orderID uuid.UUID,
	status order.Status,
	deliveryStatus string,
) (order.Order, error) {
	ctx, span := tracer.Start(ctx, "OrderService.UpdateOrderStatus",
		trace.WithAttributes(
			attribute.String("order.id", orderID.String()),
			attribute.String("order.status", string(status)),
		),
	)
	defer span.End()

	if status == "" {
		return order.Order{}, errs.Validation("status", "status is required")
	}
	deliveryStatus = strings.TrimSpace(deliveryStatus)

	work := s.newUOW()
	if err := work.Begin(ctx); err != nil {
		return order.Order{}, errs.Store("begin transaction", err)
	}
	defer func() {
		if err := work.Rollback(ctx); err != nil {
			slog.Error("Error rolling back status transaction", "error", err)
		}
	}()

	current, err := work.OrderRepository().GetForUpdate(ctx, orderID)
	if err != nil {
		return order.Order{}, errs.Store("load order", err)
	}

	if !lifecycle.IsKnown(current.Type, status) {
		return order.Order{}, errs.Validation(
			"status",
			fmt.Sprintf("status %q is not valid for %s orders", status, current.Type),
		)
	}
	if !lifecycle.CanTransition(current.Type, current.Status, status) {
		return order.Order{}, &errs.ConflictError{
			Message: fmt.Sprintf("order cannot move from %s back to %s", current.Status, status),
		}
	}

	now := s.now().UTC()
	changed := false

	if status != current.Status {
		if err := work.OrderRepository().UpdateStatus(ctx, orderID, status, now); err != nil {
			return order.Order{}, errs.Store("update order status", err)
		}
		changed = true
	}

	deliveries, err := work.DeliveryRepository().QueryByOrderIDs(ctx, []uuid.UUID{orderID})
	if err != nil {
		return order.Order{}, errs.Store("query delivery", err)
	}

	ev := event.OrderEvent{
		Type:           event.TypeOrderStatusChanged,
		OrderID:        current.ID,
		RestaurantID:   current.RestaurantID,
		OrderType:      string(current.Type),
		Status:         string(status),
		PreviousStatus: string(current.Status),
		TotalAmount:    current.TotalAmount,
		OccurredAt:     now,
	}

	if len(deliveries) > 0 {
		d := deliveries[0]
		driverID := d.DriverID
		ev.DriverID = &driverID

		if deliveryStatus != "" && deliveryStatus != d.Status {
			if err := work.DeliveryRepository().UpdateStatus(ctx, d.ID, deliveryStatus, now); err != nil {
				return order.Order{}, errs.Store("update delivery status", err)
			}
			ev.DeliveryStatus = deliveryStatus
			changed = true
		}

		if status == order.StatusDelivered && current.Status != order.StatusDelivered {
			if err := work.DriverRepository().Release(ctx, d.DriverID); err != nil {
				return order.Order{}, errs.Store("release driver", err)
			}
			slog.Info("Driver released", "driver_id", d.DriverID, "order_id", orderID)
		}
	}

	if changed {
		if err := s.appendEvent(ctx, work, ev); err != nil {
			return order.Order{}, err
		}
	}

	if err := work.Commit(ctx); err != nil {
		return order.Order{}, errs.Store("commit status update", err)
	}

	if changed {
		slog.Info("Order status updated",
			"order_id", orderID,
			"from", current.Status,
			"to", status,
			"delivery_status", deliveryStatus,
		)
	}

	return s.GetOrder(ctx, orderID)
}

package ordersvc

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/skip2/go-qrcode"
	"github.com/swadseva/ordering/internal/service/errs"
	"github.com/swadseva/ordering/internal/service/models/order"
)

const ticketSize = 256

// TicketPayload is the text encoded into a pickup ticket.
func TicketPayload(o order.Order) string {
	return fmt.Sprintf("swadseva:pickup:%s:%s", o.ID, o.TotalAmount.StringFixed(2))
}

// PickupTicket renders a QR code PNG the counter scans when a takeaway order is collected.
func (s *OrderService) PickupTicket(ctx context.Context, orderID uuid.UUID) ([]byte, error) {
	ctx, span := tracer.Start(ctx, "OrderService.PickupTicket")
	defer span.End()

	work := s.newUOW()

	orders, err := work.OrderRepository().Query(ctx, &order.QueryOrdersModel{
		Ids: []uuid.UUID{orderID},
	})
	if err != nil {
		return nil, errs.Store("query order", err)
	}
	if len(orders) == 0 {
		return nil, errs.NotFound("order", orderID)
	}
	if orders[0].Type != order.TypeTakeaway {
		return nil, errs.Validation("orderType", "pickup tickets are issued for takeaway orders only")
	}

	png, err := qrcode.Encode(TicketPayload(orders[0]), qrcode.Medium, ticketSize)
	if err != nil {
		return nil, fmt.Errorf("failed to encode pickup ticket: %w", err)
	}

	return png, nil
}

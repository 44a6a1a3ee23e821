package ordersvc

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/swadseva/ordering/internal/service/errs"
	"github.com/swadseva/ordering/internal/service/models/currency"
	"github.com/swadseva/ordering/internal/service/models/customer"
	"github.com/swadseva/ordering/internal/service/models/delivery"
	"github.com/swadseva/ordering/internal/service/models/event"
	"github.com/swadseva/ordering/internal/service/models/menuitem"
	"github.com/swadseva/ordering/internal/service/models/order"
	"github.com/swadseva/ordering/internal/service/models/orderitem"
	"github.com/swadseva/ordering/internal/service/models/outbox"
	"github.com/swadseva/ordering/internal/service/models/restaurant"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// CreateOrder validates a checkout, stores it in one transaction and assigns a driver to delivery orders.
func (s *OrderService) CreateOrder(ctx context.Context, in order.CreateOrderInput) (order.Order, error) {
	ctx, span := tracer.Start(ctx, "OrderService.CreateOrder",
		trace.WithAttributes(
			attribute.String("restaurant.id", in.RestaurantID.String()),
			attribute.String("order.type", string(in.OrderType)),
			attribute.Int("order.lines", len(in.Items)),
		),
	)
	defer span.End()

	if err := validateCreateInput(in); err != nil {
		return order.Order{}, err
	}

	work := s.newUOW()
	if err := work.Begin(ctx); err != nil {
		return order.Order{}, errs.Store("begin transaction", err)
	}
	defer func() {
		if err := work.Rollback(ctx); err != nil {
			slog.Error("Error rolling back order transaction", "error", err)
		}
	}()

	rest, err := s.loadRestaurant(ctx, work, in.RestaurantID)
	if err != nil {
		return order.Order{}, err
	}
	if rest.Status != restaurant.StatusActive {
		return order.Order{}, errs.Validation("restaurantId", "restaurant is not accepting orders")
	}
	if rest.IsCanteen && in.OrderType == order.TypeDelivery {
		return order.Order{}, errs.Validation("orderType", "canteen orders are takeaway only")
	}

	items, err := s.priceLines(ctx, work, rest.ID, in.Items)
	if err != nil {
		return order.Order{}, err
	}

	now := s.now().UTC()

	cust, err := work.CustomerRepository().GetOrCreateByPhone(ctx, customer.Customer{
		Name:        strings.TrimSpace(in.CustomerName),
		PhoneNumber: strings.TrimSpace(in.CustomerPhone),
		Email:       strings.TrimSpace(in.CustomerEmail),
		Status:      customer.StatusActive,
		CreatedAt:   now,
	})
	if err != nil {
		return order.Order{}, errs.Store("resolve customer", err)
	}

	o, err := work.OrderRepository().Insert(ctx, order.Order{
		CustomerID:    cust.ID,
		RestaurantID:  rest.ID,
		TotalAmount:   order.TotalWithTax(order.Subtotal(items)),
		TotalCurrency: currency.CurrencyINR,
		Type:          in.OrderType,
		Status:        order.StatusPending,
		Notes:         in.Notes,
		CreatedAt:     now,
		UpdatedAt:     now,
	})
	if err != nil {
		return order.Order{}, errs.Store("insert order", err)
	}

	for i := range items {
		items[i].OrderID = o.ID
		items[i].CreatedAt = now
	}
	o.OrderItems, err = work.OrderItemRepository().BulkInsert(ctx, items)
	if err != nil {
		return order.Order{}, errs.Store("insert order items", err)
	}

	address := strings.TrimSpace(in.DeliveryAddress)
	if o.Type == order.TypeDelivery && address != "" {
		d, err := s.assignDriver(ctx, work, o.ID, address, now)
		if err != nil {
			return order.Order{}, err
		}
		o.Delivery = d
	}

	ev := event.OrderEvent{
		Type:         event.TypeOrderCreated,
		OrderID:      o.ID,
		RestaurantID: o.RestaurantID,
		OrderType:    string(o.Type),
		Status:       string(o.Status),
		TotalAmount:  o.TotalAmount,
		OccurredAt:   now,
	}
	if o.Delivery != nil {
		driverID := o.Delivery.DriverID
		ev.DriverID = &driverID
	}
	if err := s.appendEvent(ctx, work, ev); err != nil {
		return order.Order{}, err
	}

	if err := work.Commit(ctx); err != nil {
		return order.Order{}, errs.Store("commit order", err)
	}

	o.Restaurant = &rest
	o.Customer = &cust

	span.SetAttributes(attribute.String("order.id", o.ID.String()))
	slog.Info("Order created",
		"order_id", o.ID,
		"restaurant_id", o.RestaurantID,
		"order_type", o.Type,
		"total", o.TotalAmount.StringFixed(2),
		"driver_assigned", o.Delivery != nil,
	)

	return o, nil
}

func validateCreateInput(in order.CreateOrderInput) error {
	switch {
	case strings.TrimSpace(in.CustomerName) == "":
		return errs.Validation("customerName", "customer name is required")
	case strings.TrimSpace(in.CustomerPhone) == "":
		return errs.Validation("customerPhone", "customer phone is required")
	case in.RestaurantID == uuid.Nil:
		return errs.Validation("restaurantId", "restaurant id is required")
	case len(in.Items) == 0:
		return errs.Validation("items", "order must contain at least one item")
	case !in.OrderType.Valid():
		return errs.Validation("orderType", fmt.Sprintf("unknown order type %q", in.OrderType))
	}

	for i, line := range in.Items {
		if line.MenuItemID == uuid.Nil {
			return errs.Validation(fmt.Sprintf("items[%d].id", i), "menu item id is required")
		}
		if line.Quantity < 1 {
			return errs.Validation(fmt.Sprintf("items[%d].quantity", i), "quantity must be at least 1")
		}
	}

	return nil
}

func (s *OrderService) loadRestaurant(
	ctx context.Context,
	work unitOfWork,
	id uuid.UUID,
) (restaurant.Restaurant, error) {
	restaurants, err := work.RestaurantRepository().Query(ctx, &restaurant.QueryRestaurantsModel{
		Ids: []uuid.UUID{id},
	})
	if err != nil {
		return restaurant.Restaurant{}, errs.Store("query restaurant", err)
	}
	if len(restaurants) == 0 {
		return restaurant.Restaurant{}, errs.NotFound("restaurant", id)
	}

	return restaurants[0], nil
}

// priceLines resolves every line against the stored menu. Stored prices win over client prices.
func (s *OrderService) priceLines(
	ctx context.Context,
	work unitOfWork,
	restaurantID uuid.UUID,
	lines []order.LineInput,
) ([]orderitem.OrderItem, error) {
	ids := make([]uuid.UUID, 0, len(lines))
	for _, line := range lines {
		ids = append(ids, line.MenuItemID)
	}

	menuItems, err := work.MenuItemRepository().Query(ctx, &menuitem.QueryMenuItemsModel{
		Ids:           ids,
		RestaurantIds: []uuid.UUID{restaurantID},
	})
	if err != nil {
		return nil, errs.Store("query menu items", err)
	}

	byID := make(map[uuid.UUID]menuitem.MenuItem, len(menuItems))
	for _, mi := range menuItems {
		byID[mi.ID] = mi
	}

	items := make([]orderitem.OrderItem, 0, len(lines))
	for i, line := range lines {
		mi, ok := byID[line.MenuItemID]
		if !ok {
			return nil, errs.Validation(
				fmt.Sprintf("items[%d].id", i),
				fmt.Sprintf("menu item %s is not on this restaurant's menu", line.MenuItemID),
			)
		}
		if !mi.IsAvailable {
			return nil, errs.Validation(
				fmt.Sprintf("items[%d].id", i),
				fmt.Sprintf("%s is currently unavailable", mi.Name),
			)
		}
		if !line.Price.IsZero() && !line.Price.Equal(mi.Price) {
			slog.Warn("Client price differs from menu price",
				"menu_item_id", mi.ID,
				"client_price", line.Price.String(),
				"menu_price", mi.Price.String(),
			)
		}

		items = append(items, orderitem.OrderItem{
			MenuItemID:          mi.ID,
			MenuItemName:        mi.Name,
			Quantity:            line.Quantity,
			PriceAtOrderTime:    mi.Price,
			SpecialInstructions: strings.TrimSpace(line.Instructions),
		})
	}

	return items, nil
}

// assignDriver claims the first driver that is still available. Drivers taken by concurrent orders
// are excluded and the scan is repeated until a claim succeeds or no available driver is left.
// It returns nil when nobody can be claimed.
func (s *OrderService) assignDriver(
	ctx context.Context,
	work unitOfWork,
	orderID uuid.UUID,
	address string,
	now time.Time,
) (*delivery.Delivery, error) {
	ctx, span := tracer.Start(ctx, "OrderService.assignDriver")
	defer span.End()

	var taken []uuid.UUID
	for {
		candidates, err := work.DriverRepository().ListAvailable(ctx, taken, s.driverCandidates)
		if err != nil {
			return nil, errs.Store("list available drivers", err)
		}

		fresh := 0
		for _, driverID := range candidates {
			if slices.Contains(taken, driverID) {
				continue
			}
			fresh++

			claimed, err := work.DriverRepository().Claim(ctx, driverID)
			if err != nil {
				return nil, errs.Store("claim driver", err)
			}
			if !claimed {
				slog.Debug("Driver taken by another order", "driver_id", driverID, "order_id", orderID)
				taken = append(taken, driverID)

				continue
			}

			span.SetAttributes(attribute.String("driver.id", driverID.String()))

			return s.insertDelivery(ctx, work, orderID, driverID, address, now)
		}

		if fresh == 0 {
			break
		}
	}

	slog.Info("No driver available for delivery order", "order_id", orderID, "taken", len(taken))

	return nil, nil
}

func (s *OrderService) insertDelivery(
	ctx context.Context,
	work unitOfWork,
	orderID uuid.UUID,
	driverID uuid.UUID,
	address string,
	now time.Time,
) (*delivery.Delivery, error) {
	d, err := work.DeliveryRepository().Insert(ctx, delivery.Delivery{
		OrderID:               orderID,
		DriverID:              driverID,
		Status:                delivery.StatusPending,
		Address:               address,
		Fee:                   order.DeliveryFee,
		EstimatedDeliveryTime: now.Add(s.deliveryETA),
		CreatedAt:             now,
		UpdatedAt:             now,
	})
	if err != nil {
		return nil, errs.Store("insert delivery", err)
	}

	drivers, err := work.DriverRepository().Query(ctx, []uuid.UUID{driverID})
	if err != nil {
		return nil, errs.Store("query driver", err)
	}
	if len(drivers) > 0 {
		d.Driver = &drivers[0]
	}

	return &d, nil
}

func (s *OrderService) appendEvent(ctx context.Context, work unitOfWork, ev event.OrderEvent) error {
	msg, err := outbox.NewJSON(string(ev.Type), s.eventsQueue, ev, outboxMaxRetries, s.now().UTC())
	if err != nil {
		return err
	}

	if err := work.OutboxRepository().Insert(ctx, msg); err != nil {
		return errs.Store("append outbox message", err)
	}

	return nil
}

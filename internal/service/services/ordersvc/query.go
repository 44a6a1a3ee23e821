package ordersvc

import (
	"context"

	"github.com/google/uuid"
	"github.com/swadseva/ordering/internal/service/errs"
	"github.com/swadseva/ordering/internal/service/models/customer"
	"github.com/swadseva/ordering/internal/service/models/driver"
	"github.com/swadseva/ordering/internal/service/models/order"
	"github.com/swadseva/ordering/internal/service/models/orderitem"
	"github.com/swadseva/ordering/internal/service/models/restaurant"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// GetOrder returns an order with its items, restaurant, customer and delivery.
func (s *OrderService) GetOrder(ctx context.Context, id uuid.UUID) (order.Order, error) {
	ctx, span := tracer.Start(ctx, "OrderService.GetOrder",
		trace.WithAttributes(attribute.String("order.id", id.String())),
	)
	defer span.End()

	work := s.newUOW()

	orders, err := work.OrderRepository().Query(ctx, &order.QueryOrdersModel{
		Ids: []uuid.UUID{id},
	})
	if err != nil {
		return order.Order{}, errs.Store("query order", err)
	}
	if len(orders) == 0 {
		return order.Order{}, errs.NotFound("order", id)
	}

	if err := s.joinParties(ctx, work, orders); err != nil {
		return order.Order{}, err
	}
	if err := s.joinDetails(ctx, work, orders); err != nil {
		return order.Order{}, err
	}

	return orders[0], nil
}

// ListOrders returns the most recent orders, newest first, with restaurant and customer joined.
func (s *OrderService) ListOrders(ctx context.Context, limit int) ([]order.Order, error) {
	ctx, span := tracer.Start(ctx, "OrderService.ListOrders")
	defer span.End()

	if limit <= 0 {
		limit = DefaultListLimit
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}
	span.SetAttributes(attribute.Int("limit", limit))

	work := s.newUOW()

	orders, err := work.OrderRepository().Query(ctx, &order.QueryOrdersModel{
		Limit: limit,
	})
	if err != nil {
		return nil, errs.Store("query orders", err)
	}
	if len(orders) == 0 {
		return []order.Order{}, nil
	}

	if err := s.joinParties(ctx, work, orders); err != nil {
		return nil, err
	}

	return orders, nil
}

func (s *OrderService) joinParties(ctx context.Context, work unitOfWork, orders []order.Order) error {
	restaurantIDs := make([]uuid.UUID, 0, len(orders))
	customerIDs := make([]uuid.UUID, 0, len(orders))
	for _, o := range orders {
		restaurantIDs = append(restaurantIDs, o.RestaurantID)
		customerIDs = append(customerIDs, o.CustomerID)
	}

	restaurants, err := work.RestaurantRepository().Query(ctx, &restaurant.QueryRestaurantsModel{
		Ids: restaurantIDs,
	})
	if err != nil {
		return errs.Store("query restaurants", err)
	}
	customers, err := work.CustomerRepository().Query(ctx, customerIDs)
	if err != nil {
		return errs.Store("query customers", err)
	}

	restaurantByID := make(map[uuid.UUID]restaurant.Restaurant, len(restaurants))
	for _, r := range restaurants {
		restaurantByID[r.ID] = r
	}
	customerByID := make(map[uuid.UUID]customer.Customer, len(customers))
	for _, c := range customers {
		customerByID[c.ID] = c
	}

	for i := range orders {
		if r, ok := restaurantByID[orders[i].RestaurantID]; ok {
			orders[i].Restaurant = &r
		}
		if c, ok := customerByID[orders[i].CustomerID]; ok {
			orders[i].Customer = &c
		}
	}

	return nil
}

func (s *OrderService) joinDetails(ctx context.Context, work unitOfWork, orders []order.Order) error {
	orderIDs := make([]uuid.UUID, 0, len(orders))
	for _, o := range orders {
		orderIDs = append(orderIDs, o.ID)
	}

	items, err := work.OrderItemRepository().Query(ctx, &orderitem.QueryOrderItemsModel{
		OrderIds: orderIDs,
	})
	if err != nil {
		return errs.Store("query order items", err)
	}

	deliveries, err := work.DeliveryRepository().QueryByOrderIDs(ctx, orderIDs)
	if err != nil {
		return errs.Store("query deliveries", err)
	}

	driverIDs := make([]uuid.UUID, 0, len(deliveries))
	for _, d := range deliveries {
		driverIDs = append(driverIDs, d.DriverID)
	}
	driverByID := make(map[uuid.UUID]driver.Driver, len(driverIDs))
	if len(driverIDs) > 0 {
		drivers, err := work.DriverRepository().Query(ctx, driverIDs)
		if err != nil {
			return errs.Store("query drivers", err)
		}
		for _, d := range drivers {
			driverByID[d.ID] = d
		}
	}

	for i := range orders {
		orders[i].OrderItems = []orderitem.OrderItem{}
		for _, item := range items {
			if item.OrderID == orders[i].ID {
				orders[i].OrderItems = append(orders[i].OrderItems, item)
			}
		}
		for _, d := range deliveries {
			if d.OrderID != orders[i].ID {
				continue
			}
			if drv, ok := driverByID[d.DriverID]; ok {
				d.Driver = &drv
			}
			orders[i].Delivery = &d

			break
		}
	}

	return nil
}

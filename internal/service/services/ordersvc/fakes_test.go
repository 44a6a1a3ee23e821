package ordersvc

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/swadseva/ordering/internal/dal/interfaces/icustomerrepo"
	"github.com/swadseva/ordering/internal/dal/interfaces/ideliveryrepo"
	"github.com/swadseva/ordering/internal/dal/interfaces/idriverrepo"
	"github.com/swadseva/ordering/internal/dal/interfaces/imenuitemrepo"
	"github.com/swadseva/ordering/internal/dal/interfaces/iorderitemrepo"
	"github.com/swadseva/ordering/internal/dal/interfaces/iorderrepo"
	"github.com/swadseva/ordering/internal/dal/interfaces/ioutboxrepo"
	"github.com/swadseva/ordering/internal/dal/interfaces/irestaurantrepo"
	"github.com/swadseva/ordering/internal/service/errs"
	"github.com/swadseva/ordering/internal/service/models/customer"
	"github.com/swadseva/ordering/internal/service/models/delivery"
	"github.com/swadseva/ordering/internal/service/models/driver"
	"github.com/swadseva/ordering/internal/service/models/menuitem"
	"github.com/swadseva/ordering/internal/service/models/order"
	"github.com/swadseva/ordering/internal/service/models/orderitem"
	"github.com/swadseva/ordering/internal/service/models/outbox"
	"github.com/swadseva/ordering/internal/service/models/restaurant"
)

// memStore is a shared in-memory database. Writes are applied immediately; rollback is a no-op.
type memStore struct {
	mu          sync.Mutex
	restaurants []restaurant.Restaurant
	menuItems   []menuitem.MenuItem
	customers   []customer.Customer
	orders      []order.Order
	orderItems  []orderitem.OrderItem
	drivers     []driver.Driver
	deliveries  []delivery.Delivery
	outbox      []outbox.Message
	commits     int
	// listBusy makes ListAvailable also return busy drivers, like a read that cannot see
	// claims of transactions still in flight.
	listBusy bool
}

func (m *memStore) factory() func() unitOfWork {
	return func() unitOfWork {
		return &memUOW{store: m}
	}
}

func (m *memStore) driver(id uuid.UUID) driver.Driver {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, d := range m.drivers {
		if d.ID == id {
			return d
		}
	}

	return driver.Driver{}
}

func (m *memStore) outboxMessages() []outbox.Message {
	m.mu.Lock()
	defer m.mu.Unlock()

	return slices.Clone(m.outbox)
}

type memUOW struct {
	store *memStore
}

func (u *memUOW) Begin(context.Context) error { return nil }

func (u *memUOW) Commit(context.Context) error {
	u.store.mu.Lock()
	u.store.commits++
	u.store.mu.Unlock()

	return nil
}

func (u *memUOW) Rollback(context.Context) error { return nil }

func (u *memUOW) RestaurantRepository() irestaurantrepo.IRestaurantRepository {
	return memRestaurants{u.store}
}

func (u *memUOW) MenuItemRepository() imenuitemrepo.IMenuItemRepository {
	return memMenuItems{u.store}
}

func (u *memUOW) CustomerRepository() icustomerrepo.ICustomerRepository {
	return memCustomers{u.store}
}

func (u *memUOW) OrderRepository() iorderrepo.IOrderRepository { return memOrders{u.store} }

func (u *memUOW) OrderItemRepository() iorderitemrepo.IOrderItemRepository {
	return memOrderItems{u.store}
}

func (u *memUOW) DriverRepository() idriverrepo.IDriverRepository { return memDrivers{u.store} }

func (u *memUOW) DeliveryRepository() ideliveryrepo.IDeliveryRepository {
	return memDeliveries{u.store}
}

func (u *memUOW) OutboxRepository() ioutboxrepo.IOutboxRepository { return memOutbox{u.store} }

type memRestaurants struct{ s *memStore }

func (r memRestaurants) Query(
	_ context.Context,
	filter *restaurant.QueryRestaurantsModel,
) ([]restaurant.Restaurant, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var out []restaurant.Restaurant
	for _, rest := range r.s.restaurants {
		if len(filter.Ids) > 0 && !slices.Contains(filter.Ids, rest.ID) {
			continue
		}
		out = append(out, rest)
	}

	return out, nil
}

type memMenuItems struct{ s *memStore }

func (r memMenuItems) Query(_ context.Context, filter *menuitem.QueryMenuItemsModel) ([]menuitem.MenuItem, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var out []menuitem.MenuItem
	for _, mi := range r.s.menuItems {
		if len(filter.Ids) > 0 && !slices.Contains(filter.Ids, mi.ID) {
			continue
		}
		if len(filter.RestaurantIds) > 0 && !slices.Contains(filter.RestaurantIds, mi.RestaurantID) {
			continue
		}
		out = append(out, mi)
	}

	return out, nil
}

type memCustomers struct{ s *memStore }

func (r memCustomers) GetOrCreateByPhone(_ context.Context, c customer.Customer) (customer.Customer, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, existing := range r.s.customers {
		if existing.PhoneNumber == c.PhoneNumber {
			return existing, nil
		}
	}
	c.ID = uuid.New()
	r.s.customers = append(r.s.customers, c)

	return c, nil
}

func (r memCustomers) Query(_ context.Context, ids []uuid.UUID) ([]customer.Customer, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var out []customer.Customer
	for _, c := range r.s.customers {
		if slices.Contains(ids, c.ID) {
			out = append(out, c)
		}
	}

	return out, nil
}

type memOrders struct{ s *memStore }

func (r memOrders) Insert(_ context.Context, o order.Order) (order.Order, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	o.ID = uuid.New()
	r.s.orders = append(r.s.orders, o)

	return o, nil
}

func (r memOrders) Query(_ context.Context, filter *order.QueryOrdersModel) ([]order.Order, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var out []order.Order
	for i := len(r.s.orders) - 1; i >= 0; i-- {
		o := r.s.orders[i]
		if len(filter.Ids) > 0 && !slices.Contains(filter.Ids, o.ID) {
			continue
		}
		out = append(out, o)
		if filter.Limit > 0 && len(out) == filter.Limit {
			break
		}
	}

	return out, nil
}

func (r memOrders) GetForUpdate(_ context.Context, id uuid.UUID) (order.Order, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, o := range r.s.orders {
		if o.ID == id {
			return o, nil
		}
	}

	return order.Order{}, errs.NotFound("order", id)
}

func (r memOrders) UpdateStatus(_ context.Context, id uuid.UUID, status order.Status, updatedAt time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for i := range r.s.orders {
		if r.s.orders[i].ID == id {
			r.s.orders[i].Status = status
			r.s.orders[i].UpdatedAt = updatedAt

			return nil
		}
	}

	return errs.NotFound("order", id)
}

type memOrderItems struct{ s *memStore }

func (r memOrderItems) BulkInsert(_ context.Context, items []orderitem.OrderItem) ([]orderitem.OrderItem, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	out := make([]orderitem.OrderItem, len(items))
	for i, item := range items {
		item.ID = uuid.New()
		out[i] = item
	}
	r.s.orderItems = append(r.s.orderItems, out...)

	return out, nil
}

func (r memOrderItems) Query(_ context.Context, filter *orderitem.QueryOrderItemsModel) ([]orderitem.OrderItem, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var out []orderitem.OrderItem
	for _, item := range r.s.orderItems {
		if len(filter.OrderIds) > 0 && !slices.Contains(filter.OrderIds, item.OrderID) {
			continue
		}
		out = append(out, item)
	}

	return out, nil
}

type memDrivers struct{ s *memStore }

func (r memDrivers) ListAvailable(_ context.Context, exclude []uuid.UUID, limit int) ([]uuid.UUID, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var out []uuid.UUID
	for _, d := range r.s.drivers {
		if slices.Contains(exclude, d.ID) {
			continue
		}
		if d.Availability == driver.AvailabilityAvailable || r.s.listBusy {
			out = append(out, d.ID)
		}
		if len(out) == limit {
			break
		}
	}

	return out, nil
}

func (r memDrivers) Claim(_ context.Context, id uuid.UUID) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for i := range r.s.drivers {
		if r.s.drivers[i].ID == id && r.s.drivers[i].Availability == driver.AvailabilityAvailable {
			r.s.drivers[i].Availability = driver.AvailabilityBusy

			return true, nil
		}
	}

	return false, nil
}

func (r memDrivers) Release(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for i := range r.s.drivers {
		if r.s.drivers[i].ID == id {
			r.s.drivers[i].Availability = driver.AvailabilityAvailable
		}
	}

	return nil
}

func (r memDrivers) Query(_ context.Context, ids []uuid.UUID) ([]driver.Driver, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var out []driver.Driver
	for _, d := range r.s.drivers {
		if slices.Contains(ids, d.ID) {
			out = append(out, d)
		}
	}

	return out, nil
}

type memDeliveries struct{ s *memStore }

func (r memDeliveries) Insert(_ context.Context, d delivery.Delivery) (delivery.Delivery, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	d.ID = uuid.New()
	r.s.deliveries = append(r.s.deliveries, d)

	return d, nil
}

func (r memDeliveries) QueryByOrderIDs(_ context.Context, orderIDs []uuid.UUID) ([]delivery.Delivery, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var out []delivery.Delivery
	for _, d := range r.s.deliveries {
		if slices.Contains(orderIDs, d.OrderID) {
			out = append(out, d)
		}
	}

	return out, nil
}

func (r memDeliveries) UpdateStatus(_ context.Context, id uuid.UUID, status string, updatedAt time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for i := range r.s.deliveries {
		if r.s.deliveries[i].ID == id {
			r.s.deliveries[i].Status = status
			r.s.deliveries[i].UpdatedAt = updatedAt
		}
	}

	return nil
}

type memOutbox struct{ s *memStore }

func (r memOutbox) Insert(_ context.Context, msg outbox.Message) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	msg.ID = int64(len(r.s.outbox) + 1)
	r.s.outbox = append(r.s.outbox, msg)

	return nil
}

func (r memOutbox) FetchDue(context.Context, time.Time, int) ([]outbox.Message, error) {
	return nil, nil
}

func (r memOutbox) Delete(context.Context, int64) error { return nil }

func (r memOutbox) ScheduleRetry(context.Context, int64, int, string, time.Time) error { return nil }

package ordersvc

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/swadseva/ordering/internal/service/errs"
	"github.com/swadseva/ordering/internal/service/models/delivery"
	"github.com/swadseva/ordering/internal/service/models/driver"
	"github.com/swadseva/ordering/internal/service/models/event"
	"github.com/swadseva/ordering/internal/service/models/menuitem"
	"github.com/swadseva/ordering/internal/service/models/order"
	"github.com/swadseva/ordering/internal/service/models/restaurant"
	"golang.org/x/sync/errgroup"
)

var fixedNow = time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC)

type fixture struct {
	store       *memStore
	svc         *OrderService
	punjabi     restaurant.Restaurant
	canteen     restaurant.Restaurant
	butter      menuitem.MenuItem
	naan        menuitem.MenuItem
	soldOut     menuitem.MenuItem
	samosa      menuitem.MenuItem
	firstDriver driver.Driver
}

func newFixture(t *testing.T, drivers int) *fixture {
	t.Helper()

	f := &fixture{store: &memStore{}}
	f.punjabi = restaurant.Restaurant{
		ID:     uuid.New(),
		Name:   "Punjabi Dhaba",
		Status: restaurant.StatusActive,
		Rating: decimal.RequireFromString("4.5"),
	}
	f.canteen = restaurant.Restaurant{
		ID:        uuid.New(),
		Name:      "NSUT Canteen",
		Status:    restaurant.StatusActive,
		IsCanteen: true,
	}
	f.butter = menuitem.MenuItem{
		ID:           uuid.New(),
		RestaurantID: f.punjabi.ID,
		Name:         "Butter Chicken",
		Price:        decimal.NewFromInt(320),
		IsAvailable:  true,
	}
	f.naan = menuitem.MenuItem{
		ID:           uuid.New(),
		RestaurantID: f.punjabi.ID,
		Name:         "Butter Naan",
		Price:        decimal.NewFromInt(50),
		IsAvailable:  true,
	}
	f.soldOut = menuitem.MenuItem{
		ID:           uuid.New(),
		RestaurantID: f.punjabi.ID,
		Name:         "Sarson ka Saag",
		Price:        decimal.NewFromInt(220),
		IsAvailable:  false,
	}
	f.samosa = menuitem.MenuItem{
		ID:           uuid.New(),
		RestaurantID: f.canteen.ID,
		Name:         "Samosa",
		Price:        decimal.NewFromInt(15),
		IsAvailable:  true,
	}

	f.store.restaurants = []restaurant.Restaurant{f.punjabi, f.canteen}
	f.store.menuItems = []menuitem.MenuItem{f.butter, f.naan, f.soldOut, f.samosa}
	for i := 0; i < drivers; i++ {
		f.store.drivers = append(f.store.drivers, driver.Driver{
			ID:           uuid.New(),
			Name:         "Driver",
			PhoneNumber:  "98100000" + string(rune('0'+i)),
			Availability: driver.AvailabilityAvailable,
		})
	}
	if drivers > 0 {
		f.firstDriver = f.store.drivers[0]
	}

	f.svc = MustNewOrderService(
		WithUnitOfWorkFactory(f.store.factory()),
		WithClock(func() time.Time { return fixedNow }),
	)

	return f
}

func (f *fixture) takeawayInput() order.CreateOrderInput {
	return order.CreateOrderInput{
		CustomerName:  "Asha",
		CustomerPhone: "9876543210",
		RestaurantID:  f.punjabi.ID,
		OrderType:     order.TypeTakeaway,
		Items: []order.LineInput{
			{MenuItemID: f.butter.ID, Price: f.butter.Price, Quantity: 2},
			{MenuItemID: f.naan.ID, Price: f.naan.Price, Quantity: 1},
		},
	}
}

func (f *fixture) deliveryInput() order.CreateOrderInput {
	in := f.takeawayInput()
	in.OrderType = order.TypeDelivery
	in.DeliveryAddress = "Hostel 3, NSUT"

	return in
}

func decodeEvents(t *testing.T, store *memStore) []event.OrderEvent {
	t.Helper()

	var events []event.OrderEvent
	for _, msg := range store.outboxMessages() {
		var ev event.OrderEvent
		require.NoError(t, json.Unmarshal(msg.Payload, &ev))
		events = append(events, ev)
	}

	return events
}

func TestOrderService_CreateOrder(t *testing.T) {
	f := newFixture(t, 0)

	o, err := f.svc.CreateOrder(context.Background(), f.takeawayInput())
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, o.ID)
	assert.Equal(t, order.StatusPending, o.Status)
	assert.Equal(t, order.TypeTakeaway, o.Type)
	assert.Equal(t, "724.5", o.TotalAmount.String())
	assert.Equal(t, fixedNow, o.CreatedAt)
	require.Len(t, o.OrderItems, 2)
	assert.Equal(t, "Butter Chicken", o.OrderItems[0].MenuItemName)
	assert.Equal(t, o.ID, o.OrderItems[0].OrderID)
	assert.Nil(t, o.Delivery)
	require.NotNil(t, o.Restaurant)
	assert.Equal(t, "Punjabi Dhaba", o.Restaurant.Name)
	require.NotNil(t, o.Customer)
	assert.Equal(t, "9876543210", o.Customer.PhoneNumber)

	msgs := f.store.outboxMessages()
	require.Len(t, msgs, 1)
	assert.Equal(t, DefaultEventsQueue, msgs[0].QueueName)
	assert.Equal(t, DefaultEventsQueue, msgs[0].RoutingKey)
	assert.Equal(t, string(event.TypeOrderCreated), msgs[0].Type)
	assert.Equal(t, "application/json", msgs[0].ContentType)
	events := decodeEvents(t, f.store)
	assert.Equal(t, event.TypeOrderCreated, events[0].Type)
	assert.Equal(t, o.ID, events[0].OrderID)
	assert.Equal(t, 1, f.store.commits)
}

func TestOrderService_CreateOrderValidation(t *testing.T) {
	f := newFixture(t, 1)

	tests := []struct {
		name      string
		mutate    func(in *order.CreateOrderInput)
		wantField string
	}{
		{
			name:      "missing customer name",
			mutate:    func(in *order.CreateOrderInput) { in.CustomerName = "  " },
			wantField: "customerName",
		},
		{
			name:      "missing phone",
			mutate:    func(in *order.CreateOrderInput) { in.CustomerPhone = "" },
			wantField: "customerPhone",
		},
		{
			name:      "missing restaurant",
			mutate:    func(in *order.CreateOrderInput) { in.RestaurantID = uuid.Nil },
			wantField: "restaurantId",
		},
		{
			name:      "no items",
			mutate:    func(in *order.CreateOrderInput) { in.Items = nil },
			wantField: "items",
		},
		{
			name:      "unknown order type",
			mutate:    func(in *order.CreateOrderInput) { in.OrderType = "dine_in" },
			wantField: "orderType",
		},
		{
			name:      "zero quantity",
			mutate:    func(in *order.CreateOrderInput) { in.Items[0].Quantity = 0 },
			wantField: "items[0].quantity",
		},
		{
			name: "item from another restaurant",
			mutate: func(in *order.CreateOrderInput) {
				in.Items[1].MenuItemID = f.samosa.ID
			},
			wantField: "items[1].id",
		},
		{
			name: "unavailable item",
			mutate: func(in *order.CreateOrderInput) {
				in.Items[0].MenuItemID = f.soldOut.ID
			},
			wantField: "items[0].id",
		},
		{
			name: "canteen delivery",
			mutate: func(in *order.CreateOrderInput) {
				in.RestaurantID = f.canteen.ID
				in.OrderType = order.TypeDelivery
				in.Items = []order.LineInput{{MenuItemID: f.samosa.ID, Quantity: 2}}
			},
			wantField: "orderType",
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			in := f.takeawayInput()
			testCase.mutate(&in)

			_, err := f.svc.CreateOrder(context.Background(), in)

			var validationErr *errs.ValidationError
			require.ErrorAs(t, err, &validationErr)
			assert.Equal(t, testCase.wantField, validationErr.Field)
		})
	}

	assert.Empty(t, f.store.orders)
	assert.Empty(t, f.store.outboxMessages())
}

func TestOrderService_CreateOrderUnknownRestaurant(t *testing.T) {
	f := newFixture(t, 0)
	in := f.takeawayInput()
	in.RestaurantID = uuid.New()

	_, err := f.svc.CreateOrder(context.Background(), in)

	var notFound *errs.NotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "restaurant", notFound.Entity)
}

func TestOrderService_CreateOrderUsesStoredPrice(t *testing.T) {
	f := newFixture(t, 0)
	in := f.takeawayInput()
	in.Items = []order.LineInput{{MenuItemID: f.butter.ID, Price: decimal.NewFromInt(1), Quantity: 1}}

	o, err := f.svc.CreateOrder(context.Background(), in)
	require.NoError(t, err)

	require.Len(t, o.OrderItems, 1)
	assert.True(t, o.OrderItems[0].PriceAtOrderTime.Equal(decimal.NewFromInt(320)))
	assert.Equal(t, "336", o.TotalAmount.String())
}

func TestOrderService_CreateOrderReusesCustomer(t *testing.T) {
	f := newFixture(t, 0)

	first, err := f.svc.CreateOrder(context.Background(), f.takeawayInput())
	require.NoError(t, err)
	second, err := f.svc.CreateOrder(context.Background(), f.takeawayInput())
	require.NoError(t, err)

	assert.Equal(t, first.CustomerID, second.CustomerID)
	assert.NotEqual(t, first.ID, second.ID)
	assert.Len(t, f.store.customers, 1)
}

func TestOrderService_CreateDeliveryOrderAssignsDriver(t *testing.T) {
	f := newFixture(t, 2)

	o, err := f.svc.CreateOrder(context.Background(), f.deliveryInput())
	require.NoError(t, err)

	require.NotNil(t, o.Delivery)
	assert.Equal(t, f.firstDriver.ID, o.Delivery.DriverID)
	assert.Equal(t, delivery.StatusPending, o.Delivery.Status)
	assert.Equal(t, "Hostel 3, NSUT", o.Delivery.Address)
	assert.True(t, o.Delivery.Fee.Equal(decimal.NewFromInt(40)))
	assert.Equal(t, fixedNow.Add(45*time.Minute), o.Delivery.EstimatedDeliveryTime)
	require.NotNil(t, o.Delivery.Driver)
	assert.Equal(t, driver.AvailabilityBusy, f.store.driver(f.firstDriver.ID).Availability)

	events := decodeEvents(t, f.store)
	require.Len(t, events, 1)
	require.NotNil(t, events[0].DriverID)
	assert.Equal(t, f.firstDriver.ID, *events[0].DriverID)
}

func TestOrderService_CreateDeliveryOrderWithoutDriver(t *testing.T) {
	f := newFixture(t, 0)

	o, err := f.svc.CreateOrder(context.Background(), f.deliveryInput())
	require.NoError(t, err)

	assert.Equal(t, order.TypeDelivery, o.Type)
	assert.Nil(t, o.Delivery)
	assert.Empty(t, f.store.deliveries)
}

func TestOrderService_CreateDeliveryOrderWithoutAddress(t *testing.T) {
	f := newFixture(t, 1)
	in := f.deliveryInput()
	in.DeliveryAddress = ""

	o, err := f.svc.CreateOrder(context.Background(), in)
	require.NoError(t, err)

	assert.Nil(t, o.Delivery)
	assert.Equal(t, driver.AvailabilityAvailable, f.store.driver(f.firstDriver.ID).Availability)
}

func TestOrderService_ConcurrentOrdersClaimDriverOnce(t *testing.T) {
	f := newFixture(t, 1)

	const n = 8
	results := make([]order.Order, n)

	var g errgroup.Group
	for i := 0; i < n; i++ {
		g.Go(func() error {
			o, err := f.svc.CreateOrder(context.Background(), f.deliveryInput())
			results[i] = o

			return err
		})
	}
	require.NoError(t, g.Wait())

	withDriver := 0
	for _, o := range results {
		if o.Delivery != nil {
			withDriver++
			assert.Equal(t, f.firstDriver.ID, o.Delivery.DriverID)
		}
	}
	assert.Equal(t, 1, withDriver)
	assert.Len(t, f.store.deliveries, 1)
}

func TestOrderService_CreateDeliveryOrderRescansPastTakenDrivers(t *testing.T) {
	tests := []struct {
		name       string
		candidates int
	}{
		{name: "one driver per scan", candidates: 1},
		{name: "default scan size", candidates: DefaultDriverCandidates},
		{name: "scan covers every driver", candidates: 10},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			f := newFixture(t, 6)
			for i := 0; i < 5; i++ {
				f.store.drivers[i].Availability = driver.AvailabilityBusy
			}
			f.store.listBusy = true
			free := f.store.drivers[5]

			svc := MustNewOrderService(
				WithUnitOfWorkFactory(f.store.factory()),
				WithClock(func() time.Time { return fixedNow }),
				WithDriverCandidates(testCase.candidates),
			)

			o, err := svc.CreateOrder(context.Background(), f.deliveryInput())
			require.NoError(t, err)

			require.NotNil(t, o.Delivery)
			assert.Equal(t, free.ID, o.Delivery.DriverID)
			assert.Equal(t, driver.AvailabilityBusy, f.store.driver(free.ID).Availability)
		})
	}
}

func TestOrderService_CreateDeliveryOrderAllDriversTaken(t *testing.T) {
	f := newFixture(t, 3)
	for i := range f.store.drivers {
		f.store.drivers[i].Availability = driver.AvailabilityBusy
	}
	f.store.listBusy = true

	o, err := f.svc.CreateOrder(context.Background(), f.deliveryInput())
	require.NoError(t, err)

	assert.Nil(t, o.Delivery)
	assert.Empty(t, f.store.deliveries)
}

func TestOrderService_UpdateOrderStatus(t *testing.T) {
	tests := []struct {
		name      string
		orderType order.Type
		steps     []order.Status
		next      order.Status
		wantErr   any
	}{
		{
			name:      "forward one step",
			orderType: order.TypeTakeaway,
			next:      order.StatusPreparing,
		},
		{
			name:      "skip ahead",
			orderType: order.TypeTakeaway,
			next:      order.StatusReady,
		},
		{
			name:      "backwards",
			orderType: order.TypeTakeaway,
			steps:     []order.Status{order.StatusReady},
			next:      order.StatusPreparing,
			wantErr:   &errs.ConflictError{},
		},
		{
			name:      "status of the other progression",
			orderType: order.TypeTakeaway,
			next:      order.StatusOutForDelivery,
			wantErr:   &errs.ValidationError{},
		},
		{
			name:      "completed is not a delivery status",
			orderType: order.TypeDelivery,
			next:      order.StatusCompleted,
			wantErr:   &errs.ValidationError{},
		},
		{
			name:      "empty status",
			orderType: order.TypeTakeaway,
			next:      "",
			wantErr:   &errs.ValidationError{},
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			f := newFixture(t, 0)
			in := f.takeawayInput()
			in.OrderType = testCase.orderType
			created, err := f.svc.CreateOrder(context.Background(), in)
			require.NoError(t, err)

			for _, step := range testCase.steps {
				_, err := f.svc.UpdateOrderStatus(context.Background(), created.ID, step, "")
				require.NoError(t, err)
			}

			updated, err := f.svc.UpdateOrderStatus(context.Background(), created.ID, testCase.next, "")

			switch want := testCase.wantErr.(type) {
			case *errs.ConflictError:
				require.ErrorAs(t, err, &want)
			case *errs.ValidationError:
				require.ErrorAs(t, err, &want)
			default:
				require.NoError(t, err)
				assert.Equal(t, testCase.next, updated.Status)
				assert.Equal(t, created.ID, updated.ID)
				require.Len(t, updated.OrderItems, 2)
			}
		})
	}
}

func TestOrderService_UpdateOrderStatusUnknownOrder(t *testing.T) {
	f := newFixture(t, 0)

	_, err := f.svc.UpdateOrderStatus(context.Background(), uuid.New(), order.StatusPreparing, "")

	var notFound *errs.NotFoundError
	require.ErrorAs(t, err, &notFound)
}

func TestOrderService_UpdateOrderStatusSameStatusIsNoop(t *testing.T) {
	f := newFixture(t, 0)
	created, err := f.svc.CreateOrder(context.Background(), f.takeawayInput())
	require.NoError(t, err)

	o, err := f.svc.UpdateOrderStatus(context.Background(), created.ID, order.StatusPending, "")
	require.NoError(t, err)

	assert.Equal(t, order.StatusPending, o.Status)
	assert.Len(t, f.store.outboxMessages(), 1)
}

func TestOrderService_DeliveredReleasesDriver(t *testing.T) {
	f := newFixture(t, 1)
	created, err := f.svc.CreateOrder(context.Background(), f.deliveryInput())
	require.NoError(t, err)
	require.NotNil(t, created.Delivery)

	o, err := f.svc.UpdateOrderStatus(context.Background(), created.ID, order.StatusOutForDelivery, "picked_up")
	require.NoError(t, err)
	require.NotNil(t, o.Delivery)
	assert.Equal(t, "picked_up", o.Delivery.Status)
	assert.Equal(t, driver.AvailabilityBusy, f.store.driver(f.firstDriver.ID).Availability)

	o, err = f.svc.UpdateOrderStatus(context.Background(), created.ID, order.StatusDelivered, "delivered")
	require.NoError(t, err)
	assert.Equal(t, order.StatusDelivered, o.Status)
	assert.Equal(t, "delivered", o.Delivery.Status)
	assert.Equal(t, driver.AvailabilityAvailable, f.store.driver(f.firstDriver.ID).Availability)

	events := decodeEvents(t, f.store)
	require.Len(t, events, 3)
	assert.Equal(t, event.TypeOrderStatusChanged, events[2].Type)
	assert.Equal(t, string(order.StatusOutForDelivery), events[2].PreviousStatus)
	assert.Equal(t, string(order.StatusDelivered), events[2].Status)
	assert.Equal(t, "delivered", events[2].DeliveryStatus)
}

func TestOrderService_GetOrder(t *testing.T) {
	f := newFixture(t, 1)
	created, err := f.svc.CreateOrder(context.Background(), f.deliveryInput())
	require.NoError(t, err)

	got, err := f.svc.GetOrder(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	assert.Len(t, got.OrderItems, 2)
	require.NotNil(t, got.Delivery)
	require.NotNil(t, got.Delivery.Driver)
	assert.Equal(t, f.firstDriver.ID, got.Delivery.Driver.ID)
	require.NotNil(t, got.Restaurant)
	require.NotNil(t, got.Customer)

	_, err = f.svc.GetOrder(context.Background(), uuid.New())
	var notFound *errs.NotFoundError
	assert.True(t, errors.As(err, &notFound))
}

func TestOrderService_ListOrders(t *testing.T) {
	f := newFixture(t, 0)

	var ids []uuid.UUID
	for i := 0; i < 3; i++ {
		o, err := f.svc.CreateOrder(context.Background(), f.takeawayInput())
		require.NoError(t, err)
		ids = append(ids, o.ID)
	}

	orders, err := f.svc.ListOrders(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, orders, 3)
	assert.Equal(t, ids[2], orders[0].ID)
	assert.Equal(t, ids[0], orders[2].ID)
	require.NotNil(t, orders[0].Restaurant)
	require.NotNil(t, orders[0].Customer)

	orders, err = f.svc.ListOrders(context.Background(), 2)
	require.NoError(t, err)
	assert.Len(t, orders, 2)
}

func TestOrderService_ListOrdersEmpty(t *testing.T) {
	f := newFixture(t, 0)

	orders, err := f.svc.ListOrders(context.Background(), 10)
	require.NoError(t, err)
	assert.NotNil(t, orders)
	assert.Empty(t, orders)
}

func TestOrderService_PickupTicket(t *testing.T) {
	f := newFixture(t, 0)

	takeaway, err := f.svc.CreateOrder(context.Background(), f.takeawayInput())
	require.NoError(t, err)
	png, err := f.svc.PickupTicket(context.Background(), takeaway.ID)
	require.NoError(t, err)
	assert.Equal(t, []byte("\x89PNG"), png[:4])

	deliveryOrder, err := f.svc.CreateOrder(context.Background(), f.deliveryInput())
	require.NoError(t, err)
	_, err = f.svc.PickupTicket(context.Background(), deliveryOrder.ID)
	var validationErr *errs.ValidationError
	assert.ErrorAs(t, err, &validationErr)

	_, err = f.svc.PickupTicket(context.Background(), uuid.New())
	var notFound *errs.NotFoundError
	assert.ErrorAs(t, err, &notFound)
}

func TestTicketPayload(t *testing.T) {
	id := uuid.MustParse("6f1c1f0e-8d5e-4e0a-9c55-0d6a3a1b2c3d")
	o := order.Order{ID: id, TotalAmount: decimal.RequireFromString("724.5")}

	assert.Equal(t, "swadseva:pickup:6f1c1f0e-8d5e-4e0a-9c55-0d6a3a1b2c3d:724.50", TicketPayload(o))
}

package ordersvc

import (
	"context"
	"time"

	"github.com/swadseva/ordering/internal/dal/interfaces/icustomerrepo"
	"github.com/swadseva/ordering/internal/dal/interfaces/ideliveryrepo"
	"github.com/swadseva/ordering/internal/dal/interfaces/idriverrepo"
	"github.com/swadseva/ordering/internal/dal/interfaces/imenuitemrepo"
	"github.com/swadseva/ordering/internal/dal/interfaces/iorderitemrepo"
	"github.com/swadseva/ordering/internal/dal/interfaces/iorderrepo"
	"github.com/swadseva/ordering/internal/dal/interfaces/ioutboxrepo"
	"github.com/swadseva/ordering/internal/dal/interfaces/irestaurantrepo"
	"github.com/swadseva/ordering/internal/dal/postgres"
	"github.com/swadseva/ordering/internal/dal/uow"
	"go.opentelemetry.io/otel"
)

const (
	DefaultEventsQueue      = "swadseva.order.events"
	DefaultDriverCandidates = 5
	DefaultDeliveryETA      = 45 * time.Minute
	DefaultListLimit        = 50
	MaxListLimit            = 200

	outboxMaxRetries = 5
)

var tracer = otel.Tracer("ordersvc")

// OrderService places orders and moves them through their lifecycle.
type OrderService struct {
	pgClient         *postgres.Client
	newUOWFunc       func() unitOfWork
	now              func() time.Time
	eventsQueue      string
	driverCandidates int
	deliveryETA      time.Duration
}

func (s *OrderService) newUOW() unitOfWork {
	if s.newUOWFunc != nil {
		return s.newUOWFunc()
	}

	return uow.NewUnitOfWork(s.pgClient)
}

type unitOfWork interface {
	Begin(ctx context.Context) error
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error

	RestaurantRepository() irestaurantrepo.IRestaurantRepository
	MenuItemRepository() imenuitemrepo.IMenuItemRepository
	CustomerRepository() icustomerrepo.ICustomerRepository
	OrderRepository() iorderrepo.IOrderRepository
	OrderItemRepository() iorderitemrepo.IOrderItemRepository
	DriverRepository() idriverrepo.IDriverRepository
	DeliveryRepository() ideliveryrepo.IDeliveryRepository
	OutboxRepository() ioutboxrepo.IOutboxRepository
}

// option is a function that configures the OrderService.
type option func(*OrderService)

// MustNewOrderService creates a new OrderService.
func MustNewOrderService(opts ...option) *OrderService {
	s := &OrderService{
		now:              time.Now,
		eventsQueue:      DefaultEventsQueue,
		driverCandidates: DefaultDriverCandidates,
		deliveryETA:      DefaultDeliveryETA,
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.pgClient == nil && s.newUOWFunc == nil {
		panic("ordersvc: postgres client is required")
	}

	return s
}

// WithPostgresClient sets the Postgres client for the OrderService.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithPostgresClient(pgClient *postgres.Client) option {
	return func(s *OrderService) {
		s.pgClient = pgClient
	}
}

// WithUnitOfWorkFactory replaces the Postgres unit of work.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithUnitOfWorkFactory(f func() unitOfWork) option {
	return func(s *OrderService) {
		s.newUOWFunc = f
	}
}

// WithClock sets the time source.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithClock(now func() time.Time) option {
	return func(s *OrderService) {
		s.now = now
	}
}

// WithEventsQueue sets the queue order events are routed to.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithEventsQueue(queue string) option {
	return func(s *OrderService) {
		if queue != "" {
			s.eventsQueue = queue
		}
	}
}

// WithDriverCandidates sets how many available drivers are read per scan of a delivery order.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithDriverCandidates(n int) option {
	return func(s *OrderService) {
		if n > 0 {
			s.driverCandidates = n
		}
	}
}

// WithDeliveryETA sets the estimated delivery time offset.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithDeliveryETA(eta time.Duration) option {
	return func(s *OrderService) {
		if eta > 0 {
			s.deliveryETA = eta
		}
	}
}

package uow

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/swadseva/ordering/internal/dal/interfaces/icustomerrepo"
	"github.com/swadseva/ordering/internal/dal/interfaces/ideliveryrepo"
	"github.com/swadseva/ordering/internal/dal/interfaces/idriverrepo"
	"github.com/swadseva/ordering/internal/dal/interfaces/imenuitemrepo"
	"github.com/swadseva/ordering/internal/dal/interfaces/iorderitemrepo"
	"github.com/swadseva/ordering/internal/dal/interfaces/iorderrepo"
	"github.com/swadseva/ordering/internal/dal/interfaces/ioutboxrepo"
	"github.com/swadseva/ordering/internal/dal/interfaces/irestaurantrepo"
	"github.com/swadseva/ordering/internal/dal/postgres"
	customerrepo "github.com/swadseva/ordering/internal/dal/repositories/customer/postgres"
	deliveryrepo "github.com/swadseva/ordering/internal/dal/repositories/delivery/postgres"
	driverrepo "github.com/swadseva/ordering/internal/dal/repositories/driver/postgres"
	menuitemrepo "github.com/swadseva/ordering/internal/dal/repositories/menuitem/postgres"
	orderrepo "github.com/swadseva/ordering/internal/dal/repositories/order/postgres"
	orderitemrepo "github.com/swadseva/ordering/internal/dal/repositories/orderitem/postgres"
	outboxrepo "github.com/swadseva/ordering/internal/dal/repositories/outbox/postgres"
	restaurantrepo "github.com/swadseva/ordering/internal/dal/repositories/restaurant/postgres"
)

type unitOfWork struct {
	client         *postgres.Client
	tx             pgx.Tx
	restaurantRepo irestaurantrepo.IRestaurantRepository
	menuItemRepo   imenuitemrepo.IMenuItemRepository
	customerRepo   icustomerrepo.ICustomerRepository
	orderRepo      iorderrepo.IOrderRepository
	orderItemRepo  iorderitemrepo.IOrderItemRepository
	driverRepo     idriverrepo.IDriverRepository
	deliveryRepo   ideliveryrepo.IDeliveryRepository
	outboxRepo     ioutboxrepo.IOutboxRepository
}

func (u *unitOfWork) RestaurantRepository() irestaurantrepo.IRestaurantRepository {
	return u.restaurantRepo
}

func (u *unitOfWork) MenuItemRepository() imenuitemrepo.IMenuItemRepository {
	return u.menuItemRepo
}

func (u *unitOfWork) CustomerRepository() icustomerrepo.ICustomerRepository {
	return u.customerRepo
}

func (u *unitOfWork) OrderRepository() iorderrepo.IOrderRepository {
	return u.orderRepo
}

func (u *unitOfWork) OrderItemRepository() iorderitemrepo.IOrderItemRepository {
	return u.orderItemRepo
}

func (u *unitOfWork) DriverRepository() idriverrepo.IDriverRepository {
	return u.driverRepo
}

func (u *unitOfWork) DeliveryRepository() ideliveryrepo.IDeliveryRepository {
	return u.deliveryRepo
}

func (u *unitOfWork) OutboxRepository() ioutboxrepo.IOutboxRepository {
	return u.outboxRepo
}

// NewUnitOfWork creates repositories bound to the pool. Begin rebinds them to a transaction.
func NewUnitOfWork(client *postgres.Client) *unitOfWork {
	u := &unitOfWork{client: client}
	u.bind(client.Pool())

	return u
}

func (u *unitOfWork) bind(conn postgres.GenericConn) {
	u.restaurantRepo = restaurantrepo.NewPostgresRestaurantRepository(conn)
	u.menuItemRepo = menuitemrepo.NewPostgresMenuItemRepository(conn)
	u.customerRepo = customerrepo.NewPostgresCustomerRepository(conn)
	u.orderRepo = orderrepo.NewPostgresOrderRepository(conn)
	u.orderItemRepo = orderitemrepo.NewPostgresOrderItemRepository(conn)
	u.driverRepo = driverrepo.NewPostgresDriverRepository(conn)
	u.deliveryRepo = deliveryrepo.NewPostgresDeliveryRepository(conn)
	u.outboxRepo = outboxrepo.NewOutboxRepository(conn)
}

func (u *unitOfWork) Begin(ctx context.Context) error {
	tx, err := u.client.Pool().Begin(ctx)
	if err != nil {
		return err
	}

	u.tx = tx
	u.bind(tx)

	return nil
}

func (u *unitOfWork) Commit(ctx context.Context) error {
	if u.tx == nil {
		return nil
	}

	return u.tx.Commit(ctx)
}

// Rollback is safe to defer after Commit.
func (u *unitOfWork) Rollback(ctx context.Context) error {
	if u.tx == nil {
		return nil
	}
	if err := u.tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		return err
	}

	return nil
}

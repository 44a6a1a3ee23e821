package iorderrepo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/swadseva/ordering/internal/service/models/order"
)

// IOrderRepository is an interface for order postgres repository.
type IOrderRepository interface {
	Insert(ctx context.Context, o order.Order) (order.Order, error)
	Query(ctx context.Context, filter *order.QueryOrdersModel) ([]order.Order, error)
	// GetForUpdate loads an order and locks its row until the transaction ends.
	GetForUpdate(ctx context.Context, id uuid.UUID) (order.Order, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status order.Status, updatedAt time.Time) error
}

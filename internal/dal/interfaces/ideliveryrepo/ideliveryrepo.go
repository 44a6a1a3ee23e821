package ideliveryrepo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/swadseva/ordering/internal/service/models/delivery"
)

// IDeliveryRepository is an interface for delivery postgres repository.
type IDeliveryRepository interface {
	Insert(ctx context.Context, d delivery.Delivery) (delivery.Delivery, error)
	QueryByOrderIDs(ctx context.Context, orderIDs []uuid.UUID) ([]delivery.Delivery, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string, updatedAt time.Time) error
}

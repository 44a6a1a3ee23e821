package idriverrepo

import (
	"context"

	"github.com/google/uuid"
	"github.com/swadseva/ordering/internal/service/models/driver"
)

// IDriverRepository is an interface for delivery driver postgres repository.
type IDriverRepository interface {
	// ListAvailable returns ids of drivers that were available when read, in store order,
	// leaving out the excluded ones.
	ListAvailable(ctx context.Context, exclude []uuid.UUID, limit int) ([]uuid.UUID, error)
	// Claim marks the driver busy if it is still available and reports whether it did.
	Claim(ctx context.Context, id uuid.UUID) (bool, error)
	// Release marks the driver available again.
	Release(ctx context.Context, id uuid.UUID) error
	Query(ctx context.Context, ids []uuid.UUID) ([]driver.Driver, error)
}

package icustomerrepo

import (
	"context"

	"github.com/google/uuid"
	"github.com/swadseva/ordering/internal/service/models/customer"
)

// ICustomerRepository is an interface for customer postgres repository.
type ICustomerRepository interface {
	// GetOrCreateByPhone returns the customer with the given phone number, inserting c if there is none.
	GetOrCreateByPhone(ctx context.Context, c customer.Customer) (customer.Customer, error)
	Query(ctx context.Context, ids []uuid.UUID) ([]customer.Customer, error)
}

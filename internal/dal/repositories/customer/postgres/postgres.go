package postgresrepo

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/swadseva/ordering/internal/dal/postgres"
	"github.com/swadseva/ordering/internal/service/models/customer"
)

const customerReturning = "RETURNING customer_id, name, phone_number, email, status, created_at"

// CustomerDal represents customer data access layer model.
type CustomerDal struct {
	Id          uuid.UUID `db:"customer_id"`
	Name        string    `db:"name"`
	PhoneNumber string    `db:"phone_number"`
	Email       string    `db:"email"`
	Status      string    `db:"status"`
	CreatedAt   time.Time `db:"created_at"`
}

// ToModel converts CustomerDal to service layer Customer model.
func (c *CustomerDal) ToModel() customer.Customer {
	return customer.Customer{
		ID:          c.Id,
		Name:        c.Name,
		PhoneNumber: c.PhoneNumber,
		Email:       c.Email,
		Status:      c.Status,
		CreatedAt:   c.CreatedAt,
	}
}

// PostgresCustomerRepository represents a Postgres customer repository.
type PostgresCustomerRepository struct {
	conn postgres.GenericConn
	sb   sq.StatementBuilderType
}

// NewPostgresCustomerRepository creates a new Postgres customer repository.
func NewPostgresCustomerRepository(conn postgres.GenericConn) *PostgresCustomerRepository {
	return &PostgresCustomerRepository{
		conn: conn,
		sb:   sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

// GetOrCreateByPhone inserts the customer unless one with the same phone number exists,
// and returns the stored row either way. Name and email of an existing customer are kept.
func (r *PostgresCustomerRepository) GetOrCreateByPhone(
	ctx context.Context,
	c customer.Customer,
) (customer.Customer, error) {
	sql, args, err := r.sb.
		Insert("customers").
		Columns("name", "phone_number", "email", "status", "created_at").
		Values(c.Name, c.PhoneNumber, c.Email, c.Status, c.CreatedAt).
		Suffix("ON CONFLICT (phone_number) DO UPDATE SET phone_number = EXCLUDED.phone_number " + customerReturning).
		ToSql()
	if err != nil {
		return customer.Customer{}, fmt.Errorf("failed to build insert query: %w", err)
	}

	var dal CustomerDal
	err = r.conn.QueryRow(ctx, sql, args...).Scan(
		&dal.Id,
		&dal.Name,
		&dal.PhoneNumber,
		&dal.Email,
		&dal.Status,
		&dal.CreatedAt,
	)
	if err != nil {
		return customer.Customer{}, fmt.Errorf("failed to upsert customer: %w", err)
	}

	return dal.ToModel(), nil
}

// Query retrieves customers by ids.
func (r *PostgresCustomerRepository) Query(ctx context.Context, ids []uuid.UUID) ([]customer.Customer, error) {
	if len(ids) == 0 {
		return []customer.Customer{}, nil
	}

	sql, args, err := r.sb.
		Select("customer_id", "name", "phone_number", "email", "status", "created_at").
		From("customers").
		Where(sq.Eq{"customer_id": ids}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	rows, err := r.conn.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query customers: %w", err)
	}
	defer rows.Close()

	result := []customer.Customer{}
	for rows.Next() {
		var dal CustomerDal
		err := rows.Scan(
			&dal.Id,
			&dal.Name,
			&dal.PhoneNumber,
			&dal.Email,
			&dal.Status,
			&dal.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan customer: %w", err)
		}
		result = append(result, dal.ToModel())
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return result, nil
}

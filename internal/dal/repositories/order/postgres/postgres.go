package postgresrepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/swadseva/ordering/internal/dal/postgres"
	"github.com/swadseva/ordering/internal/service/errs"
	"github.com/swadseva/ordering/internal/service/models/currency"
	"github.com/swadseva/ordering/internal/service/models/order"
	"github.com/swadseva/ordering/internal/service/models/orderitem"
)

var orderColumns = []string{
	"order_id",
	"customer_id",
	"restaurant_id",
	"total_amount",
	"total_currency",
	"order_type",
	"status",
	"notes",
	"created_at",
	"updated_at",
}

// OrderDal represents order data access layer model
type OrderDal struct {
	Id            uuid.UUID      `db:"order_id"`
	CustomerId    uuid.UUID      `db:"customer_id"`
	RestaurantId  uuid.UUID      `db:"restaurant_id"`
	TotalAmount   pgtype.Numeric `db:"total_amount"`
	TotalCurrency string         `db:"total_currency"`
	OrderType     string         `db:"order_type"`
	Status        string         `db:"status"`
	Notes         string         `db:"notes"`
	CreatedAt     time.Time      `db:"created_at"`
	UpdatedAt     time.Time      `db:"updated_at"`
}

// ToModel converts OrderDal to service layer Order model
func (o *OrderDal) ToModel() (*order.Order, error) {
	cur, err := currency.ParseCurrency(o.TotalCurrency)
	if err != nil {
		return nil, err
	}

	return &order.Order{
		ID:            o.Id,
		CustomerID:    o.CustomerId,
		RestaurantID:  o.RestaurantId,
		TotalAmount:   postgres.Decimal(o.TotalAmount),
		TotalCurrency: cur,
		Type:          order.Type(o.OrderType),
		Status:        order.Status(o.Status),
		Notes:         o.Notes,
		CreatedAt:     o.CreatedAt,
		UpdatedAt:     o.UpdatedAt,
		OrderItems:    []orderitem.OrderItem{}, // Will be populated separately
	}, nil
}

func (o *OrderDal) scanTargets() []any {
	return []any{
		&o.Id,
		&o.CustomerId,
		&o.RestaurantId,
		&o.TotalAmount,
		&o.TotalCurrency,
		&o.OrderType,
		&o.Status,
		&o.Notes,
		&o.CreatedAt,
		&o.UpdatedAt,
	}
}

// PostgresOrderRepository represents a Postgres order repository.
type PostgresOrderRepository struct {
	conn postgres.GenericConn
	sb   sq.StatementBuilderType
}

// NewPostgresOrderRepository creates a new Postgres order repository.
func NewPostgresOrderRepository(conn postgres.GenericConn) *PostgresOrderRepository {
	return &PostgresOrderRepository{
		conn: conn,
		sb:   sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

// Insert inserts an order without its items and returns it with the generated id.
func (r *PostgresOrderRepository) Insert(ctx context.Context, o order.Order) (order.Order, error) {
	sql, args, err := r.sb.
		Insert("orders").
		Columns(
			"customer_id",
			"restaurant_id",
			"total_amount",
			"total_currency",
			"order_type",
			"status",
			"notes",
			"created_at",
			"updated_at",
		).
		Values(
			o.CustomerID,
			o.RestaurantID,
			postgres.Numeric(o.TotalAmount),
			o.TotalCurrency.String(),
			string(o.Type),
			string(o.Status),
			o.Notes,
			o.CreatedAt,
			o.UpdatedAt,
		).
		Suffix("RETURNING order_id").
		ToSql()
	if err != nil {
		return order.Order{}, fmt.Errorf("failed to build insert query: %w", err)
	}

	if err := r.conn.QueryRow(ctx, sql, args...).Scan(&o.ID); err != nil {
		return order.Order{}, fmt.Errorf("failed to insert order: %w", err)
	}

	return o, nil
}

// Query retrieves orders based on filter criteria, newest first.
func (r *PostgresOrderRepository) Query(ctx context.Context, filter *order.QueryOrdersModel) ([]order.Order, error) {
	query := r.sb.
		Select(orderColumns...).
		From("orders").
		OrderBy("created_at DESC")

	if len(filter.Ids) > 0 {
		query = query.Where(sq.Eq{"order_id": filter.Ids})
	}

	if len(filter.CustomerIds) > 0 {
		query = query.Where(sq.Eq{"customer_id": filter.CustomerIds})
	}

	if filter.Limit > 0 {
		query = query.Limit(uint64(filter.Limit))
	}

	if filter.Offset > 0 {
		query = query.Offset(uint64(filter.Offset))
	}

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	rows, err := r.conn.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	result := []order.Order{}
	for rows.Next() {
		var dal OrderDal
		if err := rows.Scan(dal.scanTargets()...); err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		model, err := dal.ToModel()
		if err != nil {
			return nil, fmt.Errorf("failed to convert order dal to model: %w", err)
		}
		result = append(result, *model)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return result, nil
}

// GetForUpdate loads a single order and locks its row.
func (r *PostgresOrderRepository) GetForUpdate(ctx context.Context, id uuid.UUID) (order.Order, error) {
	sql, args, err := r.sb.
		Select(orderColumns...).
		From("orders").
		Where(sq.Expr("order_id = ?", id)).
		Suffix("FOR UPDATE").
		ToSql()
	if err != nil {
		return order.Order{}, fmt.Errorf("failed to build query: %w", err)
	}

	var dal OrderDal
	if err := r.conn.QueryRow(ctx, sql, args...).Scan(dal.scanTargets()...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return order.Order{}, errs.NotFound("order", id)
		}

		return order.Order{}, fmt.Errorf("failed to get order: %w", err)
	}

	model, err := dal.ToModel()
	if err != nil {
		return order.Order{}, fmt.Errorf("failed to convert order dal to model: %w", err)
	}

	return *model, nil
}

// UpdateStatus sets the status and updated timestamp of an order.
func (r *PostgresOrderRepository) UpdateStatus(
	ctx context.Context,
	id uuid.UUID,
	status order.Status,
	updatedAt time.Time,
) error {
	sql, args, err := r.sb.
		Update("orders").
		Set("status", string(status)).
		Set("updated_at", updatedAt).
		Where(sq.Expr("order_id = ?", id)).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update query: %w", err)
	}

	tag, err := r.conn.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("failed to update order status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return errs.NotFound("order", id)
	}

	return nil
}

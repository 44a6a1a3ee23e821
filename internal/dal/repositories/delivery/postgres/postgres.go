package postgresrepo

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/swadseva/ordering/internal/dal/postgres"
	"github.com/swadseva/ordering/internal/service/errs"
	"github.com/swadseva/ordering/internal/service/models/delivery"
)

// DeliveryDal represents delivery data access layer model.
type DeliveryDal struct {
	Id                    uuid.UUID      `db:"delivery_id"`
	OrderId               uuid.UUID      `db:"order_id"`
	DriverId              uuid.UUID      `db:"driver_id"`
	Status                string         `db:"delivery_status"`
	Address               string         `db:"delivery_address"`
	Fee                   pgtype.Numeric `db:"delivery_fee"`
	EstimatedDeliveryTime time.Time      `db:"estimated_delivery_time"`
	CreatedAt             time.Time      `db:"created_at"`
	UpdatedAt             time.Time      `db:"updated_at"`
}

// ToModel converts DeliveryDal to service layer Delivery model.
func (d *DeliveryDal) ToModel() delivery.Delivery {
	return delivery.Delivery{
		ID:                    d.Id,
		OrderID:               d.OrderId,
		DriverID:              d.DriverId,
		Status:                d.Status,
		Address:               d.Address,
		Fee:                   postgres.Decimal(d.Fee),
		EstimatedDeliveryTime: d.EstimatedDeliveryTime,
		CreatedAt:             d.CreatedAt,
		UpdatedAt:             d.UpdatedAt,
	}
}

// PostgresDeliveryRepository represents a Postgres delivery repository.
type PostgresDeliveryRepository struct {
	conn postgres.GenericConn
	sb   sq.StatementBuilderType
}

// NewPostgresDeliveryRepository creates a new Postgres delivery repository.
func NewPostgresDeliveryRepository(conn postgres.GenericConn) *PostgresDeliveryRepository {
	return &PostgresDeliveryRepository{
		conn: conn,
		sb:   sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

// Insert inserts a delivery and returns it with the generated id.
func (r *PostgresDeliveryRepository) Insert(ctx context.Context, d delivery.Delivery) (delivery.Delivery, error) {
	sql, args, err := r.sb.
		Insert("deliveries").
		Columns(
			"order_id",
			"driver_id",
			"delivery_status",
			"delivery_address",
			"delivery_fee",
			"estimated_delivery_time",
			"created_at",
			"updated_at",
		).
		Values(
			d.OrderID,
			d.DriverID,
			d.Status,
			d.Address,
			postgres.Numeric(d.Fee),
			d.EstimatedDeliveryTime,
			d.CreatedAt,
			d.UpdatedAt,
		).
		Suffix("RETURNING delivery_id").
		ToSql()
	if err != nil {
		return delivery.Delivery{}, fmt.Errorf("failed to build insert query: %w", err)
	}

	if err := r.conn.QueryRow(ctx, sql, args...).Scan(&d.ID); err != nil {
		return delivery.Delivery{}, fmt.Errorf("failed to insert delivery: %w", err)
	}

	return d, nil
}

// QueryByOrderIDs retrieves deliveries of the given orders, oldest first.
func (r *PostgresDeliveryRepository) QueryByOrderIDs(
	ctx context.Context,
	orderIDs []uuid.UUID,
) ([]delivery.Delivery, error) {
	if len(orderIDs) == 0 {
		return []delivery.Delivery{}, nil
	}

	sql, args, err := r.sb.
		Select(
			"delivery_id",
			"order_id",
			"driver_id",
			"delivery_status",
			"delivery_address",
			"delivery_fee",
			"estimated_delivery_time",
			"created_at",
			"updated_at",
		).
		From("deliveries").
		Where(sq.Eq{"order_id": orderIDs}).
		OrderBy("created_at ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	rows, err := r.conn.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query deliveries: %w", err)
	}
	defer rows.Close()

	result := []delivery.Delivery{}
	for rows.Next() {
		var dal DeliveryDal
		err := rows.Scan(
			&dal.Id,
			&dal.OrderId,
			&dal.DriverId,
			&dal.Status,
			&dal.Address,
			&dal.Fee,
			&dal.EstimatedDeliveryTime,
			&dal.CreatedAt,
			&dal.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan delivery: %w", err)
		}
		result = append(result, dal.ToModel())
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return result, nil
}

// UpdateStatus sets the status of a delivery.
func (r *PostgresDeliveryRepository) UpdateStatus(
	ctx context.Context,
	id uuid.UUID,
	status string,
	updatedAt time.Time,
) error {
	sql, args, err := r.sb.
		Update("deliveries").
		Set("delivery_status", status).
		Set("updated_at", updatedAt).
		Where(sq.Expr("delivery_id = ?", id)).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update query: %w", err)
	}

	tag, err := r.conn.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("failed to update delivery status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return errs.NotFound("delivery", id)
	}

	return nil
}

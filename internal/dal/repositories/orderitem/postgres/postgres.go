package postgresrepo

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/swadseva/ordering/internal/dal/postgres"
	"github.com/swadseva/ordering/internal/service/models/orderitem"
)

var orderItemColumns = []string{
	"order_item_id",
	"order_id",
	"item_id",
	"item_name",
	"quantity",
	"price_at_order_time",
	"special_instructions",
	"created_at",
}

// OrderItemDal represents order item data access layer model.
type OrderItemDal struct {
	Id                  uuid.UUID      `db:"order_item_id"`
	OrderId             uuid.UUID      `db:"order_id"`
	ItemId              uuid.UUID      `db:"item_id"`
	ItemName            string         `db:"item_name"`
	Quantity            int            `db:"quantity"`
	PriceAtOrderTime    pgtype.Numeric `db:"price_at_order_time"`
	SpecialInstructions string         `db:"special_instructions"`
	CreatedAt           time.Time      `db:"created_at"`
}

// ToModel converts OrderItemDal to service layer OrderItem model.
func (oi *OrderItemDal) ToModel() orderitem.OrderItem {
	return orderitem.OrderItem{
		ID:                  oi.Id,
		OrderID:             oi.OrderId,
		MenuItemID:          oi.ItemId,
		MenuItemName:        oi.ItemName,
		Quantity:            oi.Quantity,
		PriceAtOrderTime:    postgres.Decimal(oi.PriceAtOrderTime),
		SpecialInstructions: oi.SpecialInstructions,
		CreatedAt:           oi.CreatedAt,
	}
}

func (oi *OrderItemDal) scanTargets() []any {
	return []any{
		&oi.Id,
		&oi.OrderId,
		&oi.ItemId,
		&oi.ItemName,
		&oi.Quantity,
		&oi.PriceAtOrderTime,
		&oi.SpecialInstructions,
		&oi.CreatedAt,
	}
}

// PostgresOrderItemRepository represents a Postgres order item repository.
type PostgresOrderItemRepository struct {
	conn postgres.GenericConn
	sb   sq.StatementBuilderType
}

// NewPostgresOrderItemRepository creates a new Postgres order item repository.
func NewPostgresOrderItemRepository(conn postgres.GenericConn) *PostgresOrderItemRepository {
	return &PostgresOrderItemRepository{
		conn: conn,
		sb:   sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

// BulkInsert inserts multiple order items in one statement and returns them with ids,
// in the order they were given.
func (r *PostgresOrderItemRepository) BulkInsert(
	ctx context.Context,
	orderItems []orderitem.OrderItem,
) ([]orderitem.OrderItem, error) {
	if len(orderItems) == 0 {
		return []orderitem.OrderItem{}, nil
	}

	query := r.sb.
		Insert("order_items").
		Columns(orderItemColumns[1:]...)
	for _, oi := range orderItems {
		query = query.Values(
			oi.OrderID,
			oi.MenuItemID,
			oi.MenuItemName,
			oi.Quantity,
			postgres.Numeric(oi.PriceAtOrderTime),
			oi.SpecialInstructions,
			oi.CreatedAt,
		)
	}

	sql, args, err := query.Suffix("RETURNING order_item_id").ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build insert query: %w", err)
	}

	rows, err := r.conn.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to bulk insert order items: %w", err)
	}
	defer rows.Close()

	result := make([]orderitem.OrderItem, 0, len(orderItems))
	for rows.Next() {
		item := orderItems[len(result)]
		if err := rows.Scan(&item.ID); err != nil {
			return nil, fmt.Errorf("failed to scan order item: %w", err)
		}
		result = append(result, item)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return result, nil
}

// Query retrieves order items based on filter criteria.
func (r *PostgresOrderItemRepository) Query(
	ctx context.Context,
	filter *orderitem.QueryOrderItemsModel,
) ([]orderitem.OrderItem, error) {
	query := r.sb.
		Select(orderItemColumns...).
		From("order_items").
		OrderBy("created_at ASC", "order_item_id ASC")

	if len(filter.Ids) > 0 {
		query = query.Where(sq.Eq{"order_item_id": filter.Ids})
	}

	if len(filter.OrderIds) > 0 {
		query = query.Where(sq.Eq{"order_id": filter.OrderIds})
	}

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	rows, err := r.conn.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query order items: %w", err)
	}
	defer rows.Close()

	result := []orderitem.OrderItem{}
	for rows.Next() {
		var dal OrderItemDal
		if err := rows.Scan(dal.scanTargets()...); err != nil {
			return nil, fmt.Errorf("failed to scan order item: %w", err)
		}
		result = append(result, dal.ToModel())
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return result, nil
}

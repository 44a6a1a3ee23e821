package postgresrepo

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/swadseva/ordering/internal/dal/postgres"
	"github.com/swadseva/ordering/internal/service/models/menuitem"
)

// MenuItemDal represents menu item data access layer model.
type MenuItemDal struct {
	Id           uuid.UUID      `db:"item_id"`
	RestaurantId uuid.UUID      `db:"restaurant_id"`
	Name         string         `db:"name"`
	Description  string         `db:"description"`
	Price        pgtype.Numeric `db:"price"`
	Category     string         `db:"category"`
	ImageUrl     string         `db:"image_url"`
	IsAvailable  bool           `db:"is_available"`
}

// ToModel converts MenuItemDal to service layer MenuItem model.
func (m *MenuItemDal) ToModel() menuitem.MenuItem {
	return menuitem.MenuItem{
		ID:           m.Id,
		RestaurantID: m.RestaurantId,
		Name:         m.Name,
		Description:  m.Description,
		Price:        postgres.Decimal(m.Price),
		Category:     m.Category,
		ImageURL:     m.ImageUrl,
		IsAvailable:  m.IsAvailable,
	}
}

// PostgresMenuItemRepository represents a Postgres menu item repository.
type PostgresMenuItemRepository struct {
	conn postgres.GenericConn
	sb   sq.StatementBuilderType
}

// NewPostgresMenuItemRepository creates a new Postgres menu item repository.
func NewPostgresMenuItemRepository(conn postgres.GenericConn) *PostgresMenuItemRepository {
	return &PostgresMenuItemRepository{
		conn: conn,
		sb:   sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

// Query retrieves menu items based on filter criteria, grouped by category.
func (r *PostgresMenuItemRepository) Query(
	ctx context.Context,
	filter *menuitem.QueryMenuItemsModel,
) ([]menuitem.MenuItem, error) {
	query := r.sb.
		Select(
			"item_id",
			"restaurant_id",
			"name",
			"description",
			"price",
			"category",
			"image_url",
			"is_available",
		).
		From("menu_items").
		OrderBy("category ASC", "name ASC")

	if len(filter.Ids) > 0 {
		query = query.Where(sq.Eq{"item_id": filter.Ids})
	}

	if len(filter.RestaurantIds) > 0 {
		query = query.Where(sq.Eq{"restaurant_id": filter.RestaurantIds})
	}

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	rows, err := r.conn.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query menu items: %w", err)
	}
	defer rows.Close()

	result := []menuitem.MenuItem{}
	for rows.Next() {
		var dal MenuItemDal
		err := rows.Scan(
			&dal.Id,
			&dal.RestaurantId,
			&dal.Name,
			&dal.Description,
			&dal.Price,
			&dal.Category,
			&dal.ImageUrl,
			&dal.IsAvailable,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan menu item: %w", err)
		}
		result = append(result, dal.ToModel())
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return result, nil
}

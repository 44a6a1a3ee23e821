package postgresrepo

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/swadseva/ordering/internal/dal/postgres"
	"github.com/swadseva/ordering/internal/service/models/restaurant"
)

var restaurantColumns = []string{
	"restaurant_id",
	"name",
	"address",
	"cuisine_type",
	"operating_hours",
	"status",
	"rating",
	"image_url",
	"is_canteen",
	"created_at",
}

// RestaurantDal represents restaurant data access layer model.
type RestaurantDal struct {
	Id             uuid.UUID      `db:"restaurant_id"`
	Name           string         `db:"name"`
	Address        string         `db:"address"`
	CuisineType    string         `db:"cuisine_type"`
	OperatingHours string         `db:"operating_hours"`
	Status         string         `db:"status"`
	Rating         pgtype.Numeric `db:"rating"`
	ImageUrl       string         `db:"image_url"`
	IsCanteen      bool           `db:"is_canteen"`
	CreatedAt      time.Time      `db:"created_at"`
}

// ToModel converts RestaurantDal to service layer Restaurant model.
func (r *RestaurantDal) ToModel() restaurant.Restaurant {
	return restaurant.Restaurant{
		ID:             r.Id,
		Name:           r.Name,
		Address:        r.Address,
		CuisineType:    r.CuisineType,
		OperatingHours: r.OperatingHours,
		Status:         restaurant.Status(r.Status),
		Rating:         postgres.Decimal(r.Rating),
		ImageURL:       r.ImageUrl,
		IsCanteen:      r.IsCanteen,
		CreatedAt:      r.CreatedAt,
	}
}

// PostgresRestaurantRepository represents a Postgres restaurant repository.
type PostgresRestaurantRepository struct {
	conn postgres.GenericConn
	sb   sq.StatementBuilderType
}

// NewPostgresRestaurantRepository creates a new Postgres restaurant repository.
func NewPostgresRestaurantRepository(conn postgres.GenericConn) *PostgresRestaurantRepository {
	return &PostgresRestaurantRepository{
		conn: conn,
		sb:   sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

// Query retrieves restaurants based on filter criteria, best rated first.
func (r *PostgresRestaurantRepository) Query(
	ctx context.Context,
	filter *restaurant.QueryRestaurantsModel,
) ([]restaurant.Restaurant, error) {
	query := r.sb.
		Select(restaurantColumns...).
		From("restaurants").
		OrderBy("rating DESC", "name ASC")

	if len(filter.Ids) > 0 {
		query = query.Where(sq.Eq{"restaurant_id": filter.Ids})
	}

	if filter.IsCanteen != nil {
		query = query.Where(sq.Eq{"is_canteen": *filter.IsCanteen})
	}

	if filter.Status != "" {
		query = query.Where(sq.Eq{"status": string(filter.Status)})
	}

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	rows, err := r.conn.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query restaurants: %w", err)
	}
	defer rows.Close()

	result := []restaurant.Restaurant{}
	for rows.Next() {
		var dal RestaurantDal
		err := rows.Scan(
			&dal.Id,
			&dal.Name,
			&dal.Address,
			&dal.CuisineType,
			&dal.OperatingHours,
			&dal.Status,
			&dal.Rating,
			&dal.ImageUrl,
			&dal.IsCanteen,
			&dal.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan restaurant: %w", err)
		}
		result = append(result, dal.ToModel())
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return result, nil
}

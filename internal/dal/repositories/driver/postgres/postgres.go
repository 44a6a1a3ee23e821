package postgresrepo

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/swadseva/ordering/internal/dal/postgres"
	"github.com/swadseva/ordering/internal/service/models/driver"
)

// DriverDal represents delivery driver data access layer model.
type DriverDal struct {
	Id            uuid.UUID `db:"driver_id"`
	Name          string    `db:"name"`
	PhoneNumber   string    `db:"phone_number"`
	VehicleType   string    `db:"vehicle_type"`
	VehicleNumber string    `db:"vehicle_number"`
	LicenseNumber string    `db:"license_number"`
	Availability  string    `db:"availability_status"`
	Lat           *float64  `db:"current_location_lat"`
	Lng           *float64  `db:"current_location_lng"`
}

// ToModel converts DriverDal to service layer Driver model.
func (d *DriverDal) ToModel() driver.Driver {
	return driver.Driver{
		ID:            d.Id,
		Name:          d.Name,
		PhoneNumber:   d.PhoneNumber,
		VehicleType:   d.VehicleType,
		VehicleNumber: d.VehicleNumber,
		LicenseNumber: d.LicenseNumber,
		Availability:  driver.Availability(d.Availability),
		Lat:           d.Lat,
		Lng:           d.Lng,
	}
}

// PostgresDriverRepository represents a Postgres delivery driver repository.
type PostgresDriverRepository struct {
	conn postgres.GenericConn
	sb   sq.StatementBuilderType
}

// NewPostgresDriverRepository creates a new Postgres delivery driver repository.
func NewPostgresDriverRepository(conn postgres.GenericConn) *PostgresDriverRepository {
	return &PostgresDriverRepository{
		conn: conn,
		sb:   sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

// ListAvailable returns ids of available drivers in insertion order, skipping the excluded ones.
// Rows claimed by transactions that have not committed yet are still listed.
func (r *PostgresDriverRepository) ListAvailable(
	ctx context.Context,
	exclude []uuid.UUID,
	limit int,
) ([]uuid.UUID, error) {
	query := r.sb.
		Select("driver_id").
		From("delivery_drivers").
		Where(sq.Eq{"availability_status": string(driver.AvailabilityAvailable)}).
		OrderBy("created_at ASC", "driver_id ASC")

	if len(exclude) > 0 {
		query = query.Where(sq.NotEq{"driver_id": exclude})
	}

	if limit > 0 {
		query = query.Limit(uint64(limit))
	}

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	rows, err := r.conn.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query available drivers: %w", err)
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan driver id: %w", err)
		}
		ids = append(ids, id)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return ids, nil
}

// Claim flips the driver to busy only if it is still available.
// A concurrent claim on the same row waits for the row lock and then sees the driver busy.
func (r *PostgresDriverRepository) Claim(ctx context.Context, id uuid.UUID) (bool, error) {
	sql, args, err := r.sb.
		Update("delivery_drivers").
		Set("availability_status", string(driver.AvailabilityBusy)).
		Where(sq.Expr("driver_id = ?", id)).
		Where(sq.Eq{"availability_status": string(driver.AvailabilityAvailable)}).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("failed to build update query: %w", err)
	}

	tag, err := r.conn.Exec(ctx, sql, args...)
	if err != nil {
		return false, fmt.Errorf("failed to claim driver: %w", err)
	}

	return tag.RowsAffected() == 1, nil
}

// Release marks the driver available.
func (r *PostgresDriverRepository) Release(ctx context.Context, id uuid.UUID) error {
	sql, args, err := r.sb.
		Update("delivery_drivers").
		Set("availability_status", string(driver.AvailabilityAvailable)).
		Where(sq.Expr("driver_id = ?", id)).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update query: %w", err)
	}

	if _, err := r.conn.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("failed to release driver: %w", err)
	}

	return nil
}

// Query retrieves drivers by ids.
func (r *PostgresDriverRepository) Query(ctx context.Context, ids []uuid.UUID) ([]driver.Driver, error) {
	if len(ids) == 0 {
		return []driver.Driver{}, nil
	}

	sql, args, err := r.sb.
		Select(
			"driver_id",
			"name",
			"phone_number",
			"vehicle_type",
			"vehicle_number",
			"license_number",
			"availability_status",
			"current_location_lat",
			"current_location_lng",
		).
		From("delivery_drivers").
		Where(sq.Eq{"driver_id": ids}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	rows, err := r.conn.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query drivers: %w", err)
	}
	defer rows.Close()

	result := []driver.Driver{}
	for rows.Next() {
		var dal DriverDal
		err := rows.Scan(
			&dal.Id,
			&dal.Name,
			&dal.PhoneNumber,
			&dal.VehicleType,
			&dal.VehicleNumber,
			&dal.LicenseNumber,
			&dal.Availability,
			&dal.Lat,
			&dal.Lng,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan driver: %w", err)
		}
		result = append(result, dal.ToModel())
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return result, nil
}

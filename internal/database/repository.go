package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/ZanzyTHEbar/delivery-eta/internal/dataset"
	"github.com/ZanzyTHEbar/delivery-eta/internal/types"
)

// Repository handles dataset store operations
type Repository struct {
	db *DB
}

// NewRepository creates a new repository
func NewRepository(db *DB) *Repository {
	return &Repository{db: db}
}

const upsertDelivery = `
	INSERT INTO deliveries (
		order_id, distance_km, weather, traffic_level, time_of_day, vehicle_type,
		preparation_time_min, courier_experience_yrs, courier_experience_category,
		delivery_time_min
	) VALUES (
		:order_id, :distance_km, :weather, :traffic_level, :time_of_day, :vehicle_type,
		:preparation_time_min, :courier_experience_yrs, :courier_experience_category,
		:delivery_time_min
	)
	ON CONFLICT (order_id) DO UPDATE SET
		distance_km = excluded.distance_km,
		weather = excluded.weather,
		traffic_level = excluded.traffic_level,
		time_of_day = excluded.time_of_day,
		vehicle_type = excluded.vehicle_type,
		preparation_time_min = excluded.preparation_time_min,
		courier_experience_yrs = excluded.courier_experience_yrs,
		courier_experience_category = excluded.courier_experience_category,
		delivery_time_min = excluded.delivery_time_min`

// ImportDeliveries upserts deliveries by order id and records batch, all in
// one transaction
func (r *Repository) ImportDeliveries(ctx context.Context, deliveries []types.Delivery, batch *ImportBatch) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin import: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareNamedContext(ctx, upsertDelivery)
	if err != nil {
		return fmt.Errorf("failed to prepare upsert: %w", err)
	}
	defer stmt.Close()

	for _, d := range deliveries {
		if _, err := stmt.ExecContext(ctx, d); err != nil {
			return fmt.Errorf("failed to upsert order %d: %w", d.OrderID, err)
		}
	}

	_, err = tx.NamedExecContext(ctx, `
		INSERT INTO import_batches (id, source, rows_read, rows_skipped, rows_imported, imported_at)
		VALUES (:id, :source, :rows_read, :rows_skipped, :rows_imported, :imported_at)
	`, batch)
	if err != nil {
		return fmt.Errorf("failed to record import batch: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit import: %w", err)
	}
	return nil
}

func scopeClause(scope types.Scope) (string, []interface{}) {
	var (
		conditions []string
		args       []interface{}
	)
	add := func(column, value string) {
		if value == "" || value == dataset.ScopeAll {
			return
		}
		conditions = append(conditions, column+" = ?")
		args = append(args, value)
	}
	add("time_of_day", scope.TimeOfDay)
	add("traffic_level", scope.TrafficLevel)
	add("weather", scope.Weather)

	if len(conditions) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conditions, " AND "), args
}

// ListDeliveries returns the deliveries inside scope ordered by order id
func (r *Repository) ListDeliveries(ctx context.Context, scope types.Scope) ([]types.Delivery, error) {
	where, args := scopeClause(scope)
	query := r.db.Rebind(`
		SELECT order_id, distance_km, weather, traffic_level, time_of_day, vehicle_type,
			preparation_time_min, courier_experience_yrs, courier_experience_category,
			delivery_time_min
		FROM deliveries` + where + `
		ORDER BY order_id`)

	deliveries := []types.Delivery{}
	if err := r.db.SelectContext(ctx, &deliveries, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list deliveries: %w", err)
	}
	return deliveries, nil
}

// CountDeliveries counts the deliveries inside scope
func (r *Repository) CountDeliveries(ctx context.Context, scope types.Scope) (int, error) {
	where, args := scopeClause(scope)

	var count int
	if err := r.db.GetContext(ctx, &count, r.db.Rebind(`SELECT COUNT(*) FROM deliveries`+where), args...); err != nil {
		return 0, fmt.Errorf("failed to count deliveries: %w", err)
	}
	return count, nil
}

// LatestImport returns the most recent import batch, or nil when nothing has
// been imported yet
func (r *Repository) LatestImport(ctx context.Context) (*ImportBatch, error) {
	var batch ImportBatch
	err := r.db.GetContext(ctx, &batch, `
		SELECT id, source, rows_read, rows_skipped, rows_imported, imported_at
		FROM import_batches
		ORDER BY imported_at DESC
		LIMIT 1`)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get latest import: %w", err)
	}
	return &batch, nil
}

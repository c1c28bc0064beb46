// README: Trip store backed by PostgreSQL.
package trip

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Store struct {
	db *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

const tripColumns = `id, driver_id, vehicle_id, meter_id, start_time, end_time,
	start_lat, start_lng, end_lat, end_lng, distance_km, duration_min,
	base_fare, distance_fare, time_fare, surcharges, total_fare,
	payment_method, payment_status, payment_ref, passenger_phone,
	data_source, sync_status, synced_at, created_at, updated_at`

func (s *Store) Create(ctx context.Context, t *Trip) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO trips (
			id, driver_id, vehicle_id, meter_id, start_time,
			start_lat, start_lng, distance_km, duration_min,
			base_fare, distance_fare, time_fare, surcharges, total_fare,
			payment_method, payment_status, data_source, sync_status,
			created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5,
			$6, $7, $8, $9,
			$10, $11, $12, $13, $14,
			$15, $16, $17, $18,
			$19, $20
		)`,
		t.ID, t.DriverID, t.VehicleID, t.MeterID, t.StartTime,
		t.StartLat, t.StartLng, t.DistanceKm, t.DurationMin,
		t.BaseFare, t.DistanceFare, t.TimeFare, t.Surcharges, t.TotalFare,
		string(t.PaymentMethod), string(t.PaymentStatus), t.DataSource, string(t.SyncStatus),
		t.CreatedAt, t.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert trip: %w", err)
	}
	return nil
}

func (s *Store) Get(ctx context.Context, id string) (*Trip, error) {
	row := s.db.QueryRow(ctx, `SELECT `+tripColumns+` FROM trips WHERE id = $1`, id)
	t, err := scanTrip(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get trip: %w", err)
	}
	return t, nil
}

// UpdateEnd overwrites all end-of-trip fields on an existing record.
func (s *Store) UpdateEnd(ctx context.Context, t *Trip) error {
	tag, err := s.db.Exec(ctx, `
		UPDATE trips
		SET end_time = $2, end_lat = $3, end_lng = $4,
		    distance_km = $5, duration_min = $6,
		    base_fare = $7, distance_fare = $8, time_fare = $9,
		    surcharges = $10, total_fare = $11,
		    payment_method = $12, payment_status = $13, payment_ref = $14,
		    passenger_phone = $15, sync_status = $16, updated_at = $17
		WHERE id = $1`,
		t.ID, t.EndTime, t.EndLat, t.EndLng,
		t.DistanceKm, t.DurationMin,
		t.BaseFare, t.DistanceFare, t.TimeFare,
		t.Surcharges, t.TotalFare,
		string(t.PaymentMethod), string(t.PaymentStatus), t.PaymentRef,
		t.PassengerPhone, string(t.SyncStatus), t.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update trip: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// List returns one page of trips ordered by start time descending,
// plus the unpaginated total for the same filters.
func (s *Store) List(ctx context.Context, q ListQuery) ([]Trip, int64, error) {
	var conds []string
	var args []any
	add := func(cond string, v any) {
		args = append(args, v)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}

	if q.DriverID != "" {
		add("driver_id = $%d", q.DriverID)
	}
	if q.VehicleID != "" {
		add("vehicle_id = $%d", q.VehicleID)
	}
	if q.StartDate != nil {
		add("start_time >= $%d", *q.StartDate)
	}
	if q.EndDate != nil {
		add("start_time <= $%d", *q.EndDate)
	}
	if q.PaymentStatus != "" {
		add("payment_status = $%d", string(q.PaymentStatus))
	}
	if q.SyncStatus != "" {
		add("sync_status = $%d", string(q.SyncStatus))
	}

	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}

	var total int64
	if err := s.db.QueryRow(ctx, `SELECT COUNT(*) FROM trips`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count trips: %w", err)
	}

	args = append(args, q.Limit, (q.Page-1)*q.Limit)
	rows, err := s.db.Query(ctx,
		fmt.Sprintf(`SELECT %s FROM trips%s ORDER BY start_time DESC LIMIT $%d OFFSET $%d`,
			tripColumns, where, len(args)-1, len(args)),
		args...)
	if err != nil {
		return nil, 0, fmt.Errorf("query trips: %w", err)
	}
	defer rows.Close()

	items := make([]Trip, 0, q.Limit)
	for rows.Next() {
		t, err := scanTrip(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan trip: %w", err)
		}
		items = append(items, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("rows: %w", err)
	}
	return items, total, nil
}

func (s *Store) Exists(ctx context.Context, id string) (bool, error) {
	var exists bool
	err := s.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM trips WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("trip exists: %w", err)
	}
	return exists, nil
}

func scanTrip(row pgx.Row) (*Trip, error) {
	var t Trip
	err := row.Scan(
		&t.ID, &t.DriverID, &t.VehicleID, &t.MeterID, &t.StartTime, &t.EndTime,
		&t.StartLat, &t.StartLng, &t.EndLat, &t.EndLng, &t.DistanceKm, &t.DurationMin,
		&t.BaseFare, &t.DistanceFare, &t.TimeFare, &t.Surcharges, &t.TotalFare,
		&t.PaymentMethod, &t.PaymentStatus, &t.PaymentRef, &t.PassengerPhone,
		&t.DataSource, &t.SyncStatus, &t.SyncedAt, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

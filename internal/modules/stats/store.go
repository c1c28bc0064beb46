// README: Statistics store; sum/group queries over the trips table.
package stats

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Store struct {
	db *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

func (s *Store) Overall(ctx context.Context) (*Summary, error) {
	return s.summary(ctx, `SELECT COUNT(*), COALESCE(SUM(total_fare), 0) FROM trips`)
}

func (s *Store) ByDriver(ctx context.Context, driverID string) (*Summary, error) {
	return s.summary(ctx,
		`SELECT COUNT(*), COALESCE(SUM(total_fare), 0) FROM trips WHERE driver_id = $1`,
		driverID)
}

func (s *Store) ByVehicle(ctx context.Context, vehicleID string) (*Summary, error) {
	return s.summary(ctx,
		`SELECT COUNT(*), COALESCE(SUM(total_fare), 0) FROM trips WHERE vehicle_id = $1`,
		vehicleID)
}

func (s *Store) summary(ctx context.Context, query string, args ...any) (*Summary, error) {
	var sum Summary
	if err := s.db.QueryRow(ctx, query, args...).Scan(&sum.TotalTrips, &sum.TotalRevenue); err != nil {
		return nil, fmt.Errorf("trip summary: %w", err)
	}
	return &sum, nil
}

// Daily groups trips by the UTC calendar date of their start time over
// the inclusive [start, end] date range, oldest day first. Days with no
// trips produce no row.
func (s *Store) Daily(ctx context.Context, start, end time.Time) ([]DailyStat, error) {
	rows, err := s.db.Query(ctx, `
		SELECT (start_time AT TIME ZONE 'UTC')::date AS day,
		       COUNT(*),
		       COALESCE(SUM(total_fare), 0)
		FROM trips
		WHERE (start_time AT TIME ZONE 'UTC')::date BETWEEN $1::date AND $2::date
		GROUP BY day
		ORDER BY day ASC`,
		start.UTC().Format("2006-01-02"), end.UTC().Format("2006-01-02"))
	if err != nil {
		return nil, fmt.Errorf("query daily stats: %w", err)
	}
	defer rows.Close()

	out := make([]DailyStat, 0)
	for rows.Next() {
		var day time.Time
		var st DailyStat
		if err := rows.Scan(&day, &st.TripCount, &st.TotalRevenue); err != nil {
			return nil, fmt.Errorf("scan daily stat: %w", err)
		}
		st.Date = day.Format("2006-01-02")
		out = append(out, st)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return out, nil
}

// README: GPS log store backed by PostgreSQL; batch appends use one pgx batch.
package gps

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Store struct {
	db *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

const insertLogSQL = `
	INSERT INTO gps_tracking_logs (
		id, trip_id, latitude, longitude, speed, heading, accuracy,
		recorded_at, created_at
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

func (s *Store) Append(ctx context.Context, l *Log) error {
	_, err := s.db.Exec(ctx, insertLogSQL,
		l.ID, l.TripID, l.Latitude, l.Longitude, l.Speed, l.Heading, l.Accuracy,
		l.RecordedAt, l.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert gps log: %w", err)
	}
	return nil
}

// AppendBatch sends all inserts in a single round trip.
func (s *Store) AppendBatch(ctx context.Context, logs []Log) error {
	b := &pgx.Batch{}
	for _, l := range logs {
		b.Queue(insertLogSQL,
			l.ID, l.TripID, l.Latitude, l.Longitude, l.Speed, l.Heading, l.Accuracy,
			l.RecordedAt, l.CreatedAt,
		)
	}
	br := s.db.SendBatch(ctx, b)
	defer br.Close()
	for range logs {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("insert gps log batch: %w", err)
		}
	}
	return nil
}

// ListByTrip returns all logs for the trip, oldest first. An unknown
// trip yields an empty slice, not an error.
func (s *Store) ListByTrip(ctx context.Context, tripID string) ([]Log, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, trip_id, latitude, longitude, speed, heading, accuracy,
		       recorded_at, created_at
		FROM gps_tracking_logs
		WHERE trip_id = $1
		ORDER BY recorded_at ASC`, tripID)
	if err != nil {
		return nil, fmt.Errorf("query gps logs: %w", err)
	}
	defer rows.Close()

	logs := make([]Log, 0)
	for rows.Next() {
		var l Log
		if err := rows.Scan(
			&l.ID, &l.TripID, &l.Latitude, &l.Longitude, &l.Speed, &l.Heading, &l.Accuracy,
			&l.RecordedAt, &l.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan gps log: %w", err)
		}
		logs = append(logs, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return logs, nil
}

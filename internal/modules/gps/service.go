// README: GPS ingestion service; validates trip ownership before appending.
package gps

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"

	"fleettrack/internal/cache"
	"fleettrack/internal/events"
)

var (
	ErrBadRequest   = errors.New("bad request")
	ErrTripNotFound = errors.New("trip not found")
)

// Trips answers existence checks for trip ids; satisfied by the trip
// service.
type Trips interface {
	Exists(ctx context.Context, id string) (bool, error)
}

type Publisher interface {
	Publish(ctx context.Context, routingKey string, payload any) error
}

type Service struct {
	store *Store
	trips Trips
	cache *cache.Cache
	pub   Publisher
}

func NewService(store *Store, trips Trips, c *cache.Cache, pub Publisher) *Service {
	return &Service{store: store, trips: trips, cache: c, pub: pub}
}

type AddCommand struct {
	TripID     string
	Latitude   float64
	Longitude  float64
	Speed      *float64
	Heading    *float64
	Accuracy   *float64
	RecordedAt time.Time
}

func (c AddCommand) validate() error {
	if c.TripID == "" {
		return ErrBadRequest
	}
	if c.Latitude < -90 || c.Latitude > 90 || c.Longitude < -180 || c.Longitude > 180 {
		return ErrBadRequest
	}
	return nil
}

// Add appends one sample. The referenced trip must exist.
func (s *Service) Add(ctx context.Context, cmd AddCommand) (*Log, error) {
	if err := cmd.validate(); err != nil {
		return nil, err
	}
	ok, err := s.trips.Exists(ctx, cmd.TripID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrTripNotFound
	}

	l := newLog(cmd)
	if err := s.store.Append(ctx, l); err != nil {
		return nil, err
	}

	s.publishSync(ctx, []Log{*l})
	s.invalidateLists(ctx)
	return l, nil
}

// AddBatch appends many samples in one store call. An empty batch is an
// idempotent no-op. Every distinct trip id in the batch is checked for
// existence before anything is persisted.
func (s *Service) AddBatch(ctx context.Context, cmds []AddCommand) ([]Log, error) {
	if len(cmds) == 0 {
		return []Log{}, nil
	}

	seen := make(map[string]bool, len(cmds))
	for _, cmd := range cmds {
		if err := cmd.validate(); err != nil {
			return nil, err
		}
		if seen[cmd.TripID] {
			continue
		}
		seen[cmd.TripID] = true
		ok, err := s.trips.Exists(ctx, cmd.TripID)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, ErrTripNotFound
		}
	}

	logs := make([]Log, 0, len(cmds))
	for _, cmd := range cmds {
		logs = append(logs, *newLog(cmd))
	}
	if err := s.store.AppendBatch(ctx, logs); err != nil {
		return nil, err
	}

	s.publishSync(ctx, logs)
	s.invalidateLists(ctx)
	return logs, nil
}

// LogsByTrip returns the trip's samples oldest first; unknown trips
// yield an empty slice.
func (s *Service) LogsByTrip(ctx context.Context, tripID string) ([]Log, error) {
	if tripID == "" {
		return nil, ErrBadRequest
	}
	return s.store.ListByTrip(ctx, tripID)
}

func newLog(cmd AddCommand) *Log {
	recordedAt := cmd.RecordedAt
	if recordedAt.IsZero() {
		recordedAt = time.Now().UTC()
	}
	return &Log{
		ID:         uuid.NewString(),
		TripID:     cmd.TripID,
		Latitude:   cmd.Latitude,
		Longitude:  cmd.Longitude,
		Speed:      cmd.Speed,
		Heading:    cmd.Heading,
		Accuracy:   cmd.Accuracy,
		RecordedAt: recordedAt,
		CreatedAt:  time.Now().UTC(),
	}
}

func (s *Service) publishSync(ctx context.Context, logs []Log) {
	if s.pub == nil {
		return
	}
	ev := events.GpsSynced{Samples: make([]events.GpsSample, 0, len(logs))}
	for _, l := range logs {
		ev.Samples = append(ev.Samples, events.GpsSample{
			TripID:     l.TripID,
			Latitude:   l.Latitude,
			Longitude:  l.Longitude,
			RecordedAt: l.RecordedAt,
		})
	}
	if err := s.pub.Publish(ctx, events.KeyTripSync, ev); err != nil {
		log.Printf("[gps] publish %s: %v", events.KeyTripSync, err)
	}
}

func (s *Service) invalidateLists(ctx context.Context) {
	if s.cache != nil {
		s.cache.BumpVersion(ctx)
	}
}

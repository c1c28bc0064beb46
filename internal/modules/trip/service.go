// README: Trip service implements the create/end/read lifecycle with
// cache-aside list reads and best-effort event publication.
package trip

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
	ErrBadRequest = errors.New("bad request")
	ErrNotFound   = errors.New("trip not found")
)

// Publisher is the fire-and-forget event transport. Publish failures
// never fault the surrounding operation.
type Publisher interface {
	Publish(ctx context.Context, routingKey string, payload any) error
}

type Service struct {
	store *Store
	cache *cache.Cache
	pub   Publisher
}

// NewService wires the trip service. cache and pub may be nil: without
// a cache every list read hits the store, without a publisher lifecycle
// events are dropped.
func NewService(store *Store, c *cache.Cache, pub Publisher) *Service {
	return &Service{store: store, cache: c, pub: pub}
}

type CreateCommand struct {
	DriverID   string
	VehicleID  string
	MeterID    *string
	StartTime  time.Time
	StartLat   *float64
	StartLng   *float64
	DataSource string
}

type EndCommand struct {
	TripID         string
	EndTime        *time.Time
	EndLat         *float64
	EndLng         *float64
	DistanceKm     float64
	DurationMin    int
	BaseFare       float64
	DistanceFare   float64
	TimeFare       float64
	Surcharges     float64
	TotalFare      float64
	PaymentMethod  PaymentMethod
	PaymentRef     *string
	PassengerPhone *string
}

// Create persists a new trip in pending payment/sync state with a zero
// fare, announces it, and orphans cached lists.
func (s *Service) Create(ctx context.Context, cmd CreateCommand) (*Trip, error) {
	if cmd.DriverID == "" || cmd.VehicleID == "" || cmd.StartTime.IsZero() {
		return nil, ErrBadRequest
	}
	if !validCoords(cmd.StartLat, cmd.StartLng) {
		return nil, ErrBadRequest
	}

	now := time.Now().UTC()
	t := &Trip{
		ID:            uuid.NewString(),
		DriverID:      cmd.DriverID,
		VehicleID:     cmd.VehicleID,
		MeterID:       cmd.MeterID,
		StartTime:     cmd.StartTime,
		StartLat:      cmd.StartLat,
		StartLng:      cmd.StartLng,
		PaymentMethod: PaymentCash,
		PaymentStatus: PaymentPending,
		DataSource:    cmd.DataSource,
		SyncStatus:    SyncPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.store.Create(ctx, t); err != nil {
		return nil, err
	}

	s.publish(ctx, events.KeyTripStart, events.TripStarted{
		TripID:    t.ID,
		DriverID:  t.DriverID,
		VehicleID: t.VehicleID,
		StartTime: t.StartTime,
	})
	s.invalidateLists(ctx)
	return t, nil
}

// End closes out an existing trip: end fields and fare breakdown are
// overwritten with the caller's values, payment flips to completed and
// the record is left pending for the downstream synchronizer. Two
// concurrent ends for the same trip race last-write-wins; there is no
// version column.
func (s *Service) End(ctx context.Context, cmd EndCommand) (*Trip, error) {
	if cmd.TripID == "" {
		return nil, ErrBadRequest
	}
	if cmd.BaseFare < 0 || cmd.DistanceFare < 0 || cmd.TimeFare < 0 ||
		cmd.Surcharges < 0 || cmd.TotalFare < 0 || cmd.DistanceKm < 0 || cmd.DurationMin < 0 {
		return nil, ErrBadRequest
	}
	if cmd.PaymentMethod != "" && !cmd.PaymentMethod.Valid() {
		return nil, ErrBadRequest
	}
	if !validCoords(cmd.EndLat, cmd.EndLng) {
		return nil, ErrBadRequest
	}

	t, err := s.store.Get(ctx, cmd.TripID)
	if err != nil {
		return nil, err
	}

	endTime := time.Now().UTC()
	if cmd.EndTime != nil {
		endTime = *cmd.EndTime
	}
	total := cmd.TotalFare
	if total == 0 {
		// caller omitted the total; derive it, never the reverse
		total = cmd.BaseFare + cmd.DistanceFare + cmd.TimeFare + cmd.Surcharges
	}

	t.EndTime = &endTime
	t.EndLat = cmd.EndLat
	t.EndLng = cmd.EndLng
	t.DistanceKm = cmd.DistanceKm
	t.DurationMin = cmd.DurationMin
	t.BaseFare = cmd.BaseFare
	t.DistanceFare = cmd.DistanceFare
	t.TimeFare = cmd.TimeFare
	t.Surcharges = cmd.Surcharges
	t.TotalFare = total
	if cmd.PaymentMethod != "" {
		t.PaymentMethod = cmd.PaymentMethod
	}
	t.PaymentRef = cmd.PaymentRef
	t.PassengerPhone = cmd.PassengerPhone
	t.PaymentStatus = PaymentCompleted
	t.SyncStatus = SyncPending
	t.UpdatedAt = time.Now().UTC()

	if err := s.store.UpdateEnd(ctx, t); err != nil {
		return nil, err
	}

	s.publish(ctx, events.KeyTripEnd, events.TripEnded{
		TripID:        t.ID,
		DriverID:      t.DriverID,
		VehicleID:     t.VehicleID,
		EndTime:       endTime,
		TotalFare:     t.TotalFare,
		PaymentStatus: string(t.PaymentStatus),
	})
	s.invalidateLists(ctx)
	return t, nil
}

// List serves trips cache-aside: identical queries within the cache TTL
// and with no intervening write return the cached page.
func (s *Service) List(ctx context.Context, q ListQuery) (*ListResult, error) {
	q = q.normalized()

	var key string
	if s.cache != nil {
		key = cache.ListKey(s.cache.Version(ctx), q)
		var res ListResult
		if s.cache.GetJSON(ctx, key, &res) {
			return &res, nil
		}
	}

	items, total, err := s.store.List(ctx, q)
	if err != nil {
		return nil, err
	}
	res := &ListResult{Items: items, Total: total}
	if s.cache != nil {
		s.cache.SetJSON(ctx, key, res, cache.ListTTL)
	}
	return res, nil
}

// Get reads one trip. Reads never touch the cache.
func (s *Service) Get(ctx context.Context, id string) (*Trip, error) {
	if id == "" {
		return nil, ErrBadRequest
	}
	return s.store.Get(ctx, id)
}

// Exists reports whether a trip id is known; used by GPS ingestion to
// validate log ownership.
func (s *Service) Exists(ctx context.Context, id string) (bool, error) {
	return s.store.Exists(ctx, id)
}

func (s *Service) publish(ctx context.Context, key string, payload any) {
	if s.pub == nil {
		return
	}
	if err := s.pub.Publish(ctx, key, payload); err != nil {
		log.Printf("[trip] publish %s: %v", key, err)
	}
}

func (s *Service) invalidateLists(ctx context.Context) {
	if s.cache != nil {
		s.cache.BumpVersion(ctx)
	}
}

func validCoords(lat, lng *float64) bool {
	if lat == nil && lng == nil {
		return true
	}
	if lat == nil || lng == nil {
		return false
	}
	return *lat >= -90 && *lat <= 90 && *lng >= -180 && *lng <= 180
}

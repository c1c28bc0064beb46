// README: Statistics service; thin validation over the aggregate store.
package stats

import (
	"context"
	"errors"
	"time"
)

var ErrBadRequest = errors.New("bad request")

type Service struct {
	store *Store
}

func NewService(store *Store) *Service {
	return &Service{store: store}
}

func (s *Service) Overall(ctx context.Context) (*Summary, error) {
	return s.store.Overall(ctx)
}

func (s *Service) ByDriver(ctx context.Context, driverID string) (*Summary, error) {
	if driverID == "" {
		return nil, ErrBadRequest
	}
	return s.store.ByDriver(ctx, driverID)
}

func (s *Service) ByVehicle(ctx context.Context, vehicleID string) (*Summary, error) {
	if vehicleID == "" {
		return nil, ErrBadRequest
	}
	return s.store.ByVehicle(ctx, vehicleID)
}

func (s *Service) Daily(ctx context.Context, start, end time.Time) ([]DailyStat, error) {
	if start.IsZero() || end.IsZero() || end.Before(start) {
		return nil, ErrBadRequest
	}
	return s.store.Daily(ctx, start, end)
}

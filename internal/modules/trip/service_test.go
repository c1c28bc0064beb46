// README: Trip service tests (lifecycle flow, validation, list filters, cache-aside).
package trip

import (
	"context"
	"sync"
	"testing"
	"time"

	"fleettrack/internal/testdb"
)

// stubPublisher records published events in order.
type stubPublisher struct {
	mu   sync.Mutex
	keys []string
}

func (p *stubPublisher) Publish(_ context.Context, routingKey string, _ any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.keys = append(p.keys, routingKey)
	return nil
}

func (p *stubPublisher) published() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.keys...)
}

func TestListQueryNormalization(t *testing.T) {
	cases := []struct {
		name      string
		in        ListQuery
		wantPage  int
		wantLimit int
	}{
		{"defaults", ListQuery{}, 1, 10},
		{"negative page", ListQuery{Page: -3, Limit: 20}, 1, 20},
		{"zero limit", ListQuery{Page: 2, Limit: 0}, 2, 10},
		{"valid passthrough", ListQuery{Page: 4, Limit: 25}, 4, 25},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := tc.in.normalized()
			if got.Page != tc.wantPage || got.Limit != tc.wantLimit {
				t.Errorf("normalized() = (%d, %d), want (%d, %d)",
					got.Page, got.Limit, tc.wantPage, tc.wantLimit)
			}
		})
	}
}

// Validation happens before any store access, so a nil store is safe here.
func TestCreateValidation(t *testing.T) {
	svc := NewService(nil, nil, nil)
	ctx := context.Background()

	badLat := 95.0
	lng := 10.0
	cases := []struct {
		name string
		cmd  CreateCommand
	}{
		{"missing driver", CreateCommand{VehicleID: "v1", StartTime: time.Now()}},
		{"missing vehicle", CreateCommand{DriverID: "d1", StartTime: time.Now()}},
		{"missing start time", CreateCommand{DriverID: "d1", VehicleID: "v1"}},
		{"lat out of range", CreateCommand{DriverID: "d1", VehicleID: "v1", StartTime: time.Now(), StartLat: &badLat, StartLng: &lng}},
		{"lat without lng", CreateCommand{DriverID: "d1", VehicleID: "v1", StartTime: time.Now(), StartLat: &lng}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.Create(ctx, tc.cmd); err != ErrBadRequest {
				t.Fatalf("expected ErrBadRequest, got %v", err)
			}
		})
	}
}

func TestEndValidation(t *testing.T) {
	svc := NewService(nil, nil, nil)
	ctx := context.Background()

	if _, err := svc.End(ctx, EndCommand{}); err != ErrBadRequest {
		t.Fatalf("missing trip id: expected ErrBadRequest, got %v", err)
	}
	if _, err := svc.End(ctx, EndCommand{TripID: "t1", BaseFare: -1}); err != ErrBadRequest {
		t.Fatalf("negative fare: expected ErrBadRequest, got %v", err)
	}
	if _, err := svc.End(ctx, EndCommand{TripID: "t1", PaymentMethod: "barter"}); err != ErrBadRequest {
		t.Fatalf("bad payment method: expected ErrBadRequest, got %v", err)
	}
}

func TestCreateTripDefaults(t *testing.T) {
	pub := &stubPublisher{}
	svc := NewService(NewStore(testdb.Setup(t)), nil, pub)
	ctx := context.Background()

	start := time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)
	created, err := svc.Create(ctx, CreateCommand{
		DriverID:   "D1",
		VehicleID:  "V1",
		StartTime:  start,
		DataSource: "mobile-meter",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if created.PaymentStatus != PaymentPending {
		t.Errorf("payment status = %s, want pending", created.PaymentStatus)
	}
	if created.SyncStatus != SyncPending {
		t.Errorf("sync status = %s, want pending", created.SyncStatus)
	}
	if created.TotalFare != 0 {
		t.Errorf("total fare = %v, want 0", created.TotalFare)
	}

	got, err := svc.Get(ctx, created.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !got.StartTime.Equal(start) {
		t.Errorf("start time = %v, want %v", got.StartTime, start)
	}
	if got.EndTime != nil {
		t.Errorf("end time = %v, want nil", got.EndTime)
	}

	keys := pub.published()
	if len(keys) != 1 || keys[0] != "trip.start" {
		t.Errorf("published = %v, want [trip.start]", keys)
	}
}

func TestEndTrip(t *testing.T) {
	pub := &stubPublisher{}
	svc := NewService(NewStore(testdb.Setup(t)), nil, pub)
	ctx := context.Background()

	created := mustCreateTrip(t, svc, "D1", "V1", time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC))

	endTime := time.Date(2024, 1, 1, 8, 20, 0, 0, time.UTC)
	ended, err := svc.End(ctx, EndCommand{
		TripID:        created.ID,
		EndTime:       &endTime,
		DistanceKm:    7.4,
		DurationMin:   20,
		BaseFare:      500,
		DistanceFare:  740,
		TimeFare:      200,
		Surcharges:    60,
		TotalFare:     1500,
		PaymentMethod: PaymentCard,
	})
	if err != nil {
		t.Fatalf("end: %v", err)
	}

	if ended.PaymentStatus != PaymentCompleted {
		t.Errorf("payment status = %s, want completed", ended.PaymentStatus)
	}
	if ended.SyncStatus != SyncPending {
		t.Errorf("sync status = %s, want pending", ended.SyncStatus)
	}
	if ended.EndTime == nil || !ended.EndTime.Equal(endTime) {
		t.Errorf("end time = %v, want %v", ended.EndTime, endTime)
	}
	if ended.TotalFare != 1500 {
		t.Errorf("total fare = %v, want 1500", ended.TotalFare)
	}

	got, err := svc.Get(ctx, created.ID)
	if err != nil {
		t.Fatalf("get after end: %v", err)
	}
	if got.PaymentStatus != PaymentCompleted || got.TotalFare != 1500 {
		t.Errorf("persisted trip = %s/%v, want completed/1500", got.PaymentStatus, got.TotalFare)
	}

	keys := pub.published()
	if len(keys) != 2 || keys[1] != "trip.end" {
		t.Errorf("published = %v, want [trip.start trip.end]", keys)
	}
}

func TestEndTripComputesTotalWhenOmitted(t *testing.T) {
	svc := NewService(NewStore(testdb.Setup(t)), nil, nil)
	ctx := context.Background()

	created := mustCreateTrip(t, svc, "D1", "V1", time.Now().UTC())
	ended, err := svc.End(ctx, EndCommand{
		TripID:       created.ID,
		BaseFare:     500,
		DistanceFare: 300,
		TimeFare:     150,
		Surcharges:   50,
	})
	if err != nil {
		t.Fatalf("end: %v", err)
	}
	if ended.TotalFare != 1000 {
		t.Errorf("total fare = %v, want 1000 (sum of components)", ended.TotalFare)
	}
}

func TestEndTripUnknownID(t *testing.T) {
	svc := NewService(NewStore(testdb.Setup(t)), nil, nil)

	_, err := svc.End(context.Background(), EndCommand{TripID: "c1f274b2-4d30-4a82-9f9e-000000000000"})
	if err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestConcurrentEndLastWriteWins(t *testing.T) {
	svc := NewService(NewStore(testdb.Setup(t)), nil, nil)
	ctx := context.Background()

	created := mustCreateTrip(t, svc, "D1", "V1", time.Now().UTC())

	// no version column: both ends succeed and the final record carries
	// one of the two fares
	totals := []float64{1000, 2000}
	var wg sync.WaitGroup
	errs := make(chan error, len(totals))
	for _, total := range totals {
		wg.Add(1)
		go func(total float64) {
			defer wg.Done()
			_, err := svc.End(ctx, EndCommand{TripID: created.ID, TotalFare: total})
			errs <- err
		}(total)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		if err != nil {
			t.Fatalf("end: %v", err)
		}
	}

	got, err := svc.Get(ctx, created.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.TotalFare != 1000 && got.TotalFare != 2000 {
		t.Fatalf("total fare = %v, want one of the written values", got.TotalFare)
	}
	if got.PaymentStatus != PaymentCompleted {
		t.Fatalf("payment status = %s, want completed", got.PaymentStatus)
	}
}

func TestListFiltersAndPagination(t *testing.T) {
	svc := NewService(NewStore(testdb.Setup(t)), nil, nil)
	ctx := context.Background()

	base := time.Date(2024, 3, 1, 6, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		mustCreateTrip(t, svc, "D1", "V1", base.Add(time.Duration(i)*time.Hour))
	}
	other := mustCreateTrip(t, svc, "D2", "V2", base.Add(10*time.Hour))
	if _, err := svc.End(ctx, EndCommand{TripID: other.ID, TotalFare: 900}); err != nil {
		t.Fatalf("end: %v", err)
	}

	res, err := svc.List(ctx, ListQuery{DriverID: "D1"})
	if err != nil {
		t.Fatalf("list by driver: %v", err)
	}
	if res.Total != 5 || len(res.Items) != 5 {
		t.Fatalf("driver filter: total=%d items=%d, want 5/5", res.Total, len(res.Items))
	}
	for i := 1; i < len(res.Items); i++ {
		if res.Items[i].StartTime.After(res.Items[i-1].StartTime) {
			t.Fatal("expected start time descending order")
		}
	}

	res, err = svc.List(ctx, ListQuery{Limit: 2, Page: 2})
	if err != nil {
		t.Fatalf("list page 2: %v", err)
	}
	if res.Total != 6 || len(res.Items) != 2 {
		t.Fatalf("pagination: total=%d items=%d, want 6/2", res.Total, len(res.Items))
	}

	res, err = svc.List(ctx, ListQuery{PaymentStatus: PaymentCompleted})
	if err != nil {
		t.Fatalf("list by payment status: %v", err)
	}
	if res.Total != 1 || res.Items[0].ID != other.ID {
		t.Fatalf("payment filter: total=%d, want the single ended trip", res.Total)
	}

	from := base.Add(90 * time.Minute)
	to := base.Add(4 * time.Hour)
	res, err = svc.List(ctx, ListQuery{StartDate: &from, EndDate: &to})
	if err != nil {
		t.Fatalf("list by date range: %v", err)
	}
	if res.Total != 3 {
		t.Fatalf("date range: total=%d, want 3 (inclusive bounds)", res.Total)
	}
}

func mustCreateTrip(t *testing.T, svc *Service, driverID, vehicleID string, start time.Time) *Trip {
	t.Helper()
	created, err := svc.Create(context.Background(), CreateCommand{
		DriverID:  driverID,
		VehicleID: vehicleID,
		StartTime: start,
	})
	if err != nil {
		t.Fatalf("create trip: %v", err)
	}
	return created
}

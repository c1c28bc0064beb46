// README: Cache-aside behavior of trip list reads; needs Postgres and Redis.
package trip

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"

	"fleettrack/internal/cache"
	"fleettrack/internal/testdb"
)

func setupCache(t *testing.T) *cache.Cache {
	t.Helper()
	addr := os.Getenv("FLEET_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("FLEET_TEST_REDIS_ADDR not set; skipping cache-aside tests")
	}
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	t.Cleanup(func() { rdb.Close() })
	return cache.New(rdb)
}

func TestListCacheAside(t *testing.T) {
	store := NewStore(testdb.Setup(t))
	listCache := setupCache(t)
	svc := NewService(store, listCache, nil)
	ctx := context.Background()

	// isolate this run from earlier cache entries
	listCache.BumpVersion(ctx)

	mustCreateTrip(t, svc, "D1", "V1", time.Now().UTC())

	q := ListQuery{DriverID: "D1"}
	first, err := svc.List(ctx, q)
	if err != nil {
		t.Fatalf("first list: %v", err)
	}
	if first.Total != 1 {
		t.Fatalf("first list total = %d, want 1", first.Total)
	}

	// write behind the service's back: no version bump, so within the
	// TTL the next identical read must come from cache and miss the row
	hidden := &Trip{
		ID:            "7b1e9a54-8a2f-4f4e-9c60-1f40caa00001",
		DriverID:      "D1",
		VehicleID:     "V1",
		StartTime:     time.Now().UTC(),
		PaymentMethod: PaymentCash,
		PaymentStatus: PaymentPending,
		SyncStatus:    SyncPending,
		CreatedAt:     time.Now().UTC(),
		UpdatedAt:     time.Now().UTC(),
	}
	if err := store.Create(ctx, hidden); err != nil {
		t.Fatalf("direct insert: %v", err)
	}

	second, err := svc.List(ctx, q)
	if err != nil {
		t.Fatalf("second list: %v", err)
	}
	if second.Total != 1 {
		t.Fatalf("second list total = %d, want 1 (served from cache)", second.Total)
	}

	// a service-level write bumps the version and the next read is fresh
	mustCreateTrip(t, svc, "D1", "V1", time.Now().UTC())
	third, err := svc.List(ctx, q)
	if err != nil {
		t.Fatalf("third list: %v", err)
	}
	if third.Total != 3 {
		t.Fatalf("third list total = %d, want 3 (cache invalidated by write)", third.Total)
	}
}

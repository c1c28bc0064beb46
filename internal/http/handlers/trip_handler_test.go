// README: Handler tests for request validation and response envelopes.
package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"fleettrack/internal/http/handlers"
	"fleettrack/internal/modules/gps"
	"fleettrack/internal/modules/stats"
	"fleettrack/internal/modules/trip"
)

// buildTestRouter wires a minimal engine. Services carry nil stores:
// every request exercised here is rejected (or short-circuited) before
// any store access.
func buildTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	tripHandler := handlers.NewTripHandler(trip.NewService(nil, nil, nil))
	r.POST("/trip", tripHandler.Create)
	r.POST("/trip/end", tripHandler.End)
	r.GET("/trip", tripHandler.List)

	gpsHandler := handlers.NewGpsHandler(gps.NewService(nil, nil, nil, nil))
	r.POST("/trip/gps", gpsHandler.Add)
	r.POST("/trip/gps/batch", gpsHandler.AddBatch)

	statsHandler := handlers.NewStatsHandler(stats.NewService(nil))
	r.GET("/trip/stats/daily", statsHandler.Daily)

	return r
}

type envelope struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body any) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env envelope
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode envelope: %v (body: %s)", err, w.Body.String())
	}
	return w, env
}

func TestCreateTripMissingFields(t *testing.T) {
	r := buildTestRouter()
	w, env := doJSON(t, r, http.MethodPost, "/trip", map[string]any{
		"vehicleId": "V1",
		"startTime": "2024-01-01T08:00:00Z",
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	if env.Status != "error" {
		t.Fatalf("envelope status = %q, want error", env.Status)
	}
}

func TestCreateTripInvalidJSON(t *testing.T) {
	r := buildTestRouter()
	req := httptest.NewRequest(http.MethodPost, "/trip", bytes.NewBufferString("{nope"))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestEndTripMissingID(t *testing.T) {
	r := buildTestRouter()
	w, env := doJSON(t, r, http.MethodPost, "/trip/end", map[string]any{"totalFare": 1500})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	if env.Status != "error" {
		t.Fatalf("envelope status = %q, want error", env.Status)
	}
}

func TestListInvalidPaymentStatus(t *testing.T) {
	r := buildTestRouter()
	w, _ := doJSON(t, r, http.MethodGet, "/trip?paymentStatus=bogus", nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestAddGpsMissingTripID(t *testing.T) {
	r := buildTestRouter()
	w, _ := doJSON(t, r, http.MethodPost, "/trip/gps", map[string]any{
		"latitude":  51.5,
		"longitude": -0.12,
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestAddGpsBatchEmpty(t *testing.T) {
	r := buildTestRouter()
	w, env := doJSON(t, r, http.MethodPost, "/trip/gps/batch", []any{})
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201 for empty batch, got %d", w.Code)
	}
	if env.Status != "success" {
		t.Fatalf("envelope status = %q, want success", env.Status)
	}
	var logs []any
	if err := json.Unmarshal(env.Data, &logs); err != nil {
		t.Fatalf("decode data: %v", err)
	}
	if len(logs) != 0 {
		t.Fatalf("expected empty data, got %d entries", len(logs))
	}
}

func TestDailyStatsMissingDates(t *testing.T) {
	r := buildTestRouter()
	w, _ := doJSON(t, r, http.MethodGet, "/trip/stats/daily", nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

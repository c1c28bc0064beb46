// README: Trip handlers for create/end/list/get.
package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"fleettrack/internal/modules/trip"
)

type TripHandler struct {
	trips *trip.Service
}

func NewTripHandler(svc *trip.Service) *TripHandler {
	return &TripHandler{trips: svc}
}

type createTripReq struct {
	DriverID   string    `json:"driverId"`
	VehicleID  string    `json:"vehicleId"`
	MeterID    *string   `json:"meterId"`
	StartTime  time.Time `json:"startTime"`
	StartLat   *float64  `json:"startLat"`
	StartLng   *float64  `json:"startLng"`
	DataSource string    `json:"dataSource"`
}

func (h *TripHandler) Create(c *gin.Context) {
	var req createTripReq
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid json")
		return
	}
	if req.DriverID == "" || req.VehicleID == "" || req.StartTime.IsZero() {
		respondError(c, http.StatusBadRequest, "driverId, vehicleId and startTime are required")
		return
	}
	t, err := h.trips.Create(c.Request.Context(), trip.CreateCommand{
		DriverID:   req.DriverID,
		VehicleID:  req.VehicleID,
		MeterID:    req.MeterID,
		StartTime:  req.StartTime,
		StartLat:   req.StartLat,
		StartLng:   req.StartLng,
		DataSource: req.DataSource,
	})
	if err != nil {
		writeServiceError(c, err)
		return
	}
	respond(c, http.StatusCreated, "trip created", t)
}

type endTripReq struct {
	TripID         string             `json:"tripId"`
	EndTime        *time.Time         `json:"endTime"`
	EndLat         *float64           `json:"endLat"`
	EndLng         *float64           `json:"endLng"`
	DistanceKm     float64            `json:"distanceKm"`
	DurationMin    int                `json:"durationMin"`
	BaseFare       float64            `json:"baseFare"`
	DistanceFare   float64            `json:"distanceFare"`
	TimeFare       float64            `json:"timeFare"`
	Surcharges     float64            `json:"surcharges"`
	TotalFare      float64            `json:"totalFare"`
	PaymentMethod  trip.PaymentMethod `json:"paymentMethod"`
	PaymentRef     *string            `json:"paymentRef"`
	PassengerPhone *string            `json:"passengerPhone"`
}

func (h *TripHandler) End(c *gin.Context) {
	var req endTripReq
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid json")
		return
	}
	if req.TripID == "" {
		respondError(c, http.StatusBadRequest, "tripId is required")
		return
	}
	t, err := h.trips.End(c.Request.Context(), trip.EndCommand{
		TripID:         req.TripID,
		EndTime:        req.EndTime,
		EndLat:         req.EndLat,
		EndLng:         req.EndLng,
		DistanceKm:     req.DistanceKm,
		DurationMin:    req.DurationMin,
		BaseFare:       req.BaseFare,
		DistanceFare:   req.DistanceFare,
		TimeFare:       req.TimeFare,
		Surcharges:     req.Surcharges,
		TotalFare:      req.TotalFare,
		PaymentMethod:  req.PaymentMethod,
		PaymentRef:     req.PaymentRef,
		PassengerPhone: req.PassengerPhone,
	})
	if err != nil {
		writeServiceError(c, err)
		return
	}
	respond(c, http.StatusOK, "trip ended", t)
}

func (h *TripHandler) List(c *gin.Context) {
	q := trip.ListQuery{
		Page:      atoiOrZero(c.Query("page")),
		Limit:     atoiOrZero(c.Query("limit")),
		DriverID:  c.Query("driverId"),
		VehicleID: c.Query("vehicleId"),
	}
	if v := c.Query("startDate"); v != "" {
		t, err := parseTime(v)
		if err != nil {
			respondError(c, http.StatusBadRequest, "invalid startDate")
			return
		}
		q.StartDate = &t
	}
	if v := c.Query("endDate"); v != "" {
		t, err := parseTime(v)
		if err != nil {
			respondError(c, http.StatusBadRequest, "invalid endDate")
			return
		}
		q.EndDate = &t
	}
	if v := c.Query("paymentStatus"); v != "" {
		ps := trip.PaymentStatus(v)
		if !ps.Valid() {
			respondError(c, http.StatusBadRequest, "invalid paymentStatus")
			return
		}
		q.PaymentStatus = ps
	}
	if v := c.Query("syncStatus"); v != "" {
		ss := trip.SyncStatus(v)
		if !ss.Valid() {
			respondError(c, http.StatusBadRequest, "invalid syncStatus")
			return
		}
		q.SyncStatus = ss
	}

	res, err := h.trips.List(c.Request.Context(), q)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	respond(c, http.StatusOK, "trips fetched", res)
}

func (h *TripHandler) Get(c *gin.Context) {
	t, err := h.trips.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	respond(c, http.StatusOK, "trip fetched", t)
}

// README: GPS ingestion handlers for single and batch appends.
package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"fleettrack/internal/modules/gps"
)

type GpsHandler struct {
	gps *gps.Service
}

func NewGpsHandler(svc *gps.Service) *GpsHandler {
	return &GpsHandler{gps: svc}
}

type addGpsReq struct {
	TripID     string    `json:"tripId"`
	Latitude   float64   `json:"latitude"`
	Longitude  float64   `json:"longitude"`
	Speed      *float64  `json:"speed"`
	Heading    *float64  `json:"heading"`
	Accuracy   *float64  `json:"accuracy"`
	RecordedAt time.Time `json:"recordedAt"`
}

func (r addGpsReq) command() gps.AddCommand {
	return gps.AddCommand{
		TripID:     r.TripID,
		Latitude:   r.Latitude,
		Longitude:  r.Longitude,
		Speed:      r.Speed,
		Heading:    r.Heading,
		Accuracy:   r.Accuracy,
		RecordedAt: r.RecordedAt,
	}
}

func (h *GpsHandler) Add(c *gin.Context) {
	var req addGpsReq
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid json")
		return
	}
	if req.TripID == "" {
		respondError(c, http.StatusBadRequest, "tripId is required")
		return
	}
	l, err := h.gps.Add(c.Request.Context(), req.command())
	if err != nil {
		writeServiceError(c, err)
		return
	}
	respond(c, http.StatusCreated, "gps log created", l)
}

func (h *GpsHandler) AddBatch(c *gin.Context) {
	var reqs []addGpsReq
	if err := c.ShouldBindJSON(&reqs); err != nil {
		respondError(c, http.StatusBadRequest, "invalid json")
		return
	}
	cmds := make([]gps.AddCommand, 0, len(reqs))
	for _, r := range reqs {
		cmds = append(cmds, r.command())
	}
	logs, err := h.gps.AddBatch(c.Request.Context(), cmds)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	respond(c, http.StatusCreated, "gps logs created", logs)
}

func (h *GpsHandler) ListByTrip(c *gin.Context) {
	logs, err := h.gps.LogsByTrip(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	respond(c, http.StatusOK, "gps logs fetched", logs)
}

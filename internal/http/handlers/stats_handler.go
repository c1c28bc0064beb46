// README: Statistics handlers for overall/driver/vehicle/daily rollups.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"fleettrack/internal/modules/stats"
)

type StatsHandler struct {
	stats *stats.Service
}

func NewStatsHandler(svc *stats.Service) *StatsHandler {
	return &StatsHandler{stats: svc}
}

func (h *StatsHandler) Overall(c *gin.Context) {
	sum, err := h.stats.Overall(c.Request.Context())
	if err != nil {
		writeServiceError(c, err)
		return
	}
	respond(c, http.StatusOK, "trip stats fetched", sum)
}

func (h *StatsHandler) ByDriver(c *gin.Context) {
	sum, err := h.stats.ByDriver(c.Request.Context(), c.Param("driverId"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	respond(c, http.StatusOK, "driver trip stats fetched", sum)
}

func (h *StatsHandler) ByVehicle(c *gin.Context) {
	sum, err := h.stats.ByVehicle(c.Request.Context(), c.Param("vehicleId"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	respond(c, http.StatusOK, "vehicle trip stats fetched", sum)
}

func (h *StatsHandler) Daily(c *gin.Context) {
	start, err := parseTime(c.Query("startDate"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid startDate")
		return
	}
	end, err := parseTime(c.Query("endDate"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid endDate")
		return
	}
	daily, err := h.stats.Daily(c.Request.Context(), start, end)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	respond(c, http.StatusOK, "daily trip stats fetched", daily)
}

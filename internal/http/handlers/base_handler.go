// README: Shared handler helpers: response envelope and error mapping.
package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"fleettrack/internal/modules/gps"
	"fleettrack/internal/modules/stats"
	"fleettrack/internal/modules/trip"
)

// envelope is the uniform response shape consumed by the admin dashboard.
type envelope struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Data    any    `json:"data"`
}

func respond(c *gin.Context, code int, message string, data any) {
	c.JSON(code, envelope{Status: "success", Message: message, Data: data})
}

func respondError(c *gin.Context, code int, message string) {
	c.JSON(code, envelope{Status: "error", Message: message})
}

// writeServiceError maps module sentinel errors onto HTTP status codes;
// anything unmapped is a store-layer failure.
func writeServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, trip.ErrBadRequest), errors.Is(err, gps.ErrBadRequest), errors.Is(err, stats.ErrBadRequest):
		respondError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, trip.ErrNotFound), errors.Is(err, gps.ErrTripNotFound):
		respondError(c, http.StatusNotFound, err.Error())
	default:
		respondError(c, http.StatusInternalServerError, "internal error")
	}
}

// atoiOrZero parses loosely; list pagination coerces invalid values to
// its own defaults downstream.
func atoiOrZero(v string) int {
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0
	}
	return n
}

// parseTime accepts RFC3339 timestamps and bare dates.
func parseTime(v string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", v)
}

// README: HTTP router registration.
package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"fleettrack/internal/http/handlers"
	"fleettrack/internal/http/middleware"
	"fleettrack/internal/modules/gps"
	"fleettrack/internal/modules/stats"
	"fleettrack/internal/modules/trip"
)

func NewRouter(
	tripService *trip.Service,
	gpsService *gps.Service,
	statsService *stats.Service,
) http.Handler {
	r := gin.New()
	r.Use(middleware.Logging(), middleware.Recovery())

	tripHandler := handlers.NewTripHandler(tripService)
	r.POST("/trip", tripHandler.Create)
	r.POST("/trip/end", tripHandler.End)
	r.GET("/trip", tripHandler.List)
	r.GET("/trip/:id", tripHandler.Get)

	gpsHandler := handlers.NewGpsHandler(gpsService)
	r.POST("/trip/gps", gpsHandler.Add)
	r.POST("/trip/gps/batch", gpsHandler.AddBatch)
	r.GET("/trip/:id/gps", gpsHandler.ListByTrip)

	statsHandler := handlers.NewStatsHandler(statsService)
	r.GET("/trip/stats/overall", statsHandler.Overall)
	r.GET("/trip/stats/driver/:driverId", statsHandler.ByDriver)
	r.GET("/trip/stats/vehicle/:vehicleId", statsHandler.ByVehicle)
	r.GET("/trip/stats/daily", statsHandler.Daily)

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})

	return r
}

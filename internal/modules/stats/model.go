// README: Aggregated trip statistics shapes.
package stats

type Summary struct {
	TotalTrips   int64   `json:"totalTrips"`
	TotalRevenue float64 `json:"totalRevenue"`
}

type DailyStat struct {
	Date         string  `json:"date"` // YYYY-MM-DD, UTC
	TripCount    int64   `json:"tripCount"`
	TotalRevenue float64 `json:"totalRevenue"`
}

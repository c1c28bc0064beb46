// README: GPS tracking log model.
package gps

import "time"

// Log is one timestamped location sample belonging to a trip. Logs are
// immutable once written and read back ordered by RecordedAt ascending.
type Log struct {
	ID         string    `json:"id"`
	TripID     string    `json:"tripId"`
	Latitude   float64   `json:"latitude"`
	Longitude  float64   `json:"longitude"`
	Speed      *float64  `json:"speed"`
	Heading    *float64  `json:"heading"`
	Accuracy   *float64  `json:"accuracy"`
	RecordedAt time.Time `json:"recordedAt"`
	CreatedAt  time.Time `json:"createdAt"`
}

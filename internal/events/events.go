// README: Event topology and payloads published on trip lifecycle transitions.
package events

import "time"

// All trip events go through one topic exchange; consumers bind by
// routing key.
const (
	Exchange = "trip_topic"

	KeyTripStart = "trip.start"
	KeyTripEnd   = "trip.end"
	KeyTripSync  = "trip.sync"
)

type TripStarted struct {
	TripID    string    `json:"tripId"`
	DriverID  string    `json:"driverId"`
	VehicleID string    `json:"vehicleId"`
	StartTime time.Time `json:"startTime"`
}

type TripEnded struct {
	TripID        string    `json:"tripId"`
	DriverID      string    `json:"driverId"`
	VehicleID     string    `json:"vehicleId"`
	EndTime       time.Time `json:"endTime"`
	TotalFare     float64   `json:"totalFare"`
	PaymentStatus string    `json:"paymentStatus"`
}

// GpsSynced carries the samples of one ingestion call, single or batch.
type GpsSynced struct {
	Samples []GpsSample `json:"samples"`
}

type GpsSample struct {
	TripID     string    `json:"tripId"`
	Latitude   float64   `json:"latitude"`
	Longitude  float64   `json:"longitude"`
	RecordedAt time.Time `json:"recordedAt"`
}

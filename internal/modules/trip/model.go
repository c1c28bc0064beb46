// README: Trip aggregate, payment/sync status definitions.
package trip

import "time"

type PaymentMethod string

const (
	PaymentCash   PaymentMethod = "cash"
	PaymentCard   PaymentMethod = "card"
	PaymentMobile PaymentMethod = "mobile"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentCash, PaymentCard, PaymentMobile:
		return true
	}
	return false
}

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentCompleted PaymentStatus = "completed"
	PaymentFailed    PaymentStatus = "failed"
)

func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentPending, PaymentCompleted, PaymentFailed:
		return true
	}
	return false
}

type SyncStatus string

const (
	SyncPending SyncStatus = "pending"
	SyncSynced  SyncStatus = "synced"
)

func (s SyncStatus) Valid() bool {
	return s == SyncPending || s == SyncSynced
}

// Trip is one completed or in-progress ride. EndTime is set exactly
// once, by End; trips are never deleted. The fare breakdown is caller
// supplied and not reconciled against totalFare here.
type Trip struct {
	ID             string        `json:"id"`
	DriverID       string        `json:"driverId"`
	VehicleID      string        `json:"vehicleId"`
	MeterID        *string       `json:"meterId"`
	StartTime      time.Time     `json:"startTime"`
	EndTime        *time.Time    `json:"endTime"`
	StartLat       *float64      `json:"startLat"`
	StartLng       *float64      `json:"startLng"`
	EndLat         *float64      `json:"endLat"`
	EndLng         *float64      `json:"endLng"`
	DistanceKm     float64       `json:"distanceKm"`
	DurationMin    int           `json:"durationMin"`
	BaseFare       float64       `json:"baseFare"`
	DistanceFare   float64       `json:"distanceFare"`
	TimeFare       float64       `json:"timeFare"`
	Surcharges     float64       `json:"surcharges"`
	TotalFare      float64       `json:"totalFare"`
	PaymentMethod  PaymentMethod `json:"paymentMethod"`
	PaymentStatus  PaymentStatus `json:"paymentStatus"`
	PaymentRef     *string       `json:"paymentRef"`
	PassengerPhone *string       `json:"passengerPhone"`
	DataSource     string        `json:"dataSource"`
	SyncStatus     SyncStatus    `json:"syncStatus"`
	SyncedAt       *time.Time    `json:"syncedAt"`
	CreatedAt      time.Time     `json:"createdAt"`
	UpdatedAt      time.Time     `json:"updatedAt"`
}

// ListQuery filters are independently optional; zero values mean
// "no filter". Date bounds are inclusive.
type ListQuery struct {
	Page          int           `json:"page"`
	Limit         int           `json:"limit"`
	DriverID      string        `json:"driverId,omitempty"`
	VehicleID     string        `json:"vehicleId,omitempty"`
	StartDate     *time.Time    `json:"startDate,omitempty"`
	EndDate       *time.Time    `json:"endDate,omitempty"`
	PaymentStatus PaymentStatus `json:"paymentStatus,omitempty"`
	SyncStatus    SyncStatus    `json:"syncStatus,omitempty"`
}

const (
	defaultPage  = 1
	defaultLimit = 10
)

// normalized coerces page/limit to positive values; invalid input falls
// back to defaults rather than erroring.
func (q ListQuery) normalized() ListQuery {
	if q.Page < 1 {
		q.Page = defaultPage
	}
	if q.Limit < 1 {
		q.Limit = defaultLimit
	}
	return q
}

type ListResult struct {
	Items []Trip `json:"items"`
	Total int64  `json:"total"`
}

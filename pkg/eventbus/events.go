package eventbus

import (
	"time"

	"github.com/google/uuid"
)

// RideRequestedData is emitted when a rider requests a ride.
// This contains all data needed by matching service to send ride offers to drivers.
type RideRequestedData struct {
	RideID            uuid.UUID `json:"ride_id"`
	RiderID           uuid.UUID `json:"rider_id"`
	RiderName         string    `json:"rider_name"`
	RiderRating       float64   `json:"rider_rating"`
	PickupLatitude    float64   `json:"pickup_latitude"`
	PickupLongitude   float64   `json:"pickup_longitude"`
	PickupAddress     string    `json:"pickup_address"`
	DropoffLatitude   float64   `json:"dropoff_latitude"`
	DropoffLongitude  float64   `json:"dropoff_longitude"`
	DropoffAddress    string    `json:"dropoff_address"`
	RideTypeID        uuid.UUID `json:"ride_type_id"`
	RideTypeName      string    `json:"ride_type_name"`
	EstimatedFare     float64   `json:"estimated_fare"`
	EstimatedDistance float64   `json:"estimated_distance_km"`
	EstimatedDuration int       `json:"estimated_duration_minutes"`
	Currency          string    `json:"currency"`
	RequestedAt       time.Time `json:"requested_at"`
}

// RideAcceptedData is emitted when a driver accepts a ride.
type RideAcceptedData struct {
	RideID            uuid.UUID `json:"ride_id"`
	RiderID           uuid.UUID `json:"rider_id"`
	DriverID          uuid.UUID `json:"driver_id"`
	PickupLatitude    float64   `json:"pickup_latitude"`
	PickupLongitude   float64   `json:"pickup_longitude"`
	DropoffLatitude   float64   `json:"dropoff_latitude"`
	DropoffLongitude  float64   `json:"dropoff_longitude"`
	AcceptedAt        time.Time `json:"accepted_at"`
}

// RideStartedData is emitted when a ride begins.
type RideStartedData struct {
	RideID    uuid.UUID `json:"ride_id"`
	RiderID   uuid.UUID `json:"rider_id"`
	DriverID  uuid.UUID `json:"driver_id"`
	StartedAt time.Time `json:"started_at"`
}

// RideCompletedData is emitted when a ride finishes.
type RideCompletedData struct {
	RideID      uuid.UUID `json:"ride_id"`
	RiderID     uuid.UUID `json:"rider_id"`
	DriverID    uuid.UUID `json:"driver_id"`
	FareAmount  float64   `json:"fare_amount"`
	DistanceKm  float64   `json:"distance_km"`
	DurationMin float64   `json:"duration_min"`
	CompletedAt time.Time `json:"completed_at"`
}

// RideCancelledData is emitted when a ride is cancelled.
type RideCancelledData struct {
	RideID      uuid.UUID `json:"ride_id"`
	RiderID     uuid.UUID `json:"rider_id"`
	DriverID    uuid.UUID `json:"driver_id"` // zero if not yet assigned
	CancelledBy string    `json:"cancelled_by"` // "rider" or "driver"
	Reason      string    `json:"reason"`
	CancelledAt time.Time `json:"cancelled_at"`
}

// PaymentProcessedData is emitted after successful payment.
type PaymentProcessedData struct {
	PaymentID uuid.UUID `json:"payment_id"`
	RideID    uuid.UUID `json:"ride_id"`
	RiderID   uuid.UUID `json:"rider_id"`
	DriverID  uuid.UUID `json:"driver_id"`
	Amount    float64   `json:"amount"`
	Currency  string    `json:"currency"`
	Method    string    `json:"method"`
	ProcessedAt time.Time `json:"processed_at"`
}

// PaymentFailedData is emitted when payment fails.
type PaymentFailedData struct {
	PaymentID uuid.UUID `json:"payment_id"`
	RideID    uuid.UUID `json:"ride_id"`
	RiderID   uuid.UUID `json:"rider_id"`
	Amount    float64   `json:"amount"`
	Error     string    `json:"error"`
	FailedAt  time.Time `json:"failed_at"`
}

// DriverLocationUpdatedData is emitted on significant location changes.
type DriverLocationUpdatedData struct {
	DriverID  uuid.UUID `json:"driver_id"`
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	Heading   float64   `json:"heading"`
	Speed     float64   `json:"speed"`
	H3Cell    string    `json:"h3_cell"`
	Timestamp time.Time `json:"timestamp"`
}

// FraudDetectedData is emitted when suspicious activity is detected.
type FraudDetectedData struct {
	UserID     uuid.UUID `json:"user_id"`
	AlertType  string    `json:"alert_type"`
	Severity   string    `json:"severity"`
	Details    string    `json:"details"`
	DetectedAt time.Time `json:"detected_at"`
}

// ========================================
// DISPATCH ORCHESTRATOR EVENTS (spec §4.1 order lifecycle)
// ========================================

// OrderOfferedData is emitted each time a wave offers an order to a
// candidate driver.
type OrderOfferedData struct {
	OrderID      uuid.UUID `json:"order_id"`
	PassengerID  uuid.UUID `json:"passenger_id"`
	DriverID     uuid.UUID `json:"driver_id"`
	WaveNumber   int       `json:"wave_number"`
	Score        float64   `json:"score"`
	OfferedAt    time.Time `json:"offered_at"`
}

// OrderAcceptedData is emitted when a driver wins the acceptance race.
type OrderAcceptedData struct {
	OrderID     uuid.UUID `json:"order_id"`
	PassengerID uuid.UUID `json:"passenger_id"`
	DriverID    uuid.UUID `json:"driver_id"`
	WaveNumber  int       `json:"wave_number"`
	AcceptedAt  time.Time `json:"accepted_at"`
}

// OrderRejectedData is emitted when a driver explicitly rejects an offer.
type OrderRejectedData struct {
	OrderID    uuid.UUID `json:"order_id"`
	DriverID   uuid.UUID `json:"driver_id"`
	Reason     string    `json:"reason"`
	RejectedAt time.Time `json:"rejected_at"`
}

// OrderAdvancedData is emitted on every driver-initiated trip transition.
type OrderAdvancedData struct {
	OrderID    uuid.UUID `json:"order_id"`
	DriverID   uuid.UUID `json:"driver_id"`
	FromStatus string    `json:"from_status"`
	ToStatus   string    `json:"to_status"`
	AdvancedAt time.Time `json:"advanced_at"`
}

// OrderCancelledData is emitted when an order is cancelled by any actor.
type OrderCancelledData struct {
	OrderID     uuid.UUID `json:"order_id"`
	PassengerID uuid.UUID `json:"passenger_id"`
	DriverID    *uuid.UUID `json:"driver_id,omitempty"`
	By          string    `json:"by"`
	Reason      string    `json:"reason"`
	CancelledAt time.Time `json:"cancelled_at"`
}

// OrderNoDriverData is emitted when every wave for an order exhausted
// with no acceptance.
type OrderNoDriverData struct {
	OrderID     uuid.UUID `json:"order_id"`
	PassengerID uuid.UUID `json:"passenger_id"`
	WavesTried  int       `json:"waves_tried"`
	ExhaustedAt time.Time `json:"exhausted_at"`
}

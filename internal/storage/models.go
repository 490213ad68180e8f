// Package storage is the typed persistence adapter described in spec §6:
// the rest of the dispatch core never sees SQL. Grounded on the teacher's
// internal/rides/repository.go (in particular its compare-and-set
// AtomicAcceptRide) generalized to the full table set spec §3 names.
package storage

import (
	"time"

	"github.com/google/uuid"
)

// Availability is a driver's current dispatch-visible state.
type Availability string

const (
	AvailabilityOffline   Availability = "OFFLINE"
	AvailabilityRest      Availability = "REST"
	AvailabilityAvailable Availability = "AVAILABLE"
	AvailabilityOnTrip    Availability = "ON_TRIP"
	AvailabilityBlocked   Availability = "BLOCKED"
)

// ClassifierTag buckets a driver by observed behavior for the predictor.
type ClassifierTag string

const (
	ClassifierFastTurnover ClassifierTag = "FAST_TURNOVER"
	ClassifierLongDistance ClassifierTag = "LONG_DISTANCE"
	ClassifierHighVolume   ClassifierTag = "HIGH_VOLUME"
)

// Point is a geographic coordinate with an optional motion vector.
type Point struct {
	Lat       float64
	Lng       float64
	Speed     float64
	Bearing   float64
	Timestamp time.Time
}

// Driver is the spec §3 Driver entity.
type Driver struct {
	ID                uuid.UUID
	DisplayName       string
	Phone             string
	Plate             string
	Availability      Availability
	LastPoint         *Point
	IsBlocked         bool
	BlockedReason     string
	RatingAvg         float64
	TripCount         int64
	LifetimeEarn      float64
	TodayEarnings     float64 // resets when TodayEarningsDate falls behind the current day
	TodayEarningsDate string  // "2006-01-02"; feeds the §4.1 earnings-balance scoring feature
	AcceptanceRate    float64
	Classifier        ClassifierTag
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// Passenger is the spec §3 Passenger entity.
type Passenger struct {
	ID        uuid.UUID
	Phone     string
	Name      string
	Email     string
	IsBlocked bool
	Rating    float64
	TripCount int64
	CreatedAt time.Time
}

// OrderStatus is the §4.1/§4.6 state machine's state set.
type OrderStatus string

const (
	OrderOffered   OrderStatus = "OFFERED"
	OrderAccepted  OrderStatus = "ACCEPTED"
	OrderArrived   OrderStatus = "ARRIVED"
	OrderOnTrip    OrderStatus = "ON_TRIP"
	OrderSettling  OrderStatus = "SETTLING"
	OrderDone      OrderStatus = "DONE"
	OrderCancelled OrderStatus = "CANCELLED"
)

// IsTerminal reports whether the status ends the order's lifecycle.
func (s OrderStatus) IsTerminal() bool {
	return s == OrderDone || s == OrderCancelled
}

// PaymentKind is the order's settlement method.
type PaymentKind string

const (
	PaymentCash              PaymentKind = "CASH"
	PaymentLoveCardPhysical   PaymentKind = "LOVE_CARD_PHYSICAL"
	PaymentOther              PaymentKind = "OTHER"
)

// Address pairs a coordinate with a human-readable label.
type Address struct {
	Lat     float64
	Lng     float64
	Address string
}

// Order is the spec §3 Order (ride) entity.
type Order struct {
	ID              uuid.UUID
	PassengerID     uuid.UUID
	DriverID        *uuid.UUID
	Status          OrderStatus
	Pickup          Address
	Destination     *Address
	PaymentType     PaymentKind
	MeterAmount     *float64
	EstimatedFare   float64
	ActualDistanceM *float64
	ActualDuration  *int
	PhotoURL        string
	CreatedAt       time.Time
	OfferedAt       *time.Time
	AcceptedAt      *time.Time
	ArrivedAt       *time.Time
	StartedAt       *time.Time
	CompletedAt     *time.Time
	CancelledAt     *time.Time
	RejectCount     int
	BatchNumber     int
	DispatchMethod  string
	HourOfDay       int
	DayOfWeek       int
	CancelReason    string
	SurgeMultiplier float64
	PickupCity      string
	PickupCountry   string
}

// DispatchLogCandidate is one scored-and-ranked candidate in a wave.
type DispatchLogCandidate struct {
	DriverID          uuid.UUID
	Score             float64
	PredictedETASec   int
	RejectProbability float64
	Reason            string
}

// DispatchLog is the spec §3 Dispatch log entity: written once per wave.
type DispatchLog struct {
	ID             uuid.UUID
	OrderID        uuid.UUID
	WaveNumber     int
	Timestamp      time.Time
	Candidates     []DispatchLogCandidate
	WeightSnapshot map[string]float64
	AcceptedBy     *uuid.UUID
	AcceptedAt     *time.Time
	MsToRespond    *int
}

// RejectionReason is the enumerated reason a driver's offer ended without
// acceptance.
type RejectionReason string

const (
	RejectTooFar      RejectionReason = "TOO_FAR"
	RejectLowFare     RejectionReason = "LOW_FARE"
	RejectUnwantedArea RejectionReason = "UNWANTED_AREA"
	RejectOffDuty     RejectionReason = "OFF_DUTY"
	RejectBusy        RejectionReason = "BUSY"
	RejectTimeout     RejectionReason = "TIMEOUT"
	RejectOther       RejectionReason = "OTHER"
)

// RejectionFeatures is the feature snapshot captured with a rejection, used
// later to recompute a driver's pattern record.
type RejectionFeatures struct {
	PickupDistanceM  float64
	TripDistanceM    float64
	EstimatedFare    float64
	Hour             int
	Day              int
	TodayEarnings    float64
	TodayTrips       int
	TodayOnlineHours float64
}

// RejectionRecord is the spec §3 Rejection record entity: append-only,
// feeds the predictor.
type RejectionRecord struct {
	ID         uuid.UUID
	OrderID    uuid.UUID
	DriverID   uuid.UUID
	Reason     RejectionReason
	Features   RejectionFeatures
	OfferedAt  time.Time
	RejectedAt time.Time
	ResponseMs int
}

// DriverPattern is the spec §3 Driver pattern entity: recomputed offline,
// read on the dispatch hot path.
type DriverPattern struct {
	DriverID              uuid.UUID
	HourlyAcceptance      map[int]float64
	ZoneAcceptance        map[string]float64
	AvgAcceptedDistanceM  float64
	MaxAcceptedDistanceM  float64
	ShortTripAcceptance   float64
	MedTripAcceptance     float64
	LongTripAcceptance    float64
	EarningsThreshold     float64
	Classifier            ClassifierTag
	LastCalculated        time.Time
	SampleCount           int64
}

// ETACacheEntry is the spec §3 ETA cache entry: unique by its composite key.
type ETACacheEntry struct {
	OriginLat  float64
	OriginLng  float64
	DestLat    float64
	DestLng    float64
	Hour       int
	DistanceM  float64
	DurationS  int
	TrafficS   int
	CachedAt   time.Time
	ExpiresAt  time.Time
	HitCount   int64
}

// HotZoneConfig is the spec §3 Hot-zone config entity.
type HotZoneConfig struct {
	ID                uuid.UUID
	Name              string
	CenterLat         float64
	CenterLng         float64
	RadiusM           float64
	PeakHours         map[int]bool
	QuotaNormal       int
	QuotaPeak         int
	SurgeThreshold    float64
	MaxSurge          float64
	SurgeStep         float64
	QueueEnabled      bool
	MaxQueueSize      int
	QueueTimeout      time.Duration
	Active            bool
	Priority          int
}

// HotZoneQuota is the per (zone, date, hour) ticket counter.
type HotZoneQuota struct {
	ZoneID uuid.UUID
	Date   string // YYYY-MM-DD, local to the zone's operating calendar
	Hour   int
	Limit  int
	Used   int
}

// Rating is the post-trip feedback supplementing §4.6's "ratings hook".
type Rating struct {
	ID        uuid.UUID
	OrderID   uuid.UUID
	FromKind  string // "passenger" | "driver"
	Score     int
	Comment   string
	CreatedAt time.Time
}

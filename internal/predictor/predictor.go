// Package predictor implements the rejection predictor (spec §4.4): a
// deterministic piecewise model over a driver's driver_pattern snapshot
// that scores the likelihood a candidate rejects a given offer.
// Grounded on the teacher's internal/mleta/service.go, which scored ETA
// confidence from a historical-sample record in the same style.
package predictor

import "github.com/ridefleet/dispatch-core/internal/storage"

// Defaults match spec.md §6's enumerated configuration.
const (
	DefaultPrior           = 0.2
	DefaultEarningsPenalty = 0.15
)

// TripDistanceBucket classifies a trip by length for the bucketed
// acceptance-rate adjustment.
type TripDistanceBucket int

const (
	BucketShort TripDistanceBucket = iota
	BucketMedium
	BucketLong
)

// ClassifyTripDistance buckets a trip distance in meters. Thresholds
// follow the teacher's short/medium/long banding used for fare tiers.
func ClassifyTripDistance(meters float64) TripDistanceBucket {
	switch {
	case meters < 3000:
		return BucketShort
	case meters < 10000:
		return BucketMedium
	default:
		return BucketLong
	}
}

// Features is the offer-side input to Predict (spec §4.4 "Features
// consumed").
type Features struct {
	Hour              int
	PickupDistanceM   float64
	TripDistanceM     float64
	Zone              string
	TodayEarnings     float64
}

// Filters are a driver's configured auto-accept eligibility rules (spec
// §4.4 "ruleFilters"). A zero-value Filters disqualifies nothing.
type Filters struct {
	MaxPickupDistanceM float64 // 0 = no limit
	MinFare            float64
	MinTripDistanceM   float64
	ActiveHours        map[int]bool // nil/empty = all hours active
	BlacklistedZones   map[string]bool
}

func (f Filters) passes(feat Features, fare float64) bool {
	if f.MaxPickupDistanceM > 0 && feat.PickupDistanceM > f.MaxPickupDistanceM {
		return false
	}
	if f.MinFare > 0 && fare < f.MinFare {
		return false
	}
	if f.MinTripDistanceM > 0 && feat.TripDistanceM < f.MinTripDistanceM {
		return false
	}
	if len(f.ActiveHours) > 0 && !f.ActiveHours[feat.Hour] {
		return false
	}
	if f.BlacklistedZones[feat.Zone] {
		return false
	}
	return true
}

// EarningsPenalty and Prior are the two config knobs spec §4.4 leaves
// tunable; Model carries them so callers can wire config values.
type Model struct {
	Prior           float64
	EarningsPenalty float64
}

// NewModel constructs a Model with spec-default knobs.
func NewModel() Model {
	return Model{Prior: DefaultPrior, EarningsPenalty: DefaultEarningsPenalty}
}

// Predict returns the rejection probability in [0,1] for a candidate
// driver against an offer's features (spec §4.4 "Model").
func (m Model) Predict(pattern *storage.DriverPattern, feat Features) float64 {
	base := m.Prior
	if pattern != nil {
		if acc, ok := pattern.HourlyAcceptance[feat.Hour]; ok {
			base = 1 - acc
		}
	}
	p := base

	if pattern != nil && pattern.MaxAcceptedDistanceM > 0 {
		over := feat.PickupDistanceM - pattern.AvgAcceptedDistanceM
		if over < 0 {
			over = 0
		}
		denom := pattern.MaxAcceptedDistanceM
		if denom < 1 {
			denom = 1
		}
		p += over / denom
	}

	if pattern != nil {
		switch ClassifyTripDistance(feat.TripDistanceM) {
		case BucketShort:
			p += bucketPenalty(pattern.ShortTripAcceptance)
		case BucketMedium:
			p += bucketPenalty(pattern.MedTripAcceptance)
		case BucketLong:
			p += bucketPenalty(pattern.LongTripAcceptance)
		}
	}

	if pattern != nil && pattern.EarningsThreshold > 0 && feat.TodayEarnings > pattern.EarningsThreshold {
		p += m.EarningsPenalty
	}

	if pattern != nil {
		if acc, ok := pattern.ZoneAcceptance[feat.Zone]; ok {
			p -= acc - 0.5
		}
	}

	return clamp01(p)
}

// bucketPenalty turns a bucket's historical acceptance rate into a
// rejection-probability adjustment: 1-acceptance, centered at zero so an
// average (0.5) bucket contributes nothing.
func bucketPenalty(acceptance float64) float64 {
	if acceptance <= 0 {
		return 0
	}
	return (1 - acceptance) - 0.5
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// AutoAcceptScore computes the optional driver-side auto-accept score in
// [0,100] (spec §4.4 "Auto-accept score").
func AutoAcceptScore(probability float64, filters Filters, feat Features, fare float64) float64 {
	if !filters.passes(feat, fare) {
		return 0
	}
	return 100 * (1 - probability)
}

package dispatch

import (
	"context"
	"time"

	"github.com/ridefleet/dispatch-core/internal/etacache"
	"github.com/ridefleet/dispatch-core/internal/storage"
)

// Fare constants, grounded on the teacher's rides.DefaultPricingConfig
// (internal/rides/service.go), now folded into dispatch since the
// per-zone surge multiplier supersedes the teacher's standalone pricing
// service.
const (
	baseFarePerKm     = 1.5
	baseFarePerMinute = 0.25
	minimumFare       = 5.0
)

// EstimateFare returns the estimated fare for a pickup/destination pair
// at submission time (spec §4.1 "estimatedFare" field of the offer
// payload), using the ETA cache for a distance/duration estimate and
// applying the zone's surge multiplier.
func EstimateFare(ctx context.Context, eta *etacache.Cache, pickup storage.Address, destination *storage.Address, hour int, surge float64, now time.Time) float64 {
	if destination == nil {
		return minimumFare * surge
	}

	res, err := eta.Get(ctx, pickup.Lat, pickup.Lng, destination.Lat, destination.Lng, hour, now)
	if err != nil {
		return minimumFare * surge
	}

	distanceKm := res.DistanceMeters / 1000
	durationMin := float64(res.DurationSeconds) / 60

	fare := baseFarePerKm*distanceKm + baseFarePerMinute*durationMin
	if fare < minimumFare {
		fare = minimumFare
	}
	return fare * surge
}

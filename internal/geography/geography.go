// Package geography resolves a pickup or destination point to a
// city/country label for the analytics snapshot fields spec §3's Order
// entity names ("hour-of-day and day-of-week snapshot ... for
// analytics"). The teacher's own internal/geography referenced a
// Country/Region/City/PricingZone admin hierarchy that is never actually
// defined anywhere in the example pack (its repository.go and
// interfaces.go call types that don't exist) — a latent bug, not
// something to reproduce. This package keeps the teacher's resolver
// naming and intent but replaces the broken admin-CRUD hierarchy with a
// small static lookup, since SPEC_FULL.md names only resolution, never
// country/region/pricing-zone management.
package geography

import "github.com/ridefleet/dispatch-core/pkg/geo"

// City is one entry in the static seed list a point can resolve to.
type City struct {
	Name        string
	CountryCode string
	Lat         float64
	Lng         float64
}

// Resolved names the city/country a point resolved to, or the zero
// value if it fell outside every seeded city's catchment radius.
type Resolved struct {
	City        string
	CountryCode string
	Found       bool
}

// catchmentRadiusKm is how far a point may sit from a seeded city's
// centroid and still resolve to it.
const catchmentRadiusKm = 40.0

// Resolver resolves points against a fixed set of cities.
type Resolver struct {
	cities []City
}

// New creates a Resolver over the given seed cities.
func New(cities []City) *Resolver {
	return &Resolver{cities: cities}
}

// Resolve finds the nearest seeded city within catchmentRadiusKm.
func (r *Resolver) Resolve(lat, lng float64) Resolved {
	best := -1
	bestDist := catchmentRadiusKm
	for i, c := range r.cities {
		d := geo.Haversine(lat, lng, c.Lat, c.Lng)
		if d <= bestDist {
			bestDist = d
			best = i
		}
	}
	if best < 0 {
		return Resolved{}
	}
	c := r.cities[best]
	return Resolved{City: c.Name, CountryCode: c.CountryCode, Found: true}
}

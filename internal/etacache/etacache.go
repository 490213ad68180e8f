// Package etacache implements the ETA cache (spec §4.5): a quantized-key
// lookup over distance/duration estimates with TTL and hit counting,
// falling back to an external routing provider and finally to a
// great-circle estimate. Grounded on the teacher's internal/geo's
// ETA-tracking style and internal/maps's ETAProvider abstraction, with
// the provider chain generalized to the spec's cache-first contract.
package etacache

import (
	"context"
	"math"
	"time"

	"github.com/ridefleet/dispatch-core/internal/maps"
	"github.com/ridefleet/dispatch-core/internal/storage"
	"github.com/ridefleet/dispatch-core/pkg/geo"
	"github.com/ridefleet/dispatch-core/pkg/logger"
	"go.uber.org/zap"
)

// Defaults match spec.md §6's enumerated configuration.
const (
	DefaultTTL              = time.Hour
	DefaultQuantizeDegrees   = 1e-4
	DefaultAverageSpeedKmh   = 35.0
)

// Result is the ETA cache's return value (spec §4.5: "(distanceMeters,
// durationSeconds)").
type Result struct {
	DistanceMeters  float64
	DurationSeconds int
	FromCache       bool
}

// Cache wraps a storage.Repository with quantization, TTL expiry and an
// optional external-provider fallback.
type Cache struct {
	repo       storage.Repository
	provider   maps.ETAProvider
	ttl        time.Duration
	quantize   float64
	avgSpeedKm float64
}

// Option configures a Cache.
type Option func(*Cache)

// WithProvider wires an external routing provider consulted on a cache
// miss, before the great-circle fallback.
func WithProvider(p maps.ETAProvider) Option {
	return func(c *Cache) { c.provider = p }
}

// WithTTL overrides the default 1h entry lifetime.
func WithTTL(ttl time.Duration) Option {
	return func(c *Cache) { c.ttl = ttl }
}

// WithQuantize overrides the default 1e-4 degree key granularity.
func WithQuantize(degrees float64) Option {
	return func(c *Cache) { c.quantize = degrees }
}

// WithAverageSpeedKmh overrides the fallback average-speed assumption.
func WithAverageSpeedKmh(kmh float64) Option {
	return func(c *Cache) { c.avgSpeedKm = kmh }
}

// New constructs a Cache over repo with spec defaults, applying opts.
func New(repo storage.Repository, opts ...Option) *Cache {
	c := &Cache{
		repo:       repo,
		ttl:        DefaultTTL,
		quantize:   DefaultQuantizeDegrees,
		avgSpeedKm: DefaultAverageSpeedKmh,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Cache) quantizeKey(originLat, originLng, destLat, destLng float64, hour int) storage.ETAKey {
	q := c.quantize
	round := func(v float64) float64 { return math.Round(v/q) * q }
	return storage.ETAKey{
		OriginLat: round(originLat),
		OriginLng: round(originLng),
		DestLat:   round(destLat),
		DestLng:   round(destLng),
		Hour:      hour,
	}
}

// Get returns the ETA between origin and destination at the given hour,
// consulting the cache, then the external provider, then great-circle
// (spec §4.5). A cache hit increments the entry's hit count.
func (c *Cache) Get(ctx context.Context, originLat, originLng, destLat, destLng float64, hour int, now time.Time) (Result, error) {
	key := c.quantizeKey(originLat, originLng, destLat, destLng, hour)

	entry, err := c.repo.GetETACacheEntry(ctx, key)
	if err != nil {
		return Result{}, err
	}
	if entry != nil && now.Before(entry.ExpiresAt) {
		entry.HitCount++
		if err := c.repo.PutETACacheEntry(ctx, entry); err != nil {
			logger.Warn("eta cache hit-count update failed", zap.Error(err))
		}
		return Result{DistanceMeters: entry.DistanceM, DurationSeconds: entry.DurationS, FromCache: true}, nil
	}

	distM, durS := c.fromProvider(ctx, originLat, originLng, destLat, destLng)

	if err := c.repo.PutETACacheEntry(ctx, &storage.ETACacheEntry{
		OriginLat: key.OriginLat,
		OriginLng: key.OriginLng,
		DestLat:   key.DestLat,
		DestLng:   key.DestLng,
		Hour:      key.Hour,
		DistanceM: distM,
		DurationS: durS,
		CachedAt:  now,
		ExpiresAt: now.Add(c.ttl),
		HitCount:  1,
	}); err != nil {
		logger.Warn("eta cache write failed", zap.Error(err))
	}

	return Result{DistanceMeters: distM, DurationSeconds: durS, FromCache: false}, nil
}

func (c *Cache) fromProvider(ctx context.Context, originLat, originLng, destLat, destLng float64) (distanceM float64, durationS int) {
	if c.provider != nil {
		res, err := c.provider.GetETA(ctx, originLat, originLng, destLat, destLng)
		if err == nil && res != nil {
			return float64(res.DistanceMeters), res.DurationSeconds
		}
		logger.Warn("eta provider miss, falling back to great-circle", zap.Error(err))
	}

	distKm := geo.Haversine(originLat, originLng, destLat, destLng)
	durMin := (distKm / c.avgSpeedKm) * 60
	return distKm * 1000, int(math.Round(durMin * 60))
}

// Package presence is the in-memory authoritative driver presence and
// location registry (spec §4.2). Grounded on the teacher's
// internal/geo/service.go map-of-locations pattern and its
// location_buffer.go write-behind batcher, generalized from a pure
// location cache to the full {availability, point, heartbeat, order}
// record the dispatch orchestrator depends on.
package presence

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/ridefleet/dispatch-core/internal/storage"
	"github.com/ridefleet/dispatch-core/pkg/geo"
	"github.com/ridefleet/dispatch-core/pkg/logger"
	redisClient "github.com/ridefleet/dispatch-core/pkg/redis"
	"go.uber.org/zap"
)

const (
	driverGeoIndexKey   = "presence:geo:drivers"
	driverLocationTTL   = 10 * time.Minute
	driverLocationKeyFmt = "presence:driver:%s"
)

// Entry is the registry's per-driver record.
type Entry struct {
	DriverID       uuid.UUID
	Availability   storage.Availability
	Point          *storage.Point
	LastHeartbeat  time.Time
	CurrentOrderID *uuid.UUID
}

func (e Entry) fresh(now time.Time, freshness time.Duration) bool {
	return !e.LastHeartbeat.IsZero() && now.Sub(e.LastHeartbeat) <= freshness
}

// Config holds the registry's tunables (spec §4.2/§6 "Configuration").
type Config struct {
	Freshness     time.Duration
	BatchInterval time.Duration
	MaxBufferSize int
}

// DefaultConfig matches spec.md §6's enumerated defaults.
func DefaultConfig() Config {
	return Config{
		Freshness:     5 * time.Minute,
		BatchInterval: 5 * time.Second,
		MaxBufferSize: 200,
	}
}

// ErrInvariantViolation is returned when a caller attempts a transition
// the registry refuses to honor (spec §4.2 "invariant violation").
type ErrInvariantViolation struct {
	DriverID uuid.UUID
	Reason   string
}

func (e *ErrInvariantViolation) Error() string {
	return fmt.Sprintf("presence: invariant violation for driver %s: %s", e.DriverID, e.Reason)
}

// Registry is the single mutable driver presence map (spec §5: "the
// driver presence registry is a single mutable map; readers take a read
// share, mutators take exclusive").
type Registry struct {
	cfg   Config
	redis redisClient.ClientInterface

	mu      sync.RWMutex
	drivers map[uuid.UUID]*Entry

	bufMu  sync.Mutex
	buffer map[uuid.UUID]*Entry
	stopCh chan struct{}
	once   sync.Once
}

// New constructs a registry and starts its write-behind flush loop.
// redis may be nil, in which case flushes are skipped (useful in tests).
func New(cfg Config, redis redisClient.ClientInterface) *Registry {
	r := &Registry{
		cfg:     cfg,
		redis:   redis,
		drivers: make(map[uuid.UUID]*Entry),
		buffer:  make(map[uuid.UUID]*Entry),
		stopCh:  make(chan struct{}),
	}
	go r.flushLoop()
	return r
}

// Stop halts the flush loop and flushes any remaining batched writes.
func (r *Registry) Stop() {
	r.once.Do(func() {
		close(r.stopCh)
		r.flush()
	})
}

// SetOnline marks a driver AVAILABLE and starts tracking its heartbeat.
func (r *Registry) SetOnline(driverID uuid.UUID, now time.Time) {
	r.mu.Lock()
	e, ok := r.drivers[driverID]
	if !ok {
		e = &Entry{DriverID: driverID}
		r.drivers[driverID] = e
	}
	e.Availability = storage.AvailabilityAvailable
	e.LastHeartbeat = now
	r.mu.Unlock()
	r.stageFlush(driverID, true)
}

// SetStatus transitions a driver's availability. Rejects the transition
// to AVAILABLE while the driver still holds a non-terminal order id
// (spec §4.2 "invariant violation... the registry must refuse and emit
// a warning").
func (r *Registry) SetStatus(driverID uuid.UUID, status storage.Availability, now time.Time) error {
	r.mu.Lock()
	e, ok := r.drivers[driverID]
	if !ok {
		e = &Entry{DriverID: driverID}
		r.drivers[driverID] = e
	}
	if status == storage.AvailabilityAvailable && e.CurrentOrderID != nil {
		r.mu.Unlock()
		logger.Warn("refusing AVAILABLE transition while driver holds an order",
			zap.String("driver_id", driverID.String()),
			zap.String("order_id", e.CurrentOrderID.String()),
		)
		return &ErrInvariantViolation{DriverID: driverID, Reason: "driver holds a non-terminal order"}
	}
	wasAvailable := e.Availability == storage.AvailabilityAvailable
	e.Availability = status
	e.LastHeartbeat = now
	r.mu.Unlock()

	// Status changes into or out of AVAILABLE flush immediately because
	// dispatch depends on it being visible (spec §4.2 "Write-behind").
	nowAvailable := status == storage.AvailabilityAvailable
	r.stageFlush(driverID, wasAvailable != nowAvailable)
	return nil
}

// AssignOrder records the order a driver is now committed to, or clears
// it when orderID is nil (on DONE/CANCELLED).
func (r *Registry) AssignOrder(driverID uuid.UUID, orderID *uuid.UUID) {
	r.mu.Lock()
	e, ok := r.drivers[driverID]
	if !ok {
		e = &Entry{DriverID: driverID}
		r.drivers[driverID] = e
	}
	e.CurrentOrderID = orderID
	r.mu.Unlock()
}

// UpdateLocation records a driver's latest point and heartbeat. Accepted
// regardless of availability (spec §4.2: "a driver may share location
// while offline for route reasons").
func (r *Registry) UpdateLocation(driverID uuid.UUID, point storage.Point, now time.Time) {
	r.mu.Lock()
	e, ok := r.drivers[driverID]
	if !ok {
		e = &Entry{DriverID: driverID}
		r.drivers[driverID] = e
	}
	p := point
	e.Point = &p
	e.LastHeartbeat = now
	r.mu.Unlock()
	r.stageFlush(driverID, false)
}

// OnDisconnect marks a driver OFFLINE following a lost connection.
func (r *Registry) OnDisconnect(driverID uuid.UUID, now time.Time) {
	r.mu.Lock()
	e, ok := r.drivers[driverID]
	if ok {
		e.Availability = storage.AvailabilityOffline
		e.LastHeartbeat = now
	}
	r.mu.Unlock()
	if ok {
		r.stageFlush(driverID, true)
	}
}

// QueryAvailable returns a snapshot (not a live view, spec §5) of every
// driver within radiusKm of (lat,lng) that is AVAILABLE and whose
// heartbeat is fresh.
func (r *Registry) QueryAvailable(lat, lng, radiusKm float64, now time.Time) []Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Entry, 0, len(r.drivers))
	for _, e := range r.drivers {
		if e.Availability != storage.AvailabilityAvailable {
			continue
		}
		if !e.fresh(now, r.cfg.Freshness) {
			continue
		}
		if e.Point == nil {
			continue
		}
		if geo.Haversine(lat, lng, e.Point.Lat, e.Point.Lng) > radiusKm {
			continue
		}
		out = append(out, *e)
	}
	return out
}

// Get returns a snapshot of a single driver's entry, honoring the
// freshness rule (spec §4.2: "treated as OFFLINE for selection purposes
// even if their stored availability says otherwise").
func (r *Registry) Get(driverID uuid.UUID, now time.Time) (Entry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.drivers[driverID]
	if !ok {
		return Entry{}, false
	}
	snap := *e
	if !snap.fresh(now, r.cfg.Freshness) && snap.Availability == storage.AvailabilityAvailable {
		snap.Availability = storage.AvailabilityOffline
	}
	return snap, true
}

func (r *Registry) stageFlush(driverID uuid.UUID, immediate bool) {
	r.mu.RLock()
	e, ok := r.drivers[driverID]
	var snap Entry
	if ok {
		snap = *e
	}
	r.mu.RUnlock()
	if !ok {
		return
	}

	r.bufMu.Lock()
	r.buffer[driverID] = &snap
	size := len(r.buffer)
	r.bufMu.Unlock()

	if immediate || size >= r.cfg.MaxBufferSize {
		go r.flush()
	}
}

func (r *Registry) flushLoop() {
	ticker := time.NewTicker(r.cfg.BatchInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			r.flush()
		case <-r.stopCh:
			return
		}
	}
}

func (r *Registry) flush() {
	if r.redis == nil {
		r.bufMu.Lock()
		r.buffer = make(map[uuid.UUID]*Entry)
		r.bufMu.Unlock()
		return
	}

	r.bufMu.Lock()
	if len(r.buffer) == 0 {
		r.bufMu.Unlock()
		return
	}
	batch := r.buffer
	r.buffer = make(map[uuid.UUID]*Entry)
	r.bufMu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	for id, e := range batch {
		r.writeThrough(ctx, id, e)
	}

	logger.Debug("presence buffer flushed", zap.Int("batch_size", len(batch)))
}

func (r *Registry) writeThrough(ctx context.Context, driverID uuid.UUID, e *Entry) {
	key := fmt.Sprintf(driverLocationKeyFmt, driverID.String())
	if err := r.redis.SetWithExpiration(ctx, key, encodeEntry(e), driverLocationTTL); err != nil {
		logger.Warn("presence write-behind failed", zap.String("driver_id", driverID.String()), zap.Error(err))
		return
	}

	if e.Availability == storage.AvailabilityAvailable && e.Point != nil {
		if err := r.redis.GeoAdd(ctx, driverGeoIndexKey, e.Point.Lng, e.Point.Lat, driverID.String()); err != nil {
			logger.Warn("presence geo index update failed", zap.String("driver_id", driverID.String()), zap.Error(err))
		}
	} else {
		_ = r.redis.GeoRemove(ctx, driverGeoIndexKey, driverID.String())
	}
}

func encodeEntry(e *Entry) string {
	lat, lng := 0.0, 0.0
	if e.Point != nil {
		lat, lng = e.Point.Lat, e.Point.Lng
	}
	return fmt.Sprintf("%s|%v|%f|%f|%d", e.Availability, e.CurrentOrderID, lat, lng, e.LastHeartbeat.Unix())
}

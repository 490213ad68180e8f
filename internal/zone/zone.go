// Package zone implements the hot-zone quota & surge engine (spec §4.3).
// Grounded on the teacher's internal/pricing/surge.go, with the SQL-driven
// demand-ratio lookup replaced by the spec's fixed quota-ticket counter and
// surge-quantization formula (SPEC_FULL.md Open Question #2).
package zone

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/ridefleet/dispatch-core/internal/storage"
	"github.com/ridefleet/dispatch-core/pkg/geo"
)

// Admission is the result of a successful reserve (spec §4.3 step 2).
type Admission struct {
	ZoneID          uuid.UUID
	ZoneName        string
	Queued          bool
	QueuePosition   int
	SurgeMultiplier float64
}

// QueueTicket is handed back when a zone is full but queueable (spec §6:
// POST /rides returns QUEUED(position) directly, it does not block for
// the queue to drain). Resolved fires exactly once, asynchronously, once
// the ticket is admitted or its QUEUE_TIMEOUT expires.
type QueueTicket struct {
	Position int
	Resolved <-chan QueueOutcome
}

// QueueOutcome is the eventual result delivered on a QueueTicket.
type QueueOutcome struct {
	Admitted  bool
	Admission Admission
}

// Engine owns zone lookup, quota reservation and surge computation. Quota
// counters are not locked here: each reserve or release is a single
// conditional update performed by the repository.
type Engine struct {
	repo  storage.Repository
	mu    sync.RWMutex
	zones []*storage.HotZoneConfig

	queueMu sync.Mutex
	queues  map[uuid.UUID][]queueEntry
}

type queueEntry struct {
	deadline time.Time
	result   chan QueueOutcome
}

// NewEngine constructs the engine; call Refresh once at startup and
// periodically thereafter to pick up admin edits to zone configs.
func NewEngine(repo storage.Repository) *Engine {
	return &Engine{repo: repo, queues: map[uuid.UUID][]queueEntry{}}
}

// Refresh reloads zone configs from storage.
func (e *Engine) Refresh(ctx context.Context) error {
	zones, err := e.repo.ListZoneConfigs(ctx)
	if err != nil {
		return fmt.Errorf("refresh zones: %w", err)
	}
	e.mu.Lock()
	e.zones = zones
	e.mu.Unlock()
	return nil
}

// Resolve returns the highest-priority active zone containing point, or nil
// if the point lies in no configured zone. Overlapping zones are resolved
// by highest priority, ties broken by lower id (spec §4.3 "Geometry").
func (e *Engine) Resolve(lat, lng float64) *storage.HotZoneConfig {
	e.mu.RLock()
	defer e.mu.RUnlock()

	var best *storage.HotZoneConfig
	for _, z := range e.zones {
		if geo.Haversine(lat, lng, z.CenterLat, z.CenterLng)*1000 > z.RadiusM {
			continue
		}
		if best == nil || z.Priority > best.Priority || (z.Priority == best.Priority && z.ID.String() < best.ID.String()) {
			best = z
		}
	}
	return best
}

// Admit runs the full §4.3 admission flow for an order originating inside
// zone at instant now: reserve a ticket immediately, or hand back a
// QueueTicket the caller can await without blocking, or fail ZONE_FULL.
func (e *Engine) Admit(ctx context.Context, z *storage.HotZoneConfig, now time.Time) (Admission, *QueueTicket, error) {
	date := now.Format("2006-01-02")
	hour := now.Hour()
	limit := z.QuotaNormal
	if z.PeakHours[hour] {
		limit = z.QuotaPeak
	}

	if _, err := e.repo.GetOrCreateZoneQuota(ctx, z.ID, date, hour, limit); err != nil {
		return Admission{}, nil, fmt.Errorf("ensure zone quota: %w", err)
	}

	admitted, used, effLimit, err := e.repo.ReserveZoneQuota(ctx, z.ID, date, hour)
	if err != nil {
		return Admission{}, nil, fmt.Errorf("reserve zone quota: %w", err)
	}
	if admitted {
		return Admission{
			ZoneID:          z.ID,
			ZoneName:        z.Name,
			SurgeMultiplier: surgeMultiplier(used, effLimit, z.SurgeThreshold, z.SurgeStep, z.MaxSurge),
		}, nil, nil
	}

	if !z.QueueEnabled {
		return Admission{}, nil, fmt.Errorf("zone %s full: %w", z.Name, ErrZoneFull)
	}

	ticket, err := e.enqueue(z, now)
	if err != nil {
		return Admission{}, nil, err
	}
	return Admission{}, ticket, nil
}

// Release returns a previously reserved ticket (spec §4.3 step 3 / §4.6
// "zone reserve released if before ACCEPTED").
func (e *Engine) Release(ctx context.Context, zoneID uuid.UUID, orderCreatedAt time.Time) error {
	date := orderCreatedAt.Format("2006-01-02")
	return e.repo.ReleaseZoneQuota(ctx, zoneID, date, orderCreatedAt.Hour())
}

// Usage exposes current (used, limit, surge), all derived from a single
// read of the zone's quota row.
func (e *Engine) Usage(ctx context.Context, z *storage.HotZoneConfig, now time.Time) (used, limit int, surge float64, err error) {
	date := now.Format("2006-01-02")
	hour := now.Hour()
	eff := z.QuotaNormal
	if z.PeakHours[hour] {
		eff = z.QuotaPeak
	}
	q, err := e.repo.GetOrCreateZoneQuota(ctx, z.ID, date, hour, eff)
	if err != nil {
		return 0, 0, 1, err
	}
	return q.Used, q.Limit, surgeMultiplier(q.Used, q.Limit, z.SurgeThreshold, z.SurgeStep, z.MaxSurge), nil
}

// surgeMultiplier implements SPEC_FULL.md Open Question #2's fixed formula.
func surgeMultiplier(used, limit int, threshold, step, max float64) float64 {
	if limit <= 0 {
		return 1.0
	}
	u := float64(used) / float64(limit)
	if u < threshold {
		return 1.0
	}
	if max <= 1 || step <= 0 {
		return 1.0
	}
	steps := math.Ceil((max - 1) / step)
	if steps <= 0 {
		return 1.0
	}
	stepWidth := (1 - threshold) / steps
	if stepWidth <= 0 {
		return max
	}
	mult := 1 + step*math.Floor((u-threshold)/stepWidth)
	if mult > max {
		return max
	}
	return mult
}

// enqueue registers a waiting ticket and returns immediately (spec §6:
// QUEUED is itself the direct response to SubmitRide, not something it
// blocks on). A background goroutine resolves the ticket by retrying the
// reservation every 250ms until admitted or QUEUE_TIMEOUT expires.
func (e *Engine) enqueue(z *storage.HotZoneConfig, now time.Time) (*QueueTicket, error) {
	e.queueMu.Lock()
	position := len(e.queues[z.ID]) + 1
	if z.MaxQueueSize > 0 && position > z.MaxQueueSize {
		e.queueMu.Unlock()
		return nil, fmt.Errorf("zone %s queue full: %w", z.Name, ErrZoneFull)
	}
	entry := queueEntry{deadline: now.Add(z.QueueTimeout), result: make(chan QueueOutcome, 1)}
	e.queues[z.ID] = append(e.queues[z.ID], entry)
	e.queueMu.Unlock()

	go e.resolveQueued(z, entry, position)

	return &QueueTicket{Position: position, Resolved: entry.result}, nil
}

// resolveQueued runs off the request goroutine, polling ReserveZoneQuota
// until it succeeds or entry.deadline passes, then delivers exactly one
// QueueOutcome and removes the entry from its zone's wait list.
func (e *Engine) resolveQueued(z *storage.HotZoneConfig, entry queueEntry, position int) {
	defer e.dequeue(z.ID, entry)

	ctx := context.Background()
	ticker := time.NewTicker(250 * time.Millisecond)
	defer ticker.Stop()

	for range ticker.C {
		t := time.Now()
		if t.After(entry.deadline) {
			entry.result <- QueueOutcome{Admitted: false}
			return
		}

		date := t.Format("2006-01-02")
		hour := t.Hour()
		limit := z.QuotaNormal
		if z.PeakHours[hour] {
			limit = z.QuotaPeak
		}
		if _, err := e.repo.GetOrCreateZoneQuota(ctx, z.ID, date, hour, limit); err != nil {
			continue
		}
		admitted, used, effLimit, err := e.repo.ReserveZoneQuota(ctx, z.ID, date, hour)
		if err != nil || !admitted {
			continue
		}
		entry.result <- QueueOutcome{
			Admitted: true,
			Admission: Admission{
				ZoneID:          z.ID,
				ZoneName:        z.Name,
				Queued:          true,
				QueuePosition:   position,
				SurgeMultiplier: surgeMultiplier(used, effLimit, z.SurgeThreshold, z.SurgeStep, z.MaxSurge),
			},
		}
		return
	}
}

// dequeue removes entry from zoneID's wait list once it has resolved, so
// later callers' queue positions only count still-pending entries.
func (e *Engine) dequeue(zoneID uuid.UUID, entry queueEntry) {
	e.queueMu.Lock()
	defer e.queueMu.Unlock()
	q := e.queues[zoneID]
	for i := range q {
		if q[i].result == entry.result {
			e.queues[zoneID] = append(q[:i], q[i+1:]...)
			return
		}
	}
}
